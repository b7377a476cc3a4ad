package service

import (
	"fmt"
	"strings"
	"time"
)

// 抽取系统提示词，沿用线上验证过的英文指令
// {{.CurrentDate}} / {{.Timezone}} 在构造时替换
const extractionPromptTmpl = `
You are a healthcare shift scheduling assistant. Your task is to parse natural language descriptions of shifts into structured data.
Today's date is {{.CurrentDate}} in the user's timezone ({{.Timezone}}).

Extract the following information:
1. Position/role (e.g., "nurse", "doctor", "respiratory therapist")
2. Start time (in ISO8601 format with timezone)
3. End time (in ISO8601 format with timezone)
4. Hourly rate (as provided, e.g., "$25/hr", "25 dollars per hour")

If the user mentions relative dates like "tomorrow", "next Friday", or "this weekend", interpret them relative to today's date ({{.CurrentDate}}).
If no specific year is mentioned, assume the current year.
If no specific hour is given for start/end times, assume 9:00 AM for start time and 5:00 PM for end time.

Your response must be in this format:
{
  "position": string,
  "start_time": string (ISO8601 with timezone),
  "end_time": string (ISO8601 with timezone),
  "rate": string
}
Output JSON only. No markdown.
`

// 二次评估提示词：对照原始文本为抽取结果独立打分
const evaluationPromptTmpl = `
You are a quality evaluator for a healthcare shift scheduling system.
Today's date is {{.CurrentDate}} in the user's timezone ({{.Timezone}}).

The user submitted this shift description:
"{{.OriginalText}}"

An extraction system produced this structured result:
{{.Extracted}}

Independently score how accurately the structured result reflects the description, each metric from 0 to 100:
- positionAccuracy: does the extracted position match the described role?
- timeAccuracy: do start_time and end_time match the described schedule (resolved against today's date)?
- rateAccuracy: does the rate match the described pay?
- overallQuality: overall fidelity of the extraction.

Also return "correct" (boolean: whether the extraction is acceptable as-is) and short free-text "feedback".

Your response must be in this format:
{
  "positionAccuracy": number,
  "timeAccuracy": number,
  "rateAccuracy": number,
  "overallQuality": number,
  "correct": boolean,
  "feedback": string
}
Output JSON only. No markdown.
`

// BuildExtractionPrompt 构造抽取系统提示词
// 嵌入调用方时区下的当前日期；时区合法性已由中间件保证
func BuildExtractionPrompt(timezone string, now time.Time) (string, error) {
	currentDate, err := currentDateForPrompt(timezone, now)
	if err != nil {
		return "", err
	}

	prompt := strings.ReplaceAll(extractionPromptTmpl, "{{.CurrentDate}}", currentDate)
	prompt = strings.ReplaceAll(prompt, "{{.Timezone}}", timezone)
	return prompt, nil
}

// BuildEvaluationPrompt 构造二次评估提示词
func BuildEvaluationPrompt(originalText, extractedJSON, timezone string, now time.Time) (string, error) {
	currentDate, err := currentDateForPrompt(timezone, now)
	if err != nil {
		return "", err
	}

	prompt := strings.ReplaceAll(evaluationPromptTmpl, "{{.CurrentDate}}", currentDate)
	prompt = strings.ReplaceAll(prompt, "{{.Timezone}}", timezone)
	prompt = strings.ReplaceAll(prompt, "{{.OriginalText}}", originalText)
	prompt = strings.ReplaceAll(prompt, "{{.Extracted}}", extractedJSON)
	return prompt, nil
}

// currentDateForPrompt 返回人类可读的当前日期，如 "Friday, April 4th, 2025"
func currentDateForPrompt(timezone string, now time.Time) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("加载时区失败: %w", err)
	}

	t := now.In(loc)
	return fmt.Sprintf("%s, %s %d%s, %d",
		t.Weekday().String(),
		t.Month().String(),
		t.Day(),
		ordinalSuffix(t.Day()),
		t.Year(),
	), nil
}

// ordinalSuffix 英文序数词后缀
func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
