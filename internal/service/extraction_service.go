package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/npatt14/Aptus/internal/dto"
)

// ── 抽取模块业务错误（错误文案会出现在 422 响应的 error 字段） ──

var (
	// ErrEmptyResponse 模型未返回任何内容
	ErrEmptyResponse = errors.New("no content in LLM response")
	// ErrMalformedJSON 模型返回的内容无法解析为 JSON
	ErrMalformedJSON = errors.New("failed to parse LLM response as JSON")
	// ErrValidationFailed 抽取结果未通过规则校验
	ErrValidationFailed = errors.New("LLM response failed validation checks")
)

// ExtractionService 自然语言抽取接口
type ExtractionService interface {
	// Extract 单次调用抽取模型并做规则校验，不重试
	// 校验失败时返回已抽取的字段、评估明细与 ErrValidationFailed
	Extract(ctx context.Context, text, timezone string) (*dto.ExtractedShift, *dto.BasicEvaluation, error)
}

type extractionService struct {
	chatModel model.ToolCallingChatModel
	logger    *zap.Logger
	now       func() time.Time
}

// NewExtractionService 创建 ExtractionService 实例
func NewExtractionService(chatModel model.ToolCallingChatModel, logger *zap.Logger) ExtractionService {
	return &extractionService{
		chatModel: chatModel,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *extractionService) Extract(ctx context.Context, text, timezone string) (*dto.ExtractedShift, *dto.BasicEvaluation, error) {
	prompt, err := BuildExtractionPrompt(timezone, s.now())
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("开始抽取班次描述",
		zap.String("text", text),
		zap.String("timezone", timezone),
	)

	resp, err := s.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(prompt),
		schema.UserMessage(text),
	})
	if err != nil {
		// 上游失败（超时/认证/限流）统一包装，对调用方不区分
		return nil, nil, fmt.Errorf("LLM request failed: %w", err)
	}

	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		s.logger.Error("模型返回内容为空")
		return nil, nil, ErrEmptyResponse
	}

	var fields dto.ExtractedShift
	if err := json.Unmarshal([]byte(cleanJSONContent(resp.Content)), &fields); err != nil {
		s.logger.Error("模型输出不是合法 JSON",
			zap.String("content", resp.Content),
			zap.Error(err),
		)
		return nil, nil, ErrMalformedJSON
	}

	evaluation := EvaluateBasic(&fields, s.logger)
	if !evaluation.Valid {
		s.logger.Error("抽取结果未通过规则校验",
			zap.Any("fields", fields),
			zap.Any("results", evaluation.Results),
		)
		return &fields, &evaluation, ErrValidationFailed
	}

	s.logger.Info("抽取并校验成功", zap.Any("fields", fields))

	return &fields, &evaluation, nil
}

// cleanJSONContent 清洗模型输出：剥掉 markdown 代码栅栏并截取最外层大括号
func cleanJSONContent(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end != -1 && end > start {
		cleaned = cleaned[start : end+1]
	}

	return cleaned
}
