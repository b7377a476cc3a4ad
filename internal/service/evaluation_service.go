package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/npatt14/Aptus/internal/dto"
)

// ── 规则评估（确定性检查，不依赖外部服务） ──

// validPositions 已知医疗岗位清单，子串匹配（大小写不敏感）
var validPositions = []string{
	"nurse",
	"doctor",
	"physician",
	"surgeon",
	"anesthesiologist",
	"pediatrician",
	"psychiatrist",
	"radiologist",
	"pharmacist",
	"therapist",
	"technician",
	"respiratory therapist",
	"physical therapist",
	"occupational therapist",
	"speech therapist",
	"medical assistant",
	"phlebotomist",
	"paramedic",
	"emt",
	"midwife",
	"dentist",
	"optometrist",
	"audiologist",
}

// validateRequiredFields 四个字段均非空
func validateRequiredFields(fields *dto.ExtractedShift) bool {
	return fields.Position != "" &&
		fields.StartTime != "" &&
		fields.EndTime != "" &&
		fields.Rate != ""
}

// isValidISODateString 能按 RFC3339 解析且含时刻分隔符 T（拒绝纯日期串）
func isValidISODateString(s string) bool {
	if !strings.Contains(s, "T") {
		return false
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// validateDateFormats 起止时间均为合法 ISO 格式
func validateDateFormats(fields *dto.ExtractedShift) bool {
	return isValidISODateString(fields.StartTime) &&
		isValidISODateString(fields.EndTime)
}

// validateTimeSequence 结束时间严格晚于开始时间（相等视为非法）
// 前置：日期格式检查已通过；解析失败按不通过处理
func validateTimeSequence(fields *dto.ExtractedShift) bool {
	start, err := time.Parse(time.RFC3339, fields.StartTime)
	if err != nil {
		return false
	}
	end, err := time.Parse(time.RFC3339, fields.EndTime)
	if err != nil {
		return false
	}
	return end.After(start)
}

// validatePosition 岗位是否命中已知医疗岗位
// 软检查：未命中仅告警，不影响整体有效性（容忍清单外的合法岗位）
func validatePosition(fields *dto.ExtractedShift, logger *zap.Logger) bool {
	position := strings.ToLower(fields.Position)
	for _, valid := range validPositions {
		if strings.Contains(position, valid) {
			return true
		}
	}
	logger.Warn("岗位不在已知医疗岗位清单中", zap.String("position", fields.Position))
	return false
}

// EvaluateBasic 执行全部规则检查并汇总
// valid 仅由 requiredFields/dateFormats/timeSequence 三项硬检查决定
func EvaluateBasic(fields *dto.ExtractedShift, logger *zap.Logger) dto.BasicEvaluation {
	results := dto.BasicEvaluationResults{
		RequiredFields: validateRequiredFields(fields),
		DateFormats:    validateDateFormats(fields),
		TimeSequence:   validateTimeSequence(fields),
		Position:       validatePosition(fields, logger),
	}

	valid := results.RequiredFields && results.DateFormats && results.TimeSequence

	logger.Info("规则评估完成",
		zap.Bool("valid", valid),
		zap.Bool("required_fields", results.RequiredFields),
		zap.Bool("date_formats", results.DateFormats),
		zap.Bool("time_sequence", results.TimeSequence),
		zap.Bool("position", results.Position),
	)

	return dto.BasicEvaluation{Valid: valid, Results: results}
}

// ── LLM 二次评估（尽力而为，失败不阻断主流程） ──

// ErrEvaluationEmptyResponse 评估模型未返回内容
var ErrEvaluationEmptyResponse = errors.New("no content in evaluation response")

// EvaluationService LLM 二次评估接口
type EvaluationService interface {
	// EvaluateAdvanced 对抽取结果独立打分；调用方负责捕获错误并降级
	EvaluateAdvanced(ctx context.Context, originalText string, fields *dto.ExtractedShift, timezone string) (*dto.AdvancedEvaluation, error)
}

type evaluationService struct {
	chatModel model.ToolCallingChatModel
	logger    *zap.Logger
	now       func() time.Time
}

// NewEvaluationService 创建 EvaluationService 实例
func NewEvaluationService(chatModel model.ToolCallingChatModel, logger *zap.Logger) EvaluationService {
	return &evaluationService{
		chatModel: chatModel,
		logger:    logger,
		now:       time.Now,
	}
}

// evaluationPayload 评估模型的原始输出结构
type evaluationPayload struct {
	PositionAccuracy float64 `json:"positionAccuracy"`
	TimeAccuracy     float64 `json:"timeAccuracy"`
	RateAccuracy     float64 `json:"rateAccuracy"`
	OverallQuality   float64 `json:"overallQuality"`
	Correct          bool    `json:"correct"`
	Feedback         string  `json:"feedback"`
}

func (s *evaluationService) EvaluateAdvanced(ctx context.Context, originalText string, fields *dto.ExtractedShift, timezone string) (*dto.AdvancedEvaluation, error) {
	extractedJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	prompt, err := BuildEvaluationPrompt(originalText, string(extractedJSON), timezone, s.now())
	if err != nil {
		return nil, err
	}

	resp, err := s.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(prompt),
		schema.UserMessage("Evaluate the extraction."),
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return nil, ErrEvaluationEmptyResponse
	}

	var payload evaluationPayload
	if err := json.Unmarshal([]byte(cleanJSONContent(resp.Content)), &payload); err != nil {
		return nil, err
	}

	score := (payload.PositionAccuracy + payload.TimeAccuracy +
		payload.RateAccuracy + payload.OverallQuality) / 4

	result := &dto.AdvancedEvaluation{
		Score:   score,
		Correct: payload.Correct,
		Metrics: dto.AdvancedEvaluationMetrics{
			PositionAccuracy: payload.PositionAccuracy,
			TimeAccuracy:     payload.TimeAccuracy,
			RateAccuracy:     payload.RateAccuracy,
			OverallQuality:   payload.OverallQuality,
		},
		Feedback: payload.Feedback,
	}

	s.logger.Info("二次评估完成",
		zap.Float64("score", score),
		zap.Bool("correct", payload.Correct),
	)

	return result, nil
}
