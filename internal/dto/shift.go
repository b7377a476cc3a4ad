package dto

import "github.com/npatt14/Aptus/internal/model"

// ── 请求 ──

// CreateShiftRequest 创建班次请求体
type CreateShiftRequest struct {
	Text string `json:"text"`
}

// ── 抽取结果 ──

// ExtractedShift LLM 抽取出的结构化字段（仅在请求内存活，不落库）
type ExtractedShift struct {
	Position  string `json:"position"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Rate      string `json:"rate"`
}

// ── 规则评估 ──

// BasicEvaluationResults 四项独立检查结果
type BasicEvaluationResults struct {
	RequiredFields bool `json:"requiredFields"`
	DateFormats    bool `json:"dateFormats"`
	TimeSequence   bool `json:"timeSequence"`
	Position       bool `json:"position"`
}

// BasicEvaluation 规则评估汇总
// valid = requiredFields && dateFormats && timeSequence
// position 仅为观测信号，不参与 valid 计算
type BasicEvaluation struct {
	Valid   bool                   `json:"valid"`
	Results BasicEvaluationResults `json:"results"`
}

// ── LLM 二次评估 ──

// AdvancedEvaluationMetrics 四项准确度打分（0-100）
type AdvancedEvaluationMetrics struct {
	PositionAccuracy float64 `json:"positionAccuracy"`
	TimeAccuracy     float64 `json:"timeAccuracy"`
	RateAccuracy     float64 `json:"rateAccuracy"`
	OverallQuality   float64 `json:"overallQuality"`
}

// AdvancedEvaluation LLM 二次评估结果
// score 为四项指标的算术平均；correct 仅供观测，不阻断主流程
type AdvancedEvaluation struct {
	Score    float64                   `json:"score"`
	Correct  bool                      `json:"correct"`
	Metrics  AdvancedEvaluationMetrics `json:"metrics"`
	Feedback string                    `json:"feedback"`
}

// EvaluationResult 评估结果汇总（advanced 缺席时省略）
type EvaluationResult struct {
	Basic    BasicEvaluation     `json:"basic"`
	Advanced *AdvancedEvaluation `json:"advanced,omitempty"`
}

// ── 响应 ──

// CreateShiftResponse POST /api/shifts 成功响应
type CreateShiftResponse struct {
	Shift      *model.Shift     `json:"shift"`
	Evaluation EvaluationResult `json:"evaluation"`
}

// LLMEvaluationMetrics 聚合统计中的 LLM 评估指标
type LLMEvaluationMetrics struct {
	AverageAccuracyScore float64  `json:"average_accuracy_score"`
	PositionAccuracy     float64  `json:"position_accuracy"`
	TimeAccuracy         float64  `json:"time_accuracy"`
	RateAccuracy         float64  `json:"rate_accuracy"`
	OverallQuality       float64  `json:"overall_quality"`
	CommonIssues         []string `json:"common_issues"`
}

// EvaluationMetricsResponse GET /api/shifts/evaluation-metrics 响应
type EvaluationMetricsResponse struct {
	TotalShifts          int                  `json:"total_shifts"`
	SuccessfulShifts     int                  `json:"successful_shifts"`
	FailedShifts         int                  `json:"failed_shifts"`
	SuccessRate          string               `json:"success_rate"`
	LLMEvaluationMetrics LLMEvaluationMetrics `json:"llm_evaluation_metrics"`
	EvaluationSummary    string               `json:"evaluation_summary"`
}
