package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/npatt14/Aptus/config"
	"github.com/npatt14/Aptus/internal/model"
	"github.com/npatt14/Aptus/internal/repository"
)

const validExtraction = `{"position":"doctor","start_time":"2025-04-05T08:00:00-04:00","end_time":"2025-04-05T16:00:00-04:00","rate":"$80/hr"}`
const validEvaluation = `{"positionAccuracy":95,"timeAccuracy":90,"rateAccuracy":100,"overallQuality":85,"correct":true,"feedback":"accurate"}`

// ── 测试辅助 ──

func setupTestShiftService(env string, extract, eval *fakeChatModel) (ShiftService, *mockShiftRepo) {
	shiftRepo := newMockShiftRepo()
	repo := &repository.Repository{Shift: shiftRepo}
	cfg := &config.Config{App: config.AppConfig{Env: env}}
	logger := zap.NewNop()

	svc := NewShiftService(cfg, repo,
		newTestExtractor(extract),
		newTestEvaluator(eval),
		nil, // Redis 缺席时跳过重复提交检测
		logger,
	)
	return svc, shiftRepo
}

// ── CreateShift 测试 ──

func TestShiftService_CreateShift_Success(t *testing.T) {
	svc, shiftRepo := setupTestShiftService(config.EnvTest,
		&fakeChatModel{content: validExtraction},
		&fakeChatModel{content: validEvaluation},
	)

	result, err := svc.CreateShift(context.Background(),
		"Need a doctor tomorrow from 8am to 4pm at $80/hr", "America/New_York")
	if err != nil {
		t.Fatalf("CreateShift 应成功: %v", err)
	}

	if result.Shift.ID == "" {
		t.Error("落库后应有记录 ID")
	}
	if result.Shift.Position != "doctor" {
		t.Errorf("期望 position=doctor，实际=%s", result.Shift.Position)
	}
	if result.Shift.Status != model.ShiftStatusSuccess {
		t.Errorf("期望 status=success，实际=%s", result.Shift.Status)
	}
	if result.Shift.RawInput != "Need a doctor tomorrow from 8am to 4pm at $80/hr" {
		t.Error("raw_input 应保留原始文本")
	}
	if !result.Evaluation.Basic.Valid {
		t.Error("规则评估应通过")
	}
	if len(shiftRepo.shifts) != 1 {
		t.Fatalf("应写入一条记录，实际=%d", len(shiftRepo.shifts))
	}
}

func TestShiftService_CreateShift_NonProductionSkipsAdvanced(t *testing.T) {
	evalModel := &fakeChatModel{content: validEvaluation}
	svc, _ := setupTestShiftService(config.EnvTest,
		&fakeChatModel{content: validExtraction}, evalModel)

	result, err := svc.CreateShift(context.Background(), "Need a doctor tomorrow", "UTC")
	if err != nil {
		t.Fatalf("CreateShift 应成功: %v", err)
	}

	if result.Evaluation.Advanced != nil {
		t.Error("非生产环境不应执行二次评估")
	}
	if evalModel.calls != 0 {
		t.Errorf("评估模型不应被调用，实际调用 %d 次", evalModel.calls)
	}
}

func TestShiftService_CreateShift_ProductionRunsAdvanced(t *testing.T) {
	evalModel := &fakeChatModel{content: validEvaluation}
	svc, _ := setupTestShiftService(config.EnvProduction,
		&fakeChatModel{content: validExtraction}, evalModel)

	result, err := svc.CreateShift(context.Background(), "Need a doctor tomorrow", "UTC")
	if err != nil {
		t.Fatalf("CreateShift 应成功: %v", err)
	}

	if result.Evaluation.Advanced == nil {
		t.Fatal("生产环境应携带二次评估结果")
	}
	if result.Evaluation.Advanced.Score != 92.5 {
		t.Errorf("期望 score=92.5，实际=%v", result.Evaluation.Advanced.Score)
	}
	if evalModel.calls != 1 {
		t.Errorf("评估模型应被调用一次，实际=%d", evalModel.calls)
	}
}

func TestShiftService_CreateShift_AdvancedFailureIsNonBlocking(t *testing.T) {
	svc, shiftRepo := setupTestShiftService(config.EnvProduction,
		&fakeChatModel{content: validExtraction},
		&fakeChatModel{err: errors.New("evaluator unavailable")},
	)

	result, err := svc.CreateShift(context.Background(), "Need a doctor tomorrow", "UTC")
	if err != nil {
		t.Fatalf("二次评估失败不应阻断主流程: %v", err)
	}

	if result.Evaluation.Advanced != nil {
		t.Error("评估失败时 advanced 应缺席")
	}
	if len(shiftRepo.shifts) != 1 || shiftRepo.shifts[0].Status != model.ShiftStatusSuccess {
		t.Error("成功记录仍应写入")
	}
}

func TestShiftService_CreateShift_ExtractionFailureWritesErrorRecord(t *testing.T) {
	svc, shiftRepo := setupTestShiftService(config.EnvTest,
		&fakeChatModel{err: errors.New("upstream timeout")},
		&fakeChatModel{content: validEvaluation},
	)

	_, err := svc.CreateShift(context.Background(), "Need a doctor tomorrow", "UTC")
	if err == nil {
		t.Fatal("抽取失败应返回错误")
	}

	if len(shiftRepo.shifts) != 1 {
		t.Fatalf("应写入一条 error 记录，实际=%d", len(shiftRepo.shifts))
	}
	record := shiftRepo.shifts[0]
	if record.Status != model.ShiftStatusError {
		t.Errorf("期望 status=error，实际=%s", record.Status)
	}
	if record.RawInput != "Need a doctor tomorrow" {
		t.Error("error 记录应保留原始文本")
	}
	if record.Position != "" || record.StartTime != "" || record.EndTime != "" || record.Rate != "" {
		t.Error("error 记录的结构化字段应为空串")
	}
}

func TestShiftService_CreateShift_ValidationFailureWritesErrorRecord(t *testing.T) {
	// 模型返回起止颠倒的时间
	svc, shiftRepo := setupTestShiftService(config.EnvTest,
		&fakeChatModel{content: `{"position":"nurse","start_time":"2025-04-05T17:00:00-04:00","end_time":"2025-04-05T09:00:00-04:00","rate":"$30/hr"}`},
		&fakeChatModel{content: validEvaluation},
	)

	_, err := svc.CreateShift(context.Background(), "Need a nurse", "UTC")
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("期望 ErrValidationFailed，实际: %v", err)
	}
	if len(shiftRepo.shifts) != 1 || shiftRepo.shifts[0].Status != model.ShiftStatusError {
		t.Error("校验失败应写入 error 记录")
	}
}

func TestShiftService_CreateShift_ErrorRecordWriteFailureSwallowed(t *testing.T) {
	svc, shiftRepo := setupTestShiftService(config.EnvTest,
		&fakeChatModel{err: errors.New("upstream timeout")},
		&fakeChatModel{content: validEvaluation},
	)
	shiftRepo.createErr = errors.New("db unreachable")

	_, err := svc.CreateShift(context.Background(), "Need a nurse", "UTC")
	// 客户端仍应收到原始抽取失败，而非二次持久化错误
	if err == nil || !strings.Contains(err.Error(), "upstream timeout") {
		t.Errorf("应返回原始抽取错误，实际: %v", err)
	}
}

// ── ListShifts 测试 ──

func TestShiftService_ListShifts_NewestFirst(t *testing.T) {
	svc, _ := setupTestShiftService(config.EnvTest,
		&fakeChatModel{content: validExtraction},
		&fakeChatModel{content: validEvaluation},
	)

	for _, text := range []string{"first", "second", "third"} {
		if _, err := svc.CreateShift(context.Background(), text, "UTC"); err != nil {
			t.Fatalf("CreateShift 应成功: %v", err)
		}
	}

	shifts, err := svc.ListShifts(context.Background())
	if err != nil {
		t.Fatalf("ListShifts 应成功: %v", err)
	}
	if len(shifts) != 3 {
		t.Fatalf("期望 3 条记录，实际=%d", len(shifts))
	}
	for i := 0; i < len(shifts)-1; i++ {
		if shifts[i].CreatedAt.Before(shifts[i+1].CreatedAt) {
			t.Errorf("记录应按创建时间倒序: %v 在 %v 之前", shifts[i].CreatedAt, shifts[i+1].CreatedAt)
		}
	}
	if shifts[0].RawInput != "third" {
		t.Errorf("最新记录应排第一，实际=%s", shifts[0].RawInput)
	}
}

func TestShiftService_ListShifts_Idempotent(t *testing.T) {
	svc, _ := setupTestShiftService(config.EnvTest,
		&fakeChatModel{content: validExtraction},
		&fakeChatModel{content: validEvaluation},
	)

	if _, err := svc.CreateShift(context.Background(), "one shift", "UTC"); err != nil {
		t.Fatalf("CreateShift 应成功: %v", err)
	}

	first, err := svc.ListShifts(context.Background())
	if err != nil {
		t.Fatalf("ListShifts 应成功: %v", err)
	}
	second, err := svc.ListShifts(context.Background())
	if err != nil {
		t.Fatalf("ListShifts 应成功: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("两次查询长度应一致: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || !first[i].CreatedAt.Equal(second[i].CreatedAt) {
			t.Errorf("第 %d 条记录不一致", i)
		}
	}
}

func TestShiftService_ListShifts_RepoError(t *testing.T) {
	svc, shiftRepo := setupTestShiftService(config.EnvTest,
		&fakeChatModel{content: validExtraction},
		&fakeChatModel{content: validEvaluation},
	)
	shiftRepo.listErr = errors.New("db unreachable")

	if _, err := svc.ListShifts(context.Background()); err == nil {
		t.Error("存储失败应返回错误")
	}
}

// ── EvaluationMetrics 测试 ──

func TestShiftService_EvaluationMetrics(t *testing.T) {
	svc, shiftRepo := setupTestShiftService(config.EnvTest,
		&fakeChatModel{content: validExtraction},
		&fakeChatModel{content: validEvaluation},
	)

	// 三条成功 + 一条失败
	for i := 0; i < 3; i++ {
		shiftRepo.Create(context.Background(), &model.Shift{RawInput: "ok", Status: model.ShiftStatusSuccess})
	}
	shiftRepo.Create(context.Background(), &model.Shift{RawInput: "bad", Status: model.ShiftStatusError})

	metrics, err := svc.EvaluationMetrics(context.Background())
	if err != nil {
		t.Fatalf("EvaluationMetrics 应成功: %v", err)
	}

	if metrics.TotalShifts != 4 || metrics.SuccessfulShifts != 3 || metrics.FailedShifts != 1 {
		t.Errorf("统计错误: %+v", metrics)
	}
	if metrics.SuccessRate != "75.00%" {
		t.Errorf("期望成功率 75.00%%，实际=%s", metrics.SuccessRate)
	}
}

func TestShiftService_EvaluationMetrics_Empty(t *testing.T) {
	svc, _ := setupTestShiftService(config.EnvTest,
		&fakeChatModel{content: validExtraction},
		&fakeChatModel{content: validEvaluation},
	)

	metrics, err := svc.EvaluationMetrics(context.Background())
	if err != nil {
		t.Fatalf("EvaluationMetrics 应成功: %v", err)
	}
	if metrics.TotalShifts != 0 || metrics.SuccessRate != "0.00%" {
		t.Errorf("空库统计错误: %+v", metrics)
	}
}
