package service

import (
	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	"github.com/npatt14/Aptus/config"
	"github.com/npatt14/Aptus/internal/repository"
	"github.com/npatt14/Aptus/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Shift ShiftService
}

// NewService 创建 Service 聚合
// extractModel 用于字段抽取，evalModel 用于二次评估（可以是同一实例）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	extractModel model.ToolCallingChatModel,
	evalModel model.ToolCallingChatModel,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	extractor := NewExtractionService(extractModel, logger)
	evaluator := NewEvaluationService(evalModel, logger)

	return &Service{
		Shift: NewShiftService(cfg, repo, extractor, evaluator, rdb, logger),
	}
}
