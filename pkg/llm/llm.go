package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	"github.com/npatt14/Aptus/config"
)

// NewChatModel 创建 OpenAI 兼容的 Chat Model
// modelName 为空时回退到配置中的抽取模型
func NewChatModel(ctx context.Context, cfg *config.LLMConfig, modelName string, logger *zap.Logger) (model.ToolCallingChatModel, error) {
	if modelName == "" {
		modelName = cfg.Model
	}

	temperature := cfg.Temperature
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       modelName,
		Temperature: &temperature,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 Chat Model 失败: %w", err)
	}

	logger.Info("Chat Model 初始化成功", zap.String("model", modelName))

	return chatModel, nil
}
