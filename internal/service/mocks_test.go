package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	appmodel "github.com/npatt14/Aptus/internal/model"
)

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts    []appmodel.Shift
	createErr error
	listErr   error
	seq       int
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *appmodel.Shift) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	shift.ID = fmt.Sprintf("shift-%03d", m.seq)
	shift.CreatedAt = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC).
		Add(time.Duration(m.seq) * time.Second)
	shift.UpdatedAt = shift.CreatedAt
	m.shifts = append(m.shifts, *shift)
	return nil
}

func (m *mockShiftRepo) ListAll(_ context.Context) ([]appmodel.Shift, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	// 按创建时间倒序，与真实仓储的 ORDER BY created_at DESC 一致
	out := make([]appmodel.Shift, 0, len(m.shifts))
	for i := len(m.shifts) - 1; i >= 0; i-- {
		out = append(out, m.shifts[i])
	}
	return out, nil
}

// ── Fake ChatModel ──

// fakeChatModel 固定应答的 Chat Model，记录收到的消息供断言
type fakeChatModel struct {
	content      string
	err          error
	calls        int
	lastMessages []*schema.Message
}

func (m *fakeChatModel) Generate(_ context.Context, messages []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls++
	m.lastMessages = messages
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.content, nil), nil
}

func (m *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("fakeChatModel 不支持流式输出")
}

func (m *fakeChatModel) WithTools(_ []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}
