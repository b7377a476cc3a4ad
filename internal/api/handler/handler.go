package handler

import "github.com/npatt14/Aptus/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Shift *ShiftHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Shift: NewShiftHandler(svc.Shift),
	}
}
