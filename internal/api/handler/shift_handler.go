package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/npatt14/Aptus/internal/dto"
	"github.com/npatt14/Aptus/internal/service"
	"github.com/npatt14/Aptus/pkg/response"
)

// ShiftHandler 班次模块 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// CreateShift 解析自然语言描述并创建班次记录
// POST /api/shifts
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	timezone, ok := MustGetTimezone(c)
	if !ok {
		return
	}

	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(c, http.StatusRequestEntityTooLarge,
				"Request body too large", "The request body exceeds the allowed size")
			return
		}
		// 其余解析错误与 text 为空同等对待
	}
	if req.Text == "" {
		response.BadRequest(c, "Missing shift description",
			"Please provide a shift description")
		return
	}

	result, err := h.shiftSvc.CreateShift(c.Request.Context(), req.Text, timezone)
	if err != nil {
		// 抽取/校验/落库失败统一 422，对外文案保持克制，细节在服务端日志
		response.UnprocessableEntity(c, err.Error(),
			"We're reviewing your request. Please try with more specific details.")
		return
	}

	response.Created(c, result)
}

// ListShifts 返回全部班次记录，按创建时间倒序
// GET /api/shifts
func (h *ShiftHandler) ListShifts(c *gin.Context) {
	if _, ok := MustGetTimezone(c); !ok {
		return
	}

	shifts, err := h.shiftSvc.ListShifts(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Failed to fetch shifts",
			"An error occurred while retrieving shifts. Please try again later.")
		return
	}

	response.OK(c, shifts)
}

// EvaluationMetrics 返回抽取成功率聚合统计
// GET /api/shifts/evaluation-metrics
func (h *ShiftHandler) EvaluationMetrics(c *gin.Context) {
	if _, ok := MustGetTimezone(c); !ok {
		return
	}

	metrics, err := h.shiftSvc.EvaluationMetrics(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Failed to generate eval metrics",
			"An error occurred while generating evaluation metrics.")
		return
	}

	response.OK(c, metrics)
}
