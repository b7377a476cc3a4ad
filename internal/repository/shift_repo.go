package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/npatt14/Aptus/internal/model"
)

// ShiftRepository 班次记录数据访问接口
// 仅提供写入与按创建时间倒序的全量读取；记录不更新、不删除
type ShiftRepository interface {
	Create(ctx context.Context, shift *model.Shift) error
	ListAll(ctx context.Context) ([]model.Shift, error)
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) Create(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepo) ListAll(ctx context.Context) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&shifts).Error
	return shifts, err
}
