package model

import "time"

// ── 记录状态 ──

const (
	ShiftStatusSuccess = "success"
	ShiftStatusError   = "error"
)

// Shift 班次记录表 — 对应 shifts
// 抽取失败时四个结构化字段为空串，raw_input 保留原始文本供审计
// 记录一经写入不再更新或删除
type Shift struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Position  string    `gorm:"type:text;not null;default:''"                  json:"position"`
	StartTime string    `gorm:"type:text;not null;default:''"                  json:"start_time"` // ISO8601 带时区偏移
	EndTime   string    `gorm:"type:text;not null;default:''"                  json:"end_time"`   // ISO8601 带时区偏移
	Rate      string    `gorm:"type:text;not null;default:''"                  json:"rate"`       // 原样保留，如 "$25/hr"
	RawInput  string    `gorm:"type:text;not null"                             json:"raw_input"`
	Status    string    `gorm:"type:varchar(10);not null"                      json:"status"` // success | error
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }
