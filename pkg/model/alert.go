// pkg/model/alert.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertType 告警类型枚举
type AlertType string

const (
	AlertTypeVolumeDump AlertType = "volume_dump"       // 成交量突破阈值
	AlertTypePriceDrop  AlertType = "price_drop"        // 价格跌幅超阈值
	AlertTypePriceSpike AlertType = "price_spike"       // 价格涨幅超阈值
	AlertTypeAbnormal   AlertType = "abnormal_activity" // 偏离基线的异常活动
)

// AlertIntent 告警意图：条件评估器的输出，经冷却闸门过滤后才会落库和发送
type AlertIntent struct {
	UserID           string    `json:"user_id"`
	ItemID           int       `json:"item_id"`
	Type             AlertType `json:"alert_type"`
	TriggeredVolume  *float64  `json:"triggered_volume,omitempty"`
	TriggeredPrice   *float64  `json:"triggered_price,omitempty"`
	PriceDropPercent *float64  `json:"price_drop_percent,omitempty"`
}

// AlertCooldown 冷却状态行，(user_id, item_id, alert_type) 唯一——
// 该唯一性是冷却闸门正确性的核心不变式
type AlertCooldown struct {
	UserID        string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	ItemID        int       `gorm:"primaryKey" json:"item_id"`
	AlertType     AlertType `gorm:"type:varchar(30);primaryKey" json:"alert_type"`
	CooldownUntil time.Time `gorm:"not null;index" json:"cooldown_until"`
}

func (AlertCooldown) TableName() string {
	return "alert_cooldowns"
}

// AlertRecord 已触发告警记录，只追加
type AlertRecord struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ItemID           int       `gorm:"not null;index" json:"item_id"`
	Type             AlertType `gorm:"type:varchar(30);not null;index" json:"alert_type"`
	TriggeredVolume  *float64  `gorm:"type:decimal(16,2)" json:"triggered_volume,omitempty"`
	TriggeredPrice   *float64  `gorm:"type:decimal(16,2)" json:"triggered_price,omitempty"`
	PriceDropPercent *float64  `gorm:"type:decimal(8,4)" json:"price_drop_percent,omitempty"`
	Sent             bool      `gorm:"default:false;index" json:"sent"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

func (a *AlertRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

func (AlertRecord) TableName() string {
	return "volume_alerts"
}
