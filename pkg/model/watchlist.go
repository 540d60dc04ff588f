// pkg/model/watchlist.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WatchlistEntry 用户监控配置，(user_id, item_id) 唯一
type WatchlistEntry struct {
	ID                  string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_item" json:"user_id"`
	ItemID              int       `gorm:"not null;index;uniqueIndex:idx_user_item" json:"item_id"`
	ItemName            string    `json:"item_name"`
	VolumeThreshold     *float64  `gorm:"type:decimal(16,2)" json:"volume_threshold,omitempty"`      // 成交量阈值
	PriceDropThreshold  *float64  `gorm:"type:decimal(8,2)" json:"price_drop_threshold,omitempty"`   // 跌幅百分比阈值
	PriceSpikeThreshold *float64  `gorm:"type:decimal(8,2)" json:"price_spike_threshold,omitempty"`  // 涨幅百分比阈值
	AbnormalActivity    bool      `gorm:"default:false" json:"abnormal_activity"`                    // 是否启用异常活动检测
	IsActive            bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (w *WatchlistEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

func (WatchlistEntry) TableName() string {
	return "user_watchlists"
}
