// pkg/model/pattern.go
package model

import "time"

// ActivityPattern 物品滚动基线缓存，每个物品一行，周期性重算覆盖
type ActivityPattern struct {
	ItemID               int       `gorm:"primaryKey" json:"item_id"`
	AvgVolume24h         float64   `gorm:"type:decimal(16,2)" json:"avg_volume_24h"`
	AvgVolume7d          float64   `gorm:"type:decimal(16,2)" json:"avg_volume_7d"`
	AvgPrice24h          float64   `gorm:"type:decimal(16,2)" json:"avg_price_24h"`
	AvgPriceChange24h    float64   `gorm:"type:decimal(8,4)" json:"avg_price_change_24h"`   // 平均单根涨跌幅（百分比）
	PriceVolatility      float64   `gorm:"type:decimal(8,4)" json:"price_volatility"`       // 相对价格变化的标准差
	VolumeSpikeThreshold float64   `gorm:"type:decimal(16,2)" json:"volume_spike_threshold"` // 动态放量阈值
	LastCalculated       time.Time `json:"last_calculated"`
}

func (ActivityPattern) TableName() string {
	return "abnormal_activity_patterns"
}
