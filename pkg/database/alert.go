// pkg/database/alert.go
package database

import (
	"fmt"

	"gorm.io/gorm"

	"GERadar/pkg/model"
)

type AlertDB struct {
	db *gorm.DB
}

func (p *Postgres) Alert() *AlertDB {
	return &AlertDB{db: p.db}
}

// Save 追加一条告警记录
func (a *AlertDB) Save(record *model.AlertRecord) error {
	if err := a.db.Create(record).Error; err != nil {
		return fmt.Errorf("保存告警记录失败: %w", err)
	}
	return nil
}

// MarkSent 标记告警已发送
func (a *AlertDB) MarkSent(alertID string) error {
	return a.db.Model(&model.AlertRecord{}).
		Where("id = ?", alertID).
		Update("sent", true).Error
}

// GetByUserID 查询用户最近的告警记录
func (a *AlertDB) GetByUserID(userID string, limit int) ([]*model.AlertRecord, error) {
	var records []*model.AlertRecord
	err := a.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("查询用户告警记录失败: %w", err)
	}
	return records, nil
}

// GetByItem 查询某用户某物品的告警记录
func (a *AlertDB) GetByItem(userID string, itemID int, limit int) ([]*model.AlertRecord, error) {
	var records []*model.AlertRecord
	err := a.db.Where("user_id = ? AND item_id = ?", userID, itemID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("查询物品告警记录失败: %w", err)
	}
	return records, nil
}
