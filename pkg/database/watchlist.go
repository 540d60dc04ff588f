// pkg/database/watchlist.go
package database

import (
	"fmt"

	"gorm.io/gorm"

	"GERadar/pkg/model"
)

type WatchlistDB struct {
	db *gorm.DB
}

func (p *Postgres) Watchlist() *WatchlistDB {
	return &WatchlistDB{db: p.db}
}

// ListActive 列出全部启用中的监控配置
func (w *WatchlistDB) ListActive() ([]*model.WatchlistEntry, error) {
	var entries []*model.WatchlistEntry
	err := w.db.Where("is_active = ?", true).
		Order("user_id ASC, item_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("查询监控配置失败: %w", err)
	}
	return entries, nil
}

// ListActiveItemIDs 列出被任一启用配置监控的物品ID（去重），基线重算用
func (w *WatchlistDB) ListActiveItemIDs() ([]int, error) {
	var itemIDs []int
	err := w.db.Model(&model.WatchlistEntry{}).
		Where("is_active = ?", true).
		Distinct("item_id").
		Order("item_id ASC").
		Pluck("item_id", &itemIDs).Error
	if err != nil {
		return nil, fmt.Errorf("查询监控物品列表失败: %w", err)
	}
	return itemIDs, nil
}

// GetByUserItem 按 (用户, 物品) 唯一键查询
func (w *WatchlistDB) GetByUserItem(userID string, itemID int) (*model.WatchlistEntry, error) {
	var entry model.WatchlistEntry
	err := w.db.Where("user_id = ? AND item_id = ?", userID, itemID).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("监控配置不存在")
		}
		return nil, fmt.Errorf("查询监控配置失败: %w", err)
	}
	return &entry, nil
}
