// pkg/database/pattern.go
package database

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"GERadar/pkg/model"
)

type PatternDB struct {
	db *gorm.DB
}

func (p *Postgres) Pattern() *PatternDB {
	return &PatternDB{db: p.db}
}

// SavePattern 覆盖写入物品基线，每个物品一行
func (d *PatternDB) SavePattern(pattern *model.ActivityPattern) error {
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}},
		UpdateAll: true,
	}).Create(pattern).Error
	if err != nil {
		return fmt.Errorf("写入物品基线失败: %w", err)
	}
	return nil
}

// Get 查询物品基线。尚未计算过返回 nil, nil——评估器对缺基线按规则跳过处理
func (d *PatternDB) Get(itemID int) (*model.ActivityPattern, error) {
	var pattern model.ActivityPattern
	err := d.db.First(&pattern, "item_id = ?", itemID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询物品基线失败: %w", err)
	}
	return &pattern, nil
}
