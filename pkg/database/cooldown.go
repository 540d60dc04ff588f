// pkg/database/cooldown.go
package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"GERadar/pkg/model"
)

type CooldownDB struct {
	db *gorm.DB
}

func (p *Postgres) Cooldown() *CooldownDB {
	return &CooldownDB{db: p.db}
}

// Acquire 条件插入/更新占用冷却窗口。
// 生成 INSERT ... ON CONFLICT (user_id,item_id,alert_type)
// DO UPDATE SET cooldown_until = ? WHERE alert_cooldowns.cooldown_until <= now：
// 已有未过期行时既不插入也不更新，RowsAffected 为 0，
// 同键并发提交由数据库裁决，先写者获胜
func (c *CooldownDB) Acquire(userID string, itemID int, alertType model.AlertType, until, now time.Time) (bool, error) {
	row := model.AlertCooldown{
		UserID:        userID,
		ItemID:        itemID,
		AlertType:     alertType,
		CooldownUntil: until,
	}

	result := c.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "item_id"}, {Name: "alert_type"},
		},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Lte{
				Column: clause.Column{Table: "alert_cooldowns", Name: "cooldown_until"},
				Value:  now,
			},
		}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"cooldown_until": until,
		}),
	}).Create(&row)

	if result.Error != nil {
		return false, fmt.Errorf("写入冷却状态失败: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteExpired 删除已过期的冷却行，返回删除数量
func (c *CooldownDB) DeleteExpired(now time.Time) (int64, error) {
	result := c.db.Where("cooldown_until <= ?", now).Delete(&model.AlertCooldown{})
	if result.Error != nil {
		return 0, fmt.Errorf("删除过期冷却行失败: %w", result.Error)
	}
	return result.RowsAffected, nil
}
