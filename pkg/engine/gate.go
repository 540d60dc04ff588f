// pkg/engine/gate.go
package engine

import (
	"fmt"
	"log"
	"time"

	"GERadar/pkg/model"
)

// CooldownStore 冷却状态存储。Acquire 必须是对
// (user_id, item_id, alert_type) 唯一键的单次原子条件写：
// 不存在冷却行或已到期则占用窗口返回 true，否则返回 false。
// 并发提交同键意图时恰有一个调用方拿到 true
type CooldownStore interface {
	Acquire(userID string, itemID int, alertType model.AlertType, until, now time.Time) (bool, error)
	DeleteExpired(now time.Time) (int64, error)
}

// CooldownGate 告警冷却闸门：同一 (用户,物品,告警类型) 在冷却窗口内至多放行一次。
// 放行的意图写入告警通道，被抑制的意图静默丢弃——抑制是预期行为，不是错误
type CooldownGate struct {
	store     CooldownStore
	cooldown  time.Duration
	alertChan chan<- model.AlertIntent
}

// NewCooldownGate 创建冷却闸门
func NewCooldownGate(store CooldownStore, cooldown time.Duration, alertChan chan<- model.AlertIntent) *CooldownGate {
	return &CooldownGate{
		store:     store,
		cooldown:  cooldown,
		alertChan: alertChan,
	}
}

// Submit 提交一个告警意图。返回值表示是否放行；
// 写冲突由存储的条件写语义裁决，先写者获胜，落败方按抑制处理
func (g *CooldownGate) Submit(intent model.AlertIntent) (bool, error) {
	now := time.Now()
	accepted, err := g.store.Acquire(intent.UserID, intent.ItemID, intent.Type, now.Add(g.cooldown), now)
	if err != nil {
		return false, fmt.Errorf("冷却状态写入失败: %w", err)
	}
	if !accepted {
		return false, nil // 冷却期内，静默抑制
	}

	select {
	case g.alertChan <- intent:
	default:
		log.Printf("警告: 告警通道已满，丢弃事件 用户=%s 物品=%d 类型=%s",
			intent.UserID, intent.ItemID, intent.Type)
	}
	return true, nil
}

// Sweep 清理已过期的冷却行。独立周期任务，不在评估热路径上
func (g *CooldownGate) Sweep() {
	removed, err := g.store.DeleteExpired(time.Now())
	if err != nil {
		log.Printf("清理过期冷却行失败: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("已清理过期冷却行: %d", removed)
	}
}
