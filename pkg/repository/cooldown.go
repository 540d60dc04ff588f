package repository

import (
	"fmt"
	"sync"
	"time"

	"GERadar/pkg/model"
)

// cooldownKey 冷却唯一键
type cooldownKey struct {
	UserID    string
	ItemID    int
	AlertType model.AlertType
}

// CooldownRepository 内存版冷却存储。
// 单进程部署与测试使用；多实例部署应使用数据库实现
type CooldownRepository struct {
	mutex     sync.Mutex
	cooldowns map[cooldownKey]time.Time
}

// NewCooldownRepository 创建内存冷却存储
func NewCooldownRepository() *CooldownRepository {
	return &CooldownRepository{
		cooldowns: make(map[cooldownKey]time.Time),
	}
}

// Acquire 原子地尝试占用冷却窗口。锁内完成读改写，同键并发调用只有一个成功
func (r *CooldownRepository) Acquire(userID string, itemID int, alertType model.AlertType, until, now time.Time) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := cooldownKey{UserID: userID, ItemID: itemID, AlertType: alertType}
	if existing, ok := r.cooldowns[key]; ok && now.Before(existing) {
		return false, nil // 冷却期内
	}
	r.cooldowns[key] = until
	return true, nil
}

// DeleteExpired 删除已过期的冷却行，返回删除数量
func (r *CooldownRepository) DeleteExpired(now time.Time) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var removed int64
	for key, until := range r.cooldowns {
		if !now.Before(until) {
			delete(r.cooldowns, key)
			removed++
		}
	}
	return removed, nil
}

// CooldownUntil 查询某键当前的冷却截止时间，主要供诊断使用
func (r *CooldownRepository) CooldownUntil(userID string, itemID int, alertType model.AlertType) (time.Time, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := cooldownKey{UserID: userID, ItemID: itemID, AlertType: alertType}
	until, ok := r.cooldowns[key]
	if !ok {
		return time.Time{}, fmt.Errorf("冷却行不存在")
	}
	return until, nil
}
