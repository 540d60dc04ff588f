// pkg/collector/rotation.go
package collector

import (
	"sync"
	"time"

	"GERadar/pkg/config"
)

// IdentityRotator 接口身份轮换器。身份列表创建后不再变化，
// 游标由本实例持有并按时间间隔推进，调用方注入实例而不是读进程级单例
type IdentityRotator struct {
	identities []config.APIIdentity
	interval   time.Duration

	mu           sync.Mutex
	cursor       int
	lastRotation time.Time
}

// NewIdentityRotator 创建身份轮换器，列表为空时退化为单一默认身份
func NewIdentityRotator(identities []config.APIIdentity, interval time.Duration) *IdentityRotator {
	if len(identities) == 0 {
		identities = []config.APIIdentity{{
			UserAgent: "GERadar/1.0 (market anomaly engine)",
			Contact:   "ops@geradar.local",
		}}
	}
	list := make([]config.APIIdentity, len(identities))
	copy(list, identities)
	return &IdentityRotator{
		identities:   list,
		interval:     interval,
		lastRotation: time.Now(),
	}
}

// Current 返回当前身份，距上次轮换超过间隔时先推进游标
func (r *IdentityRotator) Current() config.APIIdentity {
	return r.currentAt(time.Now())
}

func (r *IdentityRotator) currentAt(now time.Time) config.APIIdentity {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastRotation) >= r.interval {
		r.cursor = (r.cursor + 1) % len(r.identities)
		r.lastRotation = now
	}
	return r.identities[r.cursor]
}

// Size 身份数量
func (r *IdentityRotator) Size() int {
	return len(r.identities)
}
