package repository

import (
	"sync"

	"GERadar/pkg/model"
)

// WhaleCache 最近一轮大宗扫描结果的内存缓存，供API按需读取。
// 扫描失败时不覆盖，避免把部分结果当成完整排名
type WhaleCache struct {
	mutex  sync.RWMutex
	result *model.WhaleScanResult
}

// NewWhaleCache 创建扫描结果缓存
func NewWhaleCache() *WhaleCache {
	return &WhaleCache{}
}

// Set 覆盖缓存的扫描结果
func (c *WhaleCache) Set(result *model.WhaleScanResult) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.result = result
}

// Get 返回最近一轮扫描结果，尚无结果返回 nil
func (c *WhaleCache) Get() *model.WhaleScanResult {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.result
}
