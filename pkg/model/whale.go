// pkg/model/whale.go
package model

import "time"

// WhaleSignal 单个物品的大宗交易信号，临时派生数据
type WhaleSignal struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Icon          string   `json:"icon"`
	Score         int      `json:"score"` // [0,100]
	Reasons       []string `json:"reasons"`
	CurrentPrice  float64  `json:"currentPrice"`
	AvgPrice      float64  `json:"avgPrice"`
	CurrentVolume float64  `json:"currentVolume"`
	AvgVolume     float64  `json:"avgVolume"`
	IsBulkItem    bool     `json:"isBulkItem"`
}

// WhaleScanResult 一轮全目录扫描的结果，按分数降序
type WhaleScanResult struct {
	LastUpdated   time.Time     `json:"lastUpdated"`
	Targets       []WhaleSignal `json:"targets"`
	TotalAnalyzed int           `json:"totalItemsAnalyzed"`
	BulkFound     int           `json:"bulkItemsFound"`
	OtherFound    int           `json:"otherItemsFound"`
}
