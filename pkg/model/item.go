// pkg/model/item.go
package model

// Timeframe 时间粒度标识，对应价格接口的 timestep 参数
type Timeframe string

const (
	Timeframe5m  Timeframe = "5m"
	Timeframe1h  Timeframe = "1h"
	Timeframe6h  Timeframe = "6h"
	Timeframe24h Timeframe = "24h"
)

// ValidTimeframe 判断时间粒度是否合法
func ValidTimeframe(tf Timeframe) bool {
	switch tf {
	case Timeframe5m, Timeframe1h, Timeframe6h, Timeframe24h:
		return true
	}
	return false
}

// PriceBar 单个时间桶的价量观测，由外部行情源追加写入，本引擎只读
type PriceBar struct {
	Timestamp       int64    `json:"timestamp"`
	AvgHighPrice    *float64 `json:"avgHighPrice"`
	AvgLowPrice     *float64 `json:"avgLowPrice"`
	HighPriceVolume float64  `json:"highPriceVolume"`
	LowPriceVolume  float64  `json:"lowPriceVolume"`
}

// Valid 至少有一侧价格才算有效K线
func (b PriceBar) Valid() bool {
	return b.AvgHighPrice != nil || b.AvgLowPrice != nil
}

// Mid 中间价：高低价都有取均值，只有一侧取该侧，都没有为0
func (b PriceBar) Mid() float64 {
	high := b.AvgHighPrice
	low := b.AvgLowPrice
	if high == nil {
		high = low
	}
	if low == nil {
		low = high
	}
	if high == nil {
		return 0
	}
	if *high != 0 && *low != 0 {
		return (*high + *low) / 2
	}
	if *high != 0 {
		return *high
	}
	return *low
}

// Volume 单根K线成交量，缺失按0处理
func (b PriceBar) Volume() float64 {
	return b.HighPriceVolume + b.LowPriceVolume
}

// ItemMeta 物品目录元数据，刷新频率低于行情
type ItemMeta struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// LatestPrice 物品最新成交价
type LatestPrice struct {
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	HighTime int64   `json:"highTime"`
	LowTime  int64   `json:"lowTime"`
}

// ItemSnapshot 物品当前快照，每轮扫描刷新，不是历史数据
type ItemSnapshot struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Icon             string  `json:"icon"`
	CurrentHighPrice float64 `json:"current_high_price"`
	CurrentVolume24h float64 `json:"current_volume_24h"`
}
