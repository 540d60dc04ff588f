package collector

import (
	"context"

	"GERadar/pkg/model"
)

// PriceFeed 行情数据获取接口
type PriceFeed interface {
	// FetchMapping 获取物品目录元数据
	FetchMapping(ctx context.Context) ([]model.ItemMeta, error)
	// FetchLatest 获取全部物品最新成交价
	FetchLatest(ctx context.Context) (map[int]model.LatestPrice, error)
	// FetchVolumes 获取全部物品24小时成交量
	FetchVolumes(ctx context.Context) (map[int]float64, error)
	// FetchTimeseries 获取单个物品指定粒度的K线历史
	FetchTimeseries(ctx context.Context, itemID int, timestep model.Timeframe) ([]model.PriceBar, error)
}
