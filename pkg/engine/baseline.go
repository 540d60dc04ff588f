// pkg/engine/baseline.go
package engine

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"GERadar/pkg/collector"
	"GERadar/pkg/config"
	"GERadar/pkg/model"
)

// PatternStore 基线缓存写入接口
type PatternStore interface {
	SavePattern(pattern *model.ActivityPattern) error
}

// BaselineCalculator 滚动基线计算器：周期性重算各物品的 ActivityPattern，
// 与告警评估相互独立，按自己的调度运行
type BaselineCalculator struct {
	cfg  *config.AbnormalConfig
	feed collector.PriceFeed
}

// NewBaselineCalculator 创建基线计算器
func NewBaselineCalculator(cfg *config.AbnormalConfig, feed collector.PriceFeed) *BaselineCalculator {
	return &BaselineCalculator{cfg: cfg, feed: feed}
}

// Compute 计算单个物品的滚动基线。历史不足2根K线返回 nil, nil
func (c *BaselineCalculator) Compute(ctx context.Context, itemID int, fallbackPrice float64) (*model.ActivityPattern, error) {
	hourly, err := c.feed.FetchTimeseries(ctx, itemID, model.Timeframe1h)
	if err != nil {
		return nil, fmt.Errorf("获取物品 %d 小时线失败: %w", itemID, err)
	}
	window24h := tail(hourly, c.cfg.Window24hBars)
	if len(window24h) < 2 {
		return nil, nil // 样本不足，本轮不产出基线
	}

	sixHourly, err := c.feed.FetchTimeseries(ctx, itemID, model.Timeframe6h)
	if err != nil {
		return nil, fmt.Errorf("获取物品 %d 6小时线失败: %w", itemID, err)
	}
	window7d := tail(sixHourly, c.cfg.Window7dBars)

	vols24 := make([]float64, 0, len(window24h))
	prices24 := make([]float64, 0, len(window24h))
	for _, bar := range window24h {
		vols24 = append(vols24, bar.Volume())
		if bar.AvgHighPrice != nil {
			prices24 = append(prices24, *bar.AvgHighPrice)
		} else if fallbackPrice > 0 {
			prices24 = append(prices24, fallbackPrice)
		}
	}

	vols7d := make([]float64, 0, len(window7d))
	for _, bar := range window7d {
		vols7d = append(vols7d, bar.Volume())
	}

	// 相对价格变化序列：平均涨跌幅与波动率共用
	changes := make([]float64, 0, len(prices24))
	for i := 1; i < len(prices24); i++ {
		if prices24[i-1] > 0 {
			changes = append(changes, (prices24[i]-prices24[i-1])/prices24[i-1])
		}
	}
	absChangeSum := 0.0
	for _, ch := range changes {
		absChangeSum += math.Abs(ch)
	}
	avgChangePct := 0.0
	if len(changes) > 0 {
		avgChangePct = absChangeSum / float64(len(changes)) * 100
	}

	avgVolume24h := mean(vols24)
	pattern := &model.ActivityPattern{
		ItemID:               itemID,
		AvgVolume24h:         avgVolume24h,
		AvgVolume7d:          mean(vols7d),
		AvgPrice24h:          mean(prices24),
		AvgPriceChange24h:    avgChangePct,
		PriceVolatility:      stddev(changes),
		VolumeSpikeThreshold: avgVolume24h * c.cfg.VolumeSpikeMultiplier,
		LastCalculated:       time.Now(),
	}
	return pattern, nil
}

// RefreshAll 重算一批物品的基线并覆盖写入。单个物品失败只记录并继续
func (c *BaselineCalculator) RefreshAll(ctx context.Context, itemIDs []int, prices map[int]model.LatestPrice, store PatternStore) int {
	updated := 0
	for _, itemID := range itemIDs {
		if ctx.Err() != nil {
			break
		}
		pattern, err := c.Compute(ctx, itemID, prices[itemID].High)
		if err != nil {
			log.Printf("物品 %d 基线计算失败: %v", itemID, err)
			continue
		}
		if pattern == nil {
			continue
		}
		if err := store.SavePattern(pattern); err != nil {
			log.Printf("物品 %d 基线写入失败: %v", itemID, err)
			continue
		}
		updated++
	}
	return updated
}

// tail 取切片末尾最多 n 个元素
func tail(bars []model.PriceBar, n int) []model.PriceBar {
	if len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}
