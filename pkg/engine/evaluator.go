// pkg/engine/evaluator.go
package engine

import (
	"math"

	"GERadar/pkg/config"
	"GERadar/pkg/model"
)

// WatchEvaluator 监控条件评估器：逐条对照用户阈值与实时信号，
// 产出零或多个告警意图。本组件不做任何持久化
type WatchEvaluator struct {
	cfg *config.AbnormalConfig
}

// NewWatchEvaluator 创建条件评估器
func NewWatchEvaluator(cfg *config.AbnormalConfig) *WatchEvaluator {
	return &WatchEvaluator{cfg: cfg}
}

// Evaluate 评估单条监控配置。各规则独立判断，同一次调用可触发多种告警。
// pattern 为该物品的滚动基线，尚未计算时传 nil，依赖基线的规则自动跳过
func (e *WatchEvaluator) Evaluate(entry *model.WatchlistEntry, snap *model.ItemSnapshot, pattern *model.ActivityPattern) []model.AlertIntent {
	if entry == nil || snap == nil || !entry.IsActive {
		return nil
	}

	var intents []model.AlertIntent
	currentVolume := snap.CurrentVolume24h
	currentPrice := snap.CurrentHighPrice

	// 成交量阈值
	if entry.VolumeThreshold != nil && currentVolume >= *entry.VolumeThreshold {
		v, p := currentVolume, currentPrice
		intents = append(intents, model.AlertIntent{
			UserID:          entry.UserID,
			ItemID:          entry.ItemID,
			Type:            model.AlertTypeVolumeDump,
			TriggeredVolume: &v,
			TriggeredPrice:  &p,
		})
	}

	// 跌幅阈值：相对基线均价的百分比跌幅
	if entry.PriceDropThreshold != nil && pattern != nil && pattern.AvgPrice24h > 0 && currentPrice > 0 {
		dropPct := (pattern.AvgPrice24h - currentPrice) / pattern.AvgPrice24h * 100
		if dropPct >= *entry.PriceDropThreshold {
			p, d := currentPrice, dropPct
			intents = append(intents, model.AlertIntent{
				UserID:           entry.UserID,
				ItemID:           entry.ItemID,
				Type:             model.AlertTypePriceDrop,
				TriggeredPrice:   &p,
				PriceDropPercent: &d,
			})
		}
	}

	// 涨幅阈值：相对基线均价的百分比涨幅
	if entry.PriceSpikeThreshold != nil && pattern != nil && pattern.AvgPrice24h > 0 && currentPrice > 0 {
		risePct := (currentPrice - pattern.AvgPrice24h) / pattern.AvgPrice24h * 100
		if risePct >= *entry.PriceSpikeThreshold {
			p := currentPrice
			intents = append(intents, model.AlertIntent{
				UserID:         entry.UserID,
				ItemID:         entry.ItemID,
				Type:           model.AlertTypePriceSpike,
				TriggeredPrice: &p,
			})
		}
	}

	// 异常活动：偏离基线的量价行为
	if entry.AbnormalActivity && pattern != nil && e.isAbnormal(snap, pattern) {
		v, p := currentVolume, currentPrice
		intents = append(intents, model.AlertIntent{
			UserID:          entry.UserID,
			ItemID:          entry.ItemID,
			Type:            model.AlertTypeAbnormal,
			TriggeredVolume: &v,
			TriggeredPrice:  &p,
		})
	}

	return intents
}

// isAbnormal 偏离基线判定：成交量突破动态放量阈值，
// 或价格相对偏离经波动率归一化后超过触发值。
// 基线比较公式在产品侧尚未定稿，此处为暂定实现
func (e *WatchEvaluator) isAbnormal(snap *model.ItemSnapshot, pattern *model.ActivityPattern) bool {
	if pattern.VolumeSpikeThreshold > 0 &&
		snap.CurrentVolume24h >= pattern.VolumeSpikeThreshold &&
		snap.CurrentVolume24h >= e.cfg.MinVolumeForAnalysis {
		return true
	}

	if pattern.AvgPrice24h > 0 && snap.CurrentHighPrice > 0 {
		deviation := math.Abs(snap.CurrentHighPrice-pattern.AvgPrice24h) / pattern.AvgPrice24h
		volatility := pattern.PriceVolatility
		if volatility <= 0 {
			volatility = 0.01 // 无波动记录时按1%的底线归一化
		}
		if deviation/volatility >= e.cfg.DeviationCutoff {
			return true
		}
	}
	return false
}
