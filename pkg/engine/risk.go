// pkg/engine/risk.go
package engine

import (
	"math"

	"GERadar/pkg/config"
	"GERadar/pkg/model"
)

// RiskScorer 风险评分器：对单个物品某一时间粒度的K线历史计算有界综合风险分。
// 纯函数，无共享状态，可被任意数量调用方并发调用
type RiskScorer struct {
	cfg *config.RiskConfig
}

// NewRiskScorer 创建风险评分器
func NewRiskScorer(cfg *config.RiskConfig) *RiskScorer {
	return &RiskScorer{cfg: cfg}
}

// Compute 计算风险评分。weights 为 nil 时使用配置默认权重。
// 有效K线不足 MinBars 时样本太少，直接返回零分 Stable
func (s *RiskScorer) Compute(history []model.PriceBar, timeframe model.Timeframe, weights *config.RiskWeights) model.RiskScore {
	bars := make([]model.PriceBar, 0, len(history))
	for _, b := range history {
		if b.Valid() {
			bars = append(bars, b)
		}
	}
	n := len(bars)
	if n < s.cfg.MinBars {
		return model.RiskScore{Score: 0, Label: model.LabelStable, Meta: model.RiskMeta{Spikes: 0, Bars: n}}
	}

	if weights == nil {
		weights = &s.cfg.Weights
	}

	// 中间价与单根成交量
	mids := make([]float64, n)
	vols := make([]float64, n)
	for i, b := range bars {
		mids[i] = b.Mid()
		vols[i] = b.Volume()
	}

	liquidity := s.liquidityRisk(vols, timeframe)
	volatility, rets := s.volatilityRisk(bars, mids)
	spikes, spikeCount := s.spikeRisk(vols, rets, n)
	gaps := s.gapRisk(bars, mids)

	score01 := clamp01(
		weights.Liquidity*liquidity +
			weights.Volatility*volatility +
			weights.Spikes*spikes +
			weights.Gaps*gaps,
	)
	score := int(math.Round(score01 * 100))

	return model.RiskScore{
		Score: score,
		Label: s.labelFor(score),
		Breakdown: model.RiskBreakdown{
			Liquidity:  int(math.Round(liquidity * 100)),
			Volatility: int(math.Round(volatility * 100)),
			Spikes:     int(math.Round(spikes * 100)),
			Gaps:       int(math.Round(gaps * 100)),
		},
		Meta: model.RiskMeta{Spikes: spikeCount, Bars: n},
	}
}

// liquidityRisk 流动性风险：总量越低、零量K线越多风险越高
func (s *RiskScorer) liquidityRisk(vols []float64, timeframe model.Timeframe) float64 {
	volSum := 0.0
	zero := 0.0
	for _, v := range vols {
		volSum += v
		if v == 0 {
			zero++
		}
	}
	scale, ok := s.cfg.VolumeScales[string(timeframe)]
	if !ok {
		scale = s.cfg.VolumeScales[string(model.Timeframe1h)]
	}
	return clamp01(0.7*(1-clamp01(pct(volSum, scale))) + 0.3*pct(zero, float64(len(vols))))
}

// volatilityRisk 波动风险：对数收益率RMS与相对价差中位数的加权，
// 返回波动子分与收益率序列（突变检测复用）
func (s *RiskScorer) volatilityRisk(bars []model.PriceBar, mids []float64) (float64, []float64) {
	n := len(mids)
	rets := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		p0, p1 := mids[i-1], mids[i]
		if p0 > 0 && p1 > 0 {
			rets = append(rets, math.Log(p1/p0))
		}
	}

	sumSq := 0.0
	for _, r := range rets {
		sumSq += r * r
	}
	sigma := math.Sqrt(sumSq / math.Max(1, float64(len(rets))))

	medPrice := median(mids)
	spreads := make([]float64, n)
	for i, b := range bars {
		var h, l float64
		if b.AvgHighPrice != nil {
			h = *b.AvgHighPrice
		}
		if b.AvgLowPrice != nil {
			l = *b.AvgLowPrice
		}
		m := (h + l) / 2
		if m == 0 {
			m = medPrice
		}
		if m == 0 {
			m = 1
		}
		spreads[i] = math.Abs(h-l) / m
	}
	spread := median(spreads)

	normSigma := clamp01(sigma / s.cfg.SigmaScale)
	normSpread := clamp01(spread / s.cfg.SpreadScale)
	return clamp01(0.6*normSigma + 0.4*normSpread), rets
}

// spikeRisk 突变风险：成交量突变（绝对变化或MAD z分超限）且伴随价格跳动才算突变
func (s *RiskScorer) spikeRisk(vols, rets []float64, n int) (float64, int) {
	volMed := median(vols)
	volMad := mad(vols, volMed)
	if volMad == 0 {
		volMad = 1
	}

	spikeCount := 0
	for i := 1; i < n; i++ {
		dv := math.Abs(vols[i] - vols[i-1])
		zv := math.Abs((vols[i] - volMed) / volMad)
		ret := 0.0
		if i-1 < len(rets) {
			ret = math.Abs(rets[i-1])
		}
		if (dv >= s.cfg.SpikeAbsVolumeDelta || zv >= s.cfg.SpikeZScoreCutoff) && ret >= s.cfg.SpikeMinPriceMove {
			spikeCount++
		}
	}
	return clamp01(float64(spikeCount) / math.Max(1, float64(n)) * s.cfg.SpikeRateScale), spikeCount
}

// gapRisk 缺口风险：单根最大跳价与时间戳断档占比各占一半
func (s *RiskScorer) gapRisk(bars []model.PriceBar, mids []float64) float64 {
	n := len(mids)
	maxGapPct := 0.0
	missing := 0.0
	nominal := bars[1].Timestamp - bars[0].Timestamp
	for i := 1; i < n; i++ {
		p0, p1 := mids[i-1], mids[i]
		if p0 > 0 && p1 > 0 {
			maxGapPct = math.Max(maxGapPct, math.Abs(p1-p0)/p0)
		}
		if bars[i].Timestamp-bars[i-1].Timestamp > 2*nominal {
			missing++
		}
	}
	return clamp01(0.5*clamp01(maxGapPct/s.cfg.MaxGapScale) + 0.5*pct(missing, float64(n)))
}

// labelFor 按有序阈值表给分数定级
func (s *RiskScorer) labelFor(score int) model.RiskLabel {
	switch {
	case score < s.cfg.LabelStableMax:
		return model.LabelStable
	case score < s.cfg.LabelModerateMax:
		return model.LabelModerate
	case score < s.cfg.LabelVolatileMax:
		return model.LabelVolatile
	default:
		return model.LabelRisky
	}
}
