package engine

import (
	"testing"

	"GERadar/pkg/config"
	"GERadar/pkg/model"
)

func f64(v float64) *float64 { return &v }

// makeBars 生成等间隔K线序列
func makeBars(n int, high, low, vol float64, step int64) []model.PriceBar {
	bars := make([]model.PriceBar, n)
	for i := 0; i < n; i++ {
		bars[i] = model.PriceBar{
			Timestamp:       int64(i) * step,
			AvgHighPrice:    f64(high),
			AvgLowPrice:     f64(low),
			HighPriceVolume: vol / 2,
			LowPriceVolume:  vol / 2,
		}
	}
	return bars
}

func newRiskScorer() *RiskScorer {
	cfg := config.Default()
	return NewRiskScorer(&cfg.Engine.Risk)
}

func TestComputeInsufficientBars(t *testing.T) {
	s := newRiskScorer()

	got := s.Compute(makeBars(5, 100, 100, 1000, 3600), model.Timeframe1h, nil)
	if got.Score != 0 || got.Label != model.LabelStable {
		t.Errorf("expected score 0 / Stable for 5 bars, got %d / %s", got.Score, got.Label)
	}
	if got.Meta.Bars != 5 {
		t.Errorf("expected Meta.Bars 5, got %d", got.Meta.Bars)
	}

	// 无效K线不计入样本
	invalid := make([]model.PriceBar, 24)
	for i := range invalid {
		invalid[i] = model.PriceBar{Timestamp: int64(i) * 3600, HighPriceVolume: 1000}
	}
	got = s.Compute(invalid, model.Timeframe1h, nil)
	if got.Score != 0 || got.Meta.Bars != 0 {
		t.Errorf("expected score 0 / 0 bars for all-invalid history, got %d / %d", got.Score, got.Meta.Bars)
	}
}

func TestComputeFlatSeries(t *testing.T) {
	s := newRiskScorer()

	// 价格恒定无价差：波动、突变、缺口三个维度都应为零
	got := s.Compute(makeBars(24, 100, 100, 1000, 3600), model.Timeframe1h, nil)
	if got.Breakdown.Volatility != 0 {
		t.Errorf("flat series volatility = %d, want 0", got.Breakdown.Volatility)
	}
	if got.Breakdown.Spikes != 0 || got.Meta.Spikes != 0 {
		t.Errorf("flat series spikes = %d (count %d), want 0", got.Breakdown.Spikes, got.Meta.Spikes)
	}
	if got.Breakdown.Gaps != 0 {
		t.Errorf("flat series gaps = %d, want 0", got.Breakdown.Gaps)
	}
	// 薄量市场的流动性风险应当偏高
	if got.Breakdown.Liquidity < 50 {
		t.Errorf("thin market liquidity risk = %d, want >= 50", got.Breakdown.Liquidity)
	}
	if got.Label != model.LabelStable {
		t.Errorf("flat series label = %s, want Stable", got.Label)
	}
}

func TestComputeLiquidScaleSaturation(t *testing.T) {
	s := newRiskScorer()

	// 成交量吃满归一化尺度后流动性风险归零，总分落到0
	got := s.Compute(makeBars(24, 100, 100, 1_000_000, 3600), model.Timeframe1h, nil)
	if got.Breakdown.Liquidity != 0 {
		t.Errorf("saturated liquidity risk = %d, want 0", got.Breakdown.Liquidity)
	}
	if got.Score != 0 || got.Label != model.LabelStable {
		t.Errorf("saturated flat series score = %d / %s, want 0 / Stable", got.Score, got.Label)
	}
}

func TestComputeSpreadRaisesVolatility(t *testing.T) {
	s := newRiskScorer()

	narrow := s.Compute(makeBars(24, 101, 99, 1000, 3600), model.Timeframe1h, nil)
	wide := s.Compute(makeBars(24, 110, 90, 1000, 3600), model.Timeframe1h, nil)

	if wide.Breakdown.Volatility <= narrow.Breakdown.Volatility {
		t.Errorf("wider spread should raise volatility: narrow=%d wide=%d",
			narrow.Breakdown.Volatility, wide.Breakdown.Volatility)
	}
	if wide.Score < narrow.Score {
		t.Errorf("wider spread should not lower total score: narrow=%d wide=%d",
			narrow.Score, wide.Score)
	}
}

func TestComputeDetectsVolumeSpike(t *testing.T) {
	s := newRiskScorer()

	bars := makeBars(24, 100, 100, 1000, 3600)
	// 第12根K线：成交量暴增且价格跳动超过突变幅度下限
	bars[12].AvgHighPrice = f64(105)
	bars[12].AvgLowPrice = f64(105)
	bars[12].HighPriceVolume = 2_500_000
	bars[12].LowPriceVolume = 2_500_000

	got := s.Compute(bars, model.Timeframe1h, nil)
	if got.Meta.Spikes < 1 {
		t.Errorf("expected at least 1 spike, got %d", got.Meta.Spikes)
	}
	if got.Breakdown.Spikes == 0 {
		t.Errorf("spike sub-score should be positive, got 0")
	}
}

func TestComputeBounds(t *testing.T) {
	s := newRiskScorer()

	bars := makeBars(24, 100, 100, 1000, 3600)
	for i := range bars {
		// 制造锯齿行情把各维度都推起来
		if i%2 == 0 {
			bars[i].AvgHighPrice = f64(200)
			bars[i].AvgLowPrice = f64(150)
			bars[i].HighPriceVolume = 3_000_000
		}
	}
	// 时间戳断档
	bars[20].Timestamp += 10 * 3600

	got := s.Compute(bars, model.Timeframe1h, nil)
	if got.Score < 0 || got.Score > 100 {
		t.Errorf("score out of bounds: %d", got.Score)
	}
	for name, v := range map[string]int{
		"liquidity":  got.Breakdown.Liquidity,
		"volatility": got.Breakdown.Volatility,
		"spikes":     got.Breakdown.Spikes,
		"gaps":       got.Breakdown.Gaps,
	} {
		if v < 0 || v > 100 {
			t.Errorf("%s sub-score out of bounds: %d", name, v)
		}
	}
}

func TestComputeWeights(t *testing.T) {
	s := newRiskScorer()
	bars := makeBars(24, 110, 90, 1000, 3600)

	// nil 权重等价于配置默认权重
	withNil := s.Compute(bars, model.Timeframe1h, nil)
	cfg := config.Default()
	withDefault := s.Compute(bars, model.Timeframe1h, &cfg.Engine.Risk.Weights)
	if withNil.Score != withDefault.Score {
		t.Errorf("nil weights should equal default weights: %d vs %d", withNil.Score, withDefault.Score)
	}

	// 全零权重直接得零分
	zero := s.Compute(bars, model.Timeframe1h, &config.RiskWeights{})
	if zero.Score != 0 || zero.Label != model.LabelStable {
		t.Errorf("zero weights score = %d / %s, want 0 / Stable", zero.Score, zero.Label)
	}
}

func TestLabelBoundaries(t *testing.T) {
	s := newRiskScorer()

	cases := []struct {
		score int
		want  model.RiskLabel
	}{
		{0, model.LabelStable},
		{24, model.LabelStable},
		{25, model.LabelModerate},
		{49, model.LabelModerate},
		{50, model.LabelVolatile},
		{69, model.LabelVolatile},
		{70, model.LabelRisky},
		{100, model.LabelRisky},
	}
	for _, c := range cases {
		if got := s.labelFor(c.score); got != c.want {
			t.Errorf("labelFor(%d) = %s, want %s", c.score, got, c.want)
		}
	}
}
