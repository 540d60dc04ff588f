// pkg/model/risk.go
package model

// RiskLabel 风险等级标签
type RiskLabel string

const (
	LabelStable   RiskLabel = "Stable"
	LabelModerate RiskLabel = "Moderate"
	LabelVolatile RiskLabel = "Volatile"
	LabelRisky    RiskLabel = "Risky"
)

// RiskBreakdown 各维度子分，均在 [0,100]
type RiskBreakdown struct {
	Liquidity  int `json:"liquidity"`
	Volatility int `json:"volatility"`
	Spikes     int `json:"spikes"`
	Gaps       int `json:"gaps"`
}

// RiskMeta 评分元信息
type RiskMeta struct {
	Spikes int `json:"spikes"` // 检出的放量突变K线数
	Bars   int `json:"bars"`   // 有效K线数
}

// RiskScore 风险评分结果，临时派生数据，不落库
type RiskScore struct {
	Score     int           `json:"score"` // [0,100]
	Label     RiskLabel     `json:"label"`
	Breakdown RiskBreakdown `json:"breakdown"`
	Meta      RiskMeta      `json:"meta"`
}
