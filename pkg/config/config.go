package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// APIIdentity 行情接口身份（User-Agent + 联系方式 + 可选API密钥）
type APIIdentity struct {
	UserAgent string `yaml:"user_agent"`
	Contact   string `yaml:"contact"`
	APIKey    string `yaml:"api_key"`
}

// RiskWeights 风险评分四个维度的权重，每项 ∈ [0,1]
type RiskWeights struct {
	Liquidity  float64 `yaml:"liquidity"`
	Volatility float64 `yaml:"volatility"`
	Spikes     float64 `yaml:"spikes"`
	Gaps       float64 `yaml:"gaps"`
}

// RiskConfig 风险评分器参数。观测值未必是最优调参，全部可覆盖
type RiskConfig struct {
	MinBars             int                `yaml:"min_bars"`               // 有效K线数下限
	Weights             RiskWeights        `yaml:"weights"`                // 默认维度权重
	VolumeScales        map[string]float64 `yaml:"volume_scales"`          // 各时间粒度的成交量归一化尺度
	SigmaScale          float64            `yaml:"sigma_scale"`            // 对数收益率RMS的参考尺度
	SpreadScale         float64            `yaml:"spread_scale"`           // 相对价差中位数的参考尺度
	SpikeAbsVolumeDelta float64            `yaml:"spike_abs_volume_delta"` // 相邻K线成交量绝对变化触发值
	SpikeZScoreCutoff   float64            `yaml:"spike_zscore_cutoff"`    // MAD z分触发值
	SpikeMinPriceMove   float64            `yaml:"spike_min_price_move"`   // 突变须伴随的最小对数收益幅度
	SpikeRateScale      float64            `yaml:"spike_rate_scale"`       // 突变占比放大系数
	MaxGapScale         float64            `yaml:"max_gap_scale"`          // 单根最大跳价的参考尺度
	LabelStableMax      int                `yaml:"label_stable_max"`
	LabelModerateMax    int                `yaml:"label_moderate_max"`
	LabelVolatileMax    int                `yaml:"label_volatile_max"`
}

// WhaleConfig 大宗交易扫描器参数
type WhaleConfig struct {
	MinPrice           float64       `yaml:"min_price"`          // 预过滤价格下限
	ExcludedNames      []string      `yaml:"excluded_names"`     // 名称排除子串（装饰类物品）
	HistoryTimestep    string        `yaml:"history_timestep"`   // 滚动历史粒度
	WindowBars         int           `yaml:"window_bars"`        // 滚动窗口K线数
	MinAvgVolume       float64       `yaml:"min_avg_volume"`     // 放量规则要求的基线成交量下限
	VolumeSpikeRatio   float64       `yaml:"volume_spike_ratio"` // 放量倍数触发值
	PriceMoveRatio     float64       `yaml:"price_move_ratio"`   // 涨跌幅触发比例
	TradeValueFloor    float64       `yaml:"trade_value_floor"`  // 成交额下限
	LargeTxVolume      float64       `yaml:"large_tx_volume"`    // 大额交易启发式：成交量下限
	LargeTxPrice       float64       `yaml:"large_tx_price"`     // 大额交易启发式：价格下限
	VolumeSpikePoints  int           `yaml:"volume_spike_points"`
	PriceMovePoints    int           `yaml:"price_move_points"`
	TradeValuePoints   int           `yaml:"trade_value_points"`
	BulkBonusPoints    int           `yaml:"bulk_bonus_points"`
	LargeTxPoints      int           `yaml:"large_tx_points"`
	InclusionThreshold int           `yaml:"inclusion_threshold"` // 入选总分下限
	ScanWorkers        int           `yaml:"scan_workers"`        // 历史拉取并发上限
	ScanTimeout        time.Duration `yaml:"scan_timeout"`
}

// AbnormalConfig 异常活动基线参数
type AbnormalConfig struct {
	VolumeSpikeMultiplier float64 `yaml:"volume_spike_multiplier"` // 动态放量阈值倍数
	MinVolumeForAnalysis  float64 `yaml:"min_volume_for_analysis"`
	DeviationCutoff       float64 `yaml:"deviation_cutoff"` // 价格偏离/波动率的触发值
	Window24hBars         int     `yaml:"window_24h_bars"`  // 1h粒度下的24h窗口
	Window7dBars          int     `yaml:"window_7d_bars"`   // 6h粒度下的7d窗口
}

// AlertConfig 告警管线参数
type AlertConfig struct {
	CooldownMinutes int `yaml:"cooldown_minutes"` // 同键两次告警的最小间隔
	ChannelBuffer   int `yaml:"channel_buffer"`
}

// EngineConfig 引擎调参汇总
type EngineConfig struct {
	Risk     RiskConfig     `yaml:"risk"`
	Whale    WhaleConfig    `yaml:"whale"`
	Abnormal AbnormalConfig `yaml:"abnormal"`
	Alert    AlertConfig    `yaml:"alert"`
}

// Config 应用配置
type Config struct {
	App struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"`
	} `yaml:"app"`

	DataSources struct {
		WikiPrices struct {
			BaseURL          string        `yaml:"base_url"`
			IconBaseURL      string        `yaml:"icon_base_url"`
			Timeout          time.Duration `yaml:"timeout"`
			RotationInterval time.Duration `yaml:"rotation_interval"`
			Identities       []APIIdentity `yaml:"identities"`
		} `yaml:"wiki_prices"`
	} `yaml:"data_sources"`

	Database struct {
		Postgres struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			DBName   string `yaml:"dbname"`
			SSLMode  string `yaml:"sslmode"`
		} `yaml:"postgres"`
	} `yaml:"database"`

	NATS struct {
		URL      string `yaml:"url"`
		ClientID string `yaml:"client_id"`
	} `yaml:"nats"`

	API struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"api"`

	Schedules struct {
		WhaleScan     string `yaml:"whale_scan"`
		WatchEval     string `yaml:"watch_eval"`
		Baseline      string `yaml:"baseline"`
		CooldownSweep string `yaml:"cooldown_sweep"`
		DataHealth    string `yaml:"data_health"`
	} `yaml:"schedules"`

	Engine EngineConfig `yaml:"engine"`
}

// Default 返回带默认值的配置，数值来自线上观测行为
func Default() *Config {
	cfg := &Config{}
	cfg.App.Name = "geradar"
	cfg.App.Env = "dev"

	cfg.DataSources.WikiPrices.BaseURL = "https://prices.runescape.wiki/api/v1/osrs"
	cfg.DataSources.WikiPrices.IconBaseURL = "https://oldschool.runescape.wiki/images/"
	cfg.DataSources.WikiPrices.Timeout = 10 * time.Second
	cfg.DataSources.WikiPrices.RotationInterval = 30 * time.Second

	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Postgres.Port = 5432
	cfg.Database.Postgres.User = "geradar"
	cfg.Database.Postgres.DBName = "geradar"
	cfg.Database.Postgres.SSLMode = "disable"

	cfg.NATS.URL = "nats://localhost:4222"
	cfg.NATS.ClientID = "geradar"

	cfg.API.Port = "8080"
	cfg.API.ReadTimeout = 10 * time.Second
	cfg.API.WriteTimeout = 10 * time.Second

	cfg.Schedules.WhaleScan = "@every 5m"
	cfg.Schedules.WatchEval = "@every 1m"
	cfg.Schedules.Baseline = "@every 1h"
	cfg.Schedules.CooldownSweep = "@every 10m"
	cfg.Schedules.DataHealth = "@every 5m"

	cfg.Engine = EngineConfig{
		Risk: RiskConfig{
			MinBars: 10,
			Weights: RiskWeights{Liquidity: 0.30, Volatility: 0.35, Spikes: 0.20, Gaps: 0.15},
			VolumeScales: map[string]float64{
				"5m":  2_000_000,
				"1h":  10_000_000,
				"6h":  50_000_000,
				"24h": 200_000_000,
			},
			SigmaScale:          0.05,
			SpreadScale:         0.05,
			SpikeAbsVolumeDelta: 2_000_000,
			SpikeZScoreCutoff:   3,
			SpikeMinPriceMove:   0.03,
			SpikeRateScale:      5,
			MaxGapScale:         0.10,
			LabelStableMax:      25,
			LabelModerateMax:    50,
			LabelVolatileMax:    70,
		},
		Whale: WhaleConfig{
			MinPrice:           10,
			ExcludedNames:      []string{"3rd age"},
			HistoryTimestep:    "6h",
			WindowBars:         24,
			MinAvgVolume:       50,
			VolumeSpikeRatio:   2.0,
			PriceMoveRatio:     0.05,
			TradeValueFloor:    500_000_000,
			LargeTxVolume:      100_000,
			LargeTxPrice:       10_000,
			VolumeSpikePoints:  35,
			PriceMovePoints:    25,
			TradeValuePoints:   20,
			BulkBonusPoints:    5,
			LargeTxPoints:      15,
			InclusionThreshold: 25,
			ScanWorkers:        8,
			ScanTimeout:        4 * time.Minute,
		},
		Abnormal: AbnormalConfig{
			VolumeSpikeMultiplier: 3.0,
			MinVolumeForAnalysis:  1000,
			DeviationCutoff:       3.0,
			Window24hBars:         24,
			Window7dBars:          28,
		},
		Alert: AlertConfig{
			CooldownMinutes: 60,
			ChannelBuffer:   100,
		},
	}

	return cfg
}

// LoadConfig 从文件加载配置，缺省值先填充再被文件覆盖
func LoadConfig(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 环境变量覆盖
	overrideFromEnv(config)

	return config, nil
}

// overrideFromEnv 使用环境变量覆盖配置
func overrideFromEnv(config *Config) {
	if env := os.Getenv("APP_NAME"); env != "" {
		config.App.Name = env
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		config.App.Env = env
	}

	// 行情源配置
	if env := os.Getenv("WIKI_PRICES_BASE_URL"); env != "" {
		config.DataSources.WikiPrices.BaseURL = env
	}

	// 数据库配置
	if env := os.Getenv("DB_HOST"); env != "" {
		config.Database.Postgres.Host = env
	}
	if env := os.Getenv("DB_PORT"); env != "" {
		var port int
		fmt.Sscanf(env, "%d", &port)
		if port > 0 {
			config.Database.Postgres.Port = port
		}
	}
	if env := os.Getenv("DB_USER"); env != "" {
		config.Database.Postgres.User = env
	}
	if env := os.Getenv("DB_PASSWORD"); env != "" {
		config.Database.Postgres.Password = env
	}
	if env := os.Getenv("DB_NAME"); env != "" {
		config.Database.Postgres.DBName = env
	}

	// NATS配置
	if env := os.Getenv("NATS_URL"); env != "" {
		config.NATS.URL = env
	}
	if env := os.Getenv("NATS_CLIENT_ID"); env != "" {
		config.NATS.ClientID = env
	}

	// API配置
	if env := os.Getenv("API_PORT"); env != "" {
		config.API.Port = env
	}
}

// GetDefaultConfigPath 获取默认配置文件路径
func GetDefaultConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev" // 默认开发环境
	}

	return fmt.Sprintf("configs/%s/app.yaml", env)
}
