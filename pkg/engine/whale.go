// pkg/engine/whale.go
package engine

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"GERadar/pkg/collector"
	"GERadar/pkg/config"
	"GERadar/pkg/model"
)

// WhaleDetector 大宗交易检测器：扫描全目录，标记具有鲸鱼交易特征的物品
type WhaleDetector struct {
	cfg      *config.WhaleConfig
	feed     collector.PriceFeed
	iconBase string
	bulk     map[string]struct{} // 已知大宗交易物品，小写名索引
}

// candidate 通过预过滤的待分析物品
type candidate struct {
	meta      model.ItemMeta
	highPrice float64
	volume24h float64
}

// NewWhaleDetector 创建大宗交易检测器
func NewWhaleDetector(cfg *config.WhaleConfig, iconBase string, feed collector.PriceFeed) *WhaleDetector {
	bulk := make(map[string]struct{}, len(bulkReferenceItems))
	for _, name := range bulkReferenceItems {
		bulk[strings.ToLower(name)] = struct{}{}
	}
	return &WhaleDetector{cfg: cfg, feed: feed, iconBase: iconBase, bulk: bulk}
}

// Scan 执行一轮全目录扫描。目录、最新价、成交量任一数据源不可用时整轮中止，
// 绝不输出部分排名；单个物品的历史拉取失败只跳过该物品
func (d *WhaleDetector) Scan(ctx context.Context) (*model.WhaleScanResult, error) {
	mapping, err := d.feed.FetchMapping(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取物品目录失败，扫描中止: %w", err)
	}
	latest, err := d.feed.FetchLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取最新行情失败，扫描中止: %w", err)
	}
	volumes, err := d.feed.FetchVolumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取成交量数据失败，扫描中止: %w", err)
	}

	// 预过滤先于任何单物品历史拉取，控制扇出成本
	candidates := d.prefilter(mapping, latest, volumes)
	log.Printf("预过滤后待分析物品数: %d", len(candidates))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		targets []model.WhaleSignal
	)

	// 计数信号量：提交侧在池满时阻塞，而不是无界排队
	tokens := make(chan struct{}, d.cfg.ScanWorkers)

submit:
	for _, c := range candidates {
		select {
		case <-ctx.Done():
			break submit
		case tokens <- struct{}{}:
		}

		wg.Add(1)
		go func(c candidate) {
			defer wg.Done()
			defer func() { <-tokens }()

			if ctx.Err() != nil {
				return // 已取消的物品直接放弃，不产出半成品
			}
			if signal := d.analyzeItem(ctx, c); signal != nil {
				mu.Lock()
				targets = append(targets, *signal)
				mu.Unlock()
			}
		}(c)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("目录扫描被取消: %w", err)
	}

	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Score > targets[j].Score
	})

	result := &model.WhaleScanResult{
		LastUpdated:   time.Now(),
		Targets:       targets,
		TotalAnalyzed: len(candidates),
	}
	for _, t := range targets {
		if t.IsBulkItem {
			result.BulkFound++
		} else {
			result.OtherFound++
		}
	}
	return result, nil
}

// prefilter 目录级预过滤：无名称、价格过低、名称命中排除子串、无量的物品不进入扇出
func (d *WhaleDetector) prefilter(mapping []model.ItemMeta, latest map[int]model.LatestPrice, volumes map[int]float64) []candidate {
	candidates := make([]candidate, 0, len(mapping))
	for _, item := range mapping {
		if item.Name == "" {
			continue
		}
		price, ok := latest[item.ID]
		if !ok || price.High <= d.cfg.MinPrice {
			continue
		}
		if d.excludedName(item.Name) {
			continue
		}
		volume := volumes[item.ID]
		if volume == 0 {
			continue
		}
		candidates = append(candidates, candidate{meta: item, highPrice: price.High, volume24h: volume})
	}
	return candidates
}

func (d *WhaleDetector) excludedName(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range d.cfg.ExcludedNames {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// analyzeItem 拉取单物品滚动历史并做加法计分。
// 拉取失败或样本不足返回 nil，调用方只跳过该物品
func (d *WhaleDetector) analyzeItem(ctx context.Context, c candidate) *model.WhaleSignal {
	history, err := d.feed.FetchTimeseries(ctx, c.meta.ID, model.Timeframe(d.cfg.HistoryTimestep))
	if err != nil {
		log.Printf("物品 %d 历史拉取失败，跳过: %v", c.meta.ID, err)
		return nil
	}
	if len(history) < 2 {
		return nil
	}

	window := history
	if len(window) > d.cfg.WindowBars {
		window = window[len(window)-d.cfg.WindowBars:]
	}

	// 滚动基线：平均成交量与平均价，价格缺失回退到当前价
	volSum, priceSum := 0.0, 0.0
	for _, bar := range window {
		volSum += bar.Volume()
		if bar.AvgHighPrice != nil {
			priceSum += *bar.AvgHighPrice
		} else {
			priceSum += c.highPrice
		}
	}
	avgVolume := volSum / float64(len(window))
	avgPrice := priceSum / float64(len(window))

	currentPrice := c.highPrice
	currentVolume := c.volume24h

	score := 0
	var reasons []string

	// 规则1：放量
	if avgVolume > d.cfg.MinAvgVolume {
		volumeRatio := currentVolume / avgVolume
		if volumeRatio > d.cfg.VolumeSpikeRatio {
			score += d.cfg.VolumeSpikePoints
			reasons = append(reasons, fmt.Sprintf("Volume Spike: %.1fx the %s average.", volumeRatio, d.cfg.HistoryTimestep))
		}
	}

	// 规则2：价格异动，拉升与砸盘互斥
	if avgPrice > 0 {
		priceRatio := currentPrice / avgPrice
		if priceRatio > 1+d.cfg.PriceMoveRatio {
			score += d.cfg.PriceMovePoints
			reasons = append(reasons, fmt.Sprintf("Price Spike: Up %.0f%% vs %s average.", (priceRatio-1)*100, d.cfg.HistoryTimestep))
		} else if priceRatio < 1-d.cfg.PriceMoveRatio {
			score += d.cfg.PriceMovePoints
			reasons = append(reasons, fmt.Sprintf("Price Dump: Down %.0f%% vs %s average.", (1-priceRatio)*100, d.cfg.HistoryTimestep))
		}
	}

	// 规则3：成交额下限
	tradeValue := currentPrice * currentVolume
	if tradeValue > d.cfg.TradeValueFloor {
		score += d.cfg.TradeValuePoints
		reasons = append(reasons, fmt.Sprintf("High Daily Value: %.1fB GP traded.", tradeValue/1_000_000_000))
	}

	// 规则4：已知大宗物品加分
	_, isBulkItem := d.bulk[strings.ToLower(c.meta.Name)]
	if isBulkItem {
		score += d.cfg.BulkBonusPoints
		reasons = append(reasons, "Known bulk trading item.")
	}

	// 规则5：大额交易启发式
	if currentVolume > d.cfg.LargeTxVolume && currentPrice > d.cfg.LargeTxPrice {
		score += d.cfg.LargeTxPoints
		reasons = append(reasons, "Large transaction activity detected.")
	}

	if score < d.cfg.InclusionThreshold {
		return nil
	}
	if score > 100 {
		score = 100
	}

	return &model.WhaleSignal{
		ID:            c.meta.ID,
		Name:          c.meta.Name,
		Icon:          d.iconBase + strings.ReplaceAll(c.meta.Icon, " ", "_"),
		Score:         score,
		Reasons:       reasons,
		CurrentPrice:  currentPrice,
		AvgPrice:      avgPrice,
		CurrentVolume: currentVolume,
		AvgVolume:     avgVolume,
		IsBulkItem:    isBulkItem,
	}
}
