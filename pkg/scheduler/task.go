package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"GERadar/pkg/collector"
	"GERadar/pkg/config"
	"GERadar/pkg/database"
	"GERadar/pkg/engine"
	"GERadar/pkg/messaging"
	"GERadar/pkg/model"
	"GERadar/pkg/monitor"
	"GERadar/pkg/repository"
)

// Scheduler 周期任务调度器。各周期相互独立调度：
// 大宗扫描、监控评估、基线重算、冷却清理、数据源健康检查
type Scheduler struct {
	cron       *cron.Cron
	cfg        *config.Config
	feed       collector.PriceFeed
	detector   *engine.WhaleDetector
	evaluator  *engine.WatchEvaluator
	baseline   *engine.BaselineCalculator
	gate       *engine.CooldownGate
	db         *database.Postgres
	nats       *messaging.NATSClient
	monitor    *monitor.Monitor
	whaleCache *repository.WhaleCache
}

// NewScheduler 创建任务调度器
func NewScheduler(
	cfg *config.Config,
	feed collector.PriceFeed,
	detector *engine.WhaleDetector,
	evaluator *engine.WatchEvaluator,
	baseline *engine.BaselineCalculator,
	gate *engine.CooldownGate,
	db *database.Postgres,
	natsClient *messaging.NATSClient,
	healthMonitor *monitor.Monitor,
	whaleCache *repository.WhaleCache,
) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		cfg:        cfg,
		feed:       feed,
		detector:   detector,
		evaluator:  evaluator,
		baseline:   baseline,
		gate:       gate,
		db:         db,
		nats:       natsClient,
		monitor:    healthMonitor,
		whaleCache: whaleCache,
	}
}

// Start 注册并启动全部周期任务
func (s *Scheduler) Start() error {
	s.monitor.RegisterComponent("price_feed")
	s.monitor.RegisterComponent("nats")
	s.monitor.RegisterComponent("whale_scan")

	jobs := []struct {
		spec string
		name string
		fn   func()
	}{
		{s.cfg.Schedules.WhaleScan, "whale_scan", s.runWhaleScan},
		{s.cfg.Schedules.WatchEval, "watch_eval", s.runWatchCycle},
		{s.cfg.Schedules.Baseline, "baseline", s.runBaselineCycle},
		{s.cfg.Schedules.CooldownSweep, "cooldown_sweep", s.runCooldownSweep},
		{s.cfg.Schedules.DataHealth, "data_health", s.checkDataHealth},
	}
	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, job.fn); err != nil {
			return fmt.Errorf("注册周期任务 %s 失败: %w", job.name, err)
		}
	}

	s.cron.Start()
	log.Println("调度器已启动")
	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// runWhaleScan 大宗交易扫描周期。扫描级错误整轮放弃，留给下一个调度点重试
func (s *Scheduler) runWhaleScan() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Engine.Whale.ScanTimeout)
	defer cancel()

	result, err := s.detector.Scan(ctx)
	if err != nil {
		log.Printf("大宗扫描失败: %v", err)
		s.monitor.UpdateStatus("whale_scan", "degraded", err.Error())
		return
	}
	s.monitor.UpdateStatus("whale_scan", "healthy", "")

	s.whaleCache.Set(result)
	if s.nats != nil {
		if err := s.nats.PublishWhaleScan(result); err != nil {
			log.Printf("发布扫描结果失败: %v", err)
		}
	}
	log.Printf("大宗扫描完成: 分析=%d 命中=%d (大宗=%d 其他=%d)",
		result.TotalAnalyzed, len(result.Targets), result.BulkFound, result.OtherFound)
}

// runWatchCycle 监控评估周期：逐条评估启用中的监控配置并提交冷却闸门
func (s *Scheduler) runWatchCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.DataSources.WikiPrices.Timeout*3)
	defer cancel()

	entries, err := s.db.Watchlist().ListActive()
	if err != nil {
		log.Printf("读取监控配置失败: %v", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	latest, err := s.feed.FetchLatest(ctx)
	if err != nil {
		log.Printf("获取最新行情失败，跳过本轮评估: %v", err)
		return
	}
	volumes, err := s.feed.FetchVolumes(ctx)
	if err != nil {
		log.Printf("获取成交量失败，跳过本轮评估: %v", err)
		return
	}

	accepted, suppressed := 0, 0
	for _, entry := range entries {
		price, ok := latest[entry.ItemID]
		if !ok {
			continue // 无行情的物品跳过
		}
		snap := &model.ItemSnapshot{
			ID:               entry.ItemID,
			Name:             entry.ItemName,
			CurrentHighPrice: price.High,
			CurrentVolume24h: volumes[entry.ItemID],
		}

		pattern, err := s.db.Pattern().Get(entry.ItemID)
		if err != nil {
			log.Printf("读取物品 %d 基线失败: %v", entry.ItemID, err)
			pattern = nil
		}

		for _, intent := range s.evaluator.Evaluate(entry, snap, pattern) {
			ok, err := s.gate.Submit(intent)
			if err != nil {
				log.Printf("提交告警意图失败: %v", err)
				continue
			}
			if ok {
				accepted++
			} else {
				suppressed++
			}
		}
	}

	if accepted > 0 || suppressed > 0 {
		log.Printf("监控评估完成: 放行=%d 抑制=%d", accepted, suppressed)
	}
}

// runBaselineCycle 基线重算周期，独立于告警评估
func (s *Scheduler) runBaselineCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Engine.Whale.ScanTimeout)
	defer cancel()

	itemIDs, err := s.db.Watchlist().ListActiveItemIDs()
	if err != nil {
		log.Printf("读取监控物品列表失败: %v", err)
		return
	}
	if len(itemIDs) == 0 {
		return
	}

	latest, err := s.feed.FetchLatest(ctx)
	if err != nil {
		log.Printf("获取最新行情失败，跳过基线重算: %v", err)
		return
	}

	updated := s.baseline.RefreshAll(ctx, itemIDs, latest, s.db.Pattern())
	log.Printf("基线重算完成: %d/%d", updated, len(itemIDs))
}

// runCooldownSweep 冷却清理周期，热路径之外回收过期行
func (s *Scheduler) runCooldownSweep() {
	s.gate.Sweep()
}

// checkDataHealth 数据源健康检查
func (s *Scheduler) checkDataHealth() {
	s.monitor.CheckHTTPEndpoint("price_feed", s.cfg.DataSources.WikiPrices.BaseURL+"/latest")

	if s.nats != nil && s.nats.IsConnected() {
		s.monitor.UpdateStatus("nats", "healthy", "")
	} else {
		s.monitor.UpdateStatus("nats", "unhealthy", "NATS连接不可用")
	}
}
