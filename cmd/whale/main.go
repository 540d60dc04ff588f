package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"GERadar/pkg/collector"
	"GERadar/pkg/config"
	"GERadar/pkg/engine"
)

// 一次性执行全目录巨鲸扫描并输出结果，便于排查与手工核对
func main() {
	log.Println("开始巨鲸活动扫描...")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v\n", err)
	}

	feed := collector.NewWikiClient(cfg)
	detector := engine.NewWhaleDetector(&cfg.Engine.Whale, cfg.DataSources.WikiPrices.IconBaseURL, feed)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Engine.Whale.ScanTimeout)
	defer cancel()

	start := time.Now()
	result, err := detector.Scan(ctx)
	if err != nil {
		log.Fatalf("扫描失败: %v\n", err)
	}

	log.Printf("扫描完成: 分析 %d 个物品, 发现 %d 个目标 (大宗 %d / 其他 %d), 耗时 %s\n",
		result.TotalAnalyzed, len(result.Targets), result.BulkFound, result.OtherFound,
		time.Since(start).Round(time.Millisecond))

	limit := 10
	if len(result.Targets) < limit {
		limit = len(result.Targets)
	}
	for i := 0; i < limit; i++ {
		t := result.Targets[i]
		tag := "OTHER"
		if t.IsBulkItem {
			tag = "BULK"
		}
		log.Printf("#%d [%s] %s 得分=%d 价格=%.0f 成交量=%.0f\n",
			i+1, tag, t.Name, t.Score, t.CurrentPrice, t.CurrentVolume)
		log.Printf("    依据: %s\n", strings.Join(t.Reasons, "; "))
	}
}
