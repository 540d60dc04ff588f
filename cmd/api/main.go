package main

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"GERadar/pkg/api"
	"GERadar/pkg/collector"
	"GERadar/pkg/config"
	"GERadar/pkg/database"
	"GERadar/pkg/engine"
	"GERadar/pkg/messaging"
	"GERadar/pkg/model"
	"GERadar/pkg/monitor"
	"GERadar/pkg/repository"
)

func main() {
	log.Println("启动API服务器...")

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v\n", err)
	}

	// 连接数据库
	db, err := database.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("连接数据库失败: %v\n", err)
	}
	defer db.Close()

	// 连接NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("连接NATS失败: %v\n", err)
	}
	defer natsClient.Close()

	feed := collector.NewWikiClient(cfg)
	scorer := engine.NewRiskScorer(&cfg.Engine.Risk)

	healthMonitor := monitor.NewMonitor(func(component, status, message string) {
		log.Printf("组件状态异常: %s -> %s (%s)", component, status, message)
	})
	healthMonitor.RegisterComponent("price_feed")
	healthMonitor.RegisterComponent("nats")

	// 订阅巨鲸扫描结果，维护本地缓存供查询接口使用
	whaleCache := repository.NewWhaleCache()
	err = natsClient.Subscribe("WHALE_STREAM", "api-whale-cache", messaging.SubjectWhaleScan,
		func(data []byte) error {
			var result model.WhaleScanResult
			if err := json.Unmarshal(data, &result); err != nil {
				return err
			}
			whaleCache.Set(&result)
			log.Printf("更新巨鲸缓存: %d 个目标\n", len(result.Targets))
			return nil
		})
	if err != nil {
		log.Fatalf("订阅巨鲸扫描结果失败: %v\n", err)
	}

	// 定期刷新依赖组件的健康状态
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			healthMonitor.CheckHTTPEndpoint("price_feed", cfg.DataSources.WikiPrices.BaseURL+"/latest")
			if natsClient.IsConnected() {
				healthMonitor.UpdateStatus("nats", "healthy", "")
			} else {
				healthMonitor.UpdateStatus("nats", "unhealthy", "NATS连接断开")
			}
		}
	}()

	handlers := api.NewHandlers(feed, scorer, whaleCache, db, healthMonitor)

	server := api.NewServer(cfg)
	server.SetupRoutes(handlers)
	server.Start()
}
