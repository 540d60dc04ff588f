package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GERadar/pkg/collector"
	"GERadar/pkg/config"
	"GERadar/pkg/database"
	"GERadar/pkg/engine"
	"GERadar/pkg/messaging"
	"GERadar/pkg/model"
	"GERadar/pkg/monitor"
	"GERadar/pkg/repository"
	"GERadar/pkg/scheduler"
)

func main() {
	log.Println("启动市场异动检测引擎...")

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

	// 行情客户端
	feed := collector.NewWikiClient(cfg)

	// 告警通道与冷却闸门
	alertChan := make(chan model.AlertIntent, cfg.Engine.Alert.ChannelBuffer)
	cooldown := time.Duration(cfg.Engine.Alert.CooldownMinutes) * time.Minute
	gate := engine.NewCooldownGate(db.Cooldown(), cooldown, alertChan)

	// 引擎组件
	detector := engine.NewWhaleDetector(&cfg.Engine.Whale, cfg.DataSources.WikiPrices.IconBaseURL, feed)
	evaluator := engine.NewWatchEvaluator(&cfg.Engine.Abnormal)
	baseline := engine.NewBaselineCalculator(&cfg.Engine.Abnormal, feed)

	healthMonitor := monitor.NewMonitor(func(component, status, message string) {
		log.Printf("组件状态异常: %s -> %s (%s)", component, status, message)
	})
	whaleCache := repository.NewWhaleCache()

	// 启动告警处理
	go processAlerts(alertChan, db, natsClient)

	// 启动调度器
	sched := scheduler.NewScheduler(cfg, feed, detector, evaluator, baseline, gate,
		db, natsClient, healthMonitor, whaleCache)
	if err := sched.Start(); err != nil {
		log.Fatalf("启动调度器失败: %v\n", err)
	}
	defer sched.Stop()

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("正在关闭市场异动检测引擎...")
}

// processAlerts 消费放行的告警意图：落库并发布给外部通知服务
func processAlerts(alertChan <-chan model.AlertIntent, db *database.Postgres, natsClient *messaging.NATSClient) {
	for intent := range alertChan {
		log.Printf("放行告警: 用户=%s 物品=%d 类型=%s",
			intent.UserID, intent.ItemID, intent.Type)

		record := &model.AlertRecord{
			UserID:           intent.UserID,
			ItemID:           intent.ItemID,
			Type:             intent.Type,
			TriggeredVolume:  intent.TriggeredVolume,
			TriggeredPrice:   intent.TriggeredPrice,
			PriceDropPercent: intent.PriceDropPercent,
		}
		if err := db.Alert().Save(record); err != nil {
			log.Printf("保存告警记录失败: %v\n", err)
			continue
		}

		if err := natsClient.PublishAlert(record); err != nil {
			log.Printf("发布告警失败: %v\n", err)
			continue
		}
		if err := db.Alert().MarkSent(record.ID); err != nil {
			log.Printf("标记告警已发送失败: %v\n", err)
		}
	}
}
