// pkg/messaging/nats.go
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"GERadar/pkg/model"
)

const (
	// SubjectAlertTriggered 放行后的告警载荷，通知服务消费
	SubjectAlertTriggered = "alerts.triggered"
	// SubjectWhaleScan 每轮大宗扫描的完整结果
	SubjectWhaleScan = "whales.scan"
)

// NATSClient NATS JetStream客户端 - 纯基础能力封装
type NATSClient struct {
	conn      *nats.Conn
	jetStream jetstream.JetStream
	natsURL   string
	ctx       context.Context
	cancel    context.CancelFunc
	consumers map[string]jetstream.Consumer // 消费者管理
	mu        sync.RWMutex                  // 保护consumers
}

// MessageHandler 通用消息处理函数类型
type MessageHandler func(data []byte) error

// NewNATSClient 创建新的NATS客户端
func NewNATSClient(natsURL string) (*NATSClient, error) {
	nc, err := nats.Connect(natsURL,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1), // 无限重连
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS连接断开: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Println("NATS重新连接成功")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("连接NATS失败: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("创建JetStream失败: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	client := &NATSClient{
		conn:      nc,
		jetStream: js,
		natsURL:   natsURL,
		ctx:       ctx,
		cancel:    cancel,
		consumers: make(map[string]jetstream.Consumer),
	}

	// 初始化基础Streams
	if err := client.setupStreams(); err != nil {
		log.Printf("警告: 设置Streams失败: %v", err)
	}

	return client, nil
}

// setupStreams 设置基础的Streams
func (c *NATSClient) setupStreams() error {
	streams := []jetstream.StreamConfig{
		{
			Name:        "ALERTS_STREAM",
			Subjects:    []string{"alerts.*"},
			Description: "放行告警数据流",
			Retention:   jetstream.LimitsPolicy,
			MaxMsgs:     50000,
			MaxBytes:    50 * 1024 * 1024,   // 50MB
			MaxAge:      7 * 24 * time.Hour, // 保留7天
		},
		{
			Name:        "WHALE_STREAM",
			Subjects:    []string{"whales.*"},
			Description: "大宗交易扫描结果流",
			Retention:   jetstream.LimitsPolicy,
			MaxMsgs:     10000,
			MaxBytes:    100 * 1024 * 1024, // 100MB
			MaxAge:      24 * time.Hour,    // 保留24小时
		},
	}

	for _, streamConfig := range streams {
		_, err := c.jetStream.CreateOrUpdateStream(c.ctx, streamConfig)
		if err != nil {
			log.Printf("创建/更新Stream %s 失败: %v", streamConfig.Name, err)
		} else {
			log.Printf("Stream %s 设置成功", streamConfig.Name)
		}
	}

	return nil
}

// Publish 发布消息到指定主题
func (c *NATSClient) Publish(subject string, data interface{}) error {
	var payload []byte
	var err error

	switch v := data.(type) {
	case []byte:
		payload = v
	case string:
		payload = []byte(v)
	default:
		payload, err = json.Marshal(data)
		if err != nil {
			return fmt.Errorf("序列化数据失败: %w", err)
		}
	}

	_, err = c.jetStream.Publish(c.ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("发布消息到 %s 失败: %w", subject, err)
	}

	return nil
}

// PublishAlert 发布放行告警载荷
func (c *NATSClient) PublishAlert(record *model.AlertRecord) error {
	return c.Publish(SubjectAlertTriggered, record)
}

// PublishWhaleScan 发布大宗扫描结果
func (c *NATSClient) PublishWhaleScan(result *model.WhaleScanResult) error {
	return c.Publish(SubjectWhaleScan, result)
}

// Subscribe 订阅指定主题的消息
func (c *NATSClient) Subscribe(streamName, consumerName, filterSubject string, handler MessageHandler) error {
	consumerConfig := jetstream.ConsumerConfig{
		Name:          consumerName,
		Description:   fmt.Sprintf("%s 消费者", consumerName),
		FilterSubject: filterSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverNewPolicy,
		ReplayPolicy:  jetstream.ReplayInstantPolicy,
	}

	consumer, err := c.jetStream.CreateOrUpdateConsumer(c.ctx, streamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("创建消费者 %s 失败: %w", consumerName, err)
	}

	c.mu.Lock()
	c.consumers[consumerName] = consumer
	c.mu.Unlock()

	go c.consumeMessages(consumer, consumerName, handler)

	log.Printf("已订阅 %s (Stream: %s, Consumer: %s)", filterSubject, streamName, consumerName)
	return nil
}

// consumeMessages 消费消息的通用逻辑
func (c *NATSClient) consumeMessages(consumer jetstream.Consumer, consumerName string, handler MessageHandler) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("消费者 %s 异常退出: %v", consumerName, r)
		}
	}()

	iter, err := consumer.Messages(jetstream.PullMaxMessages(10))
	if err != nil {
		log.Printf("获取 %s 消息迭代器失败: %v", consumerName, err)
		return
	}

	for {
		select {
		case <-c.ctx.Done():
			log.Printf("消费者 %s 收到停止信号", consumerName)
			return
		default:
			msg, err := iter.Next()
			if err != nil {
				if err == jetstream.ErrNoMessages {
					continue
				}
				log.Printf("获取 %s 消息失败: %v", consumerName, err)
				time.Sleep(1 * time.Second)
				continue
			}

			if err := handler(msg.Data()); err != nil {
				log.Printf("消费者 %s 处理消息失败: %v", consumerName, err)
				msg.Nak() // 拒绝消息
			} else {
				msg.Ack() // 确认消息
			}
		}
	}
}

// Close 关闭连接
func (c *NATSClient) Close() error {
	log.Println("正在关闭NATS连接...")

	c.cancel() // 取消所有上下文

	// 等待所有消费者退出
	time.Sleep(1 * time.Second)

	c.mu.Lock()
	c.consumers = make(map[string]jetstream.Consumer)
	c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
	}

	log.Println("NATS连接已关闭")
	return nil
}

// IsConnected 检查连接状态
func (c *NATSClient) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}
