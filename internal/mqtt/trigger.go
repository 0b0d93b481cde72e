package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/mdjska/daylight-analysis/internal/config"
	"github.com/mdjska/daylight-analysis/internal/service"
)

// ExtractTrigger 订阅触发主题，收到消息即执行一次提取运行。
// 消息体为 JSON 编码的 service.RunRequest；空对象 {} 使用配置默认路径。
// 运行结果发布到 <topic>/result。
type ExtractTrigger struct {
	client paho.Client
	cfg    config.MQTTConfig
	svc    service.ExtractionService
	logger *zap.Logger
}

// NewExtractTrigger 创建触发器（不建立连接）
func NewExtractTrigger(cfg config.MQTTConfig, svc service.ExtractionService, logger *zap.Logger) *ExtractTrigger {
	return &ExtractTrigger{
		cfg:    cfg,
		svc:    svc,
		logger: logger,
	}
}

// Connect 连接 Broker 并订阅触发主题
func (t *ExtractTrigger) Connect() error {
	opts := paho.NewClientOptions()
	opts.AddBroker(t.cfg.Broker)
	opts.SetClientID(t.cfg.ClientID)

	if t.cfg.Username != "" {
		opts.SetUsername(t.cfg.Username)
	}
	if t.cfg.Password != "" {
		opts.SetPassword(t.cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	t.client = client

	if token := client.Subscribe(t.cfg.Topic, t.cfg.QoS, func(_ paho.Client, msg paho.Message) {
		if err := t.HandleMessage(context.Background(), msg.Payload()); err != nil {
			// 记录错误，但不中断订阅
			t.logger.Error("failed to handle extract trigger",
				zap.String("topic", msg.Topic()),
				zap.Error(err),
			)
		}
	}); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", t.cfg.Topic, token.Error())
	}

	t.logger.Info("extract trigger subscribed",
		zap.String("broker", t.cfg.Broker),
		zap.String("topic", t.cfg.Topic),
	)
	return nil
}

// HandleMessage 解析触发消息并执行提取运行
func (t *ExtractTrigger) HandleMessage(ctx context.Context, payload []byte) error {
	var req service.RunRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("invalid trigger payload: %w", err)
	}

	result, err := t.svc.Run(ctx, &req)
	if err != nil {
		return fmt.Errorf("extraction run failed: %w", err)
	}

	t.publishResult(result)
	return nil
}

func (t *ExtractTrigger) publishResult(result *service.RunResult) {
	if t.client == nil || !t.client.IsConnected() {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		t.logger.Error("failed to marshal run result", zap.Error(err))
		return
	}

	topic := t.cfg.Topic + "/result"
	token := t.client.Publish(topic, t.cfg.QoS, false, payload)
	token.Wait()
	if token.Error() != nil {
		t.logger.Error("failed to publish run result",
			zap.String("topic", topic),
			zap.Error(token.Error()),
		)
	}
}

// Disconnect 断开连接
func (t *ExtractTrigger) Disconnect() {
	if t.client != nil {
		t.client.Disconnect(250)
	}
}
