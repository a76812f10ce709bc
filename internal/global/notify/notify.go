package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"log/slog"
	"time"

	"monitoria-system/config"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// 邮件模板，由邮件服务消费
const (
	TemplateProjectSubmitted = "project-submitted"
	TemplateProjectApproved  = "project-approved"
	TemplateProjectRejected  = "project-rejected"
	TemplateSelectionResult  = "selection-result"
	TemplateSignatureRequest = "edital-signature-request"
	TemplateEditalSigned     = "edital-signed"
)

// Notifier 发送通知，调用方不等待投递结果
type Notifier interface {
	Send(ctx context.Context, template string, recipients []string, data map[string]any) error
}

var Default Notifier

type Message struct {
	Template   string         `json:"template"`
	Recipients []string       `json:"recipients"`
	Data       map[string]any `json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Producer 把邮件事件写入 Kafka
type Producer struct {
	writer *kafka.Writer
	log    *slog.Logger
}

func Init(log *slog.Logger) {
	Default = NewProducer(config.Get().Kafka, log)
}

// NewProducer Broker 为空时返回只记日志的 Producer
func NewProducer(cfg config.Kafka, log *slog.Logger) *Producer {
	p := &Producer{log: log}
	if cfg.Broker == "" {
		return p
	}
	transport := &kafka.Transport{}
	if cfg.Username != "" {
		transport.SASL = plain.Mechanism{Username: cfg.Username, Password: cfg.Password}
		transport.TLS = &tls.Config{}
	}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Broker),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Transport:    transport,
		WriteTimeout: 10 * time.Second,
	}
	return p
}

func (p *Producer) Send(ctx context.Context, template string, recipients []string, data map[string]any) error {
	if len(recipients) == 0 {
		return nil
	}
	if p.writer == nil {
		p.log.Warn("Kafka 未配置，跳过邮件", "template", template, "recipients", recipients)
		return nil
	}

	value, err := json.Marshal(Message{
		Template:   template,
		Recipients: recipients,
		Data:       data,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(template),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
