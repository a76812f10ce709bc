package notify

import (
	"context"
	"testing"

	"monitoria-system/config"
	"monitoria-system/internal/global/logger"

	"github.com/stretchr/testify/require"
)

func TestProducerWithoutBroker(t *testing.T) {
	p := NewProducer(config.Kafka{}, logger.New("Notify"))
	require.NoError(t, p.Send(context.Background(), TemplateSelectionResult, []string{"aluno@ufba.br"}, nil))
	require.NoError(t, p.Send(context.Background(), TemplateSelectionResult, nil, nil))
	require.NoError(t, p.Close())
}

func TestProducerWithBroker(t *testing.T) {
	p := NewProducer(config.Kafka{Broker: "127.0.0.1:9092", Topic: "monitoria.mail", Username: "u", Password: "p"}, logger.New("Notify"))
	require.NotNil(t, p.writer)
	require.Equal(t, "monitoria.mail", p.writer.Topic)
	require.NotNil(t, p.writer.Transport)
}
