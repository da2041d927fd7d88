package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	"inventory-chart-backend/config"
	"inventory-chart-backend/internal/model"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestChartEventPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaChartEventPublisher(w, "chart_events")

	event := model.ChartEvent{
		ID:         "evt-1",
		Time:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		DatasetID:  "ds-1",
		ChartType:  model.ChartBar,
		ResultType: "chart",
	}
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, w.messages, 1)
	assert.Equal(t, []byte("ds-1"), w.messages[0].Key)
	var decoded model.ChartEvent
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &decoded))
	assert.Equal(t, "evt-1", decoded.ID)
	assert.Equal(t, model.ChartBar, decoded.ChartType)
	assert.True(t, event.Time.Equal(decoded.Time))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestChartEventPublisher_WriteError(t *testing.T) {
	p := newKafkaChartEventPublisher(&fakeWriter{err: errors.New("broker down")}, "chart_events")
	assert.Error(t, p.Publish(context.Background(), model.ChartEvent{ID: "evt-2"}))
}

func TestNewChartEventPublisher_DisabledWithoutBrokers(t *testing.T) {
	p := NewChartEventPublisher(fxtest.NewLifecycle(t), &config.Config{})
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), model.ChartEvent{}))
}
