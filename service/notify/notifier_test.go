package notify

import (
	"context"
	"encoding/json"
	"inspection-review-service/service/config"
	"inspection-review-service/service/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsDriver(t *testing.T) {
	p, err := New(config.NotifyConfig{})
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), ImportEvent{}))
	assert.NoError(t, p.Close())

	p, err = New(config.NotifyConfig{Driver: "kafka", KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "inspection-import-events"})
	require.NoError(t, err)
	kp, ok := p.(*KafkaPublisher)
	require.True(t, ok)
	assert.Equal(t, "inspection-import-events", kp.writer.Topic)
	assert.NoError(t, p.Close())

	_, err = New(config.NotifyConfig{Driver: "webhook"})
	assert.Error(t, err)
}

func TestEventFromLog(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	entry := models.NewImportLog(models.ImportKindReviews, "审核结果_2026-03-01.csv", models.ImportResult{
		Success:              true,
		RecordsCount:         12,
		UnmatchedStoresCount: 2,
		SkippedRowsCount:     1,
	}, time.Second)
	entry.ID = "batch-1"
	entry.CreatedAt = created

	event := EventFromLog(entry)
	data, err := event.payload()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "batch-1", decoded["batch_id"])
	assert.Equal(t, "reviews", decoded["kind"])
	assert.Equal(t, float64(12), decoded["records_count"])
	assert.Equal(t, float64(2), decoded["unmatched_stores_count"])
	assert.Equal(t, "2026-03-01T08:00:00Z", decoded["occurred_at"])
}
