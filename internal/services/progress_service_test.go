package services_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benmeehan/activity-heatmap/internal/constants"
	"github.com/benmeehan/activity-heatmap/internal/mocks"
	"github.com/benmeehan/activity-heatmap/internal/models"
	"github.com/benmeehan/activity-heatmap/internal/services"
	"github.com/benmeehan/activity-heatmap/pkg/mqtt"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMQTTProgressReporter_PublishesJSON(t *testing.T) {
	// Setup
	client := new(mocks.MockMQTTClient)
	var published []byte
	client.On("Publish", "heatmap/progress", byte(1), false, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(3).([]byte) }).
		Return(mocks.NewCompletedToken(nil)).Once()

	publisher := mqtt.NewMqttServiceWithClient(client, nil)
	reporter := services.NewMQTTProgressReporter(publisher, "heatmap/progress", 1, time.Second, zerolog.Nop())

	// Execute
	reporter.Report(models.Progress{
		RunID: "run-1",
		Mode:  constants.ModeMerge,
		Stage: constants.StageLoadingActivities,
		State: constants.StateStarted,
	})

	// Assert
	client.AssertExpectations(t)
	var got models.Progress
	require.NoError(t, json.Unmarshal(published, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, constants.StageLoadingActivities, got.Stage)
	assert.Equal(t, constants.StateStarted, got.State)
}

func TestMQTTProgressReporter_SummaryTopic(t *testing.T) {
	client := new(mocks.MockMQTTClient)
	client.On("Publish", "heatmap/progress/summary", byte(0), false, mock.Anything).
		Return(mocks.NewCompletedToken(nil)).Once()

	publisher := mqtt.NewMqttServiceWithClient(client, nil)
	reporter := services.NewMQTTProgressReporter(publisher, "heatmap/progress", 0, time.Second, zerolog.Nop())

	reporter.Finish(models.RunSummary{RunID: "run-1", Coordinates: 3})

	client.AssertExpectations(t)
}

func TestMQTTProgressReporter_PublishFailureIsLogged(t *testing.T) {
	// Setup
	client := new(mocks.MockMQTTClient)
	client.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(mocks.NewCompletedToken(errors.New("broker unavailable")))

	var buf bytes.Buffer
	publisher := mqtt.NewMqttServiceWithClient(client, nil)
	reporter := services.NewMQTTProgressReporter(publisher, "heatmap/progress", 0, time.Second, zerolog.New(&buf))

	// Execute
	assert.NotPanics(t, func() {
		reporter.Report(models.Progress{Stage: constants.StageFilteringCoords})
	})

	// Assert
	assert.Contains(t, buf.String(), "broker unavailable")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestLogProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	reporter := services.NewLogProgressReporter(zerolog.New(&buf))

	reporter.Report(models.Progress{
		RunID:   "run-1",
		Stage:   constants.StageFilteringCoords,
		State:   constants.StateDone,
		Message: "filtering coordinates done",
	})
	reporter.Finish(models.RunSummary{RunID: "run-1", Error: "boom"})

	out := buf.String()
	assert.Contains(t, out, `"stage":"filtering coordinates"`)
	assert.Contains(t, out, `"message":"filtering coordinates done"`)
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestMultiReporter_FansOut(t *testing.T) {
	first, second := &recordingReporter{}, &recordingReporter{}
	multi := services.MultiReporter{first, second}

	multi.Report(models.Progress{Stage: constants.StageSavingCoords, State: constants.StateStarted})
	multi.Finish(models.RunSummary{RunID: "run-1"})

	for _, r := range []*recordingReporter{first, second} {
		assert.Equal(t, []string{"saving coordinates started"}, r.milestones())
		assert.Len(t, r.summaries(), 1)
	}
}
