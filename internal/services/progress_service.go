package services

import (
	"encoding/json"
	"time"

	"github.com/benmeehan/activity-heatmap/internal/constants"
	"github.com/benmeehan/activity-heatmap/internal/models"
	"github.com/rs/zerolog"
)

// ProgressReporter receives coarse milestones of an aggregation run.
type ProgressReporter interface {
	Report(p models.Progress)
	Finish(s models.RunSummary)
}

// Publisher is the subset of the MQTT service used to publish progress.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}, timeout time.Duration) error
}

// LogProgressReporter writes milestones to the logger.
type LogProgressReporter struct {
	logger zerolog.Logger
}

// NewLogProgressReporter creates a LogProgressReporter.
func NewLogProgressReporter(logger zerolog.Logger) *LogProgressReporter {
	return &LogProgressReporter{logger: logger}
}

func (r *LogProgressReporter) Report(p models.Progress) {
	event := r.logger.Info()
	if p.State == constants.StateUpdate {
		event = r.logger.Debug()
	}
	event.
		Str("run_id", p.RunID).
		Str("mode", p.Mode).
		Str("stage", p.Stage).
		Str("state", p.State)
	if p.Total > 0 {
		event.Int("processed", p.Processed).Int("total", p.Total).Int("kept", p.Kept)
	}
	event.Msg(p.Message)
}

func (r *LogProgressReporter) Finish(s models.RunSummary) {
	event := r.logger.Info()
	if s.Error != "" {
		event = r.logger.Error().Str("error", s.Error)
	}
	event.
		Str("run_id", s.RunID).
		Str("mode", s.Mode).
		Int("files", s.Files).
		Int("samples", s.Samples).
		Int("seed_size", s.SeedSize).
		Int("coordinates", s.Coordinates).
		Dur("duration", s.Duration).
		Msg("Aggregation run finished")
}

// MQTTProgressReporter publishes milestones as JSON to an MQTT topic and the run
// summary to topic + "/summary". Publish failures are logged and never fail the run.
type MQTTProgressReporter struct {
	publisher Publisher
	topic     string
	qos       int
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewMQTTProgressReporter creates an MQTTProgressReporter.
func NewMQTTProgressReporter(publisher Publisher, topic string, qos int, timeout time.Duration, logger zerolog.Logger) *MQTTProgressReporter {
	return &MQTTProgressReporter{
		publisher: publisher,
		topic:     topic,
		qos:       qos,
		timeout:   timeout,
		logger:    logger,
	}
}

func (r *MQTTProgressReporter) Report(p models.Progress) {
	r.publish(r.topic, p)
}

func (r *MQTTProgressReporter) Finish(s models.RunSummary) {
	r.publish(r.topic+"/summary", s)
}

func (r *MQTTProgressReporter) publish(topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to serialize progress message")
		return
	}

	if err := r.publisher.Publish(topic, byte(r.qos), false, payload, r.timeout); err != nil {
		r.logger.Warn().
			Err(err).
			Str("topic", topic).
			Msg("Failed to publish progress message to MQTT")
	}
}

// MultiReporter fans milestones out to several reporters in order.
type MultiReporter []ProgressReporter

func (m MultiReporter) Report(p models.Progress) {
	for _, r := range m {
		r.Report(p)
	}
}

func (m MultiReporter) Finish(s models.RunSummary) {
	for _, r := range m {
		r.Finish(s)
	}
}
