package utils

import (
	"time"

	"github.com/benmeehan/activity-heatmap/pkg/file"
)

// Config represents the structure of the configuration file.
type Config struct {
	Paths struct {
		ActivitiesDir string `yaml:"activities_dir"` // Directory holding the source .fit files
		GeneratedDir  string `yaml:"generated_dir"`  // Directory for the persisted coordinates and registry
		ExportFile    string `yaml:"export_file"`    // Optional JSON rows export for the renderer
	} `yaml:"paths"`

	Aggregation struct {
		MinDistance   float64 `yaml:"min_distance_m"` // Minimum separation between kept points (in meters)
		Stride        int     `yaml:"stride"`         // Keep one sample in every N
		Quantum       int64   `yaml:"quantum"`        // Rounding bucket for raw semicircles
		Workers       int     `yaml:"workers"`        // Decode workers, 0 means logical CPUs minus one
		ProgressEvery int     `yaml:"progress_every"` // Filter progress interval in candidates, 0 disables
	} `yaml:"aggregation"`

	Logging struct {
		Level  string `yaml:"level"`  // zerolog level name
		Format string `yaml:"format"` // "json" or "console"
	} `yaml:"logging"`

	Progress struct {
		MQTT struct {
			Enabled       bool          `yaml:"enabled"`        // Publish progress milestones over MQTT
			Broker        string        `yaml:"broker"`         // MQTT broker address
			ClientID      string        `yaml:"client_id"`      // MQTT client ID prefix
			CACertificate string        `yaml:"ca_certificate"` // Path to the CA certificate, empty for plain TCP
			Topic         string        `yaml:"topic"`          // Topic for progress messages
			QOS           int           `yaml:"qos"`            // MQTT QoS level for progress messages
			Timeout       time.Duration `yaml:"timeout"`        // Publish acknowledgement timeout
		} `yaml:"mqtt"`
	} `yaml:"progress"`

	Mirror struct {
		Enabled         bool   `yaml:"enabled"`           // Upload persisted artifacts after each run
		Endpoint        string `yaml:"endpoint"`          // S3 endpoint host:port
		AccessKeyID     string `yaml:"access_key_id"`     // S3 access key
		SecretAccessKey string `yaml:"secret_access_key"` // S3 secret key
		UseSSL          bool   `yaml:"use_ssl"`           // Use HTTPS for the endpoint
		Region          string `yaml:"region"`            // Bucket region
		Bucket          string `yaml:"bucket"`            // Target bucket
		Prefix          string `yaml:"prefix"`            // Object key prefix
	} `yaml:"mirror"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	var config Config
	config.ApplyDefaults()
	return &config
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Paths.ActivitiesDir == "" {
		c.Paths.ActivitiesDir = "activities"
	}
	if c.Paths.GeneratedDir == "" {
		c.Paths.GeneratedDir = "generated"
	}
	if c.Aggregation.MinDistance <= 0 {
		c.Aggregation.MinDistance = 100
	}
	if c.Aggregation.Stride <= 0 {
		c.Aggregation.Stride = 10
	}
	if c.Aggregation.Quantum <= 0 {
		c.Aggregation.Quantum = 1000
	}
	if c.Aggregation.Workers < 0 {
		c.Aggregation.Workers = 0
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Progress.MQTT.ClientID == "" {
		c.Progress.MQTT.ClientID = "activity-heatmap"
	}
	if c.Progress.MQTT.Topic == "" {
		c.Progress.MQTT.Topic = "activity-heatmap/progress"
	}
	if c.Progress.MQTT.Timeout <= 0 {
		c.Progress.MQTT.Timeout = 5 * time.Second
	}
	if c.Mirror.Prefix == "" {
		c.Mirror.Prefix = "generated/"
	}
}

// LoadConfig loads the YAML configuration from the specified file and applies
// defaults. A missing file yields the defaults.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	exists, err := fileClient.IsFileExists(filename)
	if err != nil {
		return nil, err
	}
	if !exists {
		return DefaultConfig(), nil
	}

	var config Config
	if err := fileClient.ReadYamlFile(filename, &config); err != nil {
		return nil, err
	}
	config.ApplyDefaults()

	return &config, nil
}
