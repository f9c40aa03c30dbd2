package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/benmeehan/activity-heatmap/internal/services"
	"github.com/benmeehan/activity-heatmap/internal/utils"
	"github.com/benmeehan/activity-heatmap/pkg/activity"
	"github.com/benmeehan/activity-heatmap/pkg/file"
	"github.com/benmeehan/activity-heatmap/pkg/geo"
	"github.com/benmeehan/activity-heatmap/pkg/mqtt"
	"github.com/benmeehan/activity-heatmap/pkg/s3"
	"github.com/benmeehan/activity-heatmap/pkg/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	regenerate := flag.Bool("regenerate", false, "rebuild the coordinate set from every activity file")
	exportPath := flag.String("export", "", "write the coordinate rows as JSON to this path")
	flag.Parse()

	// Initialize file operations handler
	fileClient := file.NewFileService()

	config, err := utils.LoadConfig(*configPath, fileClient)
	if err != nil {
		bootstrap := newLogger("info", "json")
		bootstrap.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load configuration")
	}
	if *exportPath != "" {
		config.Paths.ExportFile = *exportPath
	}

	log := newLogger(config.Logging.Level, config.Logging.Format)

	st := store.NewStore(config.Paths.GeneratedDir, fileClient)
	tracker := services.NewChangeTracker(config.Paths.ActivitiesDir, st, fileClient, log)
	loader := services.NewLoaderService(
		config.Paths.ActivitiesDir,
		activity.NewFitDecoder(),
		config.Aggregation.Workers,
		config.Aggregation.Quantum,
		config.Aggregation.Stride,
		log,
	)

	reporters := services.MultiReporter{services.NewLogProgressReporter(log)}

	var mqttClient *mqtt.MqttService
	if mqttCfg := config.Progress.MQTT; mqttCfg.Enabled {
		// Generate a unique MQTT Client ID by appending a UUID
		clientID := mqttCfg.ClientID + "-" + uuid.New().String()
		log.Info().Str("client_id", clientID).Msg("Using MQTT Client ID")

		mqttClient = mqtt.NewMqttService(fileClient)
		if err := mqttClient.Initialize(mqttCfg.Broker, clientID, mqttCfg.CACertificate); err != nil {
			log.Warn().Err(err).Str("broker", mqttCfg.Broker).Msg("Failed to connect to MQTT broker, progress stays local")
			mqttClient = nil
		} else {
			reporters = append(reporters, services.NewMQTTProgressReporter(mqttClient, mqttCfg.Topic, mqttCfg.QOS, mqttCfg.Timeout, log))
		}
	}

	opts := []services.AggregatorOption{
		services.WithMinDistance(config.Aggregation.MinDistance),
		services.WithFilterProgress(config.Aggregation.ProgressEvery),
		services.WithReporter(reporters),
	}

	if mirrorCfg := config.Mirror; mirrorCfg.Enabled {
		storage := s3.NewObjectStorage(mirrorCfg.Region)
		if err := storage.Connect(mirrorCfg.Endpoint, mirrorCfg.AccessKeyID, mirrorCfg.SecretAccessKey, mirrorCfg.UseSSL); err != nil {
			log.Warn().Err(err).Str("endpoint", mirrorCfg.Endpoint).Msg("Failed to configure artifact mirror")
		} else {
			opts = append(opts, services.WithMirror(
				services.NewObjectStorageMirror(storage, fileClient, mirrorCfg.Bucket, mirrorCfg.Prefix, log),
			))
		}
	}

	aggregator := services.NewAggregatorService(st, tracker, loader, log, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan services.RunResult, 1)
	go func() {
		if *regenerate {
			if err := st.Init(); err != nil {
				results <- services.RunResult{Err: err}
				return
			}
			results <- <-aggregator.RunAsync(ctx, services.Regenerate{})
			return
		}
		coords, err := aggregator.Refresh(ctx)
		results <- services.RunResult{Coords: coords, Err: err}
	}()

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	var result services.RunResult
	select {
	case result = <-results:
	case sig := <-stopCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")
		cancel()
		result = <-results
	}

	if mqttClient != nil {
		mqttClient.Disconnect(250)
	}

	if result.Err != nil {
		log.Fatal().Err(result.Err).Msg("Aggregation failed")
	}

	coords := result.Coords
	if err := geo.Validate(coords); err != nil {
		switch {
		case errors.Is(err, geo.ErrNoData):
			log.Warn().Msg("No Data")
		case errors.Is(err, geo.ErrInvalidData):
			log.Error().Err(err).Msg("Invalid Data")
		default:
			log.Error().Err(err).Msg("Failed to validate coordinates")
		}
		return
	}

	b := geo.Bounds(coords)
	log.Info().
		Int("coordinates", len(coords)).
		Float64("min_lat", b.Bottom()).
		Float64("min_lon", b.Left()).
		Float64("max_lat", b.Top()).
		Float64("max_lon", b.Right()).
		Msg("Coordinate set ready")

	if config.Paths.ExportFile != "" {
		if err := fileClient.WriteJsonFile(config.Paths.ExportFile, coords.Rows()); err != nil {
			log.Fatal().Err(err).Str("path", config.Paths.ExportFile).Msg("Failed to export coordinate rows")
		}
		log.Info().Str("path", config.Paths.ExportFile).Msg("Coordinate rows exported")
	}
}
