// Package util holds the glue shared by the CLI commands: logger setup and
// wiring of the pipeline from resolved config values.
package util

import (
	"fmt"
	"time"

	"github.com/f1insight/frameforge/log"
	"github.com/f1insight/frameforge/pkg/cache"
	"github.com/f1insight/frameforge/pkg/config"
	"github.com/f1insight/frameforge/pkg/processing/dispatch"
	"github.com/f1insight/frameforge/pkg/processing/extract"
	"github.com/f1insight/frameforge/pkg/processing/weather"
	"github.com/f1insight/frameforge/pkg/service"
	"github.com/f1insight/frameforge/pkg/source"
	"github.com/f1insight/frameforge/pkg/source/openf1"
	"github.com/f1insight/frameforge/pkg/source/retry"
)

// SetupLogger installs the process-wide default logger from config values.
func SetupLogger() error {
	logger, err := log.New(log.Config{
		Level:   config.LogLevel,
		Format:  config.LogFormat,
		Filters: config.LogFilters,
	})
	if err != nil {
		return err
	}
	log.ResetDefault(logger)
	return nil
}

// NewSourceClient builds the timing service client with retry decoration.
func NewSourceClient() source.Client {
	return retry.New(
		openf1.New(openf1.WithBaseURL(config.SourceURL)),
		//nolint:gosec // retries bounded by flag validation
		retry.WithMaxRetries(uint64(config.SourceRetries)),
	)
}

// NewFrameService wires client, cache and pipeline stages from config.
// The returned store must be closed by the caller.
func NewFrameService() (*service.FrameService, cache.Store, error) {
	timeout, err := time.ParseDuration(config.DriverTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid driver-timeout %q: %w", config.DriverTimeout, err)
	}
	gapPolicy := extract.GapPolicy(config.StintGapPolicy)
	if gapPolicy != extract.GapRepair && gapPolicy != extract.GapFlag {
		return nil, nil, fmt.Errorf("invalid stint-gap-policy %q", config.StintGapPolicy)
	}

	client := NewSourceClient()
	store, err := cache.NewBoltStore(config.CacheFile)
	if err != nil {
		return nil, nil, err
	}
	dispatcher := dispatch.NewDispatcher(
		extract.NewExtractor(client, extract.WithGapPolicy(gapPolicy)),
		dispatch.WithWorkers(config.Workers),
		dispatch.WithDriverTimeout(timeout),
	)
	srv := service.NewFrameService(client, store, dispatcher,
		service.WithAligner(weather.NewAligner(
			weather.WithNightThreshold(config.NightThreshold))))
	return srv, store, nil
}
