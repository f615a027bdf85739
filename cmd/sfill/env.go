package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/conn-castle/spatialfill/internal/batch"
	"github.com/conn-castle/spatialfill/internal/config"
	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/host"
	"github.com/conn-castle/spatialfill/internal/logging"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/metrics"
)

var (
	getwd     = os.Getwd
	openStore = document.Open
)

// runEnv is the profile, logger, and metrics shared by one command invocation.
type runEnv struct {
	profile   *config.Profile
	modelPath string
	log       *zap.Logger
	metrics   *metrics.Recorder
}

// loadEnv reads the profile named by opts. Strict loading rejects unknown keys and
// invalid values; lenient loading leaves them for preview to report.
func loadEnv(opts *rootOptions, strict bool) (*runEnv, error) {
	profilePath, err := resolveProfilePath(opts.profile)
	if err != nil {
		return nil, err
	}
	load := config.LoadProfileLenient
	if strict {
		load = config.LoadProfile
	}
	profile, err := load(profilePath)
	if err != nil {
		return nil, err
	}
	if level := strings.TrimSpace(opts.logLevel); level != "" {
		profile.Log.Level = level
	}
	log, err := logging.New(profile.Log)
	if err != nil {
		return nil, fmt.Errorf(messages.CLILoggerFmt, err)
	}
	modelPath, err := profile.ModelPath(filepath.Dir(profilePath), opts.model)
	if err != nil {
		return nil, err
	}
	return &runEnv{
		profile:   profile,
		modelPath: modelPath,
		log:       log,
		metrics:   metrics.New(),
	}, nil
}

func resolveProfilePath(flag string) (string, error) {
	if strings.TrimSpace(flag) != "" {
		return config.ExpandPath(flag)
	}
	cwd, err := getwd()
	if err != nil {
		return "", fmt.Errorf(messages.CLIGetwdFmt, err)
	}
	return filepath.Join(cwd, config.DefaultProfileName), nil
}

// open opens the model and builds a coordinator for its host version.
func (e *runEnv) open() (document.Store, *batch.Coordinator, error) {
	store, err := openStore(e.modelPath)
	if err != nil {
		return nil, nil, err
	}
	caps, err := host.ForVersion(store.HostVersion())
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf(messages.CLIHostVersionFmt, e.modelPath, err)
	}
	coord, err := batch.New(store, caps, batch.Options{
		Logger:     e.log,
		Observer:   e.metrics,
		ChunkSize:  e.profile.Run.ChunkSize,
		PointNudge: e.profile.Room.PointNudge,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf(messages.CLICoordinatorFmt, err)
	}
	e.log.Debug("model opened", zap.String("path", e.modelPath), zap.Int("host_version", caps.Version()))
	return store, coord, nil
}

// writeMetrics dumps the run metrics when path is set.
func (e *runEnv) writeMetrics(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return e.metrics.WriteTextfile(path)
}

func (e *runEnv) close() {
	_ = e.log.Sync()
}
