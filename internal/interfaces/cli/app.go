package cli

import (
	"github.com/farmchain/soiladvisor/internal/application/advisory"
	"github.com/farmchain/soiladvisor/internal/config"
	"github.com/farmchain/soiladvisor/internal/infrastructure/llm/ollama"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/logging"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/prometheus"
	"github.com/farmchain/soiladvisor/internal/intelligence/categorizer"
	"github.com/farmchain/soiladvisor/internal/intelligence/explainer"
	"github.com/farmchain/soiladvisor/internal/intelligence/extractor"
	"github.com/farmchain/soiladvisor/internal/intelligence/recommender"
)

// app bundles everything a command needs after initialization.
type app struct {
	cfg       *config.Config
	logger    logging.Logger
	collector prometheus.MetricsCollector
	metrics   *prometheus.AppMetrics
	service   *advisory.Service
}

// initApp loads configuration, builds the logger, and wires the pipeline.
// Logs go to stderr: stdout is reserved for response JSON.
func initApp(opts *rootOptions) (*app, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return nil, err
	}

	var collector prometheus.MetricsCollector
	var metrics *prometheus.AppMetrics
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
		}, logger)
		if err != nil {
			return nil, err
		}
		metrics = prometheus.NewAppMetrics(collector)
	}

	var recorder ollama.CallRecorder
	if metrics != nil {
		recorder = metrics
	}
	client := ollama.New(ollama.Config{
		BaseURL:    cfg.LLM.BaseURL,
		Model:      cfg.LLM.Model,
		Timeout:    cfg.LLM.Timeout,
		MaxRetries: cfg.LLM.MaxRetries,
	}, logger, recorder)

	service := advisory.NewService(
		extractor.New(client, logger),
		categorizer.New(client, logger),
		recommender.New(client, logger, cfg.Pipeline.MaxRetries),
		explainer.New(client, logger),
		metrics,
		logger,
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		metrics:   metrics,
		service:   service,
	}, nil
}
