package config

import "time"

const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodySize     = 1 << 20 // soil reports are small text payloads

	DefaultLLMBaseURL    = "http://localhost:11434"
	DefaultLLMModel      = "llama3.2"
	DefaultLLMTimeout    = 60 * time.Second
	DefaultLLMMaxRetries = 2

	DefaultPipelineMaxRetries      = 2
	DefaultPipelineAnalysisTimeout = 3 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "soiladvisor"
)

// ApplyDefaults fills zero-value fields in cfg with service defaults.
// Explicitly configured values always win; call it after unmarshalling and
// before Validate.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		// Responses wait on AI completions, so the write timeout tracks the
		// analysis budget rather than a normal HTTP handler budget.
		cfg.Server.WriteTimeout = DefaultPipelineAnalysisTimeout + 30*time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = DefaultLLMBaseURL
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultLLMModel
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = DefaultLLMTimeout
	}
	if cfg.LLM.MaxRetries == 0 {
		cfg.LLM.MaxRetries = DefaultLLMMaxRetries
	}

	if cfg.Pipeline.MaxRetries == 0 {
		cfg.Pipeline.MaxRetries = DefaultPipelineMaxRetries
	}
	if cfg.Pipeline.AnalysisTimeout == 0 {
		cfg.Pipeline.AnalysisTimeout = DefaultPipelineAnalysisTimeout
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		// stdout carries the response JSON in analyze mode; logs stay on stderr.
		cfg.Log.OutputPaths = []string{"stderr"}
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
