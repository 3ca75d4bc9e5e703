package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings, loaded once at startup from the
// environment with sane defaults for local runs.
type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string
	LogLevel  string

	// Scoring collaborator
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	// Signal extractor sidecars
	FaceServiceURL   string
	VoiceServiceURL  string
	SpeechServiceURL string

	RubricPath string

	// Scheduler
	ScanInterval     time.Duration
	MaxConcurrent    int
	MaxRecordRetries int

	// Pipeline
	SegmentSeconds  int
	SegmentOverlap  int
	ConfidenceFloor float64
	PipelineTimeout time.Duration
	StageTimeout    time.Duration
}

// Load reads settings from the environment (INTERVIEWLENS_* variables).
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("interviewlens")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "interviewlens")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("http_port", "8080")
	v.SetDefault("log_level", "info")

	v.SetDefault("openai_model", "gpt-4o")
	v.SetDefault("openai_base_url", "")

	v.SetDefault("face_service_url", "http://localhost:9001")
	v.SetDefault("voice_service_url", "http://localhost:9002")
	v.SetDefault("speech_service_url", "http://localhost:9003")

	v.SetDefault("rubric_path", "")

	v.SetDefault("scan_interval", "5m")
	v.SetDefault("max_concurrent", 2)
	v.SetDefault("max_record_retries", 3)

	v.SetDefault("segment_seconds", 30)
	v.SetDefault("segment_overlap", 0)
	v.SetDefault("confidence_floor", 0.3)
	v.SetDefault("pipeline_timeout", "20m")
	v.SetDefault("stage_timeout", "2m")

	cfg := &Config{
		MongoURI:  v.GetString("mongo_uri"),
		MongoDB:   v.GetString("mongo_db"),
		RedisAddr: strings.TrimPrefix(v.GetString("redis_addr"), "redis://"),
		HTTPPort:  v.GetString("http_port"),
		LogLevel:  v.GetString("log_level"),

		OpenAIKey:     v.GetString("openai_api_key"),
		OpenAIModel:   v.GetString("openai_model"),
		OpenAIBaseURL: v.GetString("openai_base_url"),

		FaceServiceURL:   v.GetString("face_service_url"),
		VoiceServiceURL:  v.GetString("voice_service_url"),
		SpeechServiceURL: v.GetString("speech_service_url"),

		RubricPath: v.GetString("rubric_path"),

		ScanInterval:     v.GetDuration("scan_interval"),
		MaxConcurrent:    v.GetInt("max_concurrent"),
		MaxRecordRetries: v.GetInt("max_record_retries"),

		SegmentSeconds:  v.GetInt("segment_seconds"),
		SegmentOverlap:  v.GetInt("segment_overlap"),
		ConfidenceFloor: v.GetFloat64("confidence_floor"),
		PipelineTimeout: v.GetDuration("pipeline_timeout"),
		StageTimeout:    v.GetDuration("stage_timeout"),
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.MaxConcurrent < 1 {
		return &invalidSetting{"max_concurrent must be >= 1"}
	}
	if c.SegmentSeconds < 1 {
		return &invalidSetting{"segment_seconds must be >= 1"}
	}
	if c.SegmentOverlap < 0 || c.SegmentOverlap >= c.SegmentSeconds {
		return &invalidSetting{"segment_overlap must be in [0, segment_seconds)"}
	}
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 1 {
		return &invalidSetting{"confidence_floor must be in [0, 1]"}
	}
	if c.StageTimeout > c.PipelineTimeout {
		return &invalidSetting{"stage_timeout must not exceed pipeline_timeout"}
	}
	return nil
}

// ScoringEnabled reports whether the external collaborator is configured;
// without a key the deterministic local scorer is used.
func (c *Config) ScoringEnabled() bool { return c.OpenAIKey != "" }

type invalidSetting struct{ reason string }

func (e *invalidSetting) Error() string { return "invalid setting: " + e.reason }
