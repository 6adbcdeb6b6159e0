package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage backends
const (
	StorageTypeGCS   = "gcs"
	StorageTypeMinIO = "minio"
)

// Transcription backends
const (
	TranscriberGoogle     = "google"
	TranscriberAssemblyAI = "assemblyai"
)

// Summarization backends
const (
	SummarizerOpenAI = "openai"
	SummarizerGemini = "gemini"
)

// Run store backends
const (
	RunStoreMemory = "memory"
	RunStoreRedis  = "redis"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Google   GoogleConfig
	Storage  StorageConfig
	Speech   SpeechConfig
	Assembly AssemblyAIConfig
	Summary  SummaryConfig
	OpenAI   OpenAIConfig
	Gemini   GeminiConfig
	Audio    AudioConfig
	Runs     RunStoreConfig
	Redis    RedisConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	MaxUploadMB     int      `envconfig:"MAX_UPLOAD_MB" default:"200" validate:"min=1"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// GoogleConfig holds Google Cloud credentials shared by storage and speech
type GoogleConfig struct {
	CredentialsFile string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type            string `envconfig:"STORAGE_TYPE" default:"gcs" validate:"oneof=gcs minio"`
	BucketName      string `envconfig:"GCS_BUCKET_NAME" validate:"required"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"storage.googleapis.com"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY"`
	Region          string `envconfig:"STORAGE_REGION" default:"auto"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"true"`
}

// SpeechConfig holds speech recognition configuration
type SpeechConfig struct {
	Backend         string        `envconfig:"TRANSCRIBER" default:"google" validate:"oneof=google assemblyai"`
	LanguageCode    string        `envconfig:"SPEECH_LANGUAGE" default:"ja-JP"`
	Model           string        `envconfig:"SPEECH_MODEL" default:"latest_long"`
	PollInterval    time.Duration `envconfig:"SPEECH_POLL_INTERVAL" default:"2s"`
	PollMaxInterval time.Duration `envconfig:"SPEECH_POLL_MAX_INTERVAL" default:"30s"`
}

// AssemblyAIConfig holds AssemblyAI configuration
type AssemblyAIConfig struct {
	APIKey       string `envconfig:"ASSEMBLYAI_API_KEY"`
	LanguageCode string `envconfig:"ASSEMBLYAI_LANGUAGE" default:"ja"`
}

// SummaryConfig selects the summarization backend
type SummaryConfig struct {
	Backend   string `envconfig:"SUMMARIZER" default:"openai" validate:"oneof=openai gemini"`
	MaxTokens int    `envconfig:"SUMMARY_MAX_TOKENS" default:"2048" validate:"min=1"`
}

// OpenAIConfig holds OpenAI-compatible chat completion configuration
type OpenAIConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY_STT"`
	BaseURL string `envconfig:"OPENAI_BASE_URL"`
	Model   string `envconfig:"OPENAI_MODEL" default:"gpt-4-turbo"`
}

// GeminiConfig holds Gemini configuration
type GeminiConfig struct {
	APIKey string `envconfig:"GEMINI_API_KEY"`
	Model  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
}

// AudioConfig holds audio normalization configuration
type AudioConfig struct {
	FFmpegPath string `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	TempDir    string `envconfig:"TEMP_DIR"`
}

// RunStoreConfig holds run snapshot storage configuration
type RunStoreConfig struct {
	Backend string        `envconfig:"RUN_STORE" default:"memory" validate:"oneof=memory redis"`
	TTL     time.Duration `envconfig:"RUN_TTL" default:"2h"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Storage.Type == StorageTypeMinIO {
		if c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "" {
			return fmt.Errorf("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required for minio storage")
		}
	}
	if c.Speech.Backend == TranscriberAssemblyAI && c.Assembly.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required")
	}
	switch c.Summary.Backend {
	case SummarizerOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY_STT is required")
		}
	case SummarizerGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetServerAddr returns the listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
