package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"alfredoptarigan/interview-coach/internal/logger"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Groq     GroqConfig
	Gemini   GeminiConfig
	Pipeline PipelineConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port               string `env:"PORT" envDefault:"3000"`
	Env                string `env:"ENV" envDefault:"development"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"DB_NAME" envDefault:"interview_coach"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	DraftTTL time.Duration `env:"DRAFT_TTL" envDefault:"2h"`
}

// GroqConfig configures the primary text backend. An empty APIKey disables it.
type GroqConfig struct {
	APIKey  string        `env:"GROQ_API_KEY"`
	BaseURL string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Model   string        `env:"GROQ_MODEL" envDefault:"llama-3.3-70b-versatile"`
	Timeout time.Duration `env:"GROQ_TIMEOUT" envDefault:"60s"`
}

// GeminiConfig configures the secondary text backend and OCR. An empty APIKey disables both.
type GeminiConfig struct {
	APIKey string `env:"GEMINI_API_KEY"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

type PipelineConfig struct {
	ChunkSize           int `env:"CHUNK_SIZE" envDefault:"400"`
	MapConcurrency      int `env:"MAP_CONCURRENCY" envDefault:"4"`
	ChunkRetries        int `env:"CHUNK_RETRIES" envDefault:"0"`
	QuestionResumeChars int `env:"QUESTION_RESUME_CHARS" envDefault:"3000"`
	ChatResumeChars     int `env:"CHAT_RESUME_CHARS" envDefault:"4000"`
	NameResumeChars     int `env:"NAME_RESUME_CHARS" envDefault:"1000"`
	ProviderMaxRetries  int `env:"PROVIDER_MAX_RETRIES" envDefault:"2"`
}

type StorageConfig struct {
	MaxFileSize int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"`
}

type WorkerConfig struct {
	Concurrency  int           `env:"WORKER_CONCURRENCY" envDefault:"2"`
	PollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"10s"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("No .env file found. Using environment and default values.")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// IsDevelopment reports whether verbose database logging should be enabled.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
