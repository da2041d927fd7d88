package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Dataset  DatasetConfig
	Chart    ChartConfig
	Kafka    KafkaConfig
	Artifact ArtifactConfig
	LogLevel string
	APIKey   string
}

type ServerConfig struct {
	Port string
}

type LLMConfig struct {
	Model      string
	Timeout    time.Duration
	MaxRetries uint64
}

type DatasetConfig struct {
	MaxEntries     int
	TTL            time.Duration
	SweepSchedule  string
	MaxUploadBytes int64
	SampleRows     int
}

type ChartConfig struct {
	WidthIn  float64
	HeightIn float64
}

// KafkaConfig is disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers    []string
	ChartTopic string
}

type ArtifactConfig struct {
	Backend string // none | disk | s3
	Dir     string
	S3      S3Config
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func NewConfig() (*Config, error) {
	// Configure Viper to read .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Enable automatic environment variable loading
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LLM_MODEL", "gemini-1.5-flash-latest")
	viper.SetDefault("LLM_TIMEOUT", "60s")
	viper.SetDefault("LLM_MAX_RETRIES", 3)
	viper.SetDefault("DATASET_MAX_ENTRIES", 128)
	viper.SetDefault("DATASET_TTL", "1h")
	viper.SetDefault("DATASET_SWEEP_SCHEDULE", "0 */5 * * * *") // Every 5 minutes
	viper.SetDefault("DATASET_MAX_UPLOAD_BYTES", 32<<20)
	viper.SetDefault("DATASET_SAMPLE_ROWS", 5)
	viper.SetDefault("CHART_WIDTH_IN", 10)
	viper.SetDefault("CHART_HEIGHT_IN", 6)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_CHART_TOPIC", "chart_events")
	viper.SetDefault("ARTIFACT_BACKEND", "none")
	viper.SetDefault("ARTIFACT_DIR", "./artifacts")
	viper.SetDefault("ARTIFACT_S3_REGION", "us-east-1")
	viper.SetDefault("ARTIFACT_S3_BUCKET", "inventory-charts")
	viper.SetDefault("ARTIFACT_S3_USE_SSL", false)

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config
	config.Server.Port = viper.GetString("SERVER_PORT")
	config.LogLevel = viper.GetString("LOG_LEVEL")
	config.APIKey = viper.GetString("API_KEY")

	// --- LLM ---
	config.LLM.Model = viper.GetString("LLM_MODEL")
	config.LLM.Timeout = viper.GetDuration("LLM_TIMEOUT")
	config.LLM.MaxRetries = viper.GetUint64("LLM_MAX_RETRIES")

	// --- Dataset ---
	config.Dataset.MaxEntries = viper.GetInt("DATASET_MAX_ENTRIES")
	config.Dataset.TTL = viper.GetDuration("DATASET_TTL")
	config.Dataset.SweepSchedule = viper.GetString("DATASET_SWEEP_SCHEDULE")
	config.Dataset.MaxUploadBytes = viper.GetInt64("DATASET_MAX_UPLOAD_BYTES")
	config.Dataset.SampleRows = viper.GetInt("DATASET_SAMPLE_ROWS")

	// --- Chart ---
	config.Chart.WidthIn = viper.GetFloat64("CHART_WIDTH_IN")
	config.Chart.HeightIn = viper.GetFloat64("CHART_HEIGHT_IN")

	// --- Kafka ---
	config.Kafka.Brokers = splitList(viper.GetString("KAFKA_BROKERS"))
	config.Kafka.ChartTopic = viper.GetString("KAFKA_CHART_TOPIC")

	// --- Artifact ---
	config.Artifact.Backend = strings.ToLower(viper.GetString("ARTIFACT_BACKEND"))
	config.Artifact.Dir = viper.GetString("ARTIFACT_DIR")
	config.Artifact.S3.Endpoint = viper.GetString("ARTIFACT_S3_ENDPOINT")
	config.Artifact.S3.Region = viper.GetString("ARTIFACT_S3_REGION")
	config.Artifact.S3.AccessKey = viper.GetString("ARTIFACT_S3_ACCESS_KEY")
	config.Artifact.S3.SecretKey = viper.GetString("ARTIFACT_S3_SECRET_KEY")
	config.Artifact.S3.Bucket = viper.GetString("ARTIFACT_S3_BUCKET")
	config.Artifact.S3.UseSSL = viper.GetBool("ARTIFACT_S3_USE_SSL")

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		log.Warn().Err(err).Str("log_level", config.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", config.Server.Port).
		Str("llm_model", config.LLM.Model).
		Bool("llm_configured", config.APIKey != "").
		Strs("kafka_brokers", config.Kafka.Brokers).
		Str("artifact_backend", config.Artifact.Backend).
		Msg("Config loaded")
	return &config, nil
}

// splitList splits a comma separated setting, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
