package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AppName     = "pricesnap"
	EnvFileName = "config.env"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	ClassifierHTTP = "http"
	ClassifierDNN  = "dnn"
)

type Config struct {
	Provider string
	// LocalOnly skips the remote model and prices every photo with the local classifier.
	LocalOnly bool

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	GeminiAPIKey string
	GeminiModel  string

	LocalClassifier string
	ClassifierURL   string
	ClassifierToken string
	DNNModelPath    string
	DNNLabelsPath   string

	RemoteTimeout time.Duration
	LocalTimeout  time.Duration
	MaxImageBytes int64
	// DownloadTimeout bounds fetching an image given as a URL.
	DownloadTimeout time.Duration

	LogFile  string
	LogLevel string
}

func Load() Config {
	return Config{
		Provider:        strings.ToLower(getEnv("PREDICTION_PROVIDER", ProviderOpenAI)),
		LocalOnly:       getEnvAsBool("LOCAL_ONLY", false),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		LocalClassifier: strings.ToLower(getEnv("LOCAL_CLASSIFIER", ClassifierHTTP)),
		ClassifierURL:   getEnv("CLASSIFIER_URL", "https://api-inference.huggingface.co/models/google/vit-base-patch16-224"),
		ClassifierToken: getEnv("CLASSIFIER_TOKEN", ""),
		DNNModelPath:    getEnv("DNN_MODEL_PATH", filepath.Join("models", "mobilenet.onnx")),
		DNNLabelsPath:   getEnv("DNN_LABELS_PATH", filepath.Join("models", "imagenet_labels.txt")),
		RemoteTimeout:   getEnvAsDuration("REMOTE_TIMEOUT", 30*time.Second),
		LocalTimeout:    getEnvAsDuration("LOCAL_TIMEOUT", 30*time.Second),
		MaxImageBytes:   getEnvAsInt64("MAX_IMAGE_BYTES", 10<<20),
		DownloadTimeout: getEnvAsDuration("DOWNLOAD_TIMEOUT", 30*time.Second),
		LogFile:         getEnv("LOG_FILE", "pricesnap.log"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// APIKey returns the credential of the selected provider.
func (c Config) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// RemoteConfigured reports whether the selected provider has a credential.
func (c Config) RemoteConfigured() bool {
	return c.APIKey() != ""
}

// Validate rejects unknown provider and classifier names.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown PREDICTION_PROVIDER %q (want %s or %s)", c.Provider, ProviderOpenAI, ProviderGemini)
	}
	switch c.LocalClassifier {
	case ClassifierHTTP, ClassifierDNN:
	default:
		return fmt.Errorf("unknown LOCAL_CLASSIFIER %q (want %s or %s)", c.LocalClassifier, ClassifierHTTP, ClassifierDNN)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}
	return nil
}

// Dir returns the application's config directory, creating it if needed.
func Dir() (string, error) {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	configDir := filepath.Join(configBase, AppName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDir, nil
}

// EnvFilePath returns the full path to the config file.
func EnvFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, EnvFileName), nil
}

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
// Variables already set in the environment win.
func LoadEnvFile() {
	path, err := EnvFilePath()
	if err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// WriteEnvFile merges values into the config file, keeping entries it
// already has. The file is written with 0600 permissions since it holds secrets.
func WriteEnvFile(path string, values map[string]string) error {
	merged, err := godotenv.Read(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		merged = map[string]string{}
	}
	for k, v := range values {
		merged[k] = v
	}

	content, err := godotenv.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
