package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GeneratorConfig holds settings for the LLM API used to write question sets.
type GeneratorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// CompilerConfig holds settings for the external LaTeX compiler.
type CompilerConfig struct {
	Binary  string
	Timeout time.Duration
	// WorkDir is the parent of the per-request scratch directories. Empty means os.TempDir().
	WorkDir string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables once at start-up and never mutated afterwards.
type AppConfig struct {
	// AppHost is the host advertised in the API docs. Empty means the requesting host.
	AppHost           string
	Port              string
	UploadDir         string
	MaxUploadBytes    int
	AllowedExtensions []string
	LogLevel          string
	EnableSwagger     bool
	Location          *time.Location
	Generator         GeneratorConfig
	Compiler          CompilerConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:           getEnv("APP_HOST", ""),
		Port:              getEnv("PORT", "5000"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:    getEnvInt("MAX_UPLOAD_BYTES", 16*1024*1024),
		AllowedExtensions: getEnvList("ALLOWED_EXTENSIONS", []string{"pdf"}),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		EnableSwagger:     getEnvBool("ENABLE_SWAGGER", true),
		Location:          getEnvLocation("TZ_LOCATION", time.Local),
		Generator: GeneratorConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
			Timeout: getEnvDuration("GENERATION_TIMEOUT", 120*time.Second),
		},
		Compiler: CompilerConfig{
			Binary:  getEnv("PDFLATEX_PATH", "pdflatex"),
			Timeout: getEnvDuration("COMPILE_TIMEOUT", 30*time.Second),
			WorkDir: getEnv("COMPILE_DIR", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("45s") or a bare number of seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

// getEnvList splits a comma separated value into lower-cased entries without leading dots.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "."))
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func getEnvLocation(key string, def *time.Location) *time.Location {
	if v := os.Getenv(key); v != "" {
		if loc, err := time.LoadLocation(v); err == nil {
			return loc
		}
	}
	return def
}
