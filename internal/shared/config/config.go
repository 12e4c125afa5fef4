package config

import (
	"os"
	"path/filepath"
	"strings"

	env "github.com/Netflix/go-env"

	"resume-converter/internal/shared/telemetry"
)

const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = "8000"
	DefaultOutputDir      = "temp_uploads"
	DefaultStaticDir      = "static"
	DefaultOCRLanguages   = "eng+chi_tra"
	DefaultMaxUploadBytes = 20 << 20
)

// Config holds application configuration.
type Config struct {
	Env             string  `env:"ENV,default=dev"`
	Host            string  `env:"RC_HOST,default=0.0.0.0"`
	Port            string  `env:"PORT,default=8000"`
	DocxEnabled     bool    `env:"RC_DOCX_ENABLED,default=true"`
	OutputDir       string  `env:"RC_OUTPUT_DIR,default=temp_uploads"`
	StaticDir       string  `env:"RC_STATIC_DIR,default=static"`
	TempDir         string  `env:"RC_TEMP_DIR"`
	OCRLanguages    string  `env:"RC_OCR_LANGUAGES,default=eng+chi_tra"`
	MaxUploadBytes  int64   `env:"RC_MAX_UPLOAD_BYTES,default=20971520"`
	ObjectStoreType string  `env:"OBJECT_STORE,default=local"`
	AWSRegion       string  `env:"AWS_REGION"`
	S3Bucket        string  `env:"S3_BUCKET"`
	S3Prefix        string  `env:"S3_PREFIX"`
	SSEKMSKeyID     string  `env:"SSE_KMS_KEY_ID"`
	DatabaseURL     string  `env:"DATABASE_URL"`
	RateLimitRPS    float64 `env:"RC_RATE_LIMIT_RPS,default=0"`
	RateLimitBurst  int     `env:"RC_RATE_LIMIT_BURST,default=10"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		telemetry.Warn("config.decode.failed", map[string]any{"err": err})
	}
	return Normalize(cfg)
}

// Normalize fills empty fields with defaults and canonicalizes enumerations.
func Normalize(cfg Config) Config {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ObjectStoreType = normalizeStoreType(cfg.ObjectStoreType)
	cfg.Host = defaultString(cfg.Host, DefaultHost)
	cfg.Port = defaultString(cfg.Port, DefaultPort)
	cfg.OutputDir = defaultString(cfg.OutputDir, DefaultOutputDir)
	cfg.StaticDir = defaultString(cfg.StaticDir, DefaultStaticDir)
	cfg.OCRLanguages = defaultString(cfg.OCRLanguages, DefaultOCRLanguages)
	if strings.TrimSpace(cfg.TempDir) == "" {
		cfg.TempDir = os.TempDir()
	}
	cfg.TempDir = filepath.Clean(cfg.TempDir)
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.RateLimitRPS < 0 {
		cfg.RateLimitRPS = 0
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 1
	}
	if cfg.Env == "production" && strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Warn("config.database_url.missing", map[string]any{"env": cfg.Env})
	}
	return cfg
}

// Languages splits the configured OCR languages on '+' the way tesseract's -l flag does.
func (c Config) Languages() []string {
	return SplitLanguages(c.OCRLanguages)
}

// SplitLanguages splits a tesseract language list such as "eng+chi_tra".
func SplitLanguages(raw string) []string {
	var out []string
	for _, p := range strings.FieldsFunc(raw, func(r rune) bool { return r == '+' || r == ',' }) {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultString(val, def string) string {
	if strings.TrimSpace(val) == "" {
		return def
	}
	return strings.TrimSpace(val)
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
