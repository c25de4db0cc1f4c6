package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/myblueprint/internal/infra/registry/clinvar"
)

type Config struct {
	Server struct {
		Port              int               `yaml:"port"`
		AllowedOrigins    []string          `yaml:"allowedOrigins"`
		APIKeys           map[string]string `yaml:"apiKeys"` // tenant -> key
		MaxUploadMB       int64             `yaml:"maxUploadMB"`
		MaxDecompressedMB int64             `yaml:"maxDecompressedMB"`
		RateLimit         struct {
			Capacity   int `yaml:"capacity"`
			RefillRate int `yaml:"refillRate"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Registry struct {
		BaseURL           string        `yaml:"baseURL"`
		APIKey            string        `yaml:"apiKey"`
		Tool              string        `yaml:"tool"`
		Email             string        `yaml:"email"`
		Timeout           time.Duration `yaml:"timeout"`
		RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	} `yaml:"registry"`

	Verification struct {
		Enabled    *bool `yaml:"enabled"`
		MaxWorkers int   `yaml:"maxWorkers"`
		Candidates int   `yaml:"candidates"`
	} `yaml:"verification"`

	KnowledgeBase struct {
		Path string `yaml:"path"`
	} `yaml:"knowledgeBase"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres | sqlite | "" (disabled)
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		Path     string `yaml:"path"` // sqlite file
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// Load baca file config.yaml. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.ApplyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("NCBI_API_KEY"); v != "" {
		c.Registry.APIKey = v
	}
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = 64
	}
	if c.Server.MaxDecompressedMB <= 0 {
		c.Server.MaxDecompressedMB = 256
	}
	if c.Server.RateLimit.Capacity <= 0 {
		c.Server.RateLimit.Capacity = 10
	}
	if c.Server.RateLimit.RefillRate <= 0 {
		c.Server.RateLimit.RefillRate = 1
	}
	if c.Registry.Timeout <= 0 {
		c.Registry.Timeout = 10 * time.Second
	}
	if c.Registry.RequestsPerSecond == 0 {
		c.Registry.RequestsPerSecond = clinvar.DefaultRate(c.Registry.APIKey)
	}
	if c.Registry.Tool == "" {
		c.Registry.Tool = "myblueprint"
	}
	if c.Verification.Enabled == nil {
		on := true
		c.Verification.Enabled = &on
	}
	if c.Verification.MaxWorkers <= 0 {
		c.Verification.MaxWorkers = 5
	}
	if c.Verification.Candidates <= 0 {
		c.Verification.Candidates = 5
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "myblueprint.db"
	}
	if c.Minio.BucketName == "" {
		c.Minio.BucketName = "genome-reports"
	}
}

// VerificationEnabled reports whether live registry checks run.
func (c *Config) VerificationEnabled() bool {
	return c.Verification.Enabled == nil || *c.Verification.Enabled
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		ssl,
	)
}
