package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"jobdeck-api/internal/logging"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Workers struct {
		PoolSize  int           `yaml:"pool_size" default:"10"`
		QueueSize int           `yaml:"queue_size" default:"100"`
		RateLimit int           `yaml:"rate_limit" default:"30"` // optimize requests per user per minute
		Timeout   time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"workers"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"claude"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"claude-3-haiku-20240307"`
		MaxTokens   int           `yaml:"max_tokens" default:"8192"`
		Temperature float32       `yaml:"temperature" default:"0.1"`
		Timeout     time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"llm"`

	CV struct {
		// HistoryLimit bounds the optimization history kept per CV; the
		// oldest run is evicted first once the bound is reached.
		HistoryLimit int           `yaml:"history_limit" default:"10"`
		SessionTTL   time.Duration `yaml:"session_ttl" default:"24h"`
	} `yaml:"cv"`

	Schedule struct {
		DefaultLimit int `yaml:"default_limit" default:"200"`
	} `yaml:"schedule"`

	Pricing struct {
		Currency string `yaml:"currency" default:"USD"`
	} `yaml:"pricing"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Database struct {
		URL      string        `yaml:"url"`
		MaxConns int           `yaml:"max_conns" default:"10"`
		Timeout  time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"database"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Workers.PoolSize = 10
	config.Workers.QueueSize = 100
	config.Workers.RateLimit = 30
	config.Workers.Timeout = 120 * time.Second

	config.LLM.Provider = "claude"
	config.LLM.MaxTokens = 8192
	config.LLM.Temperature = 0.1
	config.LLM.Timeout = 120 * time.Second

	config.CV.HistoryLimit = 10
	config.CV.SessionTTL = 24 * time.Hour

	config.Schedule.DefaultLimit = 200

	config.Pricing.Currency = "USD"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	config.Database.URL = "postgres://localhost:5432/jobdeck?sslmode=disable"
	config.Database.MaxConns = 10
	config.Database.Timeout = 10 * time.Second

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		c.Database.URL = databaseURL
	}

	if maxConns := os.Getenv("DATABASE_MAX_CONNS"); maxConns != "" {
		if conns, err := strconv.Atoi(maxConns); err == nil {
			c.Database.MaxConns = conns
		}
	}

	if historyLimit := os.Getenv("CV_HISTORY_LIMIT"); historyLimit != "" {
		if limit, err := strconv.Atoi(historyLimit); err == nil && limit > 0 {
			c.CV.HistoryLimit = limit
		}
	}

	if sessionTTL := os.Getenv("CV_SESSION_TTL"); sessionTTL != "" {
		if ttl, err := time.ParseDuration(sessionTTL); err == nil {
			c.CV.SessionTTL = ttl
		}
	}

	if poolSize := os.Getenv("WORKERS_POOL_SIZE"); poolSize != "" {
		if size, err := strconv.Atoi(poolSize); err == nil {
			c.Workers.PoolSize = size
		}
	}

	if rateLimit := os.Getenv("WORKERS_RATE_LIMIT"); rateLimit != "" {
		if limit, err := strconv.Atoi(rateLimit); err == nil {
			c.Workers.RateLimit = limit
		}
	}
}

// LoggerConfig converts the logging section into the logging package's
// configuration type
func (c *Config) LoggerConfig() logging.LoggerConfig {
	cfg := logging.LoggerConfig{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
	}
	for _, a := range c.Logging.Adapters {
		cfg.Adapters = append(cfg.Adapters, logging.AdapterConfig{
			Name:    a.Name,
			Type:    a.Type,
			Enabled: a.Enabled,
			Options: a.Options,
		})
	}
	return cfg
}
