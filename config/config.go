package config

import (
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Engine configuration
	Engine struct {
		// Number of workers draining the request queue
		Workers int `env:"ENGINE_WORKERS" envDefault:"2"`

		// Maximum number of requests waiting for a worker
		QueueSize int `env:"ENGINE_QUEUE_SIZE" envDefault:"64"`

		// Inputs at least this large are filtered/searched in parallel chunks
		ParallelThreshold int `env:"ENGINE_PARALLEL_THRESHOLD" envDefault:"5000"`

		// Number of goroutines used for a parallel pass
		Parallelism int `env:"ENGINE_PARALLELISM" envDefault:"4"`

		// Fuzzy bonus applied when a search request leaves it unset
		FuzzyDefault bool `env:"ENGINE_FUZZY_DEFAULT" envDefault:"true"`
	}

	Log struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
	}

	Server struct {
		Port           string   `env:"SERVER_PORT" envDefault:"5250"`
		AllowedOrigins []string `env:"SERVER_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	}

	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/listings.db"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewLogger builds the process logger from the Log section.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if strings.EqualFold(c.Log.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		logger.WithField("level", c.Log.Level).Warn("Unknown log level, falling back to info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
