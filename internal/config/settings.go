package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"
)

// Settings are the process-level options, read from an optional YAML file and
// then overridden by IMGPIPE_ environment variables
type Settings struct {
	LogLevel     string        `yaml:"log_level" env:"IMGPIPE_LOG_LEVEL" env-default:"info" env-description:"trace, debug, info, warn or error"`
	FontDirs     []string      `yaml:"font_dirs" env:"IMGPIPE_FONT_DIRS" env-separator:":" env-description:"extra directories searched for fonts"`
	DefaultFont  string        `yaml:"default_font" env:"IMGPIPE_DEFAULT_FONT" env-default:"arial.ttf"`
	Workers      int           `yaml:"workers" env:"IMGPIPE_WORKERS" env-default:"4"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"IMGPIPE_FETCH_TIMEOUT" env-default:"30s"`
	Server       Server        `yaml:"server"`
}

type Server struct {
	Port         int           `yaml:"port" env:"IMGPIPE_PORT" env-default:"8080"`
	InboxDir     string        `yaml:"inbox" env:"IMGPIPE_INBOX" env-default:"./data/inbox"`
	OutboxDir    string        `yaml:"outbox" env:"IMGPIPE_OUTBOX" env-default:"./data/outbox"`
	OutputFormat string        `yaml:"output_format" env:"IMGPIPE_OUTPUT_FORMAT" env-default:"jpg"`
	ScanInterval time.Duration `yaml:"scan_interval" env:"IMGPIPE_SCAN_INTERVAL" env-default:"1m"`
	MaxUploadMB  int64         `yaml:"max_upload_mb" env:"IMGPIPE_MAX_UPLOAD_MB" env-default:"32"`
}

func Load(path string) (*Settings, error) {
	var s Settings
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &s)
	} else {
		err = cleanenv.ReadEnv(&s)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return &s, nil
}

func (s *Settings) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil || s.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}
