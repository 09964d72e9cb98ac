package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ChatAddr  string `env:"CHAT_ADDR"  envDefault:"127.0.0.1:8080" validate:"required,listen_addr"`
	AdminAddr string `env:"ADMIN_ADDR" envDefault:"127.0.0.1:9090" validate:"omitempty,listen_addr"`

	DefaultRoom  string `env:"DEFAULT_ROOM"   envDefault:"main"  validate:"required,printascii"`
	NameLabel    string `env:"NAME_LABEL"     envDefault:"Anon"  validate:"required,printascii"`
	RoomCapacity int    `env:"ROOM_CAPACITY"  envDefault:"40"    validate:"min=1,max=4096"`
	MaxLineBytes int    `env:"MAX_LINE_BYTES" envDefault:"65536" validate:"min=64"`

	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"10s" validate:"min=0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"  validate:"min=0"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

// Default returns the configuration produced by an empty environment.
func Default() Config {
	var cfg Config
	// envDefault tags are static, parsing cannot fail on them.
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

// Load reads an optional .env file, then the process environment, and
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Debug(".env file not loaded", "error", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	v := validator.New()
	// hostname_port rejects port 0, which asks the kernel for a free port.
	_ = v.RegisterValidation("listen_addr", validListenAddr)
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	// Room and name tokens are split on whitespace by the line protocol.
	for field, val := range map[string]string{"DefaultRoom": c.DefaultRoom, "NameLabel": c.NameLabel} {
		if strings.ContainsFunc(val, unicode.IsSpace) {
			return fmt.Errorf("validate config: %s must not contain whitespace", field)
		}
	}
	return nil
}

func validListenAddr(fl validator.FieldLevel) bool {
	_, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 0 && n <= 65535
}

// SlogLevel maps LogLevel onto slog levels. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
