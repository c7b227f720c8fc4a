package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/driftdrop/driftdrop/internal/util"
)

type Config struct {
	Server    Server    `json:"server"`
	Limits    Limits    `json:"limits"`
	Keepalive Keepalive `json:"keepalive"`
}

type Server struct {
	// Bind address. Default "0.0.0.0" (the whole LAN is the audience).
	Bind string `json:"bind"`

	// Listen port. 0 lets the OS pick, which the tests rely on.
	Port int `json:"port"`
}

type Limits struct {
	// Maximum inbound frame size in bytes. The server blindly relays
	// payloads, so this is the only cap on per-frame memory.
	MaxFrameBytes int64 `json:"max_frame_bytes"`

	// Per-IP websocket connection attempts per minute.
	ConnectsPerMinute int `json:"connects_per_minute"`
}

type Keepalive struct {
	// Seconds between application-level pings. A session that stays
	// silent for twice this long is evicted.
	PingIntervalSec int `json:"ping_interval_sec"`
}

func Default() Config {
	return Config{
		Server: Server{
			Bind: "0.0.0.0",
			Port: 3002,
		},
		Limits: Limits{
			MaxFrameBytes:     64 * 1024,
			ConnectsPerMinute: 60,
		},
		Keepalive: Keepalive{
			PingIntervalSec: 30,
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("server.port must be 0..65535")
	}
	if b := c.Server.Bind; b != "" {
		if net.ParseIP(b) == nil {
			return errors.New("server.bind must be a valid IP address")
		}
	}
	if c.Limits.MaxFrameBytes < 1024 {
		return errors.New("limits.max_frame_bytes must be >= 1024")
	}
	if c.Limits.ConnectsPerMinute <= 0 {
		return errors.New("limits.connects_per_minute must be > 0")
	}
	if c.Keepalive.PingIntervalSec <= 0 {
		return errors.New("keepalive.ping_interval_sec must be > 0")
	}
	return nil
}

// Addr returns the bind address in host:port form.
func (c *Config) Addr() string {
	bind := c.Server.Bind
	if bind == "" {
		bind = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", bind, c.Server.Port)
}

// ApplyEnv applies environment overrides. PORT, when set, replaces
// server.port; a non-integer value is a startup error.
func (c *Config) ApplyEnv() error {
	raw := strings.TrimSpace(os.Getenv("PORT"))
	if raw == "" {
		return nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("PORT must be an integer 0..65535, got %q", raw)
	}
	c.Server.Port = port
	return nil
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	// Strip UTF-8 BOM if present (common when editing JSON on Windows).
	b = stripBOM(b)

	// Start from defaults so missing JSON fields remain initialized.
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// stripBOM removes a UTF-8 byte order mark if present.
func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	return util.WriteJSONFile(path, cfg)
}

// Ensure loads config if it exists; otherwise creates a default config file.
// Returns (cfg, createdNew, err).
func Ensure(path string) (Config, bool, error) {
	if _, err := os.Stat(path); err == nil {
		cfg, err := Load(path)
		return cfg, false, err
	} else if !os.IsNotExist(err) {
		return Config{}, false, err
	}

	cfg := Default()
	if err := Save(path, cfg); err != nil {
		return Config{}, false, fmt.Errorf("create default config: %w", err)
	}
	return cfg, true, nil
}
