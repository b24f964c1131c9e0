package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the daemon configuration
type Config struct {
	// Server settings
	Server struct {
		Address        string `toml:"address"`
		MaxMessageSize int    `toml:"max_message_size"`
	} `toml:"server"`

	// Storage settings
	Storage struct {
		RulesetsDir string `toml:"rulesets_dir"`
	} `toml:"storage"`

	// Generation settings
	Generation struct {
		InstructionBudget    uint64 `toml:"instruction_budget"`
		MaxWorldColumns      uint16 `toml:"max_world_columns"`
		MaxWorldRows         uint16 `toml:"max_world_rows"`
		DeviceTickIntervalMs int    `toml:"device_tick_interval_ms"`
	} `toml:"generation"`

	// Logging settings
	Logging struct {
		OutputFile string `toml:"output_file"`
		Level      string `toml:"level"` // debug, info, warn, error
	} `toml:"logging"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Server defaults
	cfg.Server.Address = "127.0.0.1:8420"
	cfg.Server.MaxMessageSize = 1 << 20 // 1MB

	// Storage defaults
	cfg.Storage.RulesetsDir = "rulesets"

	// Generation defaults
	cfg.Generation.InstructionBudget = 4096
	cfg.Generation.MaxWorldColumns = 65535
	cfg.Generation.MaxWorldRows = 65535
	cfg.Generation.DeviceTickIntervalMs = 10

	// Logging defaults
	cfg.Logging.OutputFile = "renfrewriverd.log"
	cfg.Logging.Level = "info"

	return cfg
}

// GetConfigPath returns the platform-specific config file path
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\renfrew-river\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "renfrew-river")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/renfrew-river/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "renfrew-river")

	default:
		// Unknown platform: use current directory
		return "config.toml"
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0750); err != nil {
		// If we can't create the directory, fall back to current directory
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetDataPath returns the platform-specific data directory path, the
// parent a relative Storage.RulesetsDir resolves against
func GetDataPath() string {
	switch runtime.GOOS {
	case "windows":
		dataDir := os.Getenv("APPDATA")
		if dataDir == "" {
			dataDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dataDir = filepath.Join(dataDir, "renfrew-river")
		if err := os.MkdirAll(dataDir, 0750); err != nil {
			return "."
		}
		return dataDir

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dataDir := filepath.Join(homeDir, ".local", "share", "renfrew-river")
		if err := os.MkdirAll(dataDir, 0750); err != nil {
			return "."
		}
		return dataDir

	default:
		return "."
	}
}

// GetLogPath returns the platform-specific log directory path
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\renfrew-river\logs
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "renfrew-river", "logs")

	case "darwin", "linux":
		// macOS/Linux: ~/.local/share/renfrew-river/logs
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "renfrew-river", "logs")

	default:
		return "logs"
	}

	// Ensure directory exists
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read and parse config file
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file
	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	// Encode to TOML
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
