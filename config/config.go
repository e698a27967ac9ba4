package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/hostfs/internal/util"
	"gopkg.in/yaml.v3"
)

// CLI verbosity levels. Overrides carry verbosity, Config carries the
// resulting [util.LogLevel].
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultFsName = "hostfs"
	DefaultName   = "hostfs"

	DefaultLogLvl = util.InfoLevel

	// DefaultUserDataPath is the host's user data prefix. Every resolved path
	// starts with it.
	DefaultUserDataPath = "/usr"

	// DefaultPersistentRoot is the segment under the user data prefix that
	// survives restarts.
	DefaultPersistentRoot = "/data"

	// DefaultMountRoot places the mount directly under the persistent root.
	DefaultMountRoot = ""

	// DefaultHostType is the registry key of the host to run on.
	DefaultHostType = "billy-os"

	// DefaultHostDir is the real directory OS-backed hosts are rooted at.
	DefaultHostDir = "./hostdata"

	// DefaultAttrTimeout is the attribute cache timeout in seconds
	DefaultAttrTimeout = 1.0

	// DefaultEntryTimeout is the directory entry cache timeout in seconds
	DefaultEntryTimeout = 1.0

	// DefaultQueueDepth is how many FUSE requests may wait for the adapter.
	DefaultQueueDepth = 64

	// DefaultMetricsAddr disables the metrics endpoint.
	DefaultMetricsAddr = ""
)

// MountOptions holds high-level settings for mounting.
// No go-fuse types are exposed here.
type MountOptions struct {
	Debug  bool   // fuse debug logs
	FsName string // mount's FsName
	Name   string // mount's Name
}

// Config contains runtime configuration values for the host filesystem.
type Config struct {
	MountOptions
	LogLvl util.LogLevel

	UserDataPath   string // Host user data prefix (Default "/usr")
	PersistentRoot string // Persistent segment under UserDataPath (Default "/data")
	MountRoot      string // Segment under PersistentRoot holding this mount's files (Default "")
	HostType       string // Registered host type to run on (Default "billy-os")
	HostDir        string // Base directory of OS-backed hosts (Default "./hostdata")

	AttrTimeout  float64 // Attribute cache timeout in seconds (Default 1.0)
	EntryTimeout float64 // Directory entry cache timeout in seconds (Default 1.0)
	QueueDepth   int     // Pending FUSE requests before callers block (Default 64)
	MetricsAddr  string  // Listen address of the /metrics endpoint, empty to disable
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	Debug          *bool    `yaml:"debug,omitempty" json:"debug,omitempty"`
	FsName         *string  `yaml:"fs_name,omitempty" json:"fs_name,omitempty"`
	Name           *string  `yaml:"name,omitempty" json:"name,omitempty"`
	LogLvl         *int     `yaml:"verbose,omitempty" json:"verbose,omitempty"` // CLI verbosity 1 (error) to 5 (trace)
	UserDataPath   *string  `yaml:"user_data_path,omitempty" json:"user_data_path,omitempty"`
	PersistentRoot *string  `yaml:"persistent_root,omitempty" json:"persistent_root,omitempty"`
	MountRoot      *string  `yaml:"mount_root,omitempty" json:"mount_root,omitempty"`
	HostType       *string  `yaml:"host_type,omitempty" json:"host_type,omitempty"`
	HostDir        *string  `yaml:"host_dir,omitempty" json:"host_dir,omitempty"`
	AttrTimeout    *float64 `yaml:"attr_timeout,omitempty" json:"attr_timeout,omitempty"`
	EntryTimeout   *float64 `yaml:"entry_timeout,omitempty" json:"entry_timeout,omitempty"`
	QueueDepth     *int     `yaml:"queue_depth,omitempty" json:"queue_depth,omitempty"`
	MetricsAddr    *string  `yaml:"metrics_addr,omitempty" json:"metrics_addr,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		MountOptions: MountOptions{
			FsName: DefaultFsName,
			Name:   DefaultName,
		},
		LogLvl:         DefaultLogLvl,
		UserDataPath:   DefaultUserDataPath,
		PersistentRoot: DefaultPersistentRoot,
		MountRoot:      DefaultMountRoot,
		HostType:       DefaultHostType,
		HostDir:        DefaultHostDir,
		AttrTimeout:    DefaultAttrTimeout,
		EntryTimeout:   DefaultEntryTimeout,
		QueueDepth:     DefaultQueueDepth,
		MetricsAddr:    DefaultMetricsAddr,
	}
}

// NewConfig returns the defaults with override applied. A nil override
// yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// VerbosityToLogLevel clamps v to 1..5 and returns the matching log level.
func VerbosityToLogLevel(v int) util.LogLevel {
	v = max(ErrorVerbose, min(v, TraceVerbose))
	lvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return lvls[v-1]
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.Debug != nil {
		c.Debug = *override.Debug
	}
	if override.FsName != nil {
		c.FsName = *override.FsName
	}
	if override.Name != nil {
		c.Name = *override.Name
	}
	if override.LogLvl != nil {
		c.LogLvl = VerbosityToLogLevel(*override.LogLvl)
	}
	if override.UserDataPath != nil {
		c.UserDataPath = *override.UserDataPath
	}
	if override.PersistentRoot != nil {
		c.PersistentRoot = *override.PersistentRoot
	}
	if override.MountRoot != nil {
		c.MountRoot = *override.MountRoot
	}
	if override.HostType != nil {
		c.HostType = *override.HostType
	}
	if override.HostDir != nil {
		c.HostDir = *override.HostDir
	}
	if override.AttrTimeout != nil {
		c.AttrTimeout = *override.AttrTimeout
	}
	if override.EntryTimeout != nil {
		c.EntryTimeout = *override.EntryTimeout
	}
	if override.QueueDepth != nil {
		c.QueueDepth = *override.QueueDepth
	}
	if override.MetricsAddr != nil {
		c.MetricsAddr = *override.MetricsAddr
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
