package globalconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the current config schema version.
const Version = "1.0"

var (
	// ErrNotInitialized is returned when config doesn't exist or has no project path.
	ErrNotInitialized = errors.New("shipctl not initialized: run 'shipctl init <path>' first")
	// ErrProjectNotFound is returned when the configured project path doesn't exist.
	ErrProjectNotFound = errors.New("configured project path does not exist")
)

// Config represents the global shipctl configuration.
type Config struct {
	Version     string        `yaml:"version"`
	ProjectPath string        `yaml:"project_path"` // Set by `shipctl init`
	Deploy      DeployConfig  `yaml:"deploy"`
	Build       BuildConfig   `yaml:"build"`
	Project     ProjectConfig `yaml:"project"`
	LogFile     string        `yaml:"log_file,omitempty"` // Empty = state/shipctl.log
}

// DeployConfig configures the deploy helper.
type DeployConfig struct {
	CLI               string   `yaml:"cli"`                // Deployment CLI on PATH
	Service           string   `yaml:"service"`            // Remote service name
	Args              []string `yaml:"args,omitempty"`     // Extra args after "up --service <name>"
	EnvFile           string   `yaml:"env_file,omitempty"` // Relative to the project path
	PropagateExitCode bool     `yaml:"propagate_exit_code"`
}

// BuildConfig configures the build helper.
type BuildConfig struct {
	Source         string   `yaml:"source"`          // Script to package
	Packager       string   `yaml:"packager"`        // Packaging tool on PATH
	ProbeArgs      []string `yaml:"probe_args"`      // Availability probe
	InstallCommand []string `yaml:"install_command"` // Runs when the probe fails
	NoConsole      bool     `yaml:"no_console"`
	DistDir        string   `yaml:"dist_dir"` // Where the packaging tool writes its artifact
}

// ProjectConfig lists the files `shipctl info` reports on.
type ProjectConfig struct {
	Markers []string `yaml:"markers"` // Trailing "/" marks a directory
}

// Defaults for the deploy and build helpers.
const (
	DefaultDeployCLI = "railway"
	DefaultService   = "fc-bot"
	DefaultEnvFile   = ".env"
	DefaultSource    = "cheshire_admin_gui.py"
	DefaultPackager  = "pyinstaller"
	DefaultDistDir   = "dist"
)

// DefaultMarkers are the project files shown by `shipctl info`.
func DefaultMarkers() []string {
	return []string{
		"bot.py",
		"config.py",
		"data/",
		"cogs/",
		"data/statuses.json",
		"data/birthdays.json",
	}
}

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version:     Version,
		ProjectPath: "",
		Deploy: DeployConfig{
			CLI:               DefaultDeployCLI,
			Service:           DefaultService,
			EnvFile:           DefaultEnvFile,
			PropagateExitCode: true,
		},
		Build: BuildConfig{
			Source:         DefaultSource,
			Packager:       DefaultPackager,
			ProbeArgs:      []string{"--help"},
			InstallCommand: []string{"python", "-m", "pip", "install", DefaultPackager},
			NoConsole:      true,
			DistDir:        DefaultDistDir,
		},
		Project: ProjectConfig{
			Markers: DefaultMarkers(),
		},
	}
}

// applyDefaults fills zero-valued fields from NewConfig. Boolean fields are
// left alone since false is a valid choice.
func (c *Config) applyDefaults() {
	def := NewConfig()

	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Deploy.CLI == "" {
		c.Deploy.CLI = def.Deploy.CLI
	}
	if c.Deploy.Service == "" {
		c.Deploy.Service = def.Deploy.Service
	}
	if c.Build.Source == "" {
		c.Build.Source = def.Build.Source
	}
	if c.Build.Packager == "" {
		c.Build.Packager = def.Build.Packager
	}
	if len(c.Build.ProbeArgs) == 0 {
		c.Build.ProbeArgs = def.Build.ProbeArgs
	}
	if len(c.Build.InstallCommand) == 0 {
		c.Build.InstallCommand = []string{"python", "-m", "pip", "install", c.Build.Packager}
	}
	if c.Build.DistDir == "" {
		c.Build.DistDir = def.Build.DistDir
	}
	if len(c.Project.Markers) == 0 {
		c.Project.Markers = def.Project.Markers
	}
}

// Load loads the config from ~/.config/shipctl/config.yaml.
// Returns ErrNotInitialized if config doesn't exist.
// Automatically migrates from the legacy JSON config if needed.
func Load() (*Config, error) {
	// Check for and perform migration from the legacy JSON config
	migrated, err := MigrateFromLegacy()
	if err != nil {
		return nil, fmt.Errorf("failed to migrate legacy settings: %w", err)
	}
	if migrated {
		fmt.Println("Migrated settings from " + LegacySettingsFileName + " to " + ConfigFileName)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	cfg, err := ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}

	// Validate project path is set
	if cfg.ProjectPath == "" {
		return nil, ErrNotInitialized
	}

	return cfg, nil
}

// ReadFile parses the config at path and fills defaults. The raw
// os.ReadFile error is returned so callers can test for os.IsNotExist.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Decode over defaults so omitted keys, booleans included, keep them.
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrCreate loads the config if it exists, or creates a new one.
// Unlike Load(), this doesn't require the config to be initialized.
func LoadOrCreate() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		if errors.Is(err, ErrNotInitialized) {
			configPath, pathErr := GetConfigPath()
			if pathErr == nil {
				// A config without project_path still carries helper settings.
				if existing, readErr := ReadFile(configPath); readErr == nil {
					return existing, nil
				}
			}
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save saves the config to ~/.config/shipctl/config.yaml.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// ProjectDir returns the project path and validates it exists.
func (c *Config) ProjectDir() (string, error) {
	if c.ProjectPath == "" {
		return "", ErrNotInitialized
	}

	info, err := os.Stat(c.ProjectPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrProjectNotFound, c.ProjectPath)
		}
		return "", fmt.Errorf("failed to access project path: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("project path is not a directory: %s", c.ProjectPath)
	}

	return c.ProjectPath, nil
}

// EnvFilePath returns the env file to load for a deploy in dir, or "" when
// none is configured. A non-empty override replaces deploy.env_file.
// Relative names resolve against dir, or the project path when dir is empty.
func (c *Config) EnvFilePath(dir, override string) string {
	name := override
	if name == "" {
		name = c.Deploy.EnvFile
	}
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	if dir == "" {
		dir = c.ProjectPath
	}
	return filepath.Join(dir, name)
}

// LogPath returns the configured log file or the default under the state dir.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	return GetLogPath()
}

// IsInitialized checks if the config exists and has a valid project path.
func IsInitialized() bool {
	cfg, err := Load()
	if err != nil {
		return false
	}
	_, err = cfg.ProjectDir()
	return err == nil
}

// SetProjectPath sets and validates the project path.
func (c *Config) SetProjectPath(path string) error {
	// Resolve to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	// Validate path exists and is a directory
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", absPath)
		}
		return fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", absPath)
	}

	c.ProjectPath = absPath
	return nil
}
