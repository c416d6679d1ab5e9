// Package config loads the mpci configuration using koanf.
//
// Layers are applied lowest to highest: built-in defaults, legacy environment
// variables (APPID, ROBOT, HTTPS_PROXY), the user config
// (~/.config/mpci/config.yml), the project config (mpci.yml, or a .json file)
// and MPCI_* environment variables. The active environment profile is then
// overlaid on the compile settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/yuuuuuyu/miniapp-template/internal/notify"
)

// EnvPrefix is the prefix of environment variables mapped onto config keys.
const EnvPrefix = "MPCI_"

// Configuration is the effective mpci configuration.
type Configuration struct {
	AppID           string   `koanf:"appid" yaml:"appid"`
	ProjectName     string   `koanf:"project_name" yaml:"project_name"`
	ProjectPath     string   `koanf:"project_path" yaml:"project_path"`
	MiniprogramRoot string   `koanf:"miniprogram_root" yaml:"miniprogram_root"`
	PrivateKeyPath  string   `koanf:"private_key_path" yaml:"private_key_path"`
	Ignores         []string `koanf:"ignores" yaml:"ignores"`

	// Robot is the CI robot slot (1-30) shown in the version list.
	Robot int    `koanf:"robot" yaml:"robot" validate:"min=1,max=30"`
	Proxy string `koanf:"proxy" yaml:"proxy"`

	StateDir string `koanf:"state_dir" yaml:"state_dir"`

	Setting  Setting            `koanf:"setting" yaml:"setting"`
	Preview  PreviewConfig      `koanf:"preview" yaml:"preview"`
	Upload   UploadConfig       `koanf:"upload" yaml:"upload"`
	SDK      SDKConfig          `koanf:"sdk" yaml:"sdk"`
	History  HistoryConfig      `koanf:"history" yaml:"history"`
	Profiles map[string]Profile `koanf:"env" yaml:"env,omitempty"`

	// Notifications configures desktop notifications for local runs.
	Notifications notify.NotificationConfig `koanf:"notifications" yaml:"notifications"`

	// ActiveProfile is the environment profile applied by Load.
	ActiveProfile string `koanf:"-" yaml:"-"`
}

// Setting holds the compile options passed to the SDK.
type Setting struct {
	UseProjectConfig        bool `koanf:"use_project_config" yaml:"use_project_config"`
	ES6                     bool `koanf:"es6" yaml:"es6"`
	Minified                bool `koanf:"minified" yaml:"minified"`
	MinifyWXSS              bool `koanf:"minify_wxss" yaml:"minify_wxss"`
	MinifyWXML              bool `koanf:"minify_wxml" yaml:"minify_wxml"`
	UploadWithSourceMap     bool `koanf:"upload_with_source_map" yaml:"upload_with_source_map"`
	IgnoreUploadUnusedFiles bool `koanf:"ignore_upload_unused_files" yaml:"ignore_upload_unused_files"`
}

// PreviewConfig holds defaults for the preview command.
type PreviewConfig struct {
	QRCodeFormat     string `koanf:"qrcode_format" yaml:"qrcode_format" validate:"oneof=terminal image base64"`
	QRCodeOutputDest string `koanf:"qrcode_output_dest" yaml:"qrcode_output_dest"`
	PagePath         string `koanf:"page_path" yaml:"page_path"`
	SearchQuery      string `koanf:"search_query" yaml:"search_query"`
	Scene            int    `koanf:"scene" yaml:"scene" validate:"min=0"`
	Desc             string `koanf:"desc" yaml:"desc"`
}

// UploadConfig holds defaults for the upload command.
type UploadConfig struct {
	Desc string `koanf:"desc" yaml:"desc"`
	// Version is the fallback when neither VersionEnv nor the manifest has one.
	Version    string `koanf:"version" yaml:"version"`
	VersionEnv string `koanf:"version_env" yaml:"version_env"`

	DescFormat    string `koanf:"desc_format" yaml:"desc_format"`
	DescMaxLength int    `koanf:"desc_max_length" yaml:"desc_max_length" validate:"min=0"`
	IncludeHash   bool   `koanf:"include_hash" yaml:"include_hash"`
	CommitCount   int    `koanf:"commit_count" yaml:"commit_count" validate:"min=1"`

	IncrementType string `koanf:"increment_type" yaml:"increment_type" validate:"oneof=major minor patch auto"`
	AutoIncrement bool   `koanf:"auto_increment" yaml:"auto_increment"`
}

// SDKConfig controls how the SDK command line is invoked.
type SDKConfig struct {
	Command string `koanf:"command" yaml:"command" validate:"required"`
	Timeout string `koanf:"timeout" yaml:"timeout"`
}

// HistoryConfig controls the local upload/preview history.
type HistoryConfig struct {
	MaxEntries int `koanf:"max_entries" yaml:"max_entries" validate:"min=0"`
}

// Profile is an environment-specific overlay.
type Profile struct {
	Desc    string          `koanf:"desc" yaml:"desc,omitempty"`
	Setting map[string]bool `koanf:"setting" yaml:"setting,omitempty"`
}

// LoadOptions configures Load.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path.
	ProjectConfigPath string
	// UserConfigPath overrides the user config path. Tests use it to isolate
	// from the real home directory.
	UserConfigPath string
	// SkipUserConfig disables the user config layer.
	SkipUserConfig bool
	// Profile overrides the MPCI_ENV/NODE_ENV profile selection.
	Profile string
	// ProjectPath overrides project_path from every other layer.
	ProjectPath string
}

// Load loads the configuration, reading the project config from projectConfigPath
// when it is non-empty.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads the configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)
	loadLegacyEnv(k)

	if !opts.SkipUserConfig {
		userPath := opts.UserConfigPath
		if userPath == "" {
			userPath, _ = UserConfigPath()
		}
		if err := loadConfigFile(k, userPath, "user"); err != nil {
			return nil, err
		}
	}

	projectPath := opts.ProjectConfigPath
	if projectPath == "" {
		projectPath = ProjectConfigPath()
	}
	if err := loadConfigFile(k, projectPath, "project"); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}
	if opts.ProjectPath != "" {
		k.Set("project_path", opts.ProjectPath)
	}

	profile := ActiveProfileName(opts.Profile)
	if err := applyProfile(k, profile); err != nil {
		return nil, err
	}

	cfg, err := finalizeConfig(k, projectPath)
	if err != nil {
		return nil, err
	}
	cfg.ActiveProfile = profile
	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadLegacyEnv maps the environment variables the Node.js tooling used.
// They sit just above the defaults so any config file wins over them.
func loadLegacyEnv(k *koanf.Koanf) {
	if v := os.Getenv("APPID"); v != "" {
		k.Set("appid", v)
	}
	if v := os.Getenv("ROBOT"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			k.Set("robot", n)
		}
	}
	for _, name := range []string{"HTTPS_PROXY", "HTTP_PROXY"} {
		if v := os.Getenv(name); v != "" {
			k.Set("proxy", v)
			break
		}
	}
}

// loadConfigFile loads a YAML or JSON config file. A missing file is skipped.
func loadConfigFile(k *koanf.Koanf, path, configType string) error {
	if !fileExists(path) {
		return nil
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
		}
		return nil
	}

	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// ActiveProfileName returns override, then MPCI_ENV, then NODE_ENV, then
// DefaultProfile.
func ActiveProfileName(override string) string {
	for _, v := range []string{override, os.Getenv(EnvPrefix + "ENV"), os.Getenv("NODE_ENV")} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return DefaultProfile
}

// applyProfile merges env.<profile>.setting over setting and prefixes the
// upload description with the profile description.
func applyProfile(k *koanf.Koanf, profile string) error {
	base := "env." + profile
	if !k.Exists(base) {
		return nil
	}

	if k.Exists(base + ".setting") {
		if err := k.MergeAt(k.Cut(base+".setting"), "setting"); err != nil {
			return fmt.Errorf("applying %s profile settings: %w", profile, err)
		}
	}

	if desc := k.String(base + ".desc"); desc != "" {
		if upload := k.String("upload.desc"); upload != "" {
			desc = desc + " - " + upload
		}
		k.Set("upload.desc", desc)
	}
	return nil
}

func finalizeConfig(k *koanf.Koanf, source string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, source); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.StateDir = expandHomePath(cfg.StateDir)
	cfg.ProjectPath = resolveProjectPath(cfg.ProjectPath)
	cfg.PrivateKeyPath = resolvePrivateKeyPath(cfg.PrivateKeyPath, cfg.ProjectPath, cfg.AppID)
	if cfg.Preview.QRCodeOutputDest != "" && !filepath.IsAbs(cfg.Preview.QRCodeOutputDest) {
		cfg.Preview.QRCodeOutputDest = filepath.Join(cfg.ProjectPath, cfg.Preview.QRCodeOutputDest)
	}

	return &cfg, nil
}

// SDKTimeout parses sdk.timeout. Empty or invalid values mean no timeout.
func (c *Configuration) SDKTimeout() time.Duration {
	d, err := time.ParseDuration(c.SDK.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// ManifestPath returns the package.json holding the project version.
func (c *Configuration) ManifestPath() string {
	return filepath.Join(c.ProjectPath, "package.json")
}

// HistoryPath returns the history file location.
func (c *Configuration) HistoryPath() string {
	return filepath.Join(c.StateDir, "history.yaml")
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform maps MPCI_UPLOAD__DESC_FORMAT to upload.desc_format.
// MPCI_ENV selects the profile and is not a config key.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key == "env" {
		return ""
	}
	return strings.ReplaceAll(key, "__", ".")
}

func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

func resolveProjectPath(path string) string {
	path = expandHomePath(path)
	if path == "" {
		path = "."
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// resolvePrivateKeyPath defaults to private.<appid>.key in the project root.
func resolvePrivateKeyPath(path, projectPath, appID string) string {
	path = expandHomePath(path)
	if path == "" {
		if appID == "" {
			return ""
		}
		path = fmt.Sprintf("private.%s.key", appID)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectPath, path)
	}
	return path
}
