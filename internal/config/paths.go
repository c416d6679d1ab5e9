package config

import (
	"os"
	"path/filepath"
)

// ProjectConfigFile is the project config file name.
const ProjectConfigFile = "mpci.yml"

// UserConfigPath returns the user-level config file, honoring XDG_CONFIG_HOME.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "mpci"), nil
}

// ProjectConfigPath returns the project config path relative to the working directory.
func ProjectConfigPath() string {
	return ProjectConfigFile
}

// ProjectConfigPathIn returns the project config path inside projectDir.
func ProjectConfigPathIn(projectDir string) string {
	if projectDir == "" {
		return ProjectConfigPath()
	}
	return filepath.Join(projectDir, ProjectConfigFile)
}
