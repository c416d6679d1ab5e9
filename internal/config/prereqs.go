package config

import (
	"os"

	clierrors "github.com/yuuuuuyu/miniapp-template/internal/errors"
)

// CheckPrerequisites verifies the settings every SDK call needs: appid,
// project path and private key must be set, and both paths must exist.
func CheckPrerequisites(cfg *Configuration) error {
	required := []struct {
		key   string
		value string
	}{
		{"appid", cfg.AppID},
		{"project_path", cfg.ProjectPath},
		{"private_key_path", cfg.PrivateKeyPath},
	}
	for _, r := range required {
		if r.value == "" {
			return clierrors.MissingConfigField(r.key)
		}
	}

	if _, err := os.Stat(cfg.PrivateKeyPath); err != nil {
		return clierrors.PrivateKeyNotFound(cfg.PrivateKeyPath)
	}
	if info, err := os.Stat(cfg.ProjectPath); err != nil || !info.IsDir() {
		return clierrors.ProjectPathNotFound(cfg.ProjectPath)
	}
	return nil
}
