package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// LogDir returns the per-OS directory liftlog writes its log file to.
func LogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Local", "liftlog", "logs"), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Logs", "liftlog"), nil
	default:
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "liftlog", "logs"), nil
		}
		return filepath.Join(homeDir, ".local", "share", "liftlog", "logs"), nil
	}
}
