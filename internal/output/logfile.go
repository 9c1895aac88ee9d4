package output

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If GITTASKS_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.gittasks/logs/gittasks.log
func GetLogFilePath() string {
	if customPath := os.Getenv("GITTASKS_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "gittasks.log"
	}

	return filepath.Join(homeDir, ".gittasks", "logs", "gittasks.log")
}
