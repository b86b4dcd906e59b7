package store

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"focustrack/internal/config"
)

// New builds the record store from config. An empty data path selects
// the in-memory store; a file store that cannot initialize degrades to
// in-memory with a warning rather than refusing to start. The boolean
// reports whether records will survive a restart.
func New(cfg config.StorageConfig) (Store, bool) {
	if cfg.DataPath == "" {
		return NewMemoryStore(), false
	}

	path := expandTilde(cfg.DataPath)

	fs, err := NewFileStore(path)
	if err != nil {
		log.Printf("WARNING: file storage unavailable (%v), falling back to in-memory store", err)
		return NewMemoryStore(), false
	}

	return fs, true
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
