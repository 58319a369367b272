package config

import (
	"os"
	"path/filepath"
)

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return filepath.Join(".", ".medremind", "cache.db")
	}
	return filepath.Join(dir, "medremind", "cache.db")
}
