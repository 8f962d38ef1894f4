package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles lists dotenv files in precedence order. godotenv never overrides variables that are
// already set, so the first file loaded wins for any key it defines.
var envFiles = []string{".env.local", ".env"}

// LoadDotEnv loads .env.local and .env from dir into the process environment.
// Missing files are not an error; existing process variables are never overwritten.
func LoadDotEnv(dir string) ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if err := godotenv.Load(path); err != nil {
			var pathErr *fs.PathError
			if errors.As(err, &pathErr) {
				continue
			}
			return loaded, fmt.Errorf("load %s: %w", path, err)
		}
		slog.Debug("Loaded environment file", "path", path)
		loaded = append(loaded, path)
	}
	return loaded, nil
}
