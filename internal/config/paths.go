package config

import (
	"os"
	"path/filepath"
)

// CounterPaths are the resolved filesystem locations used by the visitor counter.
type CounterPaths struct {
	DataDir    string
	StateFile  string
	ExportsDir string
}

// ResolveDataDir picks the counter data directory: an explicit directory wins, then the mounted
// data volume when it exists, then the docker/ directory of the project.
func ResolveDataDir(explicit, mountDir, projectRoot string) string {
	if explicit != "" {
		return explicit
	}
	if mountDir != "" {
		if st, err := os.Stat(mountDir); err == nil && st.IsDir() {
			return mountDir
		}
	}
	return filepath.Join(projectRoot, "docker")
}

// NewCounterPaths derives the state file and exports directory from a data directory.
func NewCounterPaths(dataDir string) CounterPaths {
	return CounterPaths{
		DataDir:    dataDir,
		StateFile:  filepath.Join(dataDir, StateFileName),
		ExportsDir: filepath.Join(dataDir, ExportsDirName),
	}
}
