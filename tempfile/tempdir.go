package tempfile

import (
	"os"
	"path/filepath"
	"sync"
)

// fallbackDirName is created under the home or working directory when the
// OS temp directory is unusable.
const fallbackDirName = ".filesort-tmp"

var (
	rootDir           string
	rootDiscoveryOnce sync.Once
)

// GetTempDir returns the directory under which workspaces are created.
// If dir is provided and usable, it is returned unchanged. Otherwise the
// first usable candidate out of the OS temp directory, the user's home
// directory and the current working directory is returned. Discovery runs
// once per process.
func GetTempDir(dir string) string {
	if dir != "" && isDirectoryUsable(dir) {
		return dir
	}
	rootDiscoveryOnce.Do(func() {
		rootDir = findBestDirectory(buildCandidateList())
	})
	return rootDir
}

// buildCandidateList returns the temp root candidates in priority order.
func buildCandidateList() []string {
	candidates := []string{os.TempDir()}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, fallbackDirName))
	}
	if workDir, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(workDir, fallbackDirName))
	}
	return candidates
}

// findBestDirectory returns the first usable candidate, falling back to the OS temp dir.
func findBestDirectory(candidates []string) string {
	for _, candidate := range candidates {
		if isDirectoryUsable(candidate) {
			return candidate
		}
	}
	return os.TempDir()
}

// isDirectoryUsable checks if a directory exists and is a directory, or can be created.
// It returns true for non-existent directories that could potentially be created.
// Writability is tested when the workspace is actually created.
func isDirectoryUsable(dir string) bool {
	stat, err := os.Stat(dir)
	if err != nil {
		return os.IsNotExist(err)
	}
	return stat.IsDir()
}
