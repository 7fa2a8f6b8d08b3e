package app

import (
	"errors"
	"os"
	"path/filepath"
)

// converterRelPath is where the AAXtoMP3 checkout lives next to this program.
const converterRelPath = "AAXtoMP3/AAXtoMP3"

// resolveConverter returns the absolute converter path. override comes from
// the environment and may be relative to programDir.
func resolveConverter(programDir, override string) (string, error) {
	path := override
	if path == "" {
		path = filepath.FromSlash(converterRelPath)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(programDir, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", &MissingDependencyError{Path: path, Err: err}
	}
	if info.IsDir() {
		return "", &MissingDependencyError{Path: path, Err: errors.New("is a directory")}
	}
	return path, nil
}
