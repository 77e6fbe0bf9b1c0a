package helpers

import (
	"errors"
	"os"
	"path/filepath"
)

var ErrRootDirNotFound = errors.New("unable to resolve root directory")

// Return application's root directory (the closest parent with ".env" file).
func GetRootDir() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		path := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(path); err == nil {
			break
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			return "", ErrRootDirNotFound
		}
		currentDir = parent
	}

	return currentDir, nil
}

// Return application's root directory or the working directory when there is no ".env" file.
func GetRootDirOrWorkDir() string {
	rootDir, err := GetRootDir()
	if err == nil {
		return rootDir
	}

	workDir, err := os.Getwd()
	if err != nil {
		return "."
	}

	return workDir
}

// Resolve path relative to application's root directory.
func ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(GetRootDirOrWorkDir(), path)
}
