// Package scan discovers video files awaiting conversion.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover lists video files directly under dir whose extension matches one
// of the configured extensions, sorted by name so runs process files in a
// stable order. Subdirectories and dotfiles are ignored. An empty directory
// is a normal result, not an error.
func Discover(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	extSet := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extSet[ext] = struct{}{}
	}

	var videos []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := extSet[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		videos = append(videos, filepath.Join(dir, name))
	}

	sort.Strings(videos)
	return videos, nil
}
