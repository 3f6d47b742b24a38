package pipeline

import (
	"os"
	"path/filepath"
)

// Filter drops entries whose name matches any of the ignore patterns.
// Patterns use filepath.Match syntax.
func Filter(entries []os.FileInfo, ignoreList []string) []os.FileInfo {
	if len(ignoreList) == 0 {
		return entries
	}

	out := make([]os.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if ShouldIgnore(entry.Name(), ignoreList) {
			continue
		}
		out = append(out, entry)
	}

	return out
}

func ShouldIgnore(name string, ignoreList []string) bool {
	for _, pattern := range ignoreList {
		matched, err := filepath.Match(pattern, name)
		if err == nil && matched {
			return true
		}
	}

	return false
}
