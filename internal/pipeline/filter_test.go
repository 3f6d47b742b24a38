package pipeline

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeInfo string

func (f fakeInfo) Name() string       { return string(f) }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() os.FileMode  { return 0644 }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() any           { return nil }

func names(entries []os.FileInfo) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

func TestFilter(t *testing.T) {
	entries := []os.FileInfo{
		fakeInfo(".DS_Store"),
		fakeInfo("notes.txt"),
		fakeInfo("notes.txt.swp"),
		fakeInfo("report.tmp"),
	}

	tests := []struct {
		name       string
		ignoreList []string
		exp        []string
	}{
		{
			name: "NoPatterns",
			exp:  []string{".DS_Store", "notes.txt", "notes.txt.swp", "report.tmp"},
		},
		{
			name:       "Globs",
			ignoreList: []string{".DS_Store", "*.swp", "*.tmp"},
			exp:        []string{"notes.txt"},
		},
		{
			name:       "BadPatternIgnored",
			ignoreList: []string{"["},
			exp:        []string{".DS_Store", "notes.txt", "notes.txt.swp", "report.tmp"},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, names(Filter(entries, test.ignoreList)))
		})
	}
}
