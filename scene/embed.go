package scene

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scenes/*.yaml
var ScenesFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Loader reads scene and script files. When Dir is set, files found there
// take precedence over the embedded copies.
type Loader struct {
	Dir string
}

func (l Loader) Load(name string) ([]byte, error) {
	clean := cleanScenePath(name)
	if l.Dir != "" {
		if data, err := os.ReadFile(filepath.Join(l.Dir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return ScenesFS.ReadFile("scenes/" + clean)
}

func (l Loader) LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if l.Dir != "" {
		if data, err := os.ReadFile(filepath.Join(l.Dir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return ScriptsFS.ReadFile(clean)
}

// ModTime reports the modification time of the disk copy of name.
func (l Loader) ModTime(name string) (time.Time, bool) {
	if l.Dir == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(filepath.Join(l.Dir, filepath.FromSlash(cleanScenePath(name))))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Path returns where a disk override for name would live.
func (l Loader) Path(name string) string {
	return filepath.Join(l.Dir, filepath.FromSlash(cleanScenePath(name)))
}

func cleanScenePath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "scenes/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".tengo"
	}
	return fmt.Sprintf("scripts/%s", s)
}
