package vm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the decoded shape of lumen.toml: heap sizing, classpath
// roots, native-binding overrides, and tracing level. `lumen run`
// applies only the heap size (via HeapCells). Grounded on the
// teacher's `projectManifest`/`findSurgeToml` walk-up-to-root discovery
// (cmd/surge/project_manifest.go), renamed to this VM's domain.
type Config struct {
	Heap    HeapConfig    `toml:"heap"`
	Run     RunConfig     `toml:"run"`
	Trace   TraceConfig   `toml:"trace"`
	Natives NativesConfig `toml:"natives"`
}

// HeapConfig configures the managed heap's cell count.
type HeapConfig struct {
	Cells int `toml:"cells"`
}

// RunConfig names classpath roots and an entry point. `lumen run` does
// not read it; its classpath, class and method come from the command
// line only.
type RunConfig struct {
	Classpath []string `toml:"classpath"`
	Class     string   `toml:"class"`
	Method    string   `toml:"method"`
}

// TraceConfig names a trace.Tracer verbosity level. `lumen run` does
// not apply it.
type TraceConfig struct {
	Level string `toml:"level"`
}

// NativesConfig lists native-binding classes by name. Nothing applies
// the list: `lumen run` uses the default registry unfiltered.
type NativesConfig struct {
	Disabled []string `toml:"disabled"`
}

// FindManifest walks up from startDir looking for lumen.toml, per the
// teacher's findSurgeToml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "lumen.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig decodes the manifest at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// HeapCells resolves the configured heap size, falling back to
// DefaultHeapCells when unset.
func (c Config) HeapCells() int {
	if c.Heap.Cells > 0 {
		return c.Heap.Cells
	}
	return DefaultHeapCells
}
