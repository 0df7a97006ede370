package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// LoadDir reads every namespace definition file in dir and registers it.
// Definitions may be authored as CUE (.cue) or plain JSON (.json); CUE files
// get validated for concreteness before decoding, so authoring mistakes fail
// at startup instead of at resolve time. Returns the registered namespace
// names in load order.
func LoadDir(reg *Registry, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog dir %s: %w", dir, err)
	}

	var loaded []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		var ns *Namespace
		switch {
		case strings.HasSuffix(entry.Name(), ".cue"):
			ns, err = loadCUE(path)
		case strings.HasSuffix(entry.Name(), ".json"):
			ns, err = loadJSON(path)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading catalog %s: %w", path, err)
		}
		if ns.Namespace == "" {
			return nil, fmt.Errorf("loading catalog %s: missing namespace key", path)
		}
		reg.Register(ns)
		loaded = append(loaded, ns.Namespace)
	}
	return loaded, nil
}

func loadCUE(path string) (*Namespace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	val := ctx.CompileBytes(data, cue.Filename(path))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("compiling: %w", err)
	}
	if err := val.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validating: %w", err)
	}

	var ns Namespace
	if err := val.Decode(&ns); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	normalize(&ns)
	return &ns, nil
}

func loadJSON(path string) (*Namespace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ns Namespace
	if err := json.Unmarshal(data, &ns); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	normalize(&ns)
	return &ns, nil
}

// normalize ensures the definition maps are non-nil so lookups and
// AvailableWidgets behave uniformly for sparse files.
func normalize(ns *Namespace) {
	if ns.Reads == nil {
		ns.Reads = make(map[string]ReadDefinition)
	}
	if ns.Actions == nil {
		ns.Actions = make(map[string]ActionDefinition)
	}
}
