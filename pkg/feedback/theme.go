package feedback

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// LoadTheme reads a go-theme manifest from fsys, registers it and resolves
// the requested variant into a renderer config suitable for WithTheme. An
// empty variant selects the manifest's base tokens.
func LoadTheme(fsys fs.FS, manifestPath, variant string) (*theme.RendererConfig, error) {
	if fsys == nil {
		return nil, errors.New("feedback: theme filesystem is required")
	}
	manifestPath = strings.TrimSpace(manifestPath)
	if manifestPath == "" {
		return nil, errors.New("feedback: theme manifest path is required")
	}

	manifest, err := theme.LoadFile(fsys, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}

	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("feedback: register theme %q: %w", manifest.Name, err)
	}

	selector := theme.Selector{Registry: registry, DefaultTheme: manifest.Name}
	selection, err := selector.Select(manifest.Name, strings.TrimSpace(variant))
	if err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}
	cfg := selection.RendererTheme(nil)
	return &cfg, nil
}
