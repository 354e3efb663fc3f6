// Package theme resolves the panel palette from a built-in name or a YAML file.
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/digits/internal/digits"
)

// File is the YAML layout of a theme file. Omitted colors keep their defaults.
//
//	name: dusk
//	palette:
//	  max: "#9FE870"
//	  highlight: "#FFB020"
type File struct {
	Name    string         `yaml:"name"`
	Palette digits.Palette `yaml:"palette"`
}

var builtins = map[string]digits.Palette{
	"default": digits.DefaultPalette(),
	"mono": digits.DefaultPalette().Merge(digits.Palette{
		Default:   "#A0A0A0",
		Min:       "#505050",
		Max:       "#FFFFFF",
		Highlight: "#FFFFFF",
		Card:      "#000000",
		Panel:     "#111111",
		Gauge:     "#222222",
		Track:     "#333333",
	}),
}

// Names lists the built-in themes.
func Names() []string {
	return []string{"default", "mono"}
}

// Load resolves name to a palette. name is a built-in theme, or a path to a
// YAML theme file; a bare name is also looked up as <dir>/<name>.yml.
func Load(name, dir string) (digits.Palette, error) {
	if name == "" {
		return digits.DefaultPalette(), nil
	}
	if p, ok := builtins[name]; ok {
		return p, nil
	}

	path := name
	if !strings.ContainsAny(name, `/\`) && !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
		path = filepath.Join(dir, "themes", name+".yml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return digits.DefaultPalette(), fmt.Errorf("theme: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a theme file and layers it over the default palette.
func Parse(data []byte) (digits.Palette, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return digits.DefaultPalette(), fmt.Errorf("theme: parse: %w", err)
	}
	for field, color := range colorFields(f.Palette) {
		if color != "" && !validHex(color) {
			return digits.DefaultPalette(), fmt.Errorf("theme: %s color %q is not #RRGGBB", field, color)
		}
	}
	return digits.DefaultPalette().Merge(f.Palette), nil
}

func colorFields(p digits.Palette) map[string]string {
	return map[string]string{
		"default":   p.Default,
		"min":       p.Min,
		"max":       p.Max,
		"highlight": p.Highlight,
		"card":      p.Card,
		"panel":     p.Panel,
		"gauge":     p.Gauge,
		"track":     p.Track,
		"text":      p.Text,
		"muted":     p.Muted,
	}
}

func validHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
