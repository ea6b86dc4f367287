// Package configloader resolves run defaults from configuration files and
// the environment. It discovers an optional user-level and project-level
// .grepl.yaml, merges them, resolves the color palette (including symbolic
// style names), and overlays the GREP_COLORS environment variable.
package configloader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/grepl/pkg/ansi"
	"github.com/yaklabco/grepl/pkg/engine"
)

// Settings is the schema of a .grepl.yaml file. Every field is optional;
// CLI flags take precedence over all of it.
type Settings struct {
	// Color is the color mode: "auto", "always", or "never".
	Color string `yaml:"color"`

	// Colors overrides palette entries by key (mt, ms, mc, sl, cx, fn, ln,
	// bn, se). Values may be raw SGR codes or symbolic style names joined
	// with ";" (e.g. "bold;fg_red").
	Colors map[string]string `yaml:"colors"`

	// Exclude and ExcludeDir are default name filters for recursive scans.
	Exclude    []string `yaml:"exclude"`
	ExcludeDir []string `yaml:"exclude-dir"`

	// GroupSeparator replaces the default "--" between context groups.
	// An explicit empty string disables the separator.
	GroupSeparator *string `yaml:"group-separator"`
}

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory the project config search starts from.
	// Defaults to the current working directory.
	WorkingDir string

	// ExplicitPath is an explicit config file path; when set, project
	// config discovery is skipped.
	ExplicitPath string

	// IgnoreUserConfig skips the user-level configuration file.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips project config discovery.
	IgnoreProjectConfig bool

	// IgnoreEnv skips the GREP_COLORS overlay.
	IgnoreEnv bool
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Settings is the merged file configuration.
	Settings Settings

	// Palette is the resolved color palette: defaults, then file overrides,
	// then GREP_COLORS.
	Palette engine.Palette

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string
}

// Load resolves settings and the palette. Precedence (highest to lowest):
//  1. GREP_COLORS (palette only)
//  2. Explicit config file (opts.ExplicitPath)
//  3. Project config (.grepl.yaml upward search)
//  4. User config ($XDG_CONFIG_HOME/grepl/config.yaml)
//  5. Defaults
func Load(opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{Palette: engine.DefaultPalette()}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	if !opts.IgnoreUserConfig {
		if path := UserConfigPath(); path != "" {
			if err := loadInto(result, path, false); err != nil {
				return nil, err
			}
		}
	}

	switch {
	case opts.ExplicitPath != "":
		if err := loadInto(result, opts.ExplicitPath, true); err != nil {
			return nil, err
		}
	case !opts.IgnoreProjectConfig:
		if path := FindProjectConfig(workDir); path != "" {
			if err := loadInto(result, path, false); err != nil {
				return nil, err
			}
		}
	}

	if err := applyColors(&result.Palette, result.Settings.Colors); err != nil {
		return nil, err
	}

	if !opts.IgnoreEnv {
		LoadFromEnv(&result.Palette)
	}

	return result, nil
}

// loadInto loads one settings file and merges it over the accumulated
// result. A missing file is fatal only when explicitly requested.
func loadInto(result *LoadResult, path string, required bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(content, &s); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	result.Settings = merge(result.Settings, s)
	result.LoadedFrom = append(result.LoadedFrom, path)
	return nil
}

// merge overlays b on top of a, field by field.
func merge(a, b Settings) Settings {
	out := a
	if b.Color != "" {
		out.Color = b.Color
	}
	if len(b.Colors) > 0 {
		if out.Colors == nil {
			out.Colors = make(map[string]string, len(b.Colors))
		}
		for k, v := range b.Colors {
			out.Colors[k] = v
		}
	}
	if len(b.Exclude) > 0 {
		out.Exclude = b.Exclude
	}
	if len(b.ExcludeDir) > 0 {
		out.ExcludeDir = b.ExcludeDir
	}
	if b.GroupSeparator != nil {
		out.GroupSeparator = b.GroupSeparator
	}
	return out
}

// applyColors resolves configured palette overrides, accepting symbolic
// style names alongside raw codes.
func applyColors(pal *engine.Palette, colors map[string]string) error {
	for key, value := range colors {
		codes, err := ansi.ResolveFormat(value)
		if err != nil {
			return fmt.Errorf("config color %s: %w", key, err)
		}
		if !pal.Set(key, codes) {
			return fmt.Errorf("config color %s: unknown palette key", key)
		}
	}
	return nil
}
