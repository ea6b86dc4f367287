package configloader

import (
	"os"

	"github.com/yaklabco/grepl/pkg/engine"
)

// EnvGrepColors names the environment variable carrying palette overrides.
const EnvGrepColors = "GREP_COLORS"

// LoadFromEnv overlays the GREP_COLORS environment variable onto the
// palette. Malformed entries are ignored, matching the conventional
// behavior of the variable.
func LoadFromEnv(pal *engine.Palette) {
	pal.Overlay(os.Getenv(EnvGrepColors))
}

// ListEnvVars returns the supported environment variables with their
// descriptions, for help output.
func ListEnvVars() map[string]string {
	return map[string]string{
		EnvGrepColors: "Colon-separated palette overrides (e.g. ms=01;31:fn=35)",
		"NO_COLOR":    "Disable color output in auto mode when set",
	}
}
