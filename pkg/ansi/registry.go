package ansi

import (
	"fmt"
	"strconv"
	"strings"
)

// SGR code strings for the fixed style registry. Composite entries (orange,
// purple) alias a full multi-segment sequence and are emitted as-is rather
// than re-resolved.
const (
	codeReset = "0"
	codeFgSet = "38"
	codeBgSet = "48"
)

// styleNames is the closed registry of recognized style names. Lookup is
// case-insensitive; names not present here must parse as bare integers.
//
//nolint:gochecknoglobals // Read-only lookup table.
var styleNames = map[string]string{
	"reset":                   codeReset,
	"bold":                    "1",
	"faint":                   "2",
	"italic":                  "3",
	"italics":                 "3",
	"underline":               "4",
	"slow_blink":              "5",
	"rapid_blink":             "6",
	"swap_bg_fg":              "7",
	"hide":                    "8",
	"crossed_out":             "9",
	"default_font":            "10",
	"alt_font_1":              "11",
	"alt_font_2":              "12",
	"alt_font_3":              "13",
	"alt_font_4":              "14",
	"alt_font_5":              "15",
	"alt_font_6":              "16",
	"alt_font_7":              "17",
	"alt_font_8":              "18",
	"alt_font_9":              "19",
	"gothic_font":             "20",
	"double_underline":        "21",
	"no_bold_faint":           "22",
	"no_italic":               "23",
	"no_underline":            "24",
	"no_blink":                "25",
	"proportional_spacing":    "26",
	"no_swap_bg_fg":           "27",
	"no_hide":                 "28",
	"no_crossed_out":          "29",
	"no_proportional_spacing": "50",
	"framed":                  "51",
	"encircled":               "52",
	"overlined":               "53",
	"no_framed_encircled":     "54",
	"no_overlined":            "55",
	"set_underline_color":     "58",
	"default_underline_color": "59",

	"fg_black":   "30",
	"fg_red":     "31",
	"fg_green":   "32",
	"fg_yellow":  "33",
	"fg_blue":    "34",
	"fg_magenta": "35",
	"fg_cyan":    "36",
	"fg_white":   "37",
	"fg_set":     codeFgSet,
	"fg_default": "39",
	"fg_orange":  codeFgSet + ";5;202",
	"fg_purple":  codeFgSet + ";5;129",

	"bg_black":   "40",
	"bg_red":     "41",
	"bg_green":   "42",
	"bg_yellow":  "43",
	"bg_blue":    "44",
	"bg_magenta": "45",
	"bg_cyan":    "46",
	"bg_white":   "47",
	"bg_set":     codeBgSet,
	"bg_default": "49",
	"bg_orange":  codeBgSet + ";5;202",
	"bg_purple":  codeBgSet + ";5;129",
}

// ResolveFormat translates a user-facing style format string into raw SGR
// codes. A leading '[' means the remainder is used verbatim. Otherwise each
// semicolon-separated token is resolved against the style registry, falling
// back to a bare integer code. Any other token is a format error.
func ResolveFormat(format string) (string, error) {
	if strings.HasPrefix(format, "[") {
		return format[1:], nil
	}

	parts := strings.Split(format, ";")
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		if code, ok := styleNames[strings.ToLower(part)]; ok {
			codes = append(codes, code)
			continue
		}
		if _, err := strconv.Atoi(part); err != nil {
			return "", fmt.Errorf("invalid style format %q: unknown name %q", format, part)
		}
		codes = append(codes, part)
	}
	return strings.Join(codes, ";"), nil
}
