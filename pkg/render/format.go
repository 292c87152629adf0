package render

import (
	"fmt"
	"strings"
)

// Format constants for rendered outputs.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ValidateFormat checks that format is supported. Formats are
// case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, json)", format)
	}
	return nil
}

// FormatFromPath infers a format from an output file extension, defaulting
// to FormatSVG.
func FormatFromPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return FormatSVG
	}
	if ext := strings.ToLower(path[i+1:]); ValidFormats[ext] {
		return ext
	}
	return FormatSVG
}
