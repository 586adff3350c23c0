// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is the fill colour of redaction boxes. The zero value is black.
type Color struct {
	R, G, B uint8
}

var namedColors = map[string]Color{
	"black": {0, 0, 0},
	"white": {255, 255, 255},
	"gray":  {128, 128, 128},
	"grey":  {128, 128, 128},
}

// ParseColor accepts "#rrggbb", "rrggbb", "r,g,b" or a colour name
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.Contains(s, ",") {
		parts := strings.Split(strings.Trim(s, "[]() "), ",")
		return colorFromParts(parts)
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func colorFromParts(parts []string) (Color, error) {
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("colour needs 3 components, got %d", len(parts))
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return Color{}, fmt.Errorf("colour component %q outside 0..255", p)
		}
		rgb[i] = uint8(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// UnmarshalYAML accepts a scalar (see ParseColor) or a [r, g, b] sequence
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseColor(node.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		parts := make([]string, 0, len(node.Content))
		for _, n := range node.Content {
			parts = append(parts, n.Value)
		}
		parsed, err := colorFromParts(parts)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	return fmt.Errorf("line %d: redaction_color must be a string or a list", node.Line)
}

// MarshalYAML writes the colour as #rrggbb
func (c Color) MarshalYAML() (interface{}, error) {
	return "#" + c.Hex(), nil
}

// Hex returns the colour as rrggbb without prefix
func (c Color) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// ToRGBA converts to an opaque image/color value
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Unit returns the components scaled to [0,1], as PDF operators expect
func (c Color) Unit() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// Contrast returns black or white, whichever reads better on c
func (c Color) Contrast() Color {
	lum := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if lum > 140 {
		return Color{}
	}
	return Color{R: 255, G: 255, B: 255}
}
