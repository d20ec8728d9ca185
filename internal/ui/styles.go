// Package ui holds the CLI's terminal presentation: styles, status symbols,
// markdown rendering, and progress indicators.
package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Highlights, paths, interactive elements
// - Muted (gray): Secondary info, hints
// - No colored success/error/warning - use unicode symbols only

const defaultAccent = "#A78BFA"

var (
	// Accent style for file paths, citation keys, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)
)

// accentColor is the configured accent override, empty when unset or disabled.
var accentColor string

// ConfigureTheme applies the user's accent color from global config. Invalid
// or disabling values ("none", "off", "default") keep the built-in palette.
func ConfigureTheme(accent string) {
	color, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// AccentColor returns the configured accent color, if any.
func AccentColor() (string, bool) {
	if accentColor == "" {
		return "", false
	}
	return accentColor, true
}

// normalizeAccentColor validates an accent value: an ANSI code 0-255 or a
// hex color. Three-digit hex is expanded to six.
func normalizeAccentColor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "off", "default":
		return "", false
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return "", false
		}
		return strconv.Itoa(n), true
	}

	if strings.HasPrefix(s, "#") {
		hex := strings.ToLower(s[1:])
		for _, r := range hex {
			if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
				return "", false
			}
		}
		switch len(hex) {
		case 3:
			var b strings.Builder
			for _, r := range hex {
				b.WriteRune(r)
				b.WriteRune(r)
			}
			return "#" + b.String(), true
		case 6:
			return "#" + hex, true
		}
		return "", false
	}

	return "", false
}
