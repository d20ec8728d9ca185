// Package lineio reads and writes markdown files as newline-terminated lines.
//
// The table engine and the page engine both address files by line and splice
// edited regions back in place. Lines keep their trailing newline (the final
// line may lack one) so that joining with no separator reproduces the file
// byte for byte, and so that field markers whose suffix includes the newline
// match against whole lines.
package lineio

import (
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// Split splits s into lines, each retaining its trailing newline.
// The last element has no newline if the input does not end with one.
func Split(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

// Join is the inverse of Split.
func Join(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
	}
	return b.String()
}

// ReadLines reads path and returns its newline-terminated lines.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Split(string(data)), nil
}

// WriteLines atomically replaces path with the joined lines.
func WriteLines(path string, lines []string) error {
	return atomic.WriteFile(path, strings.NewReader(Join(lines)))
}

// WriteString atomically replaces path with content.
func WriteString(path string, content string) error {
	return atomic.WriteFile(path, strings.NewReader(content))
}
