// Package textsource loads user-supplied prompt files.
package textsource

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoLines is returned when an uploaded file holds no usable prompt
// lines. The upload is aborted; nothing else is affected.
var ErrNoLines = errors.New("text file has no usable lines")

// LoadLines reads a newline-delimited file into successive prompt lines.
// Blank lines are skipped.
func LoadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open text file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only prompt file.
			_ = cerr
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	return lines, nil
}
