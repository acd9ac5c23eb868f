// Package source reads Org files into the line sequences the parser consumes.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLineBytes is the longest line Read accepts
const DefaultMaxLineBytes = 1 << 20

// ErrLineTooLong is returned for input with a line over the size limit
var ErrLineTooLong = errors.New("line too long")

// ReadFile reads the file at path into lines
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	lines, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}

// Read decodes r into lines using DefaultMaxLineBytes
func Read(r io.Reader) ([]string, error) {
	return ReadLimit(r, DefaultMaxLineBytes)
}

// ReadLimit decodes r into lines. UTF-8 is assumed unless a byte order mark
// says UTF-16; a UTF-8 BOM is dropped and invalid bytes become U+FFFD. Lines
// are split on \n or \r\n and normalised to NFC.
func ReadLimit(r io.Reader, maxLineBytes int) ([]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	scanner := bufio.NewScanner(decoded)
	initial := 64 * 1024
	if maxLineBytes < initial {
		initial = maxLineBytes
	}
	scanner.Buffer(make([]byte, 0, initial), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, norm.NFC.String(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("%w: over %d bytes after line %d", ErrLineTooLong, maxLineBytes, len(lines))
		}
		return nil, err
	}
	return lines, nil
}
