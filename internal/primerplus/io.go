package primerplus

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ReadFasta reads a FASTA file and returns the concatenated sequence
// lines. Header and comment lines are skipped; an empty sequence is an
// error.
func ReadFasta(path string) (string, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}

	var seq strings.Builder
	for _, line := range strings.Split(string(dat), "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, ">") || strings.HasPrefix(stripped, ";") {
			continue
		}
		seq.WriteString(stripped)
	}

	if seq.Len() == 0 {
		return "", &FormatError{Path: path, Key: "sequence"}
	}
	return seq.String(), nil
}

// WriteFasta writes a sequence to a FASTA file with 80-character line
// wrapping
func WriteFasta(path, seq, header string) error {
	var file strings.Builder
	fmt.Fprintf(&file, ">%s\n", header)
	for start := 0; start < len(seq); start += 80 {
		end := start + 80
		if end > len(seq) {
			end = len(seq)
		}
		file.WriteString(seq[start:end])
		file.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(file.String()), 0666); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadJSON decodes a JSON file into out
func ReadJSON(path string, out interface{}) error {
	dat, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(dat, out); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return nil
}

// WriteJSON encodes payload with two-space indentation and writes it to
// the fs at path
func WriteJSON(path string, payload interface{}) error {
	output, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize output: %w", err)
	}
	output = append(output, '\n')

	if err := os.WriteFile(path, output, 0666); err != nil {
		return fmt.Errorf("failed to write the output: %w", err)
	}
	return nil
}
