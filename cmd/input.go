package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kayz/promptfile/internal/options"
	"github.com/kayz/promptfile/internal/prompt"
	"github.com/spf13/cobra"
)

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// loadRecords reads and parses a prompt file with the active profile.
func loadRecords(cmd *cobra.Command, path string) ([]prompt.Record, options.Profile, error) {
	profile, err := activeProfile()
	if err != nil {
		return nil, "", err
	}
	text, err := readInput(cmd, path)
	if err != nil {
		return nil, "", err
	}
	return prompt.Parse(text, profile), profile, nil
}

// pickRecord returns records[index] or a descriptive error.
func pickRecord(records []prompt.Record, index int) (prompt.Record, error) {
	if index < 0 || index >= len(records) {
		return prompt.Record{}, fmt.Errorf("record index %d out of range: file has %d record(s)", index, len(records))
	}
	return records[index], nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
