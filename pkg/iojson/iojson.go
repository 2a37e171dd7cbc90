// Package iojson holds utilities for writing JSON output from a command
// line interface perspective.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Write marshals obj with indentation and writes it to w followed by a
// newline.
func Write(w io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine marshals obj compactly and writes it as a single JSON line,
// suitable for piping into line-oriented tooling.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(bits))
	return err
}
