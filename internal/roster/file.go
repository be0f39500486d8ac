package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath infers the file format from the extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported roster file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// File loads a roster from disk.
//
// With only Path set, the file holds a combined {workers, jobs} document.
// With JobsPath also set, Path holds a bare list of workers and JobsPath a
// bare list of jobs (the servers.json / jobs.json layout).
type File struct {
	Path     string
	JobsPath string
}

// Load reads, decodes, and validates the roster.
func (f File) Load(ctx context.Context) (*Roster, error) {
	var r Roster
	if f.JobsPath == "" {
		if err := decodeFile(f.Path, &r); err != nil {
			return nil, err
		}
	} else {
		if err := decodeFile(f.Path, &r.Workers); err != nil {
			return nil, err
		}
		if err := decodeFile(f.JobsPath, &r.Jobs); err != nil {
			return nil, err
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func decodeFile(path string, v any) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read roster: %w", err)
	}
	if err := Decode(data, format, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Decode strictly decodes data in the given format into v. Unknown fields
// and unknown enum names are errors.
func Decode(data []byte, format string, v any) error {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil && err != io.EOF {
			return err
		}
		return nil
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Write encodes the roster in the given format.
func Write(w io.Writer, r *Roster, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Save writes the roster to path, choosing the format from the extension.
func Save(path string, r *Roster) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, r, format); err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
