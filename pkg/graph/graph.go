package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	kerrors "github.com/matzehuels/kgviz/pkg/errors"
)

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a snapshot to indented JSON bytes.
func Marshal(d Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a snapshot.
// Edges without an ID receive a synthesized one (see [Normalize]).
func Unmarshal(data []byte) (Data, error) {
	return readFrom(bytes.NewReader(data))
}

// Write writes a snapshot as JSON to an io.Writer.
func Write(d Data, w io.Writer) error {
	return writeTo(d, w)
}

// WriteFile writes a snapshot to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(d Data, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(d, f)
}

// Read decodes a JSON snapshot from an io.Reader.
func Read(r io.Reader) (Data, error) {
	return readFrom(r)
}

// ReadFile reads and decodes a JSON snapshot file.
func ReadFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Data{}, kerrors.Wrap(kerrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Data{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// Normalize fills in edge IDs that the source omitted. Synthesized IDs have the
// form "source->target#index" so they stay stable for a given snapshot.
func Normalize(d Data) Data {
	for i := range d.Edges {
		if d.Edges[i].ID == "" {
			d.Edges[i].ID = fmt.Sprintf("%s->%s#%d", d.Edges[i].Source, d.Edges[i].Target, i)
		}
	}
	return d
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(d Data, w io.Writer) error {
	if d.Nodes == nil {
		d.Nodes = []Node{}
	}
	if d.Edges == nil {
		d.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (Data, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Data{}, kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "decode graph data")
	}
	return Normalize(d), nil
}
