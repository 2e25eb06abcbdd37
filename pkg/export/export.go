package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	kerrors "github.com/matzehuels/kgviz/pkg/errors"
	"github.com/matzehuels/kgviz/pkg/filter"
	"github.com/matzehuels/kgviz/pkg/graph"
	"github.com/matzehuels/kgviz/pkg/layout"
)

// FilePrefix starts every export file name.
const FilePrefix = "knowledge-graph"

// Options describes the context of an export.
type Options struct {
	Dataset string
	Query   filter.Query
	Width   float64
	Height  float64
	// Stats is carried through from the source data untouched.
	Stats json.RawMessage

	// ID and GeneratedAt are filled in when zero.
	ID          string
	GeneratedAt time.Time
}

// Document is the exported JSON shape.
type Document struct {
	ExportID    string          `json:"export_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Dataset     string          `json:"dataset,omitempty"`
	Query       filter.Query    `json:"query"`
	Canvas      Canvas          `json:"canvas"`
	Counts      Counts          `json:"counts"`
	Nodes       []Node          `json:"nodes"`
	Edges       []Edge          `json:"edges"`
	Stats       json.RawMessage `json:"stats,omitempty"`
}

type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Counts struct {
	Nodes    int `json:"nodes"`
	Edges    int `json:"edges"`
	Isolated int `json:"isolated"`
}

// Node is a node with its layout results.
type Node struct {
	ID         string           `json:"id"`
	Label      string           `json:"label"`
	Type       graph.NodeType   `json:"node_type"`
	Properties graph.Properties `json:"properties"`
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	Size       float64          `json:"size"`
	Color      string           `json:"color"`
	Opacity    float64          `json:"opacity"`
	Isolated   bool             `json:"isolated"`
}

// Edge is an edge with its visual encodings.
type Edge struct {
	ID     string         `json:"id"`
	Source string         `json:"source_node_id"`
	Target string         `json:"target_node_id"`
	Type   graph.EdgeType `json:"edge_type"`
	Weight float64        `json:"weight"`
	Color  string         `json:"color"`
	Width  float64        `json:"width"`
}

// Build converts a scene into an export document.
func Build(s *layout.Scene, opts Options) Document {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	doc := Document{
		ExportID:    opts.ID,
		GeneratedAt: opts.GeneratedAt,
		Dataset:     opts.Dataset,
		Query:       opts.Query,
		Canvas:      Canvas{Width: opts.Width, Height: opts.Height},
		Nodes:       []Node{},
		Edges:       []Edge{},
		Stats:       opts.Stats,
	}
	if s == nil {
		return doc
	}

	for _, n := range s.Nodes {
		doc.Nodes = append(doc.Nodes, Node{
			ID:         n.ID,
			Label:      n.Label,
			Type:       n.Type,
			Properties: n.Properties,
			X:          round(n.X),
			Y:          round(n.Y),
			Size:       round(n.Size),
			Color:      n.Color,
			Opacity:    n.Opacity,
			Isolated:   n.Isolated,
		})
	}
	for _, e := range s.Edges {
		if !e.Resolved() {
			continue
		}
		doc.Edges = append(doc.Edges, Edge{
			ID:     e.ID,
			Source: e.From.ID,
			Target: e.To.ID,
			Type:   e.Type,
			Weight: graph.Weight(e.Edge),
			Color:  e.Color,
			Width:  e.Width,
		})
	}
	doc.Counts.Nodes, doc.Counts.Edges, doc.Counts.Isolated = s.Counts()
	return doc
}

// WriteJSON encodes the scene as an indented export document.
func WriteJSON(s *layout.Scene, opts Options, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Build(s, opts)); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInternal, err, "encode export")
	}
	return nil
}

// ExportJSON writes the export document into dir using [Filename] and
// returns the path written.
func ExportJSON(s *layout.Scene, opts Options, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	path := filepath.Join(dir, Filename(opts.Dataset))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(s, opts, f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// Filename returns "knowledge-graph-<dataset>.json", or
// "knowledge-graph.json" when the dataset id is empty after sanitizing.
func Filename(dataset string) string {
	if safe := Sanitize(dataset); safe != "" {
		return FilePrefix + "-" + safe + ".json"
	}
	return FilePrefix + ".json"
}

// Sanitize reduces a dataset id to characters safe in file names:
// letters, digits, '-', '_' and '.'. Runs of anything else become a
// single '-'.
func Sanitize(dataset string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(dataset) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = true
		}
	}
	return strings.Trim(b.String(), "-.")
}

// round keeps two decimals; sub-pixel noise only bloats the file.
func round(v float64) float64 {
	return math.Round(v*100) / 100
}
