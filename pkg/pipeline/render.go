package pipeline

import (
	"bytes"
	"context"
	"encoding/json"

	kerrors "github.com/matzehuels/kgviz/pkg/errors"
	"github.com/matzehuels/kgviz/pkg/export"
	"github.com/matzehuels/kgviz/pkg/layout"
	"github.com/matzehuels/kgviz/pkg/render"
	"github.com/matzehuels/kgviz/pkg/render/nodelink"
	"github.com/matzehuels/kgviz/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. stats is the
// opaque stats block of the source data, carried into JSON exports.
func Render(ctx context.Context, s *layout.Scene, stats json.RawMessage, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	view := StaticView(s, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg, dot []byte
	svgBytes := func() []byte {
		if svg == nil {
			svg = renderSVG(s, view, opts)
		}
		return svg
	}
	dotBytes := func() []byte {
		if dot == nil {
			dot = []byte(nodelink.ToDOT(s, nodelink.Options{Detailed: opts.Detailed, Positioned: true}))
		}
		return dot
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgBytes()
		case FormatPNG:
			data, err = renderPNG(s, view, opts)
		case FormatPDF:
			data, err = render.ToPDF(svgBytes())
		case FormatJSON:
			var buf bytes.Buffer
			err = export.WriteJSON(s, export.Options{
				Dataset: opts.Dataset,
				Query:   opts.Query(),
				Width:   opts.Width,
				Height:  opts.Height,
				Stats:   statsOrNil(stats),
			}, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = dotBytes()
		case FormatGraphviz:
			data, err = nodelink.RenderSVG(ctx, string(dotBytes()))
		default:
			return nil, kerrors.New(kerrors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, kerrors.Wrap(codeOf(err), err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// StaticView frames the whole scene on a canvas of the configured size,
// with the focus node selected.
func StaticView(s *layout.Scene, opts Options) render.View {
	vp := render.NewViewport(opts.Width, opts.Height)
	vp.Reheat(s)
	vp.FitToView(0)
	return render.View{
		Transform:    vp.Transform(),
		ShowLabels:   opts.Labels,
		SelectedNode: opts.Focus,
		Theme:        opts.Theme,
	}
}

func renderSVG(s *layout.Scene, view render.View, opts Options) []byte {
	title := "Knowledge graph"
	if opts.Dataset != "" {
		title += " " + opts.Dataset
	}
	c := sink.NewSVG(opts.Width, opts.Height,
		sink.WithBackground(opts.Theme.Background),
		sink.WithTitle(title),
		sink.WithEmbeddedFont(),
	)
	render.Draw(c, s, view)
	return c.Bytes()
}

func renderPNG(s *layout.Scene, view render.View, opts Options) ([]byte, error) {
	c := sink.NewPNG(opts.Width, opts.Height,
		sink.WithPNGBackground(opts.Theme.Background),
		sink.WithPixelRatio(opts.Scale),
	)
	render.Draw(c, s, view)
	return c.Bytes()
}

// codeOf keeps the code of structured errors and maps the rest to INTERNAL.
func codeOf(err error) kerrors.Code {
	if code := kerrors.GetCode(err); code != "" {
		return code
	}
	return kerrors.ErrCodeInternal
}
