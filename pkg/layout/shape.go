package layout

import (
	"math"
	"strings"

	kerrors "github.com/matzehuels/kgviz/pkg/errors"
)

// Shape names a focus-expansion arrangement.
type Shape string

const (
	ShapeLeftArrow  Shape = "left-arrow"
	ShapeRightArrow Shape = "right-arrow"
	ShapeFollowLine Shape = "follow-line"
	ShapeCircle     Shape = "circle"
)

// DefaultShape is used until the user picks one.
const DefaultShape = ShapeCircle

// Shapes lists every supported shape.
var Shapes = []Shape{ShapeLeftArrow, ShapeRightArrow, ShapeFollowLine, ShapeCircle}

// ParseShape parses a shape name. Matching ignores case and surrounding
// space; an empty name yields [DefaultShape].
func ParseShape(name string) (Shape, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultShape, nil
	}
	for _, s := range Shapes {
		if string(s) == name {
			return s, nil
		}
	}
	return "", kerrors.New(kerrors.ErrCodeInvalidShape,
		"unknown shape %q (want one of %s)", name, shapeList())
}

func shapeList() string {
	names := make([]string, len(Shapes))
	for i, s := range Shapes {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// offset returns the polar position of the i-th of n neighbors.
func (s Shape) offset(i, n int, cfg FocusConfig) (angle, dist float64) {
	fi, fn := float64(i), float64(n)
	switch s {
	case ShapeLeftArrow:
		return math.Pi + fi/fn*math.Pi, cfg.ArrowBase + cfg.ArrowStep*fi
	case ShapeRightArrow:
		return fi / fn * math.Pi, cfg.ArrowBase + cfg.ArrowStep*fi
	case ShapeFollowLine:
		return math.Pi / 2, cfg.LineBase + cfg.LineStep*fi
	default:
		return 2 * math.Pi * fi / fn, cfg.CircleRadius
	}
}

// Expand arranges the neighbors of node id around its current position
// using shape, writing the new coordinates onto the live node views.
// The clicked node itself does not move. The returned slice holds the
// moved neighbors in placement order.
func (s *Scene) Expand(id string, shape Shape) ([]*NodeView, error) {
	center := s.Node(id)
	if center == nil {
		return nil, kerrors.New(kerrors.ErrCodeNotFound, "node %q is not in the scene", id)
	}
	if _, err := ParseShape(string(shape)); err != nil {
		return nil, err
	}

	neighbors := s.Neighbors(id)
	for i, n := range neighbors {
		angle, dist := shape.offset(i, len(neighbors), s.cfg.Focus)
		n.X = center.X + dist*math.Cos(angle)
		n.Y = center.Y + dist*math.Sin(angle)
	}
	return neighbors, nil
}
