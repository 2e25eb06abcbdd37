package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kgviz/pkg/export"
	"github.com/matzehuels/kgviz/pkg/graph"
	"github.com/matzehuels/kgviz/pkg/interact"
	"github.com/matzehuels/kgviz/pkg/layout"
	"github.com/matzehuels/kgviz/pkg/render"
	"github.com/matzehuels/kgviz/pkg/render/sink"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the interactive explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		dataset string
		dir     string
		shape   string
		width   float64
		height  float64
	)

	cmd := &cobra.Command{
		Use:   "explore [graph.json]",
		Short: "Explore a graph interactively in the terminal",
		Long: `Explore opens an interactive session over a snapshot.

Keys:
  /        search (applied after a short pause, ⏎ applies now)
  ↑/↓ ⏎    move through nodes and select one (expands its neighborhood)
  e        select the next edge
  t        cycle the entity type filter
  s        cycle the focus shape
  + - 0    zoom in, zoom out, fit
  r        spread nodes across the canvas
  l        toggle labels
  w        write an SVG snapshot and the JSON export
  q        quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			if dataset == "" {
				dataset = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			parsed, err := layout.ParseShape(shape)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("width") && c.cfg.Canvas.Width > 0 {
				width = c.cfg.Canvas.Width
			}
			if !cmd.Flags().Changed("height") && c.cfg.Canvas.Height > 0 {
				height = c.cfg.Canvas.Height
			}

			rebuilt := make(chan struct{}, 1)
			ctrl := interact.New(data, nil,
				interact.WithConfig(c.cfg.Layout),
				interact.WithLogger(c.Logger),
				interact.WithSize(width, height),
				interact.WithShape(parsed),
				interact.WithTheme(c.cfg.Theme),
				interact.WithCallbacks(interact.Callbacks{
					OnRebuild: func(*layout.Scene) { notify(rebuilt) },
				}),
			)
			defer ctrl.Close()

			m := newExploreModel(ctrl, data, rebuilt)
			m.dataset = dataset
			m.dir = dir
			m.theme = c.cfg.Theme

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(exploreModel); ok && len(fm.written) > 0 {
				printSuccess("Wrote %d file(s)", len(fm.written))
				for _, path := range fm.written {
					printFile(path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset id used in export file names (default: input file name)")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory for snapshots and exports")
	cmd.Flags().StringVar(&shape, "shape", "", "initial focus shape")
	cmd.Flags().Float64Var(&width, "width", layout.DefaultWidth, "canvas width")
	cmd.Flags().Float64Var(&height, "height", layout.DefaultHeight, "canvas height")

	return cmd
}

// notify performs a non-blocking send; one pending signal is enough.
func notify(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// =============================================================================
// exploreModel - Interactive session
// =============================================================================

// rebuildMsg reports that the controller rebuilt its scene off the UI loop.
type rebuildMsg struct{}

type exploreModel struct {
	ctrl    *interact.Controller
	rebuilt chan struct{}

	types   []string // entity types present in the data
	typeIdx int      // 0 means all types

	cursor  int
	offset  int
	height  int
	edgeIdx int

	searching bool
	input     string
	labels    bool

	dataset string
	dir     string
	theme   render.Theme
	status  string
	written []string
}

func newExploreModel(ctrl *interact.Controller, data graph.Data, rebuilt chan struct{}) exploreModel {
	seen := make(map[string]bool)
	var types []string
	for _, n := range data.Nodes {
		if t := string(n.Type); t != "" && !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return exploreModel{
		ctrl:    ctrl,
		rebuilt: rebuilt,
		types:   types,
		height:  15,
		edgeIdx: -1,
		labels:  true,
		dir:     ".",
		theme:   render.DefaultTheme(),
	}
}

func (m exploreModel) Init() tea.Cmd {
	return m.waitForRebuild()
}

// waitForRebuild blocks until the controller signals a rebuild.
func (m exploreModel) waitForRebuild() tea.Cmd {
	if m.rebuilt == nil {
		return nil
	}
	ch := m.rebuilt
	return func() tea.Msg {
		<-ch
		return rebuildMsg{}
	}
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rebuildMsg:
		m.clampCursor()
		return m, m.waitForRebuild()
	case tea.WindowSizeMsg:
		m.height = msg.Height - 10
		if m.height < 5 {
			m.height = 5
		}
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m exploreModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.searching = false
		m.ctrl.Flush()
		m.clampCursor()
	case tea.KeyEsc:
		m.searching = false
		m.input = ""
		m.ctrl.SetSearch("")
		m.ctrl.Flush()
		m.clampCursor()
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
			m.ctrl.SetSearch(m.input)
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(msg.Runes)
		m.ctrl.SetSearch(m.input)
	}
	return m, nil
}

func (m exploreModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	scene := m.ctrl.Scene()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.searching = true
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}
	case "down", "j":
		if m.cursor < len(scene.Nodes)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case "enter":
		if m.cursor < len(scene.Nodes) {
			id := scene.Nodes[m.cursor].ID
			if err := m.ctrl.ClickNode(id); err != nil {
				m.status = err.Error()
			} else {
				m.status = "selected " + id
			}
		}
	case "e":
		if len(scene.Edges) > 0 {
			m.edgeIdx = (m.edgeIdx + 1) % len(scene.Edges)
			ev := scene.Edges[m.edgeIdx]
			if err := m.ctrl.ClickEdge(ev.ID); err != nil {
				m.status = err.Error()
			} else {
				m.status = fmt.Sprintf("selected %s -[%s]-> %s", ev.Source, ev.Type, ev.Target)
			}
		}
	case "esc", "c":
		m.ctrl.ClearSelection()
		m.status = ""
	case "t":
		if len(m.types) > 0 {
			m.typeIdx = (m.typeIdx + 1) % (len(m.types) + 1)
			if m.typeIdx == 0 {
				m.ctrl.SetNodeTypes()
			} else {
				m.ctrl.SetNodeTypes(m.types[m.typeIdx-1])
			}
			m.clampCursor()
		}
	case "s":
		next := nextShape(m.ctrl.Shape())
		if err := m.ctrl.SetShape(string(next)); err == nil {
			m.status = "shape " + string(next)
		}
	case "+", "=":
		m.ctrl.ZoomIn()
	case "-":
		m.ctrl.ZoomOut()
	case "0":
		m.ctrl.Reset()
	case "r":
		m.ctrl.Spread()
	case "l":
		m.labels = !m.labels
		m.ctrl.SetShowLabels(m.labels)
	case "w":
		paths, err := m.snapshot()
		if err != nil {
			m.status = err.Error()
		} else {
			m.written = append(m.written, paths...)
			m.status = "wrote " + strings.Join(paths, ", ")
		}
	}
	return m, nil
}

// clampCursor keeps the cursor inside the current scene after a rebuild.
func (m *exploreModel) clampCursor() {
	n := len(m.ctrl.Scene().Nodes)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
	m.edgeIdx = -1
}

// snapshot writes the current view as SVG plus the JSON export.
func (m exploreModel) snapshot() ([]string, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}
	w, h := m.ctrl.Size()
	svg := sink.NewSVG(w, h, sink.WithBackground(m.theme.Background), sink.WithEmbeddedFont())
	m.ctrl.Draw(svg)

	stem := strings.TrimSuffix(export.Filename(m.dataset), ".json")
	svgPath := filepath.Join(m.dir, stem+".svg")
	if err := writeFile(svgPath, svg.Bytes()); err != nil {
		return nil, err
	}

	jsonPath := filepath.Join(m.dir, export.Filename(m.dataset))
	f, err := os.Create(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", jsonPath, err)
	}
	if err := m.ctrl.Export(f, m.dataset); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return []string{svgPath, jsonPath}, nil
}

// nextShape returns the shape after s in [layout.Shapes].
func nextShape(s layout.Shape) layout.Shape {
	for i, v := range layout.Shapes {
		if v == s {
			return layout.Shapes[(i+1)%len(layout.Shapes)]
		}
	}
	return layout.DefaultShape
}

func (m exploreModel) View() string {
	var b strings.Builder
	scene := m.ctrl.Scene()
	selNode, selEdge := m.ctrl.Selection()

	b.WriteString(StyleTitle.Render("Knowledge graph"))
	if m.dataset != "" {
		b.WriteString(" " + StyleDim.Render(m.dataset))
	}
	b.WriteString("\n")

	filterType := "all"
	if m.typeIdx > 0 {
		filterType = m.types[m.typeIdx-1]
	}
	search := m.input
	if m.searching {
		search += "▏"
	}
	nodes, edges, isolated := scene.Counts()
	b.WriteString(listDimStyle.Render(fmt.Sprintf(
		"search: %q  type: %s  shape: %s  zoom: %.2f  %d nodes · %d edges · %d isolated",
		search, filterType, m.ctrl.Shape(), m.ctrl.View().Transform.Scale, nodes, edges, isolated)))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(scene.Nodes) {
		end = len(scene.Nodes)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		nv := scene.Nodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		mark := swatch(nv.Color)
		if selNode != nil && selNode.ID == nv.ID {
			mark = StyleHighlight.Render("◉")
		}
		rows = append(rows, []string{
			cursor, mark, nv.DisplayLabel(), string(nv.Type),
			fmt.Sprintf("%.1f", nv.Size),
			fmt.Sprintf("%.0f,%.0f", nv.X, nv.Y),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Label", "Type", "Size", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.offset + row
			if idx >= len(scene.Nodes) {
				return lipgloss.NewStyle()
			}
			nv := scene.Nodes[idx]
			switch {
			case idx == m.cursor:
				return listSelectedStyle
			case nv.Isolated:
				return listDimStyle
			default:
				return listNormalStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if selEdge != nil {
		b.WriteString(StyleHighlight.Render(fmt.Sprintf("edge %s: %s -[%s]-> %s (weight %.2f)",
			selEdge.ID, selEdge.Source, selEdge.Type, selEdge.Target, graph.Weight(selEdge.Edge))))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(StyleDim.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("/ search  ↑/↓ ⏎ select  e edge  t type  s shape  +/-/0 zoom  r spread  l labels  w write  q quit"))
	return b.String()
}
