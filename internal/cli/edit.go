package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/formdeck/formdeck/pkg/drag"
	"github.com/formdeck/formdeck/pkg/form"
	"github.com/formdeck/formdeck/pkg/history"
	"github.com/formdeck/formdeck/pkg/observability"
	"github.com/formdeck/formdeck/pkg/tree"
)

// editCommand creates the "edit" command running the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Open a document in the drag-and-drop editor",
		Long: `Edit opens a stored document in the terminal editor.

Drag widgets from the palette onto the canvas with the mouse. Dropping
near the top or bottom edge of a widget places the new one before or
after it; dropping on a container's interior nests inside. Hold alt
while dropping to nest into the container under the pointer directly.

Keys:
  u / r   undo / redo
  esc     cancel the current drag
  s / q   save and quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.newStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			doc, err := st.Get(ctx, id)
			if err != nil {
				return err
			}

			// The canvas measures in terminal cells, so the pixel-scale
			// edge clamps collapse to one or two rows.
			dcfg := drag.Config{
				EdgeRatio:       cfg.Editor.EdgeRatio,
				MinEdge:         1,
				MaxEdge:         2,
				HysteresisRatio: cfg.Editor.HysteresisRatio,
				CommitDelay:     cfg.Editor.CommitDelay(),
			}

			m := newEditorModel(doc, dcfg, cfg.Editor.UndoLimit)
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx),
			)

			final, err := p.Run()
			if err != nil {
				return err
			}

			fm, ok := final.(editorModel)
			if !ok || !fm.dirty {
				return nil
			}
			fm.doc.Body = fm.body
			prog := newProgress(c.Logger)
			if err := st.Put(ctx, fm.doc); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Saved %d nodes", fm.body.Count()))
			return nil
		},
	}
}

// =============================================================================
// Layout
// =============================================================================

const (
	paletteWidth = 20
	headerRows   = 3
	footerRows   = 2
)

// paletteEntry is one draggable widget in the sidebar.
type paletteEntry struct {
	kind  tree.Kind
	label string
}

var paletteEntries = []paletteEntry{
	{tree.KindText, "Text"},
	{tree.KindInput, "Input"},
	{tree.KindTextarea, "Text area"},
	{tree.KindSelect, "Select"},
	{tree.KindCheckbox, "Checkbox"},
	{tree.KindButton, "Button"},
	{tree.KindGroup, "Group"},
	{tree.KindRow, "Row"},
	{tree.KindForm, "Form"},
}

// canvasRow maps one terminal row of the canvas back to the tree.
type canvasRow struct {
	id        string
	depth     int
	label     string
	container bool
	zone      bool // trailing drop row inside a container
}

// buildLayout renders the tree into canvas rows and the matching region
// snapshot. Each widget takes one row; containers additionally get a
// trailing drop row, which doubles as their container zone together with
// the rows of their children.
func buildLayout(body tree.Tree, width, height int) ([]canvasRow, *drag.Registry) {
	var rows []canvasRow
	var regions []drag.Region

	cw := float64(width)
	var walk func(list []*tree.Node, depth int)
	walk = func(list []*tree.Node, depth int) {
		for _, n := range list {
			top := len(rows)
			rows = append(rows, canvasRow{
				id:        n.ID,
				depth:     depth,
				label:     nodeLabel(n),
				container: n.Kind.IsContainer(),
			})
			itemRows := 1
			if n.Kind.IsContainer() {
				walk(n.Children, depth+1)
				// The item region stops short of the zone row: the zone row
				// must hit only the container zone, or it would land in the
				// item's bottom edge band and read as "after".
				itemRows = len(rows) - top
				rows = append(rows, canvasRow{id: n.ID, depth: depth + 1, zone: true})

				regions = append(regions, drag.Region{
					ID:      "zone:" + n.ID,
					Kind:    drag.RegionContainerZone,
					OwnerID: n.ID,
					Depth:   depth + 1,
					Rect:    drag.Rect{Top: float64(top + 1), Left: 0, Width: cw, Height: float64(len(rows) - top - 1)},
				})
			}
			regions = append(regions, drag.Region{
				ID:      "item:" + n.ID,
				Kind:    drag.RegionItem,
				OwnerID: n.ID,
				Depth:   depth,
				Rect:    drag.Rect{Top: float64(top), Left: 0, Width: cw, Height: float64(itemRows)},
			})
		}
	}
	walk(body, 1)

	ch := float64(height)
	if float64(len(rows)) > ch {
		ch = float64(len(rows))
	}
	regions = append(regions, drag.Region{
		ID:      "root",
		Kind:    drag.RegionRootZone,
		OwnerID: drag.RootOwner,
		Rect:    drag.Rect{Top: 0, Left: 0, Width: cw, Height: ch},
	})

	return rows, drag.NewRegistry(regions)
}

func nodeLabel(n *tree.Node) string {
	if v, ok := n.Props["label"]; ok {
		return fmt.Sprintf("%s · %v", n.Kind, v)
	}
	if v, ok := n.Props["text"]; ok {
		return fmt.Sprintf("%s · %v", n.Kind, v)
	}
	return string(n.Kind)
}

// =============================================================================
// Model
// =============================================================================

// tickMsg drives the stabilizer's commit delay while the pointer is still.
type tickMsg time.Time

type editorModel struct {
	doc   *form.Document
	body  tree.Tree
	sess  *drag.Session
	stack *history.Stack

	rows []canvasRow
	reg  *drag.Registry

	width  int
	height int
	status string
	dirty  bool
}

func newEditorModel(doc *form.Document, dcfg drag.Config, undoLimit int) editorModel {
	m := editorModel{
		doc:    doc,
		body:   doc.Body,
		sess:   drag.NewSession(dcfg),
		stack:  history.NewStack(undoLimit),
		width:  80,
		height: 24,
		status: "drag widgets from the palette",
	}
	m.rebuild()
	return m
}

func (m *editorModel) rebuild() {
	m.rows, m.reg = buildLayout(m.body, m.canvasWidth(), m.canvasHeight())
}

func (m editorModel) canvasWidth() int  { return max(m.width-paletteWidth, 20) }
func (m editorModel) canvasHeight() int { return max(m.height-headerRows-footerRows, 5) }

func (m editorModel) Init() tea.Cmd {
	return nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(25*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.rebuild()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.sess.Dragging() {
				observability.Editor().OnDragCancel(context.Background(), m.sess.Active().ID)
				m.sess.Cancel()
				m.status = "drag cancelled"
			}
		case "u":
			if body, ok := m.stack.Undo(m.body); ok {
				m.body = body
				m.dirty = true
				m.rebuild()
				m.status = "undone"
				observability.Editor().OnUndo(context.Background(), m.stack.PeekLabel())
			} else {
				m.status = "nothing to undo"
			}
		case "r":
			if body, ok := m.stack.Redo(m.body); ok {
				m.body = body
				m.dirty = true
				m.rebuild()
				m.status = "redone"
				observability.Editor().OnRedo(context.Background(), m.stack.PeekLabel())
			} else {
				m.status = "nothing to redo"
			}
		case "s":
			// Saving happens on exit; marking clean here would lose edits
			// if the process dies, so "s" just quits back to the saver.
			return m, tea.Quit
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tickMsg:
		if m.sess.Dragging() {
			m.sess.Tick(time.Time(msg))
			return m, tickCmd()
		}
	}
	return m, nil
}

func (m editorModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	now := time.Now()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if msg.X < paletteWidth {
			idx := msg.Y - headerRows
			if idx >= 0 && idx < len(paletteEntries) {
				m.sess.StartPalette(paletteEntries[idx].kind)
				m.status = fmt.Sprintf("dragging new %s", paletteEntries[idx].kind)
				observability.Editor().OnDragStart(context.Background(), "")
				return m, tickCmd()
			}
			return m, nil
		}
		if row, ok := m.rowAt(msg.Y); ok && !row.zone {
			m.sess.StartNode(m.body, row.id)
			m.status = fmt.Sprintf("dragging %s", row.label)
			observability.Editor().OnDragStart(context.Background(), row.id)
			return m, tickCmd()
		}

	case tea.MouseActionMotion:
		if m.sess.Dragging() {
			m.sess.Update(m.reg, m.pointer(msg), msg.Alt, now)
		}

	case tea.MouseActionRelease:
		if !m.sess.Dragging() {
			return m, nil
		}
		// Feed the release position through the resolver so the drop
		// honors where the button came up, not the last motion event.
		m.sess.Update(m.reg, m.pointer(msg), msg.Alt, now)
		active := m.sess.Active()
		res := m.sess.Drop(m.body, now)
		if !res.OK {
			m.status = "drop refused"
			observability.Editor().OnDrop(context.Background(), active.ID, "", false, 0)
			return m, nil
		}
		m.body = res.Tree
		m.dirty = true
		switch {
		case res.Inserted != nil:
			m.stack.Push(history.Inserted(res.Inserted, res.At))
			m.status = fmt.Sprintf("added %s", res.Inserted.Kind)
			observability.Editor().OnDrop(context.Background(), res.Inserted.ID, res.At.ParentID, true, 0)
		case res.Moved != nil:
			m.stack.Push(history.Moved(*res.Moved))
			m.status = fmt.Sprintf("moved %s", res.Moved.Node.Kind)
			observability.Editor().OnDrop(context.Background(), res.Moved.Node.ID, res.Moved.To.ParentID, true, 0)
		}
		m.rebuild()
	}
	return m, nil
}

// pointer converts a mouse event to canvas coordinates. Cell centers avoid
// ambiguity on the half-open region boundaries.
func (m editorModel) pointer(msg tea.MouseMsg) drag.Point {
	return drag.Point{
		X: float64(msg.X-paletteWidth) + 0.5,
		Y: float64(msg.Y-headerRows) + 0.5,
	}
}

func (m editorModel) rowAt(y int) (canvasRow, bool) {
	idx := y - headerRows
	if idx < 0 || idx >= len(m.rows) {
		return canvasRow{}, false
	}
	return m.rows[idx], true
}

// =============================================================================
// View
// =============================================================================

var (
	editorCanvasStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	editorContainerStyle = lipgloss.NewStyle().Foreground(colorCyan)
	editorZoneStyle      = lipgloss.NewStyle().Foreground(colorDim)
	editorTargetStyle    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	editorDragStyle      = lipgloss.NewStyle().Foreground(colorYellow)
)

func (m editorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.doc.Title))
	if m.dirty {
		b.WriteString(StyleWarning.Render(" *"))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("drag with mouse · alt nests · u undo · r redo · q quit"))
	b.WriteString("\n\n")

	palette := m.paletteView()
	canvas := m.canvasView()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, palette, canvas))

	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(m.status))
	return b.String()
}

func (m editorModel) paletteView() string {
	var b strings.Builder
	for i, e := range paletteEntries {
		line := fmt.Sprintf("▫ %s", e.label)
		if m.sess.Dragging() && m.sess.Active().ID == "" && m.sess.Active().Kind == e.kind {
			line = editorDragStyle.Render("▸ " + e.label)
		} else {
			line = StyleValue.Render(line)
		}
		b.WriteString(line)
		if i < len(paletteEntries)-1 {
			b.WriteString("\n")
		}
	}
	return lipgloss.NewStyle().Width(paletteWidth).Render(b.String())
}

func (m editorModel) canvasView() string {
	target := m.sess.Target()
	dragging := m.sess.Dragging()
	activeID := m.sess.Active().ID

	var lines []string
	for _, row := range m.rows {
		indent := strings.Repeat("  ", row.depth)

		if row.zone {
			text := indent + "· · ·"
			if dragging && target != nil && target.Position == drag.Inside && target.TargetID == row.id {
				lines = append(lines, editorTargetStyle.Render(indent+"⊕ drop here"))
			} else {
				lines = append(lines, editorZoneStyle.Render(text))
			}
			continue
		}

		marker := "▪"
		style := editorCanvasStyle
		if row.container {
			marker = "▾"
			style = editorContainerStyle
		}
		if dragging && row.id == activeID {
			style = editorDragStyle
		}

		text := indent + marker + " " + row.label
		if dragging && target != nil && target.TargetID == row.id {
			switch target.Position {
			case drag.Before:
				lines = append(lines, editorTargetStyle.Render(indent+"▔▔▔"))
				lines = append(lines, style.Render(text))
				continue
			case drag.After:
				lines = append(lines, style.Render(text))
				lines = append(lines, editorTargetStyle.Render(indent+"▁▁▁"))
				continue
			case drag.Inside:
				style = editorTargetStyle
			}
		}
		lines = append(lines, style.Render(text))
	}

	if len(lines) == 0 {
		lines = append(lines, StyleDim.Render("empty form, drop a widget here"))
	}
	if dragging && target != nil && target.TargetID == drag.RootOwner {
		lines = append(lines, editorTargetStyle.Render("⊕ drop at end"))
	}

	return lipgloss.NewStyle().Width(m.canvasWidth()).Render(strings.Join(lines, "\n"))
}
