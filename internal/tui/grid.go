package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/form"
)

// grid edits a form.List in place. In table mode each item is a row and each
// field a column; in record mode the single item is shown one field per line.
type grid[T any] struct {
	list   *form.List[T]
	fields []form.Field[T]
	// blank builds the n-th new row; nil means rows cannot be added or removed.
	blank  func(n int) T
	record bool

	row, col int
	editing  bool
	buf      string
	err      string

	onAdd    func()
	onRemove func(i int)
	onMove   func(from, to int)
}

func newGrid[T any](list *form.List[T], blank func(int) T, names ...string) *grid[T] {
	g := &grid[T]{list: list, blank: blank}
	schema := list.Schema()
	if len(names) == 0 {
		g.fields = schema
	}
	for _, n := range names {
		if f, ok := schema.Lookup(n); ok {
			g.fields = append(g.fields, f)
		}
	}
	return g
}

func newRecordGrid[T any](list *form.List[T]) *grid[T] {
	g := newGrid(list, nil)
	g.record = true
	return g
}

func (g *grid[T]) field() form.Field[T] { return g.fields[g.col] }

// handleMsg routes a key message, treating a bracketed paste as text for the
// current cell.
func (g *grid[T]) handleMsg(msg tea.KeyMsg) bool {
	if msg.Paste {
		return g.paste(string(msg.Runes))
	}
	return g.handleKey(msg.String())
}

// paste appends text to the cell being edited, opening the current cell for
// editing first when needed.
func (g *grid[T]) paste(text string) bool {
	if !g.editing {
		if g.list.Len() == 0 || g.field().Kind == form.Bool {
			return false
		}
		g.editing = true
		g.buf = g.field().Get(g.list.At(g.row))
	}
	g.buf = insertText(g.buf, text)
	return true
}

// handleKey applies key and reports whether the grid consumed it.
func (g *grid[T]) handleKey(key string) bool {
	if g.editing {
		switch key {
		case "enter":
			g.commit()
		case "tab":
			g.commit()
			g.col = (g.col + 1) % len(g.fields)
		case "esc":
			g.editing = false
			g.buf = ""
		default:
			g.buf = editRune(g.buf, key)
		}
		return true
	}

	switch key {
	case "up", "k":
		if g.record {
			g.col = max(g.col-1, 0)
		} else {
			g.row = max(g.row-1, 0)
		}
	case "down", "j":
		if g.record {
			g.col = min(g.col+1, len(g.fields)-1)
		} else {
			g.row = min(g.row+1, max(g.list.Len()-1, 0))
		}
	case "left", "h", "shift+tab":
		if g.record {
			return false
		}
		g.col = max(g.col-1, 0)
	case "right", "l":
		if g.record {
			return false
		}
		g.col = min(g.col+1, len(g.fields)-1)
	case "enter", " ", "space":
		if g.list.Len() == 0 {
			return true
		}
		f := g.field()
		if f.Kind == form.Bool {
			toggled := "x"
			if f.Get(g.list.At(g.row)) != "" {
				toggled = ""
			}
			g.set(toggled)
			return true
		}
		if key != "enter" {
			return false
		}
		g.editing = true
		g.buf = f.Get(g.list.At(g.row))
	case "ctrl+n":
		if g.blank == nil {
			return false
		}
		g.list.Add(g.blank(g.list.Len() + 1))
		g.row = g.list.Len() - 1
		if g.onAdd != nil {
			g.onAdd()
		}
	case "ctrl+x":
		if g.blank == nil || g.list.Len() == 0 {
			return false
		}
		i := g.row
		if err := g.list.Remove(i); err != nil {
			g.err = err.Error()
			return true
		}
		g.row = min(g.row, max(g.list.Len()-1, 0))
		if g.onRemove != nil {
			g.onRemove(i)
		}
	case "ctrl+k", "ctrl+j":
		if g.blank == nil || g.list.Len() == 0 {
			return false
		}
		delta := -1
		if key == "ctrl+j" {
			delta = 1
		}
		from := g.row
		to, err := g.list.Move(from, delta)
		if err != nil {
			g.err = err.Error()
			return true
		}
		g.row = to
		if g.onMove != nil && to != from {
			g.onMove(from, to)
		}
	default:
		return false
	}
	return true
}

func (g *grid[T]) commit() {
	g.editing = false
	g.set(g.buf)
	g.buf = ""
}

func (g *grid[T]) set(raw string) {
	if err := g.list.Update(g.row, g.field().Name, raw); err != nil {
		g.err = err.Error()
		return
	}
	g.err = ""
}

func cellWidth(k form.Kind) int {
	switch k {
	case form.String:
		return 16
	case form.Bool:
		return 7
	default:
		return 9
	}
}

// view renders the grid. errs holds validation messages keyed by field path;
// prefix is the path of the list ("entries" for "entries[0].sets"), empty for
// a record.
func (g *grid[T]) view(errs form.Errors, prefix string, focused bool) string {
	if g.record {
		return g.recordView(errs, prefix, focused)
	}
	var b strings.Builder

	b.WriteString("   ")
	for _, f := range g.fields {
		b.WriteString(sectionHeaderStyle.Render(padRight(f.Label, cellWidth(f.Kind))) + " ")
	}
	b.WriteString("\n")

	if g.list.Len() == 0 {
		b.WriteString("   " + dimStyle.Render("no rows yet") + "\n")
	}
	for i := 0; i < g.list.Len(); i++ {
		item := g.list.At(i)
		cursor := "  "
		if focused && i == g.row {
			cursor = accentStyle.Render("▸ ")
		}
		b.WriteString(" " + cursor)
		for c, f := range g.fields {
			w := cellWidth(f.Kind)
			val := f.Get(item)
			if f.Kind == form.Bool {
				val = "[" + padRight(val, 1) + "]"
			}
			active := focused && i == g.row && c == g.col
			switch {
			case active && g.editing:
				b.WriteString(normalStyle.Render(padRight(g.buf, w-1)) + accentStyle.Render("█") + " ")
			case active:
				b.WriteString(selectedRowBg.Inherit(selectedStyle).Render(padRight(val, w)) + " ")
			default:
				b.WriteString(normalStyle.Render(padRight(val, w)) + " ")
			}
		}
		b.WriteString("\n")
		for _, f := range g.fields {
			if msg, ok := errs[fmt.Sprintf("%s[%d].%s", prefix, i, f.Name)]; ok {
				b.WriteString("     " + errorStyle.Render(f.Label+" "+msg) + "\n")
			}
		}
	}
	if g.err != "" {
		b.WriteString(" " + errorStyle.Render(g.err) + "\n")
	}
	return b.String()
}

func (g *grid[T]) recordView(errs form.Errors, prefix string, focused bool) string {
	var b strings.Builder
	item := g.list.At(0)
	for c, f := range g.fields {
		val := f.Get(item)
		if f.Kind == form.Bool {
			val = "[" + padRight(val, 1) + "]"
		}
		active := focused && c == g.col
		if active && g.editing {
			val = g.buf
		}
		b.WriteString(renderInput(padRight(f.Label, 12), val, "", active && g.editing, false))
		if active && !g.editing {
			b.WriteString(" " + accentStyle.Render("◂"))
		}
		b.WriteString("\n")
		key := f.Name
		if prefix != "" {
			key = prefix + "." + f.Name
		}
		if msg, ok := errs[key]; ok {
			b.WriteString("    " + errorStyle.Render(f.Label+" "+msg) + "\n")
		}
	}
	if g.err != "" {
		b.WriteString(" " + errorStyle.Render(g.err) + "\n")
	}
	return b.String()
}
