// Package diffview renders the line diff shown when a stamp is out of date
// and the file is not being rewritten.
package diffview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line.
type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
)

// Prefix returns the two-character marker printed before a line.
func (o Op) Prefix() string {
	switch o {
	case OpDelete:
		return "- "
	case OpInsert:
		return "+ "
	default:
		return "  "
	}
}

// Line is one line of the diff, without its newline.
type Line struct {
	Op   Op
	Text string
}

// Lines computes a line-level diff from old to new.
func Lines(old, new string) []Line {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	a, b, lineArray := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var lines []Line
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		}
		for _, text := range splitLines(d.Text) {
			lines = append(lines, Line{Op: op, Text: text})
		}
	}
	return lines
}

// splitLines splits text on newlines. A trailing newline does not start an
// extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// Renderer writes diffs to a writer, in color when the writer is a terminal.
type Renderer struct {
	w       io.Writer
	deleted lipgloss.Style
	added   lipgloss.Style
	equal   lipgloss.Style
}

// NewRenderer returns a Renderer for w. Color support is detected from w.
func NewRenderer(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Renderer{
		w:       w,
		deleted: base.Foreground(lipgloss.Color("1")),
		added:   base.Foreground(lipgloss.Color("2")),
		equal:   base.Faint(true),
	}
}

// Render writes the diff from old to new, one line per diff line.
func (r *Renderer) Render(old, new string) error {
	for _, line := range Lines(old, new) {
		if _, err := fmt.Fprintln(r.w, r.style(line.Op).Render(line.Op.Prefix()+line.Text)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) style(op Op) lipgloss.Style {
	switch op {
	case OpDelete:
		return r.deleted
	case OpInsert:
		return r.added
	default:
		return r.equal
	}
}

// Render writes the diff from old to new to w.
func Render(w io.Writer, old, new string) error {
	return NewRenderer(w).Render(old, new)
}
