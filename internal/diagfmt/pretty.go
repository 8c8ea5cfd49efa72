package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"errgen/internal/diag"
	"errgen/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, help, gutter, caret, path *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		help:   color.New(color.FgGreen),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		path:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.help, p.gutter, p.caret, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	file := fs.Get(d.Primary.File)
	path := file.FormatPath(opts.PathMode.mode(), fs.BaseDir())
	start, end := fs.Resolve(d.Primary)

	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprintf("%s:%d:%d", path, start.Line, start.Col),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message,
	)

	ctx := uint32(max(opts.Context, 0)) // #nosec G115 -- non-negative
	firstLine := uint32(1)
	if start.Line > ctx {
		firstLine = start.Line - ctx
	}
	lastLine := min(start.Line+ctx, uint32(len(file.LineIdx)+1)) // #nosec G115 -- bounded by content
	gutterWidth := len(fmt.Sprint(lastLine))

	for line := firstLine; line <= lastLine; line++ {
		text := file.GetLine(line)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, line), expandTabs(text))
		if line != start.Line {
			continue
		}
		endCol := end.Col
		if end.Line != start.Line {
			endCol = uint32(len(text)) + 1 // #nosec G115 -- line length bounded by content
		}
		pad, width := underline(text, start.Col, endCol)
		fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", gutterWidth, ""),
			strings.Repeat(" ", pad),
			p.caret.Sprint("^"+strings.Repeat("~", max(width-1, 0))),
		)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			if int(n.Span.File) >= fs.Len() {
				continue
			}
			nf := fs.Get(n.Span.File)
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
				nf.FormatPath(opts.PathMode.mode(), fs.BaseDir()), pos.Line, pos.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", p.help.Sprintf("fix #%d:", i+1), fix.Title)
			for _, edit := range fix.Edits {
				pos, _ := fs.Resolve(edit.Span)
				fmt.Fprintf(w, "    edit %d:%d apply=%q\n", pos.Line, pos.Col, edit.NewText)
				if !opts.ShowPreview {
					continue
				}
				preview, err := buildFixEditPreview(fs, edit)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "    preview:\n")
				for _, l := range preview.before {
					fmt.Fprintf(w, "      - %s\n", l)
				}
				for _, l := range preview.after {
					fmt.Fprintf(w, "      + %s\n", l)
				}
			}
		}
	}
}

// underline returns the display padding before the caret and the caret
// width for the byte columns [startCol, endCol) of line.
func underline(line string, startCol, endCol uint32) (pad, width int) {
	startIdx := min(int(startCol)-1, len(line))
	endIdx := min(max(int(endCol)-1, startIdx), len(line))
	pad = displayWidth(line[:startIdx])
	width = max(displayWidth(line[startIdx:endIdx]), 1)
	return pad, width
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
