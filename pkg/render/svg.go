package render

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/kintreehq/kintree/pkg/family"
	"github.com/kintreehq/kintree/pkg/graph"
)

// Box colors per gender group.
const (
	fillMale    = "#dbeafe"
	fillFemale  = "#fce7f3"
	fillUnknown = "#f3f4f6"
	strokeBox   = "#374151"
	strokeEdge  = "#9ca3af"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	showEdges bool
}

// WithEdges draws lineage and marriage connectors between boxes.
func WithEdges() SVGOption {
	return func(r *svgRenderer) { r.showEdges = true }
}

// RenderSVG draws the layout as a standalone SVG document. Persons are
// drawn in sorted ID order so identical inputs produce byte-identical
// output.
func RenderSVG(t *graph.Tree, l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	width, height := l.Width, l.Height
	if width == 0 {
		width, height = 100, 100
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="white"/>`+"\n")

	ids := make([]string, 0, len(l.Positions))
	for id := range l.Positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	if r.showEdges {
		renderEdges(&buf, t, l, ids)
	}
	for _, id := range ids {
		renderPersonBox(&buf, t.Person(id), id, l)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderEdges draws lineage connectors (parent bottom to child top) and
// marriage connectors (between spouse boxes at mid height).
func renderEdges(buf *bytes.Buffer, t *graph.Tree, l graph.Layout, ids []string) {
	for _, id := range ids {
		p := t.Person(id)
		if p == nil {
			continue
		}
		pp := l.Positions[id]

		for _, cid := range p.ChildIDs {
			cp, ok := l.Positions[cid]
			if !ok {
				continue
			}
			fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5"/>`+"\n",
				pp.X+l.NodeWidth/2, pp.Y+l.NodeHeight,
				cp.X+l.NodeWidth/2, cp.Y, strokeEdge)
		}
		for _, sid := range p.SpouseIDs {
			// Draw each marriage once, from the left box to the right.
			sp, ok := l.Positions[sid]
			if !ok || id >= sid {
				continue
			}
			left, right := pp, sp
			if right.X < left.X {
				left, right = right, left
			}
			fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5" stroke-dasharray="4 3"/>`+"\n",
				left.X+l.NodeWidth, left.Y+l.NodeHeight/2,
				right.X, right.Y+l.NodeHeight/2, strokeEdge)
		}
	}
}

func renderPersonBox(buf *bytes.Buffer, p *family.Person, id string, l graph.Layout) {
	pos := l.Positions[id]

	fill := fillUnknown
	label := id
	var birthYear string
	if p != nil {
		switch p.Gender {
		case family.GenderMale:
			fill = fillMale
		case family.GenderFemale:
			fill = fillFemale
		}
		if p.Name != "" {
			label = p.Name
		}
		if p.BirthDate != nil {
			birthYear = fmt.Sprintf("* %d", p.BirthDate.Year())
		}
	}

	fmt.Fprintf(buf, `  <rect id="person-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		escapeText(id), pos.X, pos.Y, l.NodeWidth, l.NodeHeight, fill, strokeBox)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="13">%s</text>`+"\n",
		pos.X+l.NodeWidth/2, pos.Y+l.NodeHeight/2, escapeText(label))
	if birthYear != "" {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="11" fill="#6b7280">%s</text>`+"\n",
			pos.X+l.NodeWidth/2, pos.Y+l.NodeHeight/2+18, escapeText(birthYear))
	}
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeText(s string) string { return textEscaper.Replace(s) }
