package render

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/kintreehq/kintree/pkg/family"
	"github.com/kintreehq/kintree/pkg/graph"
)

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// Detailed includes gender and birth year in node labels.
	// When false, only the person's name (or ID) is shown.
	Detailed bool
}

// ToDOT converts a family tree to Graphviz DOT format for node-link
// visualization. Parent-child links become directed edges; marriages
// become undirected dashed edges that do not constrain ranking.
//
// The resulting DOT string can be rendered with [RenderDOT].
func ToDOT(t *graph.Tree, opts DOTOptions) string {
	idx := family.IndexByID(t.Persons)
	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var buf bytes.Buffer
	buf.WriteString("digraph family {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.7;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, id := range ids {
		p := idx[id]
		attrs := []string{
			fmt.Sprintf("label=%q", dotLabel(p, opts.Detailed)),
			fmt.Sprintf("fillcolor=%q", dotFill(p)),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range ids {
		for _, cid := range idx[id].ChildIDs {
			if idx[cid] == nil {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", id, cid)
		}
		for _, sid := range idx[id].SpouseIDs {
			if idx[sid] == nil || id >= sid {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [dir=none, style=dashed, constraint=false];\n", id, sid)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(p *family.Person, detailed bool) string {
	label := p.Name
	if label == "" {
		label = p.ID
	}
	if !detailed {
		return label
	}

	var parts []string
	if p.Gender != "" && p.Gender != family.GenderUnknown {
		parts = append(parts, string(p.Gender))
	}
	if p.BirthDate != nil {
		parts = append(parts, fmt.Sprintf("* %d", p.BirthDate.Year()))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, ", ")
}

func dotFill(p *family.Person) string {
	switch p.Gender {
	case family.GenderMale:
		return fillMale
	case family.GenderFemale:
		return fillFemale
	default:
		return fillUnknown
	}
}

// RenderDOT renders a DOT graph using Graphviz. Supported formats are
// "svg" and "png".
func RenderDOT(ctx context.Context, dot, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case "svg":
		gvFormat = graphviz.SVG
	case "png":
		gvFormat = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
