package graph

import (
	"slices"

	"github.com/kintreehq/kintree/pkg/layout"
)

// =============================================================================
// Layout - Computed Coordinates Serialization
// =============================================================================

// Layout is the serialization format for a computed tree layout.
//
// Positions map person IDs to the top-left corner of each person's box.
// Width and Height describe the frame that contains every box plus the
// engine's margin on all sides, so renderers can size a canvas without
// re-scanning the positions.
type Layout struct {
	TreeID string `json:"tree_id,omitempty" bson:"tree_id,omitempty"`

	// Frame dimensions
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Box dimensions shared by every person
	NodeWidth  float64 `json:"node_width" bson:"node_width"`
	NodeHeight float64 `json:"node_height" bson:"node_height"`

	// Collapsed person IDs the layout was computed under, sorted.
	Collapsed []string `json:"collapsed,omitempty" bson:"collapsed,omitempty"`

	Positions map[string]layout.Point `json:"positions" bson:"positions"`
}

// LayoutFromPositions wraps engine output in its serialization format,
// deriving the frame dimensions from the position extremes.
func LayoutFromPositions(treeID string, collapsed map[string]bool, pos map[string]layout.Point) Layout {
	l := Layout{
		TreeID:     treeID,
		NodeWidth:  layout.NodeWidth,
		NodeHeight: layout.NodeHeight,
		Positions:  pos,
	}

	for id, on := range collapsed {
		if on {
			l.Collapsed = append(l.Collapsed, id)
		}
	}
	slices.Sort(l.Collapsed)

	if len(pos) == 0 {
		return l
	}
	var maxX, maxY float64
	for _, p := range pos {
		maxX = max(maxX, p.X+layout.NodeWidth)
		maxY = max(maxY, p.Y+layout.NodeHeight)
	}
	l.Width = maxX + layout.Margin
	l.Height = maxY + layout.Margin
	return l
}
