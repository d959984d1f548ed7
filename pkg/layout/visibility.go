package layout

import "github.com/kintreehq/kintree/pkg/family"

// resolveVisibility computes the set of persons to lay out.
//
// The traversal is seeded from every root: a person with no parent
// present in the input. From there, spouse edges are followed
// unconditionally and child edges only when the current person is not
// collapsed, so a person whose only path to a root runs through a
// collapsed ancestor stays invisible.
//
// Roots are processed in sorted ID order and a visited set guards
// against relationship cycles, so the traversal is deterministic and
// always terminates.
func resolveVisibility(idx map[string]*family.Person, collapsed map[string]bool) map[string]bool {
	visible := make(map[string]bool, len(idx))

	var queue []string
	enqueue := func(id string) {
		if p, ok := idx[id]; ok && !visible[p.ID] {
			visible[p.ID] = true
			queue = append(queue, p.ID)
		}
	}

	for _, id := range sortedPersonIDs(idx) {
		if isRoot(idx, id) {
			enqueue(id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		p := idx[curr]

		for _, sid := range p.SpouseIDs {
			enqueue(sid)
		}
		if !collapsed[curr] {
			for _, cid := range p.ChildIDs {
				enqueue(cid)
			}
		}
	}

	return visible
}

// isRoot reports whether the person has no parent present in the input.
// Dangling parent references don't anchor anyone.
func isRoot(idx map[string]*family.Person, id string) bool {
	for _, pid := range idx[id].ParentIDs {
		if _, ok := idx[pid]; ok {
			return false
		}
	}
	return true
}

func sortedPersonIDs(idx map[string]*family.Person) []string {
	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}
