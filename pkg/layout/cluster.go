package layout

import (
	"slices"

	"github.com/kintreehq/kintree/pkg/family"
)

// Cluster is a conjugal unit: one or more mutually-married persons
// treated as a single horizontal layout block. Clusters are ephemeral -
// rebuilt on every layout call and discarded afterwards.
type Cluster struct {
	// ID is the smallest member person ID, which makes cluster identity
	// stable across calls with identical inputs.
	ID string

	// Members in final left-to-right display order.
	Members []*family.Person
}

// Width returns the cluster's horizontal pixel footprint.
func (c *Cluster) Width() float64 {
	n := float64(len(c.Members))
	return n*NodeWidth + (n-1)*SpouseGap
}

// Height returns the cluster's vertical pixel footprint.
func (c *Cluster) Height() float64 { return NodeHeight }

// memberOffset returns the horizontal offset of member i's center
// relative to the cluster's center.
func (c *Cluster) memberOffset(i int) float64 {
	left := -c.Width() / 2
	return left + float64(i)*(NodeWidth+SpouseGap) + NodeWidth/2
}

// buildClusters partitions the visible persons into conjugal clusters.
//
// Persons are processed in sorted ID order; each unclustered person
// flood-fills across its spouse edges (restricted to visible,
// unclustered persons) to collect the whole cluster. The result is a
// partition: every visible person lands in exactly one cluster.
//
// Member ordering follows two rules:
//   - A cluster of exactly one male and two females arranges as
//     [first wife, husband, second wife], with wives ranked by their
//     marriage order relative to the husband.
//   - Otherwise males sort before non-males, females sort by marriage
//     order relative to the first male member, and remaining ties fall
//     back to byte-wise ID comparison.
//
// Returns the clusters sorted by cluster ID plus a person→cluster
// lookup.
func buildClusters(idx map[string]*family.Person, rels []family.Relationship, visible map[string]bool) ([]*Cluster, map[string]*Cluster) {
	byPerson := make(map[string]*Cluster)
	var clusters []*Cluster

	for _, id := range sortedPersonIDs(idx) {
		if !visible[id] || byPerson[id] != nil {
			continue
		}

		members := collectSpouses(idx, visible, byPerson, id)
		c := &Cluster{ID: minID(members), Members: orderMembers(members, rels)}
		for _, m := range c.Members {
			byPerson[m.ID] = c
		}
		clusters = append(clusters, c)
	}

	slices.SortFunc(clusters, func(a, b *Cluster) int { return family.CompareID(a.ID, b.ID) })
	return clusters, byPerson
}

// collectSpouses flood-fills across spouse edges starting at seed,
// visiting only visible, not-yet-clustered persons. The returned members
// are in sorted ID order.
func collectSpouses(idx map[string]*family.Person, visible map[string]bool, byPerson map[string]*Cluster, seed string) []*family.Person {
	seen := map[string]bool{seed: true}
	queue := []string{seed}
	var members []*family.Person

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		p := idx[curr]
		members = append(members, p)

		for _, sid := range p.SpouseIDs {
			s, ok := idx[sid]
			if !ok || !visible[sid] || seen[sid] || byPerson[sid] != nil {
				continue
			}
			seen[sid] = true
			queue = append(queue, s.ID)
		}
	}

	slices.SortFunc(members, func(a, b *family.Person) int { return family.CompareID(a.ID, b.ID) })
	return members
}

// orderMembers arranges cluster members into their final left-to-right
// display order.
func orderMembers(members []*family.Person, rels []family.Relationship) []*family.Person {
	if w1, h, w2, ok := twoWives(members, rels); ok {
		return []*family.Person{w1, h, w2}
	}

	anchor := firstMale(members)
	ordered := slices.Clone(members)
	slices.SortStableFunc(ordered, func(a, b *family.Person) int {
		if a.IsMale() != b.IsMale() {
			if a.IsMale() {
				return -1
			}
			return 1
		}
		if !a.IsMale() && anchor != nil {
			if d := family.MarriageOrder(rels, a.ID, anchor.ID) - family.MarriageOrder(rels, b.ID, anchor.ID); d != 0 {
				return d
			}
		}
		return family.CompareID(a.ID, b.ID)
	})
	return ordered
}

// twoWives detects the polygamy special case: exactly one male and two
// females. The husband sits between his wives, first wife on the left.
func twoWives(members []*family.Person, rels []family.Relationship) (w1, h, w2 *family.Person, ok bool) {
	if len(members) != 3 {
		return nil, nil, nil, false
	}

	var males, females []*family.Person
	for _, m := range members {
		if m.IsMale() {
			males = append(males, m)
		} else if m.Gender == family.GenderFemale {
			females = append(females, m)
		}
	}
	if len(males) != 1 || len(females) != 2 {
		return nil, nil, nil, false
	}

	h = males[0]
	w1, w2 = females[0], females[1]
	o1 := family.MarriageOrder(rels, w1.ID, h.ID)
	o2 := family.MarriageOrder(rels, w2.ID, h.ID)
	if o2 < o1 || (o1 == o2 && family.CompareID(w2.ID, w1.ID) < 0) {
		w1, w2 = w2, w1
	}
	return w1, h, w2, true
}

func firstMale(members []*family.Person) *family.Person {
	for _, m := range members {
		if m.IsMale() {
			return m
		}
	}
	return nil
}

func minID(members []*family.Person) string {
	id := members[0].ID
	for _, m := range members[1:] {
		if family.CompareID(m.ID, id) < 0 {
			id = m.ID
		}
	}
	return id
}

func sortIDs(ids []string) {
	slices.SortFunc(ids, family.CompareID)
}
