package gedcom

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/kintreehq/kintree/pkg/family"
	"github.com/kintreehq/kintree/pkg/graph"
)

// famRecord is a family being derived from the tree for encoding. The
// key is the sorted parent ID set joined with "|".
type famRecord struct {
	key      string
	parents  []string
	children []string
	married  bool
}

// Encode writes the tree as GEDCOM 5.5. Individuals are emitted in
// their tree order; families are derived from spouse relationships and
// the parent sets of children, in sorted-key order, so identical trees
// encode byte-identically.
func Encode(t *graph.Tree, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "0 HEAD")
	fmt.Fprintln(bw, "1 GEDC")
	fmt.Fprintln(bw, "2 VERS 5.5")
	fmt.Fprintln(bw, "1 CHAR UTF-8")

	idx := family.IndexByID(t.Persons)
	famsByKey := deriveFamilies(t, idx)

	keys := make([]string, 0, len(famsByKey))
	for k := range famsByKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	// FAMC/FAMS cross-references per person, in family emission order.
	famIDs := make(map[string]string, len(keys))
	famc := make(map[string][]string)
	fams := make(map[string][]string)
	for i, k := range keys {
		id := fmt.Sprintf("F%d", i+1)
		famIDs[k] = id
		f := famsByKey[k]
		for _, pid := range f.parents {
			fams[pid] = append(fams[pid], id)
		}
		for _, cid := range f.children {
			famc[cid] = append(famc[cid], id)
		}
	}

	for i := range t.Persons {
		encodeIndi(bw, &t.Persons[i], famc, fams)
	}
	for _, k := range keys {
		encodeFam(bw, famIDs[k], famsByKey[k], idx)
	}

	fmt.Fprintln(bw, "0 TRLR")
	return bw.Flush()
}

// EncodeFile writes the tree as GEDCOM to a file at path.
// The file is created with 0644 permissions.
func EncodeFile(t *graph.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(t, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// deriveFamilies groups the tree into FAM records: one per married
// couple (children included when both spouses are the child's parents)
// and one per remaining distinct parent set.
func deriveFamilies(t *graph.Tree, idx map[string]*family.Person) map[string]*famRecord {
	out := make(map[string]*famRecord)

	ensure := func(parents []string) *famRecord {
		sorted := slices.Clone(parents)
		slices.Sort(sorted)
		key := strings.Join(sorted, "|")
		if f, ok := out[key]; ok {
			return f
		}
		f := &famRecord{key: key, parents: sorted}
		out[key] = f
		return f
	}

	for _, r := range t.Relationships {
		if r.Type != family.RelSpouse {
			continue
		}
		if idx[r.Person1ID] == nil || idx[r.Person2ID] == nil {
			continue
		}
		ensure([]string{r.Person1ID, r.Person2ID}).married = true
	}
	// Spouse lists may carry couples with no relationship record.
	for i := range t.Persons {
		p := &t.Persons[i]
		for _, sid := range p.SpouseIDs {
			if idx[sid] != nil {
				ensure([]string{p.ID, sid}).married = true
			}
		}
	}

	for i := range t.Persons {
		p := &t.Persons[i]
		for _, cid := range p.ChildIDs {
			c := idx[cid]
			if c == nil {
				continue
			}
			parents := make([]string, 0, len(c.ParentIDs))
			for _, pid := range c.ParentIDs {
				if idx[pid] != nil {
					parents = append(parents, pid)
				}
			}
			if len(parents) == 0 {
				parents = []string{p.ID}
			}
			f := ensure(parents)
			if !slices.Contains(f.children, cid) {
				f.children = append(f.children, cid)
			}
		}
	}

	return out
}

func encodeIndi(w *bufio.Writer, p *family.Person, famc, fams map[string][]string) {
	fmt.Fprintf(w, "0 @%s@ INDI\n", p.ID)
	if p.Name != "" {
		fmt.Fprintf(w, "1 NAME %s\n", p.Name)
	}
	switch p.Gender {
	case family.GenderMale:
		fmt.Fprintln(w, "1 SEX M")
	case family.GenderFemale:
		fmt.Fprintln(w, "1 SEX F")
	}
	if p.BirthDate != nil {
		fmt.Fprintln(w, "1 BIRT")
		fmt.Fprintf(w, "2 DATE %s\n", formatDate(*p.BirthDate))
	}
	for _, id := range famc[p.ID] {
		fmt.Fprintf(w, "1 FAMC @%s@\n", id)
	}
	for _, id := range fams[p.ID] {
		fmt.Fprintf(w, "1 FAMS @%s@\n", id)
	}
}

func encodeFam(w *bufio.Writer, id string, f *famRecord, idx map[string]*family.Person) {
	fmt.Fprintf(w, "0 @%s@ FAM\n", id)

	husb, wife := assignRoles(f.parents, idx)
	if husb != "" {
		fmt.Fprintf(w, "1 HUSB @%s@\n", husb)
	}
	if wife != "" {
		fmt.Fprintf(w, "1 WIFE @%s@\n", wife)
	}

	children := slices.Clone(f.children)
	slices.SortStableFunc(children, func(a, b string) int {
		return family.CompareBirth(idx[a], idx[b])
	})
	for _, cid := range children {
		fmt.Fprintf(w, "1 CHIL @%s@\n", cid)
	}
	if f.married {
		fmt.Fprintln(w, "1 MARR")
	}
}

// assignRoles maps up to two parents onto the HUSB/WIFE slots: the
// first male takes HUSB, the first remaining parent takes WIFE. With no
// male parent the slots are filled in order so no parent is dropped.
func assignRoles(parents []string, idx map[string]*family.Person) (husb, wife string) {
	rest := make([]string, 0, len(parents))
	for _, pid := range parents {
		if husb == "" && idx[pid].IsMale() {
			husb = pid
			continue
		}
		rest = append(rest, pid)
	}
	if husb == "" && len(rest) > 0 {
		husb, rest = rest[0], rest[1:]
	}
	if len(rest) > 0 {
		wife = rest[0]
	}
	return husb, wife
}

var monthNames = [...]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

func formatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNames[t.Month()-1], t.Year())
}
