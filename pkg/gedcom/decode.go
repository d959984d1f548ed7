package gedcom

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/family"
	"github.com/kintreehq/kintree/pkg/graph"
)

// line is one parsed GEDCOM line: LEVEL [@XREF@] TAG [VALUE].
type line struct {
	level int
	xref  string
	tag   string
	value string
}

func parseLine(raw string, num int) (line, error) {
	fields := strings.SplitN(strings.TrimSpace(raw), " ", 2)
	level, err := strconv.Atoi(fields[0])
	if err != nil || level < 0 {
		return line{}, errors.New(errors.ErrCodeInvalidGEDCOM, "line %d: invalid level %q", num, fields[0])
	}
	if len(fields) < 2 {
		return line{}, errors.New(errors.ErrCodeInvalidGEDCOM, "line %d: missing tag", num)
	}

	rest := fields[1]
	var l line
	l.level = level

	if strings.HasPrefix(rest, "@") {
		end := strings.Index(rest[1:], "@")
		if end < 0 {
			return line{}, errors.New(errors.ErrCodeInvalidGEDCOM, "line %d: unterminated xref", num)
		}
		l.xref = rest[1 : end+1]
		rest = strings.TrimSpace(rest[end+2:])
	}

	tagValue := strings.SplitN(rest, " ", 2)
	l.tag = tagValue[0]
	if l.tag == "" {
		return line{}, errors.New(errors.ErrCodeInvalidGEDCOM, "line %d: missing tag", num)
	}
	if len(tagValue) == 2 {
		l.value = tagValue[1]
	}
	return l, nil
}

// indi accumulates one INDI record during decoding.
type indi struct {
	id    string
	name  string
	sex   string
	birth *time.Time
}

// fam accumulates one FAM record during decoding. Husband and wife are
// GEDCOM role names; either may be empty.
type fam struct {
	husb     string
	wife     string
	children []string
}

// Decode reads GEDCOM data and returns the equivalent tree. The tree
// name is derived by the caller; Decode leaves it empty.
func Decode(r io.Reader) (*graph.Tree, error) {
	var (
		indis   []*indi
		fams    []*fam
		curIndi *indi
		curFam  *fam
		inBirth bool
		lineNum int
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNum++
		raw := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		l, err := parseLine(raw, lineNum)
		if err != nil {
			return nil, err
		}

		if l.level == 0 {
			curIndi, curFam, inBirth = nil, nil, false
			switch l.tag {
			case "INDI":
				if l.xref == "" {
					return nil, errors.New(errors.ErrCodeInvalidGEDCOM, "line %d: INDI without xref", lineNum)
				}
				curIndi = &indi{id: l.xref}
				indis = append(indis, curIndi)
			case "FAM":
				curFam = &fam{}
				fams = append(fams, curFam)
			}
			continue
		}

		switch {
		case curIndi != nil:
			inBirth = decodeIndiLine(curIndi, l, inBirth)
		case curFam != nil:
			decodeFamLine(curFam, l)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGEDCOM, err, "read gedcom")
	}
	if len(indis) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGEDCOM, "no individual records found")
	}

	return assemble(indis, fams)
}

// DecodeFile reads a GEDCOM file at path.
func DecodeFile(path string) (*graph.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

func decodeIndiLine(in *indi, l line, inBirth bool) bool {
	switch {
	case l.level == 1 && l.tag == "NAME":
		in.name = cleanName(l.value)
		return false
	case l.level == 1 && l.tag == "SEX":
		in.sex = l.value
		return false
	case l.level == 1 && l.tag == "BIRT":
		return true
	case l.level == 2 && l.tag == "DATE" && inBirth:
		if t, ok := parseDate(l.value); ok {
			in.birth = &t
		}
		return inBirth
	case l.level == 1:
		return false
	}
	return inBirth
}

func decodeFamLine(f *fam, l line) {
	if l.level != 1 {
		return
	}
	switch l.tag {
	case "HUSB":
		f.husb = xrefValue(l.value)
	case "WIFE":
		f.wife = xrefValue(l.value)
	case "CHIL":
		if id := xrefValue(l.value); id != "" {
			f.children = append(f.children, id)
		}
	}
}

// assemble denormalizes the parsed records into the tree model.
func assemble(indis []*indi, fams []*fam) (*graph.Tree, error) {
	persons := make(map[string]*family.Person, len(indis))
	order := make([]string, 0, len(indis))
	for _, in := range indis {
		if persons[in.id] != nil {
			return nil, errors.New(errors.ErrCodeInvalidGEDCOM, "duplicate individual @%s@", in.id)
		}
		persons[in.id] = &family.Person{
			ID:        in.id,
			Name:      in.name,
			Gender:    sexToGender(in.sex),
			BirthDate: in.birth,
		}
		order = append(order, in.id)
	}

	var rels []family.Relationship
	marriages := make(map[string]int)

	for _, f := range fams {
		h, w := persons[f.husb], persons[f.wife]
		if f.husb != "" && h == nil {
			return nil, errors.New(errors.ErrCodeInvalidGEDCOM, "family references unknown individual @%s@", f.husb)
		}
		if f.wife != "" && w == nil {
			return nil, errors.New(errors.ErrCodeInvalidGEDCOM, "family references unknown individual @%s@", f.wife)
		}

		if h != nil && w != nil {
			mo := max(marriages[h.ID], marriages[w.ID]) + 1
			marriages[h.ID], marriages[w.ID] = mo, mo
			rels = append(rels, family.Relationship{
				Type: family.RelSpouse, Person1ID: h.ID, Person2ID: w.ID, MarriageOrder: mo,
			})
			h.SpouseIDs = appendUnique(h.SpouseIDs, w.ID)
			w.SpouseIDs = appendUnique(w.SpouseIDs, h.ID)
		}

		for _, cid := range f.children {
			c := persons[cid]
			if c == nil {
				return nil, errors.New(errors.ErrCodeInvalidGEDCOM, "family references unknown child @%s@", cid)
			}
			for _, parent := range []*family.Person{h, w} {
				if parent == nil {
					continue
				}
				parent.ChildIDs = appendUnique(parent.ChildIDs, cid)
				c.ParentIDs = appendUnique(c.ParentIDs, parent.ID)
			}
		}
	}

	tree := &graph.Tree{Persons: make([]family.Person, len(order))}
	for i, id := range order {
		tree.Persons[i] = *persons[id]
	}
	tree.Relationships = rels
	return tree, nil
}

func appendUnique(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func xrefValue(v string) string {
	return strings.Trim(strings.TrimSpace(v), "@")
}

// cleanName strips the GEDCOM surname markers: "Ada /Smith/" → "Ada Smith".
func cleanName(v string) string {
	v = strings.ReplaceAll(v, "/", " ")
	return strings.Join(strings.Fields(v), " ")
}

func sexToGender(s string) family.Gender {
	switch s {
	case "M":
		return family.GenderMale
	case "F":
		return family.GenderFemale
	default:
		return family.GenderUnknown
	}
}

var gedcomMonths = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// parseDate handles the exact-date subset: "14 MAR 1950", "MAR 1950"
// and "1950". Approximate qualifiers (ABT, BEF, ...) and ranges are not
// representable and yield ok=false.
func parseDate(v string) (time.Time, bool) {
	fields := strings.Fields(strings.ToUpper(v))
	switch len(fields) {
	case 1:
		year, err := strconv.Atoi(fields[0])
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	case 2:
		month, ok := gedcomMonths[fields[0]]
		if !ok {
			return time.Time{}, false
		}
		year, err := strconv.Atoi(fields[1])
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
	case 3:
		day, err := strconv.Atoi(fields[0])
		if err != nil {
			return time.Time{}, false
		}
		month, ok := gedcomMonths[fields[1]]
		if !ok {
			return time.Time{}, false
		}
		year, err := strconv.Atoi(fields[2])
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
