// Package schema maps heterogeneous source headers onto canonical field names.
package schema

import (
	"strings"

	"github.com/okian/draftboard/internal/ingest/csvparse"
)

// Field is a canonical field name.
type Field string

// Canonical fields.
const (
	FieldName     Field = "name"
	FieldPosition Field = "position"
	FieldSchool   Field = "school"
	FieldRank     Field = "rank"
	FieldYear     Field = "year"
	FieldSize     Field = "size"
	FieldWeight   Field = "weight"
	FieldSpeed    Field = "speed"
)

// Fields lists the canonical fields in resolution order.
var Fields = []Field{
	FieldName, FieldPosition, FieldSchool, FieldRank,
	FieldYear, FieldSize, FieldWeight, FieldSpeed,
}

// AliasTable maps a canonical field to the header variants that feed it.
type AliasTable map[Field][]string

// DefaultAliases returns the alias table used when none is configured.
func DefaultAliases() AliasTable {
	return AliasTable{
		FieldName:     {"name", "player name", "player", "player_name"},
		FieldPosition: {"position", "pos"},
		FieldSchool:   {"school", "college"},
		FieldRank:     {"rank", "#", "consensus_rank", "overall"},
		FieldYear:     {"year", "class"},
		FieldSize:     {"size", "height", "ht"},
		FieldWeight:   {"weight", "wt"},
		FieldSpeed:    {"speed", "40 time", "forty", "40"},
	}
}

// Canonical is a row keyed by canonical field names. Headers that matched no
// alias are kept unchanged in Extra.
type Canonical struct {
	fields map[Field]string
	Extra  map[string]string
	Line   int
	row    csvparse.Row
}

// Get returns the value of a canonical field and whether any header fed it.
func (c Canonical) Get(f Field) (string, bool) {
	v, ok := c.fields[f]
	return v, ok
}

// Value returns the value of a canonical field or "".
func (c Canonical) Value(f Field) string {
	return c.fields[f]
}

// Column looks up an original header, ignoring case and surrounding blanks.
func (c Canonical) Column(header string) (string, bool) {
	return lookup(c.row, header)
}

// Normalizer resolves raw rows against an alias table.
type Normalizer struct {
	variants map[string]Field
}

// New builds a Normalizer. A nil table uses DefaultAliases.
func New(aliases AliasTable) *Normalizer {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	n := &Normalizer{variants: make(map[string]Field)}
	// Iterate in field order so overlapping variants resolve the same way on every run.
	for _, f := range Fields {
		for _, v := range aliases[f] {
			key := normalize(v)
			if _, taken := n.variants[key]; !taken {
				n.variants[key] = f
			}
		}
	}
	for f, vs := range aliases {
		for _, v := range vs {
			key := normalize(v)
			if _, taken := n.variants[key]; !taken {
				n.variants[key] = f
			}
		}
	}
	return n
}

// Normalize maps a raw row. Each canonical field takes the first matching
// header in the row's header order.
func (n *Normalizer) Normalize(row csvparse.Row) Canonical {
	c := Canonical{
		fields: make(map[Field]string, len(Fields)),
		Extra:  make(map[string]string),
		Line:   row.Line,
		row:    row,
	}
	for _, h := range row.Headers() {
		v := row.Value(h)
		f, ok := n.variants[normalize(h)]
		if !ok {
			if _, seen := c.Extra[h]; !seen {
				c.Extra[h] = v
			}
			continue
		}
		if _, seen := c.fields[f]; !seen {
			c.fields[f] = v
		}
	}
	return c
}

// NormalizeAll maps every row.
func (n *Normalizer) NormalizeAll(rows []csvparse.Row) []Canonical {
	out := make([]Canonical, 0, len(rows))
	for _, r := range rows {
		out = append(out, n.Normalize(r))
	}
	return out
}

// Value resolves a pass-through column of row case-insensitively.
func (n *Normalizer) Value(row csvparse.Row, header string) (string, bool) {
	return lookup(row, header)
}

func lookup(row csvparse.Row, header string) (string, bool) {
	if v, ok := row.Get(header); ok {
		return v, true
	}
	want := normalize(header)
	for _, h := range row.Headers() {
		if normalize(h) == want {
			return row.Value(h), true
		}
	}
	return "", false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
