// Package otc loads the over-the-counter license lists copied from the big game
// brochure and pivots them into one row per game management unit.
package otc

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
)

// List keys as they appear in the brochure file
const (
	PrivateEitherSex = "private_either_sex"
	PrivateFemale    = "private_female"
	PublicEitherSex  = "public_either_sex"
	PublicFemale     = "public_female"
)

// Columns lists the output columns in Row.Values order
var Columns = []string{
	"gmu",
	PrivateEitherSex,
	PrivateFemale,
	PublicEitherSex,
	PublicFemale,
	"no_over_the_counter",
}

// Row holds the license flags of one unit
type Row struct {
	GMU              int  `json:"gmu"`
	PrivateEitherSex bool `json:"private_either_sex"`
	PrivateFemale    bool `json:"private_female"`
	PublicEitherSex  bool `json:"public_either_sex"`
	PublicFemale     bool `json:"public_female"`
	NoOverTheCounter bool `json:"no_over_the_counter"`
}

// Values returns the row in Columns order
func (r Row) Values() []any {
	return []any{
		r.GMU, r.PrivateEitherSex, r.PrivateFemale,
		r.PublicEitherSex, r.PublicFemale, r.NoOverTheCounter,
	}
}

// Lists maps a list key to the set of units it names
type Lists map[string]map[int]bool

// ParseLists decodes the brochure file. The input is hjson, so comments,
// unquoted values and trailing commas are tolerated. Every key must be one of
// the four list keys; items that are not whole numbers are ignored.
func ParseLists(r io.Reader) (Lists, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read license lists: %w", err)
	}

	var raw map[string]interface{}
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode license lists: %w", err)
	}

	lists := make(Lists, len(raw))
	for key, v := range raw {
		if err := checkKey(key); err != nil {
			return nil, err
		}
		// a list holding a single unit decodes as a number
		var value string
		switch tv := v.(type) {
		case string:
			value = tv
		case float64:
			value = strconv.FormatFloat(tv, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("license list %q: expected a comma-separated string, got %T", key, v)
		}
		units := make(map[int]bool)
		for _, item := range strings.Split(value, ",") {
			item = strings.TrimSpace(item)
			if !isDigits(item) {
				continue
			}
			n, err := strconv.Atoi(item)
			if err != nil {
				continue
			}
			units[n] = true
		}
		lists[key] = units
	}
	return lists, nil
}

// Load parses the brochure file and returns one row per unit in units, in
// ascending unit order. Units missing from every list have NoOverTheCounter set.
// When units is empty the union of all listed units is used.
func Load(r io.Reader, units []int) ([]Row, error) {
	lists, err := ParseLists(r)
	if err != nil {
		return nil, err
	}
	return lists.Rows(units), nil
}

// Rows pivots the lists onto the given unit universe
func (l Lists) Rows(units []int) []Row {
	if len(units) == 0 {
		units = l.Units()
	}

	seen := make(map[int]bool, len(units))
	sorted := make([]int, 0, len(units))
	for _, u := range units {
		if !seen[u] {
			seen[u] = true
			sorted = append(sorted, u)
		}
	}
	sort.Ints(sorted)

	rows := make([]Row, 0, len(sorted))
	for _, u := range sorted {
		row := Row{
			GMU:              u,
			PrivateEitherSex: l[PrivateEitherSex][u],
			PrivateFemale:    l[PrivateFemale][u],
			PublicEitherSex:  l[PublicEitherSex][u],
			PublicFemale:     l[PublicFemale][u],
		}
		row.NoOverTheCounter = !(row.PrivateEitherSex || row.PrivateFemale ||
			row.PublicEitherSex || row.PublicFemale)
		rows = append(rows, row)
	}
	return rows
}

// Units returns every unit named by any list, sorted
func (l Lists) Units() []int {
	seen := make(map[int]bool)
	for _, units := range l {
		for u := range units {
			seen[u] = true
		}
	}
	out := make([]int, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Ints(out)
	return out
}

func checkKey(key string) error {
	access, sex, ok := strings.Cut(key, "_")
	if !ok || sex == "" {
		return fmt.Errorf("license list key %q: expected <public|private>_<sex>", key)
	}
	if access != "public" && access != "private" {
		return fmt.Errorf("license list key %q: unknown access %q", key, access)
	}
	switch key {
	case PrivateEitherSex, PrivateFemale, PublicEitherSex, PublicFemale:
		return nil
	}
	return fmt.Errorf("license list key %q: unsupported list, expected one of %s",
		key, strings.Join(Columns[1:len(Columns)-1], ", "))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
