package draw

import (
	"fmt"

	"github.com/a3tai/huntreport/internal/report/diag"
)

// OutcomeWidth is the number of applicant categories in a result block
const OutcomeWidth = 6

// Group identifies a set of columns that are filled by one segment kind
type Group int

const (
	GroupCodes Group = iota
	GroupFirstRound
	GroupFinalRound
)

// String returns a string representation of the Group
func (g Group) String() string {
	switch g {
	case GroupCodes:
		return "codes"
	case GroupFirstRound:
		return "first_round"
	case GroupFinalRound:
		return "final_round"
	default:
		return "unknown"
	}
}

var allGroups = []Group{GroupCodes, GroupFirstRound, GroupFinalRound}

// OutcomeColumns holds the six applicant-category columns of one result block
type OutcomeColumns struct {
	AdultResident         []string
	AdultNonresident      []string
	YouthResident         []string
	YouthNonresident      []string
	LandownerUnrestricted []string
	LandownerRestricted   []string
}

func (o *OutcomeColumns) append(values []string) {
	o.AdultResident = append(o.AdultResident, values[0])
	o.AdultNonresident = append(o.AdultNonresident, values[1])
	o.YouthResident = append(o.YouthResident, values[2])
	o.YouthNonresident = append(o.YouthNonresident, values[3])
	o.LandownerUnrestricted = append(o.LandownerUnrestricted, values[4])
	o.LandownerRestricted = append(o.LandownerRestricted, values[5])
}

func (o *OutcomeColumns) columns() []*[]string {
	return []*[]string{
		&o.AdultResident,
		&o.AdultNonresident,
		&o.YouthResident,
		&o.YouthNonresident,
		&o.LandownerUnrestricted,
		&o.LandownerRestricted,
	}
}

func (o *OutcomeColumns) row(i int) Outcomes {
	return Outcomes{
		AdultResident:         o.AdultResident[i],
		AdultNonresident:      o.AdultNonresident[i],
		YouthResident:         o.YouthResident[i],
		YouthNonresident:      o.YouthNonresident[i],
		LandownerUnrestricted: o.LandownerUnrestricted[i],
		LandownerRestricted:   o.LandownerRestricted[i],
	}
}

// Accumulator collects extracted values column by column while pages are read.
// Row i of every column describes the same hunt code once a document is done.
type Accumulator struct {
	HuntCode   []string
	ListCode   []string
	FirstRound OutcomeColumns
	FinalRound OutcomeColumns
}

type column struct {
	name   string
	group  Group
	values *[]string
}

var outcomeNames = []string{
	"adult_res_draw_at",
	"adult_nonrest_draw_at",
	"youth_res_draw_at",
	"youth_nonrest_draw_at",
	"landowner_unrestr_draw_at",
	"landowner_restr_draw_at",
}

func (a *Accumulator) columns() []column {
	cols := []column{
		{name: "hunt_code", group: GroupCodes, values: &a.HuntCode},
		{name: "list_code", group: GroupCodes, values: &a.ListCode},
	}
	for i, c := range a.FirstRound.columns() {
		cols = append(cols, column{name: outcomeNames[i], group: GroupFirstRound, values: c})
	}
	for i, c := range a.FinalRound.columns() {
		cols = append(cols, column{name: "final_" + outcomeNames[i], group: GroupFinalRound, values: c})
	}
	return cols
}

// AppendCodes appends one identifier pair
func (a *Accumulator) AppendCodes(huntCode, listCode string) {
	a.HuntCode = append(a.HuntCode, huntCode)
	a.ListCode = append(a.ListCode, listCode)
}

// AppendFirstRound appends one first-round result block. A block of the wrong
// width is rejected with a fatal shape violation and nothing is appended.
func (a *Accumulator) AppendFirstRound(values []string) error {
	if err := diag.CheckWidth(values, OutcomeWidth, "first-round block"); err != nil {
		return err
	}
	a.FirstRound.append(values)
	return nil
}

// AppendFinalRound appends one final-round result block
func (a *Accumulator) AppendFinalRound(values []string) error {
	if err := diag.CheckWidth(values, OutcomeWidth, "final-round block"); err != nil {
		return err
	}
	a.FinalRound.append(values)
	return nil
}

// LatestHuntCode returns the most recently captured hunt code or ""
func (a *Accumulator) LatestHuntCode() string {
	if len(a.HuntCode) == 0 {
		return ""
	}
	return a.HuntCode[len(a.HuntCode)-1]
}

// Lengths returns the current length of every column keyed by column name
func (a *Accumulator) Lengths() map[string]int {
	lengths := make(map[string]int)
	for _, c := range a.columns() {
		lengths[c.name] = len(*c.values)
	}
	return lengths
}

// Len returns the number of complete rows, i.e. the shortest column length
func (a *Accumulator) Len() int {
	minLen := -1
	for _, c := range a.columns() {
		if n := len(*c.values); minLen == -1 || n < minLen {
			minLen = n
		}
	}
	if minLen < 0 {
		return 0
	}
	return minLen
}

// truncate cuts every column to n values
func (a *Accumulator) truncate(n int) {
	for _, c := range a.columns() {
		if len(*c.values) > n {
			*c.values = (*c.values)[:n]
		}
	}
}

// Reconciliation describes how far the column groups have drifted apart
type Reconciliation struct {
	Max        int
	MaxDeficit int
	Lengths    map[string]int
	complete   map[Group]bool
}

// InSync reports whether every column has the same length
func (r Reconciliation) InSync() bool {
	return r.MaxDeficit == 0
}

// Drift reports whether a single record is mid-assembly
func (r Reconciliation) Drift() bool {
	return r.MaxDeficit == 1
}

// Complete reports whether every column of g is at the maximum length
func (r Reconciliation) Complete(g Group) bool {
	return r.complete[g]
}

// AlreadyCaptured reports whether the in-progress record already holds the
// values of g, so a repeated segment for g must not be appended again. It is
// always false when the columns are in sync.
func (r Reconciliation) AlreadyCaptured(g Group) bool {
	return r.Drift() && r.complete[g]
}

// Lagging returns the groups that are behind the furthest column
func (r Reconciliation) Lagging() []Group {
	var lagging []Group
	for _, g := range allGroups {
		if !r.complete[g] {
			lagging = append(lagging, g)
		}
	}
	return lagging
}

// Reconcile compares column lengths. A deficit of at most one is reported as
// drift; anything larger is a fatal diag.Error carrying the latest hunt code and
// the full length map.
func Reconcile(a *Accumulator) (Reconciliation, *diag.Error) {
	cols := a.columns()

	r := Reconciliation{
		Lengths:  make(map[string]int, len(cols)),
		complete: make(map[Group]bool, len(allGroups)),
	}

	for _, c := range cols {
		n := len(*c.values)
		r.Lengths[c.name] = n
		if n > r.Max {
			r.Max = n
		}
	}

	for _, g := range allGroups {
		r.complete[g] = true
	}
	for _, c := range cols {
		deficit := r.Max - len(*c.values)
		if deficit > r.MaxDeficit {
			r.MaxDeficit = deficit
		}
		if deficit > 0 {
			r.complete[c.group] = false
		}
	}

	if r.MaxDeficit > 1 {
		return r, diag.Fatal(diag.KindDrift,
			fmt.Sprintf("column lengths differ by %d, expected at most 1", r.MaxDeficit)).
			WithHuntCode(a.LatestHuntCode()).
			WithLengths(r.Lengths)
	}

	return r, nil
}
