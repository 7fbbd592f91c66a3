// Package draw reassembles hunt-code records from the text of draw-result reports.
//
// The extractor breaks each record over three to ten physical lines:
//
//	EE001E1R A
//	Drawn Out At 19 Pref
//	Points
//	...
//	# Drawn at Final Level 1 of 3 1 of 1 N/A N/A 1 of 2 1 of 3
//
// A page is normalized with an ordered RuleTable, split into segments at the
// synthetic markers, and every segment is classified and appended to column
// buffers. Column lengths are reconciled before code and first-round segments
// are accepted so that a record split across a page boundary is captured once.
package draw

import (
	"errors"
	"fmt"
	"strings"

	"github.com/a3tai/huntreport/internal/report/diag"
	"github.com/sirupsen/logrus"
)

// codePairWidth is the token count of an identifier pair segment
const codePairWidth = 2

// Outcomes holds one value per applicant category. Values are kept verbatim:
// plain counts, "ND", "N/A", "no-apps" or fractions such as "1/3".
type Outcomes struct {
	AdultResident         string `json:"adult_res_draw_at"`
	AdultNonresident      string `json:"adult_nonrest_draw_at"`
	YouthResident         string `json:"youth_res_draw_at"`
	YouthNonresident      string `json:"youth_nonrest_draw_at"`
	LandownerUnrestricted string `json:"landowner_unrestr_draw_at"`
	LandownerRestricted   string `json:"landowner_restr_draw_at"`
}

func (o Outcomes) values() []any {
	return []any{
		o.AdultResident, o.AdultNonresident, o.YouthResident,
		o.YouthNonresident, o.LandownerUnrestricted, o.LandownerRestricted,
	}
}

// Record is one reassembled hunt code
type Record struct {
	HuntCode     string   `json:"hunt_code"`
	ListCode     string   `json:"list_code"`
	FirstRound   Outcomes `json:"first_round"`
	FinalRound   Outcomes `json:"final_round"`
	AnimalSex    string   `json:"animal_sex"`
	GMU          string   `json:"gmu"`
	MethodOfTake string   `json:"method_of_take"`
}

// Columns lists the output columns in Record.Values order
var Columns = func() []string {
	cols := []string{"hunt_code", "list_code"}
	cols = append(cols, outcomeNames...)
	for _, n := range outcomeNames {
		cols = append(cols, "final_"+n)
	}
	return append(cols, "animal_sex", "gmu", "method_of_take")
}()

// Values returns the record in Columns order
func (r Record) Values() []any {
	values := []any{r.HuntCode, r.ListCode}
	values = append(values, r.FirstRound.values()...)
	values = append(values, r.FinalRound.values()...)
	return append(values, r.AnimalSex, r.GMU, r.MethodOfTake)
}

// Result is the output of a finished document
type Result struct {
	Records  []Record
	Warnings []*diag.Error
}

// Parser reassembles the records of one document. It is not safe for
// concurrent use; pages must be fed in document order.
type Parser struct {
	rules    RuleTable
	acc      Accumulator
	logger   logrus.FieldLogger
	source   string
	page     int
	warnings *diag.Collection
	failed   *diag.Error
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithRules replaces the default rule table
func WithRules(rules RuleTable) ParserOption {
	return func(p *Parser) {
		p.rules = rules
	}
}

// WithLogger sets the logger used for drift warnings
func WithLogger(logger logrus.FieldLogger) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithSource names the document in warnings and errors
func WithSource(source string) ParserOption {
	return func(p *Parser) {
		p.source = source
	}
}

// NewParser creates a parser with its own empty accumulator
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		rules:  DefaultRules(),
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.warnings = diag.NewCollection(p.source)
	return p
}

// Accumulator exposes the column buffers, mainly for diagnostics
func (p *Parser) Accumulator() *Accumulator {
	return &p.acc
}

// ParsePage normalizes, segments and classifies one page. pageNum is 1-based.
// A fatal outcome poisons the parser: later pages are refused.
func (p *Parser) ParsePage(pageNum int, text string) diag.Outcome {
	var out diag.Outcome
	if p.failed != nil {
		out.Abort(p.failed)
		return out
	}

	p.page = pageNum
	for _, seg := range Segment(Normalize(text, p.rules)) {
		res := p.handleSegment(seg)
		out.Merge(res)
		if out.Fatal != nil {
			out.Fatal.WithSource(p.source)
			p.failed = out.Fatal
			break
		}
	}

	p.warnings.Add(out.Warnings...)
	return out
}

func (p *Parser) handleSegment(seg string) diag.Outcome {
	var out diag.Outcome

	switch Classify(seg) {
	case IdentifierPair:
		r, ferr := Reconcile(&p.acc)
		if ferr != nil {
			out.Abort(ferr.WithPage(p.page).WithSegment(seg))
			return out
		}
		if r.Drift() {
			out.Warn(p.driftWarning(r))
		}

		tokens := strings.Fields(seg)
		if r.AlreadyCaptured(GroupCodes) {
			out.Warn(p.duplicateWarning(GroupCodes, seg))
			return out
		}

		if err := diag.CheckWidth(tokens, codePairWidth, "identifier pair"); err != nil {
			out.Abort(err.WithPage(p.page).WithSegment(seg).WithHuntCode(p.acc.LatestHuntCode()))
			return out
		}
		p.acc.AppendCodes(tokens[0], tokens[1])

	case FirstRoundResult:
		r, ferr := Reconcile(&p.acc)
		if ferr != nil {
			out.Abort(ferr.WithPage(p.page).WithSegment(seg))
			return out
		}
		if r.AlreadyCaptured(GroupFirstRound) {
			out.Warn(p.duplicateWarning(GroupFirstRound, seg))
			return out
		}

		if err := p.acc.AppendFirstRound(resultTokens(seg, FirstRoundTag)); err != nil {
			out.Abort(p.shapeError(err, seg))
			return out
		}

	case FinalRoundResult:
		if err := p.acc.AppendFinalRound(resultTokens(seg, FinalRoundTag)); err != nil {
			out.Abort(p.shapeError(err, seg))
			return out
		}
	}

	return out
}

// shapeError stamps a rejected append with the parser position
func (p *Parser) shapeError(err error, seg string) *diag.Error {
	var shape *diag.Error
	if !errors.As(err, &shape) {
		shape = diag.Fatal(diag.KindShapeViolation, err.Error())
	}
	return shape.WithPage(p.page).WithSegment(seg).WithHuntCode(p.acc.LatestHuntCode())
}

func (p *Parser) driftWarning(r Reconciliation) *diag.Error {
	code := p.acc.LatestHuntCode()
	p.logger.WithFields(logrus.Fields{
		"source":         p.source,
		"page":           p.page,
		"hunt_code":      code,
		"have_codes":     r.Complete(GroupCodes),
		"have_first":     r.Complete(GroupFirstRound),
		"have_final":     r.Complete(GroupFinalRound),
		"lagging_groups": r.Lagging(),
	}).Warn("column lengths differ by one, record is mid-assembly")

	return diag.Warning(diag.KindDrift, "record is mid-assembly").
		WithPage(p.page).
		WithHuntCode(code).
		WithLengths(r.Lengths)
}

func (p *Parser) duplicateWarning(g Group, seg string) *diag.Error {
	code := p.acc.LatestHuntCode()
	p.logger.WithFields(logrus.Fields{
		"source":    p.source,
		"page":      p.page,
		"hunt_code": code,
		"group":     g.String(),
	}).Warn("already have data for in-progress record, segment dropped")

	return diag.Warning(diag.KindDuplicateSegment, fmt.Sprintf("%s segment already captured", g)).
		WithPage(p.page).
		WithHuntCode(code).
		WithSegment(seg)
}

// Finish checks the accumulator and builds the records with their derived
// columns. A document that ends mid-record loses that trailing record with a
// warning; a larger mismatch is fatal.
func (p *Parser) Finish() (*Result, error) {
	if p.failed != nil {
		return nil, p.failed
	}

	r, ferr := Reconcile(&p.acc)
	if ferr != nil {
		ferr.WithPage(p.page).WithSource(p.source)
		p.failed = ferr
		return nil, ferr
	}

	if r.Drift() {
		w := diag.Warning(diag.KindTrailingRecord, "document ends mid-record, trailing record dropped").
			WithPage(p.page).
			WithHuntCode(p.acc.LatestHuntCode()).
			WithLengths(r.Lengths)
		p.logger.WithFields(logrus.Fields{
			"source":    p.source,
			"hunt_code": w.HuntCode,
			"lengths":   diag.FormatLengths(r.Lengths),
		}).Warn("dropping incomplete trailing record")
		p.warnings.Add(w)
		p.acc.truncate(p.acc.Len())
	}

	n := p.acc.Len()
	records := make([]Record, n)
	for i := 0; i < n; i++ {
		code := p.acc.HuntCode[i]
		records[i] = Record{
			HuntCode:   code,
			ListCode:   p.acc.ListCode[i],
			FirstRound: p.acc.FirstRound.row(i),
			FinalRound: p.acc.FinalRound.row(i),
		}
	}
	deriveColumns(records)

	return &Result{Records: records, Warnings: p.warnings.Warnings}, nil
}

// deriveColumns fills the columns computed from the hunt code once every page
// has been consumed.
func deriveColumns(records []Record) {
	for i := range records {
		code := records[i].HuntCode
		records[i].AnimalSex = DeriveAnimalSex(code)
		records[i].GMU = DeriveGMU(code)
		records[i].MethodOfTake = DeriveMethodOfTake(code)
	}
}

// ParseDocument runs a fresh Parser over pages in order
func ParseDocument(pages []string, opts ...ParserOption) (*Result, error) {
	p := NewParser(opts...)
	for i, text := range pages {
		if out := p.ParsePage(i+1, text); out.Fatal != nil {
			return nil, out.Fatal
		}
	}
	return p.Finish()
}
