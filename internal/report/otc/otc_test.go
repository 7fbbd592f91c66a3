package otc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brochure = `{
  # copied from the 2024 big game brochure, page 43
  "private_either_sex": "1, 2, 10, 201 (archery only), ",
  "private_female": "2, 10",
  "public_either_sex": "10, 11,",
  public_female: 11
}`

func TestLoad(t *testing.T) {
	rows, err := Load(strings.NewReader(brochure), []int{12, 1, 2, 10, 11, 99, 2})
	require.NoError(t, err)

	require.Len(t, rows, 6)
	assert.Equal(t, []int{1, 2, 10, 11, 12, 99}, gmus(rows))

	assert.Equal(t, Row{GMU: 1, PrivateEitherSex: true}, rows[0])
	assert.Equal(t, Row{GMU: 2, PrivateEitherSex: true, PrivateFemale: true}, rows[1])
	assert.Equal(t, Row{GMU: 10, PrivateEitherSex: true, PrivateFemale: true, PublicEitherSex: true}, rows[2])
	assert.Equal(t, Row{GMU: 11, PublicEitherSex: true, PublicFemale: true}, rows[3])
	assert.Equal(t, Row{GMU: 12, NoOverTheCounter: true}, rows[4])
	assert.Equal(t, Row{GMU: 99, NoOverTheCounter: true}, rows[5])
}

func TestLoad_UnitsDefaultToListed(t *testing.T) {
	rows, err := Load(strings.NewReader(brochure), nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 10, 11}, gmus(rows))
}

func TestParseLists_IgnoresNonNumericItems(t *testing.T) {
	lists, err := ParseLists(strings.NewReader(brochure))
	require.NoError(t, err)

	assert.Len(t, lists[PrivateEitherSex], 3)
	assert.False(t, lists[PrivateEitherSex][201])
	assert.True(t, lists[PublicFemale][11])
}

func TestParseLists_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "key without sex", input: `{"public": "1, 2"}`},
		{name: "unknown access", input: `{"tribal_female": "1, 2"}`},
		{name: "unsupported list", input: `{"public_male": "1, 2"}`},
		{name: "list is not a string", input: `{"public_female": [1, 2]}`},
		{name: "not an object", input: `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLists(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestRowValuesMatchColumns(t *testing.T) {
	row := Row{GMU: 7, PublicFemale: true}
	values := row.Values()

	require.Len(t, values, len(Columns))
	assert.Equal(t, 7, values[0])
	assert.Equal(t, true, values[4])
	assert.Equal(t, "public_female", Columns[4])
}

func gmus(rows []Row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.GMU
	}
	return out
}
