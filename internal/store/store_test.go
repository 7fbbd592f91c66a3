package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/a3tai/huntreport/internal/report/harvest"
	"github.com/a3tai/huntreport/internal/report/otc"
	"github.com/a3tai/huntreport/internal/table"
)

func TestCreateTableSQL(t *testing.T) {
	tests := []struct {
		name  string
		table *table.Table
		want  string
	}{
		{
			name:  "harvest columns are integers",
			table: table.FromHarvest("elk_harvest", []harvest.Row{{Unit: 1, Year: 2006}}),
			want: `CREATE TABLE IF NOT EXISTS "elk_harvest" ("unit" integer, "bulls" integer, "cows" integer, ` +
				`"calves" integer, "total_harvest" integer, "total_hunters" integer, "percent_success" integer, ` +
				`"total_rec_days" integer, "year" integer)`,
		},
		{
			name:  "otc flags are booleans",
			table: table.FromOTC("otc", []otc.Row{{GMU: 11}}),
			want: `CREATE TABLE IF NOT EXISTS "otc" ("gmu" integer, "private_either_sex" boolean, ` +
				`"private_female" boolean, "public_either_sex" boolean, "public_female" boolean, ` +
				`"no_over_the_counter" boolean)`,
		},
		{
			name:  "empty table falls back to text",
			table: &table.Table{Name: "draw", Columns: []string{"hunt_code", "list_code"}},
			want:  `CREATE TABLE IF NOT EXISTS "draw" ("hunt_code" text, "list_code" text)`,
		},
		{
			name:  "identifiers are quoted",
			table: &table.Table{Name: `bad"name`, Columns: []string{"a b"}},
			want:  `CREATE TABLE IF NOT EXISTS "bad""name" ("a b" text)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CreateTableSQL(tt.table))
		})
	}
}
