package database

import (
	"fmt"
	"strings"
)

// Column is one column of a target table. Definition holds the type and
// constraints; primary keys take their definition from the dialect.
type Column struct {
	Name       string
	Definition string
	PrimaryKey bool
	// Additive columns may be added to an existing table with ALTER TABLE.
	Additive bool
}

// Seed is a row inserted right after its table is created.
type Seed struct {
	Columns []string
	Values  []any
}

// Table is the target shape of one table.
type Table struct {
	Name    string
	Columns []Column
	Seeds   []Seed
}

// Statement is a SQL statement written with ? placeholders.
type Statement struct {
	SQL  string
	Args []any
}

// PantrySchema is the target schema, in dependency order.
var PantrySchema = []Table{
	{
		Name: "locations",
		Columns: []Column{
			{Name: "id", PrimaryKey: true},
			{Name: "name", Definition: "VARCHAR(50) NOT NULL UNIQUE"},
			{Name: "description", Definition: "VARCHAR(200)"},
		},
		Seeds: []Seed{
			{Columns: []string{"name", "description"}, Values: []any{"Pantry", "Default storage location"}},
		},
	},
	{
		Name: "categories",
		Columns: []Column{
			{Name: "id", PrimaryKey: true},
			{Name: "name", Definition: "VARCHAR(50) NOT NULL UNIQUE"},
		},
	},
	{
		Name: "products",
		Columns: []Column{
			{Name: "id", PrimaryKey: true},
			{Name: "name", Definition: "VARCHAR(100) NOT NULL UNIQUE"},
			{Name: "url", Definition: "VARCHAR(200) NOT NULL"},
			{Name: "category_id", Definition: "INTEGER NOT NULL REFERENCES categories(id)"},
			{Name: "barcode", Definition: "VARCHAR(13) UNIQUE"},
			{Name: "image_front_small_url", Definition: "TEXT"},
			{Name: "min_stock", Definition: "INTEGER NOT NULL DEFAULT 5", Additive: true},
			{Name: "location_id", Definition: "INTEGER REFERENCES locations(id)", Additive: true},
			{Name: "expiry_date", Definition: "DATE", Additive: true},
			{Name: "notes", Definition: "TEXT", Additive: true},
		},
	},
	{
		Name: "counts",
		Columns: []Column{
			{Name: "id", PrimaryKey: true},
			{Name: "product_id", Definition: "INTEGER NOT NULL UNIQUE REFERENCES products(id)"},
			{Name: "count", Definition: "INTEGER NOT NULL DEFAULT 0"},
		},
	},
}

func (c Column) ddl(d Dialect) string {
	if c.PrimaryKey {
		return c.Name + " " + d.AutoIncrementPrimaryKey()
	}
	return c.Name + " " + c.Definition
}

// CreateStatements returns the CREATE TABLE statement followed by the seed inserts.
func (t Table) CreateStatements(d Dialect) []Statement {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		defs = append(defs, "    "+c.ddl(d))
	}
	stmts := []Statement{{
		SQL: fmt.Sprintf("CREATE TABLE %s (\n%s\n)", t.Name, strings.Join(defs, ",\n")),
	}}
	for _, s := range t.Seeds {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(s.Columns)), ", ")
		stmts = append(stmts, Statement{
			SQL:  fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(s.Columns, ", "), placeholders),
			Args: s.Values,
		})
	}
	return stmts
}

// AddColumnStatement returns the ALTER TABLE statement adding c to t.
func (t Table) AddColumnStatement(d Dialect, c Column) Statement {
	return Statement{SQL: fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", t.Name, c.ddl(d))}
}
