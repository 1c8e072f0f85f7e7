package sql

import "strings"

// ColumnDef declares a column in a CREATE TABLE or ALTER TABLE statement.
//
// Name is sanitized like any identifier. Def is caller-trusted literal SQL
// (e.g., "INTEGER PRIMARY KEY AUTOINCREMENT") with no parameter mechanism;
// never forward untrusted input into a definition string.
type ColumnDef struct {
	Name string
	Def  string
}

// CreateTable builds a CREATE TABLE statement from the given column
// definitions. At least one column is required.
func (b *Builder) CreateTable(table string, columns []ColumnDef, ifNotExists bool) (Fragment, error) {
	if len(columns) == 0 {
		return Fragment{}, argErr("create table %q requires at least one column", table)
	}
	tbl, err := b.Ident(table)
	if err != nil {
		return Fragment{}, err
	}
	defs := make([]string, len(columns))
	for i, c := range columns {
		name, err := b.Ident(c.Name)
		if err != nil {
			return Fragment{}, err
		}
		defs[i] = strings.TrimSpace(name + " " + c.Def)
	}
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(tbl)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(defs, ", "))
	sb.WriteString(")")
	return NewFragment(sb.String()), nil
}

// AlterTableAdd builds an ALTER TABLE ... ADD COLUMN statement.
func (b *Builder) AlterTableAdd(table string, column ColumnDef) (Fragment, error) {
	tbl, err := b.Ident(table)
	if err != nil {
		return Fragment{}, err
	}
	name, err := b.Ident(column.Name)
	if err != nil {
		return Fragment{}, err
	}
	sql := "ALTER TABLE " + tbl + " ADD COLUMN " + strings.TrimSpace(name+" "+column.Def)
	return NewFragment(sql), nil
}

// AlterTableDrop builds an ALTER TABLE ... DROP COLUMN statement.
func (b *Builder) AlterTableDrop(table, column string) (Fragment, error) {
	tbl, err := b.Ident(table)
	if err != nil {
		return Fragment{}, err
	}
	col, err := b.Ident(column)
	if err != nil {
		return Fragment{}, err
	}
	return NewFragment("ALTER TABLE " + tbl + " DROP COLUMN " + col), nil
}

// DropTable builds a DROP TABLE statement.
func (b *Builder) DropTable(table string, ifExists bool) (Fragment, error) {
	tbl, err := b.Ident(table)
	if err != nil {
		return Fragment{}, err
	}
	var sb strings.Builder
	sb.WriteString("DROP TABLE ")
	if ifExists {
		sb.WriteString("IF EXISTS ")
	}
	sb.WriteString(tbl)
	return NewFragment(sb.String()), nil
}

// Truncate builds a statement that removes every row of a table. The
// embedded engine has no native TRUNCATE, so the SQLite dialect dispatches
// to an unconditioned DELETE; MySQL emits TRUNCATE TABLE.
func (b *Builder) Truncate(table string) (Fragment, error) {
	tbl, err := b.Ident(table)
	if err != nil {
		return Fragment{}, err
	}
	if b.embedded() {
		return NewFragment("DELETE FROM " + tbl), nil
	}
	return NewFragment("TRUNCATE TABLE " + tbl), nil
}
