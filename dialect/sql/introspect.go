package sql

// ShowTables builds the dialect's table-listing statement. The embedded
// engine is queried through its catalog table, filtering out the engine's
// internal names; MySQL issues the server-level listing statement.
func (b *Builder) ShowTables() Fragment {
	if b.embedded() {
		return NewFragment("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	}
	return NewFragment("SHOW TABLES")
}

// DescribeTable builds the dialect's column-introspection statement for the
// given table.
func (b *Builder) DescribeTable(table string) (Fragment, error) {
	tbl, err := b.Ident(table)
	if err != nil {
		return Fragment{}, err
	}
	if b.embedded() {
		return NewFragment("PRAGMA table_info(" + tbl + ")"), nil
	}
	return NewFragment("DESCRIBE " + tbl), nil
}
