package sqlite

import "github.com/asaidimu/sqlhelper/pkg/core"

// Dialect holds the SQLite introspection statements.
type Dialect struct{}

var _ core.Dialect = Dialect{}

// ShowColumns uses PRAGMA table_info; the name is the second column.
func (Dialect) ShowColumns(table string) (string, int) {
	return "PRAGMA table_info(" + table + ")", 1
}

// ShowFullColumns is not available: SQLite keeps no column comments.
func (Dialect) ShowFullColumns(string) (string, int, int, bool) {
	return "", 0, 0, false
}

func (Dialect) ShowTables() string {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
}

// Truncate deletes every row; SQLite has no TRUNCATE statement.
func (Dialect) Truncate(quotedTable string) string {
	return "DELETE FROM " + quotedTable
}

// UseDatabase is not available: a SQLite connection is bound to one file.
func (Dialect) UseDatabase(string, string) ([]string, bool) {
	return nil, false
}
