package tarmac

import "github.com/asaidimu/sqlhelper/pkg/core"

// MySQLDialect holds the MySQL introspection statements.
type MySQLDialect struct{}

var _ core.Dialect = MySQLDialect{}

func (MySQLDialect) ShowColumns(table string) (string, int) {
	return "SHOW COLUMNS FROM " + table, 0
}

// ShowFullColumns reports the comment in the ninth column.
func (MySQLDialect) ShowFullColumns(table string) (string, int, int, bool) {
	return "SHOW FULL COLUMNS FROM " + table, 0, 8, true
}

func (MySQLDialect) ShowTables() string {
	return "SHOW TABLES"
}

func (MySQLDialect) Truncate(quotedTable string) string {
	return "TRUNCATE TABLE " + quotedTable
}

func (MySQLDialect) UseDatabase(database, charset string) ([]string, bool) {
	queries := []string{"USE " + core.Backquote(core.Escape(database))}
	if charset != "" {
		queries = append(queries, "SET CHARACTER SET '"+core.Escape(charset)+"'")
	}
	return queries, true
}
