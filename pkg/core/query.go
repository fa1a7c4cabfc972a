package core

// StatementBuilder generates SQL statement text from column lists, filters
// and value maps. Values handed to it must already be SQL literals (see
// Formatter); only identifiers are escaped.
type StatementBuilder interface {
	BuildColumns(columns any, addQuotes, showAlias, withSortMarker bool) (string, error)
	BuildWhereClause(filter any) (string, error)
	BuildSelect(table string, sel *Selection) (string, error)
	BuildInsert(table string, values Fields) (string, error)
	BuildUpdate(table string, values any, where any) (string, error)
	BuildDelete(table string, where any) (string, error)
}
