package builder

import (
	"fmt"
	"strings"

	"github.com/asaidimu/sqlhelper/pkg/core"
)

// Builder generates statement text with back-quoted identifiers. Values are
// embedded verbatim; they must come out of a core.Formatter or be written by
// hand as valid SQL literals.
type Builder struct {
	escape core.EscapeFunc
}

var _ core.StatementBuilder = (*Builder)(nil)

// New returns a Builder escaping identifiers with escape, or with MySQL
// rules when escape is nil.
func New(escape core.EscapeFunc) *Builder {
	if escape == nil {
		escape = core.Escape
	}
	return &Builder{escape: escape}
}

func (b *Builder) quoteIdentifier(s string) string {
	return core.Backquote(b.escape(s))
}

// BuildColumns renders a column list. columns may be a single column string,
// a []string or core.Columns.
//
// With addQuotes every entry is back-quoted. With showAlias entries carrying
// an alias get AS "alias". With withSortMarker a leading + or - is stripped
// and turned into ASC or DESC (ASC by default); the direction is not
// emitted for aliased entries. A single column string is returned as is,
// quoted when asked to.
func (b *Builder) BuildColumns(columns any, addQuotes, showAlias, withSortMarker bool) (string, error) {
	var cols core.Columns
	switch c := columns.(type) {
	case string:
		if addQuotes {
			return b.quoteIdentifier(c), nil
		}
		return c, nil
	case []string:
		cols = core.Cols(c...)
	case core.Columns:
		cols = c
	default:
		return "", fmt.Errorf("BuildColumns: %w: %T", core.ErrUnsupportedShape, columns)
	}

	parts := make([]string, 0, len(cols))
	for _, col := range cols {
		name := col.Name
		direction := ""
		if withSortMarker {
			direction = " ASC"
			if strings.HasPrefix(name, "+") {
				name = name[1:]
			} else if strings.HasPrefix(name, "-") {
				direction = " DESC"
				name = name[1:]
			}
		}

		if addQuotes {
			name = b.quoteIdentifier(name)
		}
		if showAlias && col.Alias != "" {
			name += ` AS "` + b.escape(col.Alias) + `"`
		} else {
			name += direction
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", "), nil
}

// BuildWhereClause renders a WHERE clause. A string filter is returned
// verbatim. core.Fields are joined with AND: keyed entries become
// `key` = literal and positional entries are inserted as they are.
//
// Empty keys are rejected, and so are empty literals ("", "0", false, null)
// unless they are integers.
func (b *Builder) BuildWhereClause(filter any) (string, error) {
	switch f := filter.(type) {
	case nil:
		return "", nil
	case string:
		return f, nil
	case core.Fields:
		var sb strings.Builder
		for _, field := range f {
			if sb.Len() == 0 {
				sb.WriteString("WHERE ")
			} else {
				sb.WriteString(" AND ")
			}

			if !field.Positional && field.Key == "" {
				return "", fmt.Errorf("BuildWhereClause: %w", core.ErrInvalidKey)
			}
			// Integers are exempt from the emptiness check, so a literal 0 is
			// accepted while "0" is not.
			if field.Value.IsEmpty() && field.Value.Kind != core.KindInt {
				return "", fmt.Errorf("BuildWhereClause: %w for key '%s'", core.ErrInvalidValue, field.Key)
			}

			if field.Positional {
				sb.WriteString(field.Value.Text())
			} else {
				sb.WriteString(b.quoteIdentifier(field.Key) + " = " + field.Value.Text())
			}
		}
		return sb.String(), nil
	}
	return "", fmt.Errorf("BuildWhereClause: %w: %T", core.ErrUnsupportedShape, filter)
}

// BuildSelect renders SELECT <columns|*> FROM `table` [WHERE ...]
// [ORDER BY ...] [LIMIT ...].
func (b *Builder) BuildSelect(table string, sel *core.Selection) (string, error) {
	if sel == nil {
		sel = &core.Selection{}
	}

	columns := ""
	if sel.Columns != nil {
		cols, err := b.BuildColumns(sel.Columns, false, true, false)
		if err != nil {
			return "", fmt.Errorf("BuildSelect: %w", err)
		}
		columns = strings.TrimSpace(cols)
	}
	if columns == "" {
		columns = "*"
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + columns + " FROM " + b.quoteIdentifier(table))

	if sel.Where != nil {
		where, err := b.BuildWhereClause(sel.Where)
		if err != nil {
			return "", err
		}
		if where != "" {
			sb.WriteString(" " + where)
		}
	}

	if sel.Sort != nil {
		order, err := b.BuildColumns(sel.Sort, false, false, true)
		if err != nil {
			return "", fmt.Errorf("BuildSelect: %w", err)
		}
		if order = strings.TrimSpace(order); order != "" {
			sb.WriteString(" ORDER BY " + order)
		}
	}

	if limit := strings.TrimSpace(string(sel.Limit)); limit != "" {
		if err := sel.Limit.Validate(); err != nil {
			return "", fmt.Errorf("BuildSelect: %w: %q", err, sel.Limit)
		}
		sb.WriteString(" LIMIT " + limit)
	}

	return sb.String(), nil
}

// BuildInsert renders INSERT INTO `table` (`k1`, `k2`) VALUES (v1, v2).
func (b *Builder) BuildInsert(table string, values core.Fields) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("BuildInsert: %w", core.ErrInvalidValues)
	}

	columns := make([]string, len(values))
	literals := make([]string, len(values))
	for i, field := range values {
		if field.Positional || field.Key == "" {
			return "", fmt.Errorf("BuildInsert: %w", core.ErrInvalidKey)
		}
		columns[i] = b.quoteIdentifier(field.Key)
		literals[i] = literal(field.Value)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.quoteIdentifier(table), strings.Join(columns, ", "), strings.Join(literals, ", ")), nil
}

// BuildUpdate renders UPDATE `table` SET `k1` = v1, `k2` = v2 [WHERE ...].
// values must be non-empty core.Fields with keys and non-empty literals
// (integers excepted).
func (b *Builder) BuildUpdate(table string, values any, where any) (string, error) {
	fields, ok := values.(core.Fields)
	if !ok {
		return "", fmt.Errorf("BuildUpdate: %w: %T", core.ErrUnsupportedShape, values)
	}
	if len(fields) == 0 {
		return "", fmt.Errorf("BuildUpdate: %w", core.ErrInvalidValues)
	}

	sets := make([]string, len(fields))
	for i, field := range fields {
		if field.Value.IsEmpty() && field.Value.Kind != core.KindInt {
			return "", fmt.Errorf("BuildUpdate: %w for key '%s'", core.ErrInvalidValue, field.Key)
		}
		if field.Positional || field.Key == "" {
			return "", fmt.Errorf("BuildUpdate: %w", core.ErrInvalidKey)
		}
		sets[i] = b.quoteIdentifier(field.Key) + " = " + field.Value.Text()
	}

	sql := "UPDATE " + b.quoteIdentifier(table) + " SET " + strings.Join(sets, ", ")
	if where != nil {
		wh, err := b.BuildWhereClause(where)
		if err != nil {
			return "", err
		}
		if wh != "" {
			sql += " " + wh
		}
	}
	return sql, nil
}

// BuildDelete renders DELETE FROM `table` [WHERE ...]. Without a filter
// every row is deleted.
func (b *Builder) BuildDelete(table string, where any) (string, error) {
	sql := "DELETE FROM " + b.quoteIdentifier(table)
	if where != nil {
		wh, err := b.BuildWhereClause(where)
		if err != nil {
			return "", err
		}
		if wh != "" {
			sql += " " + wh
		}
	}
	return sql, nil
}

func literal(v core.Value) string {
	if v.Kind == core.KindNull {
		return "NULL"
	}
	return v.Text()
}
