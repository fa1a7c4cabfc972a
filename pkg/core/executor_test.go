package core

import (
	"errors"
	"reflect"
	"testing"
)

func newTestRowSet() *RowSet {
	return NewRowSet(
		[]ColumnInfo{{Name: "id", Type: "INTEGER"}, {Name: "name", Type: "TEXT"}},
		[][]any{{int64(1), "Alice"}, {int64(2), "Bob"}, {int64(3), "Charlie"}},
	)
}

func TestRowSetFetchAndSeek(t *testing.T) {
	rs := newTestRowSet()

	if rs.NumRows() != 3 || rs.NumColumns() != 2 {
		t.Fatalf("got %d rows and %d columns", rs.NumRows(), rs.NumColumns())
	}
	if got := rs.ColumnNames(); !reflect.DeepEqual(got, []string{"id", "name"}) {
		t.Errorf("ColumnNames() = %v", got)
	}

	for i := 0; i < 3; i++ {
		row, err := rs.Fetch()
		if err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
		if row[0] != int64(i+1) {
			t.Errorf("Fetch %d returned id %v", i, row[0])
		}
	}
	if _, err := rs.Fetch(); !errors.Is(err, ErrNoMoreRows) {
		t.Errorf("Fetch past the end: got %v, want ErrNoMoreRows", err)
	}

	if err := rs.Seek(1); err != nil {
		t.Fatalf("Seek(1): %v", err)
	}
	row, _ := rs.Fetch()
	if row[1] != "Bob" {
		t.Errorf("after Seek(1) fetched %v", row)
	}

	for _, n := range []int{-1, 3, 10} {
		if err := rs.Seek(n); !errors.Is(err, ErrSeekRange) {
			t.Errorf("Seek(%d): got %v, want ErrSeekRange", n, err)
		}
	}
}

func TestRowSetRelease(t *testing.T) {
	rs := newTestRowSet()
	if err := rs.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if !rs.Released() {
		t.Error("Released() = false after Release")
	}
	if err := rs.Release(); !errors.Is(err, ErrReleased) {
		t.Errorf("second Release: got %v, want ErrReleased", err)
	}
	if _, err := rs.Fetch(); !errors.Is(err, ErrReleased) {
		t.Errorf("Fetch after Release: got %v, want ErrReleased", err)
	}
	if len(rs.Columns()) != 2 {
		t.Error("column descriptions should survive Release")
	}
}

func TestRowSetShape(t *testing.T) {
	rs := newTestRowSet()
	values := []any{int64(1), "Alice"}

	tests := []struct {
		rt   ResultType
		want Row
	}{
		{Assoc, Row{"id": int64(1), "name": "Alice"}},
		{Num, Row{"0": int64(1), "1": "Alice"}},
		{Both, Row{"id": int64(1), "name": "Alice", "0": int64(1), "1": "Alice"}},
	}

	for _, tt := range tests {
		if got := rs.Shape(values, tt.rt); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Shape(%d) = %v, want %v", tt.rt, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		sql  string
		want StatementKind
	}{
		{"SELECT * FROM users", StatementRows},
		{"  select 1", StatementRows},
		{"(SELECT 1) UNION (SELECT 2)", StatementRows},
		{"SHOW TABLES", StatementRows},
		{"DESCRIBE users", StatementRows},
		{"EXPLAIN SELECT 1", StatementRows},
		{"PRAGMA table_info(users)", StatementRows},
		{"WITH t AS (SELECT 1) SELECT * FROM t", StatementRows},
		{"INSERT INTO users (name) VALUES ('a')", StatementInsert},
		{"replace into users (id) values (1)", StatementInsert},
		{"SELECT 'insert' AS word", StatementRows},
		{"UPDATE users SET name = 'insert'", StatementExec},
		{"DELETE FROM users", StatementExec},
		{"CREATE TABLE t (id INTEGER)", StatementExec},
		{"", StatementExec},
		{"-- comment", StatementExec},
	}

	for _, tt := range tests {
		if got := Classify(tt.sql); got != tt.want {
			t.Errorf("Classify(%q) = %d, want %d", tt.sql, got, tt.want)
		}
	}
}

func TestLimit(t *testing.T) {
	valid := []Limit{"", "10", "5, 10", " 5 ,10 ", LimitN(3), LimitRange(20, 10)}
	for _, l := range valid {
		if err := l.Validate(); err != nil {
			t.Errorf("Limit(%q).Validate() = %v", l, err)
		}
	}
	invalid := []Limit{"10; DROP TABLE users", "ten", "-1", "10 OFFSET 5"}
	for _, l := range invalid {
		if err := l.Validate(); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("Limit(%q).Validate() = %v, want ErrInvalidLimit", l, err)
		}
	}
	if LimitRange(20, 10) != "20, 10" {
		t.Errorf("LimitRange(20, 10) = %q", LimitRange(20, 10))
	}
}
