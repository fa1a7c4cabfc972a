package builder

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/asaidimu/sqlhelper/pkg/core"
)

func TestBuildSelect(t *testing.T) {
	b := New(nil)

	tests := []struct {
		name string
		sel  *core.Selection
		want string
	}{
		{
			name: "keyed filter",
			sel:  &core.Selection{Where: core.Fields{core.F("Age", "'777'")}},
			want: "SELECT * FROM `Employee` WHERE `Age` = '777'",
		},
		{
			name: "nil selection",
			sel:  nil,
			want: "SELECT * FROM `Employee`",
		},
		{
			name: "verbatim filter",
			sel:  &core.Selection{Where: "WHERE Age > 30"},
			want: "SELECT * FROM `Employee` WHERE Age > 30",
		},
		{
			name: "empty verbatim filter",
			sel:  &core.Selection{Where: ""},
			want: "SELECT * FROM `Employee`",
		},
		{
			name: "aliased columns, sort and limit",
			sel: &core.Selection{
				Columns: core.Columns{{Name: "Name"}, {Alias: "years", Name: "Age"}},
				Sort:    []string{"-Age", "+Name"},
				Limit:   core.LimitRange(5, 10),
			},
			want: `SELECT Name, Age AS "years" FROM ` + "`Employee`" + ` ORDER BY Age DESC, Name ASC LIMIT 5, 10`,
		},
		{
			name: "single column and sort strings",
			sel:  &core.Selection{Columns: "Name", Sort: "Name", Limit: " 3 "},
			want: "SELECT Name FROM `Employee` ORDER BY Name LIMIT 3",
		},
		{
			name: "blank limit ignored",
			sel:  &core.Selection{Limit: "   "},
			want: "SELECT * FROM `Employee`",
		},
		{
			name: "positional filter entry",
			sel: &core.Selection{Where: core.Fields{
				core.F("Dept", "'IT'"),
				core.Expr("Age BETWEEN 20 AND 30"),
			}},
			want: "SELECT * FROM `Employee` WHERE `Dept` = 'IT' AND Age BETWEEN 20 AND 30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.BuildSelect("Employee", tt.sel)
			if err != nil {
				t.Fatalf("BuildSelect: %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildSelect()\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestBuildSelectRejectsInvalidLimit(t *testing.T) {
	_, err := New(nil).BuildSelect("t", &core.Selection{Limit: "1; DROP TABLE t"})
	if !errors.Is(err, core.ErrInvalidLimit) {
		t.Errorf("got %v, want ErrInvalidLimit", err)
	}
}

var selectPattern = regexp.MustCompile("^SELECT (.+) FROM `(\\w+)` WHERE (.+) ORDER BY (.+) LIMIT (.+)$")

func TestBuildSelectRoundTrip(t *testing.T) {
	where := core.Fields{core.F("Dept", "'IT'"), core.F("Age", "'30'")}
	sort := []string{"-Age", "Name", "+Id"}

	sql, err := New(nil).BuildSelect("Employee", &core.Selection{
		Where:   where,
		Columns: []string{"Id", "Name"},
		Sort:    sort,
		Limit:   core.LimitRange(40, 20),
	})
	if err != nil {
		t.Fatalf("BuildSelect: %v", err)
	}

	m := selectPattern.FindStringSubmatch(sql)
	if m == nil {
		t.Fatalf("unexpected statement shape: %s", sql)
	}

	var keys []string
	for _, cond := range strings.Split(m[3], " AND ") {
		key, value, ok := strings.Cut(cond, " = ")
		if !ok {
			t.Fatalf("unexpected condition %q", cond)
		}
		keys = append(keys, strings.Trim(key, "`"))
		if want := where[len(keys)-1].Value.Text(); value != want {
			t.Errorf("condition %q: value %s, want %s", cond, value, want)
		}
	}
	if !reflect.DeepEqual(keys, []string{"Dept", "Age"}) {
		t.Errorf("filter keys = %v", keys)
	}

	var names, dirs []string
	for _, part := range strings.Split(m[4], ", ") {
		name, dir, _ := strings.Cut(part, " ")
		names = append(names, name)
		dirs = append(dirs, dir)
	}
	if !reflect.DeepEqual(names, []string{"Age", "Name", "Id"}) {
		t.Errorf("sort columns = %v", names)
	}
	if !reflect.DeepEqual(dirs, []string{"DESC", "ASC", "ASC"}) {
		t.Errorf("sort directions = %v", dirs)
	}

	bounds := strings.Split(m[5], ",")
	count, err := strconv.Atoi(strings.TrimSpace(bounds[len(bounds)-1]))
	if err != nil || count != 20 {
		t.Errorf("limit bound = %q, want 20", m[5])
	}
}

func TestBuildColumns(t *testing.T) {
	b := New(nil)

	tests := []struct {
		name                    string
		columns                 any
		quote, alias, sortMarks bool
		want                    string
	}{
		{"sort markers", []string{"-Age", "Name"}, false, false, true, "Age DESC, Name ASC"},
		{"plain list", []string{"a", "b"}, false, false, false, "a, b"},
		{"quoted list", []string{"a", "b c"}, true, false, false, "`a`, `b c`"},
		{"quoted sort", []string{"+a"}, true, false, true, "`a` ASC"},
		{"single string", "Name", false, false, false, "Name"},
		{"single string quoted", "Name", true, false, false, "`Name`"},
		{
			"alias suppresses direction",
			core.Columns{{Alias: "n", Name: "-Name"}, {Name: "-Age"}},
			false, true, true,
			`Name AS "n", Age DESC`,
		},
		{"alias hidden", core.Columns{{Alias: "n", Name: "Name"}}, false, false, false, "Name"},
		{"empty list", []string{}, false, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.BuildColumns(tt.columns, tt.quote, tt.alias, tt.sortMarks)
			if err != nil {
				t.Fatalf("BuildColumns: %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildColumns() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := b.BuildColumns(42, false, false, false); !errors.Is(err, core.ErrUnsupportedShape) {
		t.Errorf("unsupported shape: got %v", err)
	}
}

func TestBuildWhereClause(t *testing.T) {
	b := New(nil)

	tests := []struct {
		name    string
		filter  any
		want    string
		wantErr error
	}{
		{"nil", nil, "", nil},
		{"verbatim", "WHERE x = 1", "WHERE x = 1", nil},
		{"single", core.Fields{core.F("a", "'1'")}, "WHERE `a` = '1'", nil},
		{"joined", core.Fields{core.F("a", 1), core.F("b", "NULL")}, "WHERE `a` = 1 AND `b` = NULL", nil},
		{"empty fields", core.Fields{}, "", nil},
		{"empty key", core.Fields{core.F("", "'1'")}, "", core.ErrInvalidKey},
		{"empty string value", core.Fields{core.F("a", "")}, "", core.ErrInvalidValue},
		{"null value", core.Fields{core.F("a", nil)}, "", core.ErrInvalidValue},
		{"false value", core.Fields{core.F("a", false)}, "", core.ErrInvalidValue},
		{"unsupported shape", 3.5, "", core.ErrUnsupportedShape},

		// Only integers are exempt from the emptiness check: a literal 0 is
		// accepted but the string "0" is rejected. Kept for compatibility
		// with callers that rely on it; it is not a general rule.
		{"integer zero accepted", core.Fields{core.F("a", 0)}, "WHERE `a` = 0", nil},
		{"string zero rejected", core.Fields{core.F("a", "0")}, "", core.ErrInvalidValue},
		{"float zero rejected", core.Fields{core.F("a", 0.0)}, "", core.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.BuildWhereClause(tt.filter)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildWhereClause: %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildWhereClause() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildInsert(t *testing.T) {
	b := New(nil)

	got, err := b.BuildInsert("T", core.Fields{core.F("Name", "'Bob'"), core.F("Age", "25")})
	if err != nil {
		t.Fatalf("BuildInsert: %v", err)
	}
	if want := "INSERT INTO `T` (`Name`, `Age`) VALUES ('Bob', 25)"; got != want {
		t.Errorf("BuildInsert() = %s, want %s", got, want)
	}

	got, err = b.BuildInsert("T", core.Fields{core.F("Note", nil), core.F("Flag", 0)})
	if err != nil {
		t.Fatalf("BuildInsert with null: %v", err)
	}
	if want := "INSERT INTO `T` (`Note`, `Flag`) VALUES (NULL, 0)"; got != want {
		t.Errorf("BuildInsert() = %s, want %s", got, want)
	}

	if _, err := b.BuildInsert("T", nil); !errors.Is(err, core.ErrInvalidValues) {
		t.Errorf("empty values: got %v", err)
	}
	if _, err := b.BuildInsert("T", core.Fields{core.Expr("1")}); !errors.Is(err, core.ErrInvalidKey) {
		t.Errorf("positional entry: got %v", err)
	}
}

func TestBuildUpdate(t *testing.T) {
	b := New(nil)

	got, err := b.BuildUpdate("T", core.Fields{core.F("Name", "'Bob'"), core.F("Age", 0)}, core.Fields{core.F("Id", 7)})
	if err != nil {
		t.Fatalf("BuildUpdate: %v", err)
	}
	if want := "UPDATE `T` SET `Name` = 'Bob', `Age` = 0 WHERE `Id` = 7"; got != want {
		t.Errorf("BuildUpdate() = %s, want %s", got, want)
	}

	got, err = b.BuildUpdate("T", core.Fields{core.F("Active", "'1'")}, nil)
	if err != nil {
		t.Fatalf("BuildUpdate without filter: %v", err)
	}
	if want := "UPDATE `T` SET `Active` = '1'"; got != want {
		t.Errorf("BuildUpdate() = %s, want %s", got, want)
	}

	errTests := []struct {
		name    string
		values  any
		wantErr error
	}{
		{"not fields", map[string]string{"a": "1"}, core.ErrUnsupportedShape},
		{"empty", core.Fields{}, core.ErrInvalidValues},
		{"empty value", core.Fields{core.F("a", "")}, core.ErrInvalidValue},
		{"empty key", core.Fields{core.F("", "'x'")}, core.ErrInvalidKey},
		{"value checked before key", core.Fields{core.F("", "")}, core.ErrInvalidValue},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.BuildUpdate("T", tt.values, nil); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildDelete(t *testing.T) {
	b := New(nil)

	got, err := b.BuildDelete("T", core.Fields{core.F("Id", 3)})
	if err != nil {
		t.Fatalf("BuildDelete: %v", err)
	}
	if want := "DELETE FROM `T` WHERE `Id` = 3"; got != want {
		t.Errorf("BuildDelete() = %s, want %s", got, want)
	}

	got, _ = b.BuildDelete("T", nil)
	if want := "DELETE FROM `T`"; got != want {
		t.Errorf("BuildDelete() = %s, want %s", got, want)
	}

	if _, err := b.BuildDelete("T", core.Fields{core.F("Id", "")}); !errors.Is(err, core.ErrInvalidValue) {
		t.Errorf("empty value: got %v", err)
	}
}

func TestIdentifierEscaping(t *testing.T) {
	sqliteEscape := func(s string) string { return strings.ReplaceAll(s, "'", "''") }

	got, _ := New(sqliteEscape).BuildDelete("o'clock", nil)
	if want := "DELETE FROM `o''clock`"; got != want {
		t.Errorf("engine escape: got %s, want %s", got, want)
	}

	got, _ = New(nil).BuildDelete("o'clock", nil)
	if want := "DELETE FROM `o\\'clock`"; got != want {
		t.Errorf("default escape: got %s, want %s", got, want)
	}
}
