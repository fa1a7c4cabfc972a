package core

import "testing"

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"users", "users"},
		{"Users2", "Users2"},
		{"*", "*"},
		{"users.name", "users.name"},
		{"users.*", "users.*"},
		{"first name", "`first name`"},
		{"2fa", "`2fa`"},
		{"user_id", "`user_id`"},
		{"db.user_id", "db.`user_id`"},
		{"o'clock", "`o\\'clock`"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := QuoteIdentifier(tt.in); got != tt.want {
				t.Errorf("QuoteIdentifier(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"O'Brien", `O\'Brien`},
		{`say "hi"`, `say \"hi\"`},
		{`back\slash`, `back\\slash`},
		{"line\nfeed", `line\nfeed`},
		{"carriage\rreturn", `carriage\rreturn`},
		{"nul\x00byte", `nul\0byte`},
		{"ctrl\x1az", `ctrl\Zz`},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`O\'Brien`, "O'Brien"},
		{`back\\slash`, `back\slash`},
		{`nul\0byte`, "nul\x00byte"},
		{`trailing\`, "trailing"},
	}

	for _, tt := range tests {
		if got := Unescape(tt.in); got != tt.want {
			t.Errorf("Unescape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	for _, s := range []string{"O'Brien", `C:\temp`, `"quoted"`, "tab\tand space"} {
		if got := Unescape(Escape(s)); got != s {
			t.Errorf("Unescape(Escape(%q)) = %q", s, got)
		}
	}
}
