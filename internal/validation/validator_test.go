package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ab", false},
		{"abc", true},
		{"a_b.c9", true},
		{"a b", false},
		{"", false},
		{"   ", false},
		{strings.Repeat("x", 30), true},
		{strings.Repeat("x", 31), false},
		{"user-name", false},
		{"ñandú", false},
		{"abc\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidUsername(tt.in))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"user@@example.com", false},
		{"", false},
		{" ", false},
		{"user@example", false},
		{"user@example.c", false},
		{"@example.com", false},
		{"user example@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.in))
		})
	}
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		in        string
		minLength int
		want      bool
	}{
		{"abc123", 6, true},
		{"abcdef", 6, false},
		{"12345", 6, false},
		{"123456", 6, false},
		{"1a", 2, true},
		{"abc12", 6, false},
		{"      ", 6, false},
		{"9zzzzzzzzz", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.in, tt.minLength))
		})
	}
}

func TestIsSqlInjectionSafe(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"normal.user_99", true},
		{"pass123", true},
		{"SELECT * FROM users", false},
		{"select * from users", false},
		{"O'Brien", false},
		{"x' OR 1=1", false},
		{"admin'", false},
		{"a''b", false},
		{"name--", false},
		{"a;b", false},
		{"/* c */", false},
		{"0xDEADBEEF", false},
		{"char(65)", false},
		{"CAST(x AS int)", false},
		{"exec xp_cmdshell", false},
		{"sp_who", false},
		{"@@version", false},
		{"@var", false},
		{"or a=a", false},
		{"AND 1 = 1", false},
		{"union all select", false},
		{"selection", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSqlInjectionSafe(tt.in))
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", "   "},
		{"  plain  ", "plain"},
		{`O'Brien`, "OBrien"},
		{`say "hi";`, "say hi"},
		{"a--b/*c*/d", "abcd"},
		{"xp_cmd sp_who", "cmd who"},
		{"-xp_-", ""},
		{"x/sp_*y", "xy"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeInput(tt.in))
		})
	}
}

func TestSanitizeInput_Idempotent(t *testing.T) {
	inputs := []string{
		"", " ", "hello", "-xp_-", "x/sp_*y", "''\"\"", " a ; b ", "s-xp_-p_", "--/**/--",
		"/sp_*", "x-/*-y", "'; DROP TABLE accounts; --",
	}

	for _, in := range inputs {
		once := SanitizeInput(in)
		assert.Equal(t, once, SanitizeInput(once), "input %q", in)
		for _, tok := range sanitizeTokens {
			if strings.TrimSpace(in) != "" {
				assert.NotContains(t, once, tok, "input %q", in)
			}
		}
	}
}

func FuzzSanitizeInput(f *testing.F) {
	for _, seed := range []string{"", " ", "hello", "-xp_-", "x/sp_*y", "--/**/--", "s-xp_-p_", " \t'; DROP TABLE accounts; -- "} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, in string) {
		once := SanitizeInput(in)
		if twice := SanitizeInput(once); twice != once {
			t.Fatalf("SanitizeInput(%q) = %q, sanitizing again gave %q", in, once, twice)
		}
		if strings.TrimSpace(in) == "" {
			return
		}
		for _, tok := range sanitizeTokens {
			if strings.Contains(once, tok) {
				t.Fatalf("SanitizeInput(%q) = %q still contains %q", in, once, tok)
			}
		}
	})
}

func TestLimitLength(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"empty", "", 3, ""},
		{"blank", "     ", 2, "     "},
		{"within bound", "abc", 3, "abc"},
		{"truncated", "abcdef", 3, "abc"},
		{"multibyte", "añbñc", 3, "añb"},
		{"zero", "abc", 0, ""},
		{"negative", "abc", -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LimitLength(tt.in, tt.max))
		})
	}
}
