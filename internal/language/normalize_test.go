package language

import "testing"

func TestNormalizeTag(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  ", ""},
		{"EN", "en"},
		{"en_US", "en-us"},
		{"pt-BR", "pt-br"},
		{"zh--tw", "zh-tw"},
		{"es!", ""},
		{"12", ""},
	}

	for _, tc := range cases {
		if got := NormalizeTag(tc.in); got != tc.want {
			t.Fatalf("NormalizeTag(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en-US", "en"},
		{"pt_br", "pt"},
		{"fr", "fr"},
		{"", ""},
		{"en US", ""},
	}

	for _, tc := range cases {
		if got := NormalizeCode(tc.in); got != tc.want {
			t.Fatalf("NormalizeCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
