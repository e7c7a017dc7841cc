package utils

/*

go test -run 'TestCNAE|TestNormalizeCity' -v ./internal/utils -count=1

*/

import "testing"

func TestCNAESanitizeAndValidate(t *testing.T) {
	cases := []struct {
		in    string
		clean string
		ok    bool
	}{
		{"6201-5/01", "6201501", true},
		{"6201501", "6201501", true},
		{" 4781-4/00 ", "4781400", true},
		{"620150", "620150", false},
		{"62015011", "62015011", false},
		{"0000-0/00", "0000000", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got := SanitizeCNAE(tc.in)
		if got != tc.clean {
			t.Fatalf("sanitize(%q) want=%q got=%q", tc.in, tc.clean, got)
		}
		if ok := ValidateCNAE(got); ok != tc.ok {
			t.Fatalf("validate(%q) want=%v got=%v", got, tc.ok, ok)
		}
	}
}

func TestCNAEFormat(t *testing.T) {
	if got := FormatCNAE("6201501"); got != "6201-5/01" {
		t.Fatalf("got %q", got)
	}
	if got := FormatCNAE("123"); got != "123" {
		t.Fatalf("invalid input should be returned unchanged, got %q", got)
	}
}

func TestNormalizeCity(t *testing.T) {
	cases := []struct{ in, want string }{
		{"São Paulo", "sao paulo"},
		{"  SÃO   PAULO  ", "sao paulo"},
		{"Florianópolis", "florianopolis"},
		{"Belo Horizonte", "belo horizonte"},
		{"Ribeirão das Neves", "ribeirao das neves"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeCity(tc.in); got != tc.want {
			t.Fatalf("NormalizeCity(%q) want=%q got=%q", tc.in, tc.want, got)
		}
	}
}
