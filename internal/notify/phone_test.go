package notify

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"9876543210":        "+919876543210",
		"98765 43210":       "+919876543210",
		"919876543210":      "+919876543210",
		"09876543210":       "+919876543210",
		"+1 (500) 555-0006": "+15005550006",
		"":                  "",
		"12345":             "12345",
	}
	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}
