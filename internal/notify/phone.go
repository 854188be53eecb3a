package notify

import "strings"

// NormalizePhone turns the 10-digit Indian numbers stored on user records
// into E.164. Other input is returned with separators removed.
func NormalizePhone(phone string) string {
	p := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
	switch {
	case p == "":
		return ""
	case strings.HasPrefix(p, "+"):
		return p
	case len(p) == 10 && isDigits(p):
		return "+91" + p
	case len(p) == 12 && strings.HasPrefix(p, "91") && isDigits(p):
		return "+" + p
	case len(p) == 11 && p[0] == '0' && isDigits(p):
		return "+91" + p[1:]
	}
	return p
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
