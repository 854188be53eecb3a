package timeutil

import "time"

const dateLayout = "2006-01-02"

var kolkataLocation = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("Asia/Kolkata", 5*60*60+30*60)
	}
	return loc
}

// Now returns the current time in Asia/Kolkata timezone.
func Now() time.Time {
	return time.Now().In(kolkataLocation)
}

// InKolkata converts provided time to Asia/Kolkata timezone.
func InKolkata(t time.Time) time.Time {
	return t.In(kolkataLocation)
}

// Location returns Asia/Kolkata location instance.
func Location() *time.Location {
	return kolkataLocation
}

// DateOf truncates t to midnight of its calendar date in Asia/Kolkata.
func DateOf(t time.Time) time.Time {
	t = t.In(kolkataLocation)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, kolkataLocation)
}

// FormatDate renders the calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return DateOf(t).Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD date as midnight in Asia/Kolkata.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, kolkataLocation)
}
