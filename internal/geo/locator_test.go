package geo

import "testing"

func TestRedisKeyAndMember(t *testing.T) {
	l := NewDriverLocator(nil, "  Indore ")
	if got := redisKey(l.city, StatusActive); got != "drivers:indore:active" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := memberName(42); got != "driver:42" {
		t.Fatalf("unexpected member %s", got)
	}
	id, err := parseDriverMember("driver:42")
	if err != nil || id != 42 {
		t.Fatalf("parse: %d %v", id, err)
	}
	for _, bad := range []string{"driver", "rider:1", "driver:x", "driver:1:2"} {
		if _, err := parseDriverMember(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestStatusSet(t *testing.T) {
	if statusSet("Active") != StatusActive {
		t.Fatal("Active should map to active set")
	}
	for _, s := range []string{"Inactive", "On Break", ""} {
		if statusSet(s) != StatusInactive {
			t.Fatalf("%q should map to inactive set", s)
		}
	}
}

func TestValidCoords(t *testing.T) {
	if err := validCoords(75.8937, 22.7533); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := validCoords(0, 0); err == nil {
		t.Fatal("expected near-zero rejection")
	}
	if err := validCoords(181, 10); err == nil {
		t.Fatal("expected range rejection")
	}
}
