package imap

import (
	"testing"

	"github.com/emersion/go-imap"
)

func fromHeader(t *testing.T, c *imap.SearchCriteria) string {
	t.Helper()
	if c == nil {
		t.Fatal("nil criteria")
	}
	return c.Header.Get("From")
}

func TestSearchCriteriaNoSenders(t *testing.T) {
	c := searchCriteria(nil)
	if len(c.WithoutFlags) != 1 || c.WithoutFlags[0] != imap.SeenFlag {
		t.Fatalf("WithoutFlags = %v", c.WithoutFlags)
	}
	if len(c.Or) != 0 || c.Header.Get("From") != "" {
		t.Fatalf("expected no sender narrowing, got %+v", c)
	}
}

func TestSearchCriteriaSingleSender(t *testing.T) {
	c := searchCriteria([]string{"listas@irlanda.example.com"})
	if got := c.Header.Get("From"); got != "listas@irlanda.example.com" {
		t.Fatalf("From = %q", got)
	}
}

func TestSearchCriteriaFoldsSendersIntoOrPairs(t *testing.T) {
	c := searchCriteria([]string{"a@x.com", "b@y.com", "c@z.com"})
	if len(c.WithoutFlags) != 1 {
		t.Fatalf("WithoutFlags = %v", c.WithoutFlags)
	}
	if len(c.Or) != 1 {
		t.Fatalf("Or = %v", c.Or)
	}

	// OR(OR(a, b), c)
	outer := c.Or[0]
	if got := fromHeader(t, outer[1]); got != "c@z.com" {
		t.Fatalf("outer right From = %q", got)
	}
	if len(outer[0].Or) != 1 {
		t.Fatalf("inner Or = %v", outer[0].Or)
	}
	inner := outer[0].Or[0]
	if got := fromHeader(t, inner[0]); got != "a@x.com" {
		t.Fatalf("inner left From = %q", got)
	}
	if got := fromHeader(t, inner[1]); got != "b@y.com" {
		t.Fatalf("inner right From = %q", got)
	}
}
