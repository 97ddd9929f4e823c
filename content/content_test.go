package content

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func post(slug, day string, published bool) Post {
	return Post{
		Header: Header{Slug: slug, Title: slug, Published: published},
		Date:   date(day),
	}
}

func mustLoad(t *testing.T, src Source) *Snapshot {
	t.Helper()
	s, err := Load(src)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s
}
