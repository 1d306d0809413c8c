package pipeline

import (
	"context"
	"log/slog"
	"testing"

	"restocompras/internal"
)

type stubSearcher struct {
	calls   []string
	answers map[string]int
}

func (s *stubSearcher) SearchProductID(_ context.Context, query string) (int, bool) {
	s.calls = append(s.calls, query)
	id, ok := s.answers[query]
	return id, ok
}

type stubPublisher struct {
	calls []internal.ProductRecord
	fail  map[string]bool
}

func (p *stubPublisher) PublishItem(_ context.Context, record internal.ProductRecord) bool {
	p.calls = append(p.calls, record)
	return !p.fail[record.Name]
}

func newTestResolver(search *stubSearcher, publish *stubPublisher) *Resolver {
	return NewResolver(search, publish, slog.New(slog.DiscardHandler))
}

func TestResolveFallbackToFirstTwoWords(t *testing.T) {
	search := &stubSearcher{answers: map[string]int{"Queso Cremoso": 7}}
	publish := &stubPublisher{}
	resolver := newTestResolver(search, publish)

	records := []internal.ProductRecord{{Name: "Queso Cremoso Barra Especial", SupplierID: 4}}
	published, _, err := resolver.ResolveAndPublish(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"Queso Cremoso Barra Especial", "Queso Cremoso"}
	if len(search.calls) != 2 || search.calls[0] != want[0] || search.calls[1] != want[1] {
		t.Fatalf("search calls = %v, want %v", search.calls, want)
	}
	if len(published) != 1 {
		t.Fatalf("published %d records, want 1", len(published))
	}
	if published[0].ProductID == nil || *published[0].ProductID != 7 {
		t.Fatalf("productId = %v, want 7", published[0].ProductID)
	}
}

func TestResolveFullNameMatchSkipsFallback(t *testing.T) {
	search := &stubSearcher{answers: map[string]int{"Palta Hass": 3}}
	publish := &stubPublisher{}
	resolver := newTestResolver(search, publish)

	_, _, err := resolver.ResolveAndPublish(context.Background(), []internal.ProductRecord{{Name: "Palta Hass"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(search.calls) != 1 {
		t.Fatalf("search calls = %v, want one", search.calls)
	}
}

func TestResolveSingleWordNoSecondAttempt(t *testing.T) {
	search := &stubSearcher{answers: map[string]int{}}
	publish := &stubPublisher{}
	resolver := newTestResolver(search, publish)

	published, outcomes, err := resolver.ResolveAndPublish(context.Background(), []internal.ProductRecord{{Name: "Palta"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(search.calls) != 1 {
		t.Fatalf("search calls = %v, want one", search.calls)
	}
	if len(published) != 0 {
		t.Fatalf("published = %v, want none", published)
	}
	if len(outcomes) != 1 || outcomes[0].Status != internal.StatusNoMatch {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if len(publish.calls) != 0 {
		t.Fatal("unmatched record must not be published")
	}
}

func TestResolvePublishFailureIsolated(t *testing.T) {
	search := &stubSearcher{answers: map[string]int{
		"Leche Entera": 1,
		"Queso Azul":   2,
		"Miel Pura":    3,
	}}
	publish := &stubPublisher{fail: map[string]bool{"Queso Azul": true}}
	resolver := newTestResolver(search, publish)

	records := []internal.ProductRecord{
		{Name: "Leche Entera"},
		{Name: "Queso Azul"},
		{Name: "Miel Pura"},
	}
	published, outcomes, err := resolver.ResolveAndPublish(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}
	if len(published) != 2 || published[0].Name != "Leche Entera" || published[1].Name != "Miel Pura" {
		t.Fatalf("published = %+v", published)
	}
	wantStatus := []internal.ItemStatus{
		internal.StatusPublished,
		internal.StatusPublishFailed,
		internal.StatusPublished,
	}
	for i, want := range wantStatus {
		if outcomes[i].Status != want {
			t.Errorf("outcome[%d] = %s, want %s", i, outcomes[i].Status, want)
		}
	}
}

func TestResolveContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	search := &stubSearcher{answers: map[string]int{"Palta": 1}}
	resolver := newTestResolver(search, &stubPublisher{})

	_, _, err := resolver.ResolveAndPublish(ctx, []internal.ProductRecord{{Name: "Palta"}})
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(search.calls) != 0 {
		t.Fatal("no search expected after cancellation")
	}
}
