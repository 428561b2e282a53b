// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/insight-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStoreCreatesSchema(t *testing.T) {
	store := testStore(t)

	for _, table := range []string{"results_cache", "reports"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	key := Key("serverless cost comparison", "brave")
	want := sampleResults("brave", 4)
	if err := store.Put(ctx, key, "brave", want, time.Minute); err != nil {
		t.Fatal(err)
	}

	got, ok := store.Get(ctx, key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 4 {
		t.Fatalf("got %d results, want 4", len(got))
	}
	if got[2].URL != want[2].URL {
		t.Errorf("url = %q, want %q", got[2].URL, want[2].URL)
	}

	if _, ok := store.Get(ctx, Key("never stored", "brave")); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestStoreUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	key := Key("replace me", "tavily")
	store.Put(ctx, key, "tavily", sampleResults("tavily", 5), time.Minute)
	store.Put(ctx, key, "tavily", sampleResults("tavily", 2), time.Minute)

	got, ok := store.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit")
	}
	if len(got) != 2 {
		t.Errorf("second Put should replace the first, got %d results", len(got))
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	key := Key("stale", "duckduckgo")
	if err := store.Put(ctx, key, "duckduckgo", sampleResults("duckduckgo", 1), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	time.Sleep(25 * time.Millisecond)

	if _, ok := store.Get(ctx, key); ok {
		t.Fatal("entry should have expired")
	}

	// The expired row is removed on read.
	var count int
	if err := store.db.QueryRow(`SELECT count(*) FROM results_cache WHERE key = ?`, key).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expired row should be deleted on read, found %d", count)
	}
}

func TestStorePurgeAndStat(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	store.Put(ctx, "live-1", "tavily", sampleResults("tavily", 1), time.Hour)
	store.Put(ctx, "live-2", "brave", sampleResults("brave", 1), time.Hour)
	store.Put(ctx, "dead-1", "scrape", sampleResults("scrape", 1), 5*time.Millisecond)
	time.Sleep(15 * time.Millisecond)

	st, err := store.Stat(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 3 {
		t.Errorf("Entries = %d, want 3", st.Entries)
	}
	if st.Expired != 1 {
		t.Errorf("Expired = %d, want 1", st.Expired)
	}

	removed, err := store.Purge(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("Purge removed %d, want 1", removed)
	}

	st, err = store.Stat(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 2 {
		t.Errorf("Entries after purge = %d, want 2", st.Entries)
	}
}

func TestStoreConcurrentPut(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	key := Key("contended", "tavily")

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := store.Put(ctx, key, "tavily", sampleResults(fmt.Sprintf("writer-%d", n), n), time.Minute); err != nil {
				t.Errorf("concurrent Put: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, ok := store.Get(ctx, key)
	if !ok {
		t.Fatal("expected a hit after concurrent writes")
	}
	for _, r := range got {
		if r.Provider != got[0].Provider {
			t.Fatalf("torn entry: mixed providers %q and %q", got[0].Provider, r.Provider)
		}
	}
}

func sampleReport(topics ...string) *types.BatchReport {
	report := &types.BatchReport{
		ID:       uuid.NewString(),
		Reports:  make(map[string]types.QualityReport),
		Started:  time.Now().Add(-time.Minute),
		Finished: time.Now(),
	}
	for _, topic := range topics {
		report.Topics = append(report.Topics, types.TopicEvidence{
			Topic: topic,
			Stage: types.StageComplete,
		})
		report.Reports[topic] = types.QualityReport{
			Coverage: 0.6, SourceDiversity: 0.2, Completeness: 1.0,
			Overall: 0.6, Grade: types.GradeGood,
		}
	}
	return report
}

func TestSaveAndListReports(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	first := sampleReport("kubernetes", "serverless")
	first.Started = time.Now().Add(-2 * time.Hour)
	second := sampleReport("observability")

	if err := store.SaveReport(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveReport(ctx, second); err != nil {
		t.Fatal(err)
	}

	list, err := store.ListReports(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d reports, want 2", len(list))
	}
	// Newest first.
	if list[0].ID != second.ID {
		t.Errorf("first listed = %s, want newest %s", list[0].ID, second.ID)
	}
	if len(list[1].Topics) != 2 || list[1].Topics[0] != "kubernetes" {
		t.Errorf("topics = %v, want [kubernetes serverless]", list[1].Topics)
	}
	if list[0].Overall != 0.6 {
		t.Errorf("overall = %v, want 0.6", list[0].Overall)
	}
}

func TestGetReportByPrefix(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	report := sampleReport("edge computing")
	if err := store.SaveReport(ctx, report); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetReport(ctx, report.ID[:8])
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != report.ID {
		t.Errorf("got report %s, want %s", got.ID, report.ID)
	}
	if got.Reports["edge computing"].Grade != types.GradeGood {
		t.Errorf("grade = %q, want %q", got.Reports["edge computing"].Grade, types.GradeGood)
	}

	_, err = store.GetReport(ctx, "ffffffff")
	if !errors.Is(err, ErrReportNotFound) {
		t.Errorf("unknown id error = %v, want ErrReportNotFound", err)
	}
}
