package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dyike/CortexTrack/consts"
	"github.com/dyike/CortexTrack/internal/models"
	"github.com/dyike/CortexTrack/internal/storage"
)

func newTestService(t *testing.T, cacheEnabled bool) (*ProgressService, *storage.Recorder) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "progress.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewProgressService(store, time.Minute, cacheEnabled), storage.NewRecorder(store)
}

func TestCachedReadServesStaleData(t *testing.T) {
	svc, rec := newTestService(t, true)
	ctx := context.Background()

	if err := rec.UpsertStep(ctx, "AAPL", "2026-03-15", models.RawStepRecord{
		Name:   consts.MarketAnalyst,
		Status: consts.StatusRunning,
	}); err != nil {
		t.Fatalf("UpsertStep: %v", err)
	}

	first, err := svc.FetchPipelineData(ctx, "AAPL", "2026-03-15", false)
	if err != nil {
		t.Fatalf("FetchPipelineData: %v", err)
	}
	if first.Steps[0].Status != consts.StatusRunning {
		t.Fatalf("expected running step, got %s", first.Steps[0].Status)
	}

	// Advance the store behind the cache's back.
	if err := rec.UpsertStep(ctx, "AAPL", "2026-03-15", models.RawStepRecord{
		Name:   consts.MarketAnalyst,
		Status: consts.StatusCompleted,
	}); err != nil {
		t.Fatalf("UpsertStep: %v", err)
	}

	cached, err := svc.FetchPipelineData(ctx, "AAPL", "2026-03-15", false)
	if err != nil {
		t.Fatalf("FetchPipelineData: %v", err)
	}
	if cached.Steps[0].Status != consts.StatusRunning {
		t.Fatalf("within the TTL the cached view should win, got %s", cached.Steps[0].Status)
	}
}

func TestBypassReadsThroughAndRefreshesCache(t *testing.T) {
	svc, rec := newTestService(t, true)
	ctx := context.Background()

	if err := rec.UpsertStep(ctx, "AAPL", "2026-03-15", models.RawStepRecord{
		Name:   consts.MarketAnalyst,
		Status: consts.StatusRunning,
	}); err != nil {
		t.Fatalf("UpsertStep: %v", err)
	}
	if _, err := svc.FetchPipelineData(ctx, "AAPL", "2026-03-15", false); err != nil {
		t.Fatalf("FetchPipelineData: %v", err)
	}

	if err := rec.UpsertStep(ctx, "AAPL", "2026-03-15", models.RawStepRecord{
		Name:   consts.MarketAnalyst,
		Status: consts.StatusCompleted,
	}); err != nil {
		t.Fatalf("UpsertStep: %v", err)
	}

	fresh, err := svc.FetchPipelineData(ctx, "AAPL", "2026-03-15", true)
	if err != nil {
		t.Fatalf("FetchPipelineData bypass: %v", err)
	}
	if fresh.Steps[0].Status != consts.StatusCompleted {
		t.Fatalf("bypass must read through to the store, got %s", fresh.Steps[0].Status)
	}

	// The bypass read refreshed the cache; a plain read now sees it too.
	again, err := svc.FetchPipelineData(ctx, "AAPL", "2026-03-15", false)
	if err != nil {
		t.Fatalf("FetchPipelineData: %v", err)
	}
	if again.Steps[0].Status != consts.StatusCompleted {
		t.Fatalf("cache should hold the refreshed view, got %s", again.Steps[0].Status)
	}
}

func TestDisabledCacheAlwaysReadsStore(t *testing.T) {
	svc, rec := newTestService(t, false)
	ctx := context.Background()

	if err := rec.UpsertStep(ctx, "AAPL", "2026-03-15", models.RawStepRecord{
		Name:   consts.Trader,
		Status: consts.StatusRunning,
	}); err != nil {
		t.Fatalf("UpsertStep: %v", err)
	}
	if _, err := svc.FetchPipelineData(ctx, "AAPL", "2026-03-15", false); err != nil {
		t.Fatalf("FetchPipelineData: %v", err)
	}

	if err := rec.UpsertStep(ctx, "AAPL", "2026-03-15", models.RawStepRecord{
		Name:   consts.Trader,
		Status: consts.StatusCompleted,
	}); err != nil {
		t.Fatalf("UpsertStep: %v", err)
	}

	data, err := svc.FetchPipelineData(ctx, "AAPL", "2026-03-15", false)
	if err != nil {
		t.Fatalf("FetchPipelineData: %v", err)
	}
	if data.Steps[0].Status != consts.StatusCompleted {
		t.Fatalf("disabled cache must always hit the store, got %s", data.Steps[0].Status)
	}
}
