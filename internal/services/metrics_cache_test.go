package services

import (
	"context"
	"errors"
	"testing"

	"github.com/huyhoang1996vn/zinc-assignment/internal/core"
)

type fakeMetricsSource struct {
	summary      core.RevenueSummary
	daily        []core.DailyRevenue
	err          error
	summaryCalls int
	dailyCalls   int
}

func (f *fakeMetricsSource) RevenueSummary(_ context.Context, _ core.DateRange) (core.RevenueSummary, error) {
	f.summaryCalls++
	return f.summary, f.err
}

func (f *fakeMetricsSource) RevenueByDay(_ context.Context, _ core.DateRange) ([]core.DailyRevenue, error) {
	f.dailyCalls++
	return f.daily, f.err
}

func janRange() core.DateRange {
	return core.DateRange{Start: core.NewDate(2024, 1, 1), End: core.NewDate(2024, 1, 31)}
}

func TestCachedMetricsServesRepeatReadsFromCache(t *testing.T) {
	total := 1500.0
	src := &fakeMetricsSource{summary: core.RevenueSummary{TotalRevenueSGD: &total}}
	m := NewCachedMetrics(src, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := m.RevenueSummary(ctx, janRange())
		if err != nil {
			t.Fatalf("RevenueSummary: %v", err)
		}
		if got.TotalRevenueSGD == nil || *got.TotalRevenueSGD != 1500 {
			t.Fatalf("total = %v, want 1500", got.TotalRevenueSGD)
		}
	}
	if src.summaryCalls != 1 {
		t.Errorf("source queried %d times, want 1", src.summaryCalls)
	}
}

func TestCachedMetricsDistinctRangesMissSeparately(t *testing.T) {
	src := &fakeMetricsSource{}
	m := NewCachedMetrics(src, nil)
	ctx := context.Background()

	if _, err := m.RevenueByDay(ctx, janRange()); err != nil {
		t.Fatalf("RevenueByDay: %v", err)
	}
	other := core.DateRange{Start: core.NewDate(2024, 2, 1), End: core.NewDate(2024, 2, 29)}
	if _, err := m.RevenueByDay(ctx, other); err != nil {
		t.Fatalf("RevenueByDay: %v", err)
	}

	if src.dailyCalls != 2 {
		t.Errorf("source queried %d times, want 2", src.dailyCalls)
	}
}

func TestCachedMetricsInvalidateForcesRequery(t *testing.T) {
	src := &fakeMetricsSource{}
	m := NewCachedMetrics(src, nil)
	ctx := context.Background()

	if _, err := m.RevenueSummary(ctx, janRange()); err != nil {
		t.Fatalf("RevenueSummary: %v", err)
	}
	m.Invalidate()
	if _, err := m.RevenueSummary(ctx, janRange()); err != nil {
		t.Fatalf("RevenueSummary after invalidate: %v", err)
	}

	if src.summaryCalls != 2 {
		t.Errorf("source queried %d times, want 2 after invalidate", src.summaryCalls)
	}
}

func TestCachedMetricsErrorsAreNotCached(t *testing.T) {
	src := &fakeMetricsSource{err: errors.New("database locked")}
	m := NewCachedMetrics(src, nil)
	ctx := context.Background()

	if _, err := m.RevenueSummary(ctx, janRange()); err == nil {
		t.Fatal("expected source error")
	}

	src.err = nil
	if _, err := m.RevenueSummary(ctx, janRange()); err != nil {
		t.Fatalf("RevenueSummary after recovery: %v", err)
	}
	if src.summaryCalls != 2 {
		t.Errorf("source queried %d times, want 2", src.summaryCalls)
	}
}

func TestImportInvalidatesMetricsCache(t *testing.T) {
	store := &fakeStore{}
	src := &fakeMetricsSource{}
	m := NewCachedMetrics(src, nil)

	svc := NewImportService(store, nil)
	svc.UseMetricsCache(m)
	ctx := context.Background()

	if _, err := m.RevenueSummary(ctx, janRange()); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if _, err := svc.ImportFile(ctx, "sales.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if _, err := m.RevenueSummary(ctx, janRange()); err != nil {
		t.Fatalf("read after import: %v", err)
	}

	if src.summaryCalls != 2 {
		t.Errorf("source queried %d times, want requery after import", src.summaryCalls)
	}
}
