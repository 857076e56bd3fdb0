package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"finreport/internal/core"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReportStoreSaveAndFind(t *testing.T) {
	store := NewReportStore(testDB(t))
	ctx := context.Background()

	report := core.NewMonthlyReport("alice", "2024-03")
	report.TotalIncome = core.Money{Cents: 100000}
	report.Rebalance()

	if err := store.Save(ctx, report); err != nil {
		t.Fatalf("save: %v", err)
	}
	if report.ID == 0 {
		t.Fatal("insert should assign an id")
	}

	found, err := store.FindByUserAndPeriod(ctx, "alice", "2024-03")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != report.ID {
		t.Errorf("expected id %d, got %d", report.ID, found.ID)
	}
	if found.TotalIncome.Cents != 100000 || found.Balance.Cents != 100000 {
		t.Errorf("unexpected totals: %+v", found)
	}
	if found.CreatedAt.IsZero() || found.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestReportStoreUpdateExisting(t *testing.T) {
	store := NewReportStore(testDB(t))
	ctx := context.Background()

	report := core.NewMonthlyReport("alice", "2024-03")
	if err := store.Save(ctx, report); err != nil {
		t.Fatalf("insert: %v", err)
	}
	firstID := report.ID

	report.TotalIncome = core.Money{Cents: 500000}
	report.TotalExpense = core.Money{Cents: 300000}
	report.Rebalance()
	if err := store.Save(ctx, report); err != nil {
		t.Fatalf("update: %v", err)
	}
	if report.ID != firstID {
		t.Errorf("update must not change the id, got %d", report.ID)
	}

	found, err := store.FindByUserAndPeriod(ctx, "alice", "2024-03")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Balance.Cents != 200000 {
		t.Errorf("expected balance 2000.00, got %s", found.Balance)
	}
}

func TestReportStoreFindMissing(t *testing.T) {
	store := NewReportStore(testDB(t))

	_, err := store.FindByUserAndPeriod(context.Background(), "nobody", "2024-01")
	if !errors.Is(err, core.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestReportStoreUniqueBucket(t *testing.T) {
	store := NewReportStore(testDB(t))
	ctx := context.Background()

	first := core.NewMonthlyReport("alice", "2024-03")
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	dup := core.NewMonthlyReport("alice", "2024-03")
	if err := store.Save(ctx, dup); err == nil {
		t.Fatal("second insert for the same bucket should violate the unique constraint")
	}
}

func TestReportStoreFindRange(t *testing.T) {
	store := NewReportStore(testDB(t))
	ctx := context.Background()

	for _, period := range []string{"2024-03", "2024-01", "2024-02", "2023-12"} {
		r := core.NewMonthlyReport("alice", period)
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("seed %s: %v", period, err)
		}
	}
	other := core.NewMonthlyReport("bob", "2024-02")
	if err := store.Save(ctx, other); err != nil {
		t.Fatalf("seed bob: %v", err)
	}

	reports, err := store.FindRange(ctx, "alice", "2024-01", "2024-02")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	// Ascending by period, inclusive bounds, scoped to the user.
	if reports[0].Period != "2024-01" || reports[1].Period != "2024-02" {
		t.Errorf("unexpected order: %s, %s", reports[0].Period, reports[1].Period)
	}
}

func TestReportStoreFindAllByUser(t *testing.T) {
	store := NewReportStore(testDB(t))
	ctx := context.Background()

	for _, period := range []string{"2024-01", "2024-02", "2024-03"} {
		r := core.NewMonthlyReport("alice", period)
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("seed %s: %v", period, err)
		}
	}

	page, err := store.FindAllByUser(ctx, "alice", 0, 2)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.TotalElements != 3 || page.TotalPages != 2 || page.Last {
		t.Errorf("unexpected page shape: %+v", page)
	}
	if len(page.Content) != 2 {
		t.Fatalf("expected 2 reports on first page, got %d", len(page.Content))
	}
	// Newest period first.
	if page.Content[0].Period != "2024-03" || page.Content[1].Period != "2024-02" {
		t.Errorf("unexpected order: %s, %s", page.Content[0].Period, page.Content[1].Period)
	}

	last, err := store.FindAllByUser(ctx, "alice", 1, 2)
	if err != nil {
		t.Fatalf("last page: %v", err)
	}
	if len(last.Content) != 1 || !last.Last {
		t.Errorf("unexpected last page: %+v", last)
	}
}

func TestReportStoreDelete(t *testing.T) {
	store := NewReportStore(testDB(t))
	ctx := context.Background()

	report := core.NewMonthlyReport("alice", "2024-03")
	if err := store.Save(ctx, report); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, report); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := store.FindByUserAndPeriod(ctx, "alice", "2024-03"); !errors.Is(err, core.ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, report); !errors.Is(err, core.ErrReportNotFound) {
		t.Errorf("double delete should report not found, got %v", err)
	}
}

func TestWithBucketLockSerializesSameBucket(t *testing.T) {
	store := NewReportStore(testDB(t))

	// 100 goroutines incrementing a shared counter under the same bucket
	// lock. Without serialization increments would be lost.
	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithBucketLock("alice", "2024-03", func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("expected 100 serialized increments, got %d", counter)
	}
}

func TestWithBucketLockPropagatesError(t *testing.T) {
	store := NewReportStore(testDB(t))

	want := errors.New("boom")
	if err := store.WithBucketLock("alice", "2024-03", func() error { return want }); !errors.Is(err, want) {
		t.Errorf("expected propagated error, got %v", err)
	}
}
