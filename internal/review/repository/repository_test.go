package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	cerrors "github.com/park285/study-arena-go/internal/common/errors"
	rmodel "github.com/park285/study-arena-go/internal/review/model"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repo := New(db)
	if err := repo.AutoMigrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestRepository_CreateBatchAndFind(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateBatch(ctx, "user1", []string{"item1", "item2", "item3"}); err != nil {
		t.Fatalf("create batch failed: %v", err)
	}

	progress, err := repo.FindByUserAndItem(ctx, "user1", "item2")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if progress.BoxLevel != 1 {
		t.Errorf("seeded box level should be 1, got %d", progress.BoxLevel)
	}
	if !progress.IsNew() {
		t.Error("seeded progress should be new")
	}
	if progress.NextReviewDate != "" {
		t.Errorf("seeded progress should have no next review date, got %q", progress.NextReviewDate)
	}

	// 재시딩해도 중복 row가 생기지 않는다 (OnConflict DoNothing)
	if err := repo.CreateBatch(ctx, "user1", []string{"item1", "item2"}); err != nil {
		t.Fatalf("re-seed failed: %v", err)
	}
	stats, err := repo.GetStats(ctx, "user1", "2025-03-01")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalCount != 3 {
		t.Errorf("expected 3 rows after re-seed, got %d", stats.TotalCount)
	}
}

func TestRepository_FindByUserAndItem_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByUserAndItem(context.Background(), "user1", "missing")
	if !cerrors.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestRepository_FindDueForReview(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	today := "2025-03-10"

	if err := repo.CreateBatch(ctx, "user1", []string{"new", "due", "future"}); err != nil {
		t.Fatal(err)
	}

	reviewedAt := time.Now()
	// due: 복습일이 지난 아이템
	if err := repo.Update(ctx, rmodel.ReviewProgress{}, rmodel.ReviewProgress{
		UserID: "user1", ItemID: "due",
		BoxLevel: 2, NextReviewDate: "2025-03-09", TimesCorrect: 1, LastReviewedAt: &reviewedAt,
	}); err != nil {
		t.Fatal(err)
	}
	// future: 아직 복습일이 안 된 아이템
	if err := repo.Update(ctx, rmodel.ReviewProgress{}, rmodel.ReviewProgress{
		UserID: "user1", ItemID: "future",
		BoxLevel: 3, NextReviewDate: "2025-03-20", TimesCorrect: 2, LastReviewedAt: &reviewedAt,
	}); err != nil {
		t.Fatal(err)
	}

	due, err := repo.FindDueForReview(ctx, "user1", today)
	if err != nil {
		t.Fatalf("find due failed: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due items (new + overdue), got %d", len(due))
	}
	found := map[string]bool{}
	for _, p := range due {
		found[p.ItemID] = true
	}
	if !found["new"] || !found["due"] {
		t.Errorf("expected new+due, got %v", found)
	}
}

func TestRepository_FindWithoutProgress(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateBatch(ctx, "user1", []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}

	missing, err := repo.FindWithoutProgress(ctx, "user1", []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("find missing failed: %v", err)
	}
	if len(missing) != 2 || missing[0] != "c" || missing[1] != "d" {
		t.Errorf("expected [c d], got %v", missing)
	}

	// 다른 사용자 기준으로는 전부 누락
	allMissing, err := repo.FindWithoutProgress(ctx, "user2", []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(allMissing) != 2 {
		t.Errorf("expected all missing for other user, got %v", allMissing)
	}
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Update(context.Background(), rmodel.ReviewProgress{}, rmodel.ReviewProgress{
		UserID: "user1", ItemID: "ghost", BoxLevel: 2,
	})
	if !cerrors.IsNotFound(err) {
		t.Errorf("expected NotFoundError on missing row, got %v", err)
	}
}

func TestRepository_Update_StaleBaseConflicts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateBatch(ctx, "user1", []string{"item1"}); err != nil {
		t.Fatal(err)
	}
	base, err := repo.FindByUserAndItem(ctx, "user1", "item1")
	if err != nil {
		t.Fatal(err)
	}

	reviewedAt := time.Now()
	first := base
	first.BoxLevel = 2
	first.TimesCorrect = 1
	first.NextReviewDate = "2025-03-13"
	first.LastReviewedAt = &reviewedAt
	if err := repo.Update(ctx, base, first); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	// 같은 기준 상태로 들어온 두 번째 쓰기는 덮어쓰지 못한다
	second := base
	second.BoxLevel = 1
	second.TimesIncorrect = 1
	second.LastReviewedAt = &reviewedAt
	if err := repo.Update(ctx, base, second); !cerrors.IsConflict(err) {
		t.Fatalf("stale-base update must conflict, got %v", err)
	}

	saved, err := repo.FindByUserAndItem(ctx, "user1", "item1")
	if err != nil {
		t.Fatal(err)
	}
	if saved.TimesCorrect != 1 || saved.TimesIncorrect != 0 || saved.BoxLevel != 2 {
		t.Errorf("winner's write must survive intact: %+v", saved)
	}

	// 갱신된 상태를 다시 읽어 기준으로 삼으면 성공
	third := saved
	third.TimesIncorrect = 1
	if err := repo.Update(ctx, saved, third); err != nil {
		t.Errorf("update from fresh base failed: %v", err)
	}
}

func TestRepository_GetStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	today := "2025-03-10"

	if err := repo.CreateBatch(ctx, "user1", []string{"a", "b", "c", "d"}); err != nil {
		t.Fatal(err)
	}

	reviewedAt := time.Now()
	if err := repo.Update(ctx, rmodel.ReviewProgress{}, rmodel.ReviewProgress{
		UserID: "user1", ItemID: "a",
		BoxLevel: 3, NextReviewDate: "2025-03-05", TimesCorrect: 2, LastReviewedAt: &reviewedAt,
	}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Update(ctx, rmodel.ReviewProgress{}, rmodel.ReviewProgress{
		UserID: "user1", ItemID: "b",
		BoxLevel: 3, NextReviewDate: "2025-04-01", TimesCorrect: 2, LastReviewedAt: &reviewedAt,
	}); err != nil {
		t.Fatal(err)
	}

	stats, err := repo.GetStats(ctx, "user1", today)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalCount != 4 {
		t.Errorf("expected total 4, got %d", stats.TotalCount)
	}
	// due = 신규 c, d + 기한 지난 a (b는 미래)
	if stats.DueCount != 3 {
		t.Errorf("expected due 3, got %d", stats.DueCount)
	}

	dist := map[int]int64{}
	for _, bc := range stats.BoxDistribution {
		dist[bc.BoxLevel] = bc.Count
	}
	if dist[1] != 2 || dist[3] != 2 {
		t.Errorf("unexpected box distribution: %v", stats.BoxDistribution)
	}
}
