package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newAreaRepoWithMock(t *testing.T) (*PostgresAreaRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresAreaRepo(db), mock
}

// SearchByTitleがILIKE部分一致で検索することを検証
func TestPostgresAreaRepo_SearchByTitle_UsesILike(t *testing.T) {
	repo, mock := newAreaRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE title ILIKE '%' || $1 || '%'`)).
		WithArgs("tecno").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
			AddRow(int64(2), "Tecnologia"))

	areas, err := repo.SearchByTitle(context.Background(), "tecno")
	if err != nil {
		t.Fatalf("SearchByTitle returned unexpected error: %v", err)
	}
	if len(areas) != 1 {
		t.Fatalf("len(areas) = %d, want 1", len(areas))
	}
	if areas[0].Title != "Tecnologia" {
		t.Errorf("areas[0].Title = %q, want %q", areas[0].Title, "Tecnologia")
	}
}

// 検索結果が無い場合に空スライスが返ることを検証
func TestPostgresAreaRepo_SearchByTitle_NoMatch_ReturnsEmpty(t *testing.T) {
	repo, mock := newAreaRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE title ILIKE`)).
		WithArgs("inexistente").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	areas, err := repo.SearchByTitle(context.Background(), "inexistente")
	if err != nil {
		t.Fatalf("SearchByTitle returned unexpected error: %v", err)
	}
	if areas == nil || len(areas) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", areas)
	}
}

// ListByUserがusers_areasとJOINして取得することを検証
func TestPostgresAreaRepo_ListByUser_JoinsInterests(t *testing.T) {
	repo, mock := newAreaRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`JOIN users_areas ua ON a.id = ua.area_id`)).
		WithArgs("user-42").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
			AddRow(int64(1), "Engenharia").
			AddRow(int64(2), "Tecnologia"))

	areas, err := repo.ListByUser(context.Background(), "user-42")
	if err != nil {
		t.Fatalf("ListByUser returned unexpected error: %v", err)
	}
	if len(areas) != 2 {
		t.Errorf("len(areas) = %d, want 2", len(areas))
	}
}

// PostgresAreaRepoはAreaRepositoryインターフェースを満たすことを検証
func TestPostgresAreaRepo_ImplementsInterface(t *testing.T) {
	var _ AreaRepository = (*PostgresAreaRepo)(nil)
}

// PostgresOpportunityRepoはOpportunityRepositoryインターフェースを満たすことを検証
func TestPostgresOpportunityRepo_ImplementsInterface(t *testing.T) {
	var _ OpportunityRepository = (*PostgresOpportunityRepo)(nil)
}

// PostgresSessionRepoはSessionRepositoryインターフェースを満たすことを検証
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}
