package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/oportunizando/oportunizando/internal/model"
)

// boardColumns はusers_opportunitiesのRETURNING句の列。
var boardColumns = []string{"id", "user_id", "opportunity_id", "state", "created_at", "updated_at"}

func newBoardRepoWithMock(t *testing.T) (*PostgresBoardRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresBoardRepo(db), mock
}

// AddOrResetが新規の組に対してa-fazer状態の行を返すことを検証
func TestPostgresBoardRepo_AddOrReset_InsertsWithDefaultState(t *testing.T) {
	repo, mock := newBoardRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users_opportunities`)).
		WithArgs("user-42", int64(7), model.StateToDo).
		WillReturnRows(sqlmock.NewRows(boardColumns).
			AddRow(int64(1), "user-42", int64(7), "a-fazer", now, now))

	row, err := repo.AddOrReset(context.Background(), "user-42", 7)
	if err != nil {
		t.Fatalf("AddOrReset returned unexpected error: %v", err)
	}
	if row.State != model.StateToDo {
		t.Errorf("row.State = %q, want %q", row.State, model.StateToDo)
	}
	if row.UserID != "user-42" || row.OpportunityID != 7 {
		t.Errorf("row = (%q, %d), want (%q, %d)", row.UserID, row.OpportunityID, "user-42", 7)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// AddOrResetが単一のUPSERT文のみを発行することを検証（SELECT往復なし）
func TestPostgresBoardRepo_AddOrReset_SingleRoundTrip(t *testing.T) {
	repo, mock := newBoardRepoWithMock(t)
	now := time.Now()

	// 期待するのはINSERT ON CONFLICT 1文だけ。事前SELECTが発行されれば
	// ExpectationsWereMetが失敗する。
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (user_id, opportunity_id) DO UPDATE`)).
		WithArgs("user-42", int64(7), model.StateToDo).
		WillReturnRows(sqlmock.NewRows(boardColumns).
			AddRow(int64(3), "user-42", int64(7), "a-fazer", now, now))

	if _, err := repo.AddOrReset(context.Background(), "user-42", 7); err != nil {
		t.Fatalf("AddOrReset returned unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// 既存の組（feito状態）への再追加がa-fazerに戻ることを検証
func TestPostgresBoardRepo_AddOrReset_ResetsDoneToToDo(t *testing.T) {
	repo, mock := newBoardRepoWithMock(t)
	created := time.Now().Add(-24 * time.Hour)
	now := time.Now()

	// 既存行（元はfeito）のUPSERT結果。stateはa-fazerに巻き戻る。
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users_opportunities`)).
		WithArgs("user-42", int64(7), model.StateToDo).
		WillReturnRows(sqlmock.NewRows(boardColumns).
			AddRow(int64(1), "user-42", int64(7), "a-fazer", created, now))

	row, err := repo.AddOrReset(context.Background(), "user-42", 7)
	if err != nil {
		t.Fatalf("AddOrReset returned unexpected error: %v", err)
	}
	if row.State != model.StateToDo {
		t.Errorf("row.State = %q, want %q", row.State, model.StateToDo)
	}
	if row.ID != 1 {
		t.Errorf("row.ID = %d, want %d (existing row must be reused)", row.ID, 1)
	}
}

// 機会の外部キー違反がOPPORTUNITY_NOT_FOUNDとして表面化することを検証
func TestPostgresBoardRepo_AddOrReset_ForeignKeyViolation_Opportunity(t *testing.T) {
	repo, mock := newBoardRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users_opportunities`)).
		WithArgs("user-42", int64(999), model.StateToDo).
		WillReturnError(&pq.Error{
			Code:       "23503",
			Constraint: "users_opportunities_opportunity_id_fkey",
		})

	_, err := repo.AddOrReset(context.Background(), "user-42", 999)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeOpportunityNotFound {
		t.Errorf("apiErr.Code = %q, want %q", apiErr.Code, model.ErrCodeOpportunityNotFound)
	}
}

// ユーザーの外部キー違反がUSER_NOT_FOUNDとして表面化することを検証
func TestPostgresBoardRepo_AddOrReset_ForeignKeyViolation_User(t *testing.T) {
	repo, mock := newBoardRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users_opportunities`)).
		WithArgs("ghost", int64(7), model.StateToDo).
		WillReturnError(&pq.Error{
			Code:       "23503",
			Constraint: "users_opportunities_user_id_fkey",
		})

	_, err := repo.AddOrReset(context.Background(), "ghost", 7)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("apiErr.Code = %q, want %q", apiErr.Code, model.ErrCodeUserNotFound)
	}
}

// クエリ失敗がSTORAGE_FAILUREに正規化され、生エラーがcauseに残ることを検証
func TestPostgresBoardRepo_AddOrReset_StorageFailure(t *testing.T) {
	repo, mock := newBoardRepoWithMock(t)

	driverErr := errors.New("connection refused")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users_opportunities`)).
		WillReturnError(driverErr)

	_, err := repo.AddOrReset(context.Background(), "user-42", 7)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeStorageFailure {
		t.Errorf("apiErr.Code = %q, want %q", apiErr.Code, model.ErrCodeStorageFailure)
	}
	if !errors.Is(err, driverErr) {
		t.Error("expected driver error to be wrapped as cause")
	}
}

// ListByStateが機会情報とJOINした行を関係ID降順で返すことを検証
func TestPostgresBoardRepo_ListByState_ReturnsJoinedCards(t *testing.T) {
	repo, mock := newBoardRepoWithMock(t)
	now := time.Now()

	columns := []string{
		"id", "title", "description", "company", "location", "url", "created_at",
		"uo_id", "state",
	}
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY uo.id DESC`)).
		WithArgs("user-42", model.StateToDo).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(9), "Estágio B", "desc", "ACME", "Remoto", "https://b", now, int64(12), "a-fazer").
			AddRow(int64(7), "Estágio A", "desc", "ACME", "Remoto", "https://a", now, int64(5), "a-fazer"))

	cards, err := repo.ListByState(context.Background(), "user-42", model.StateToDo)
	if err != nil {
		t.Fatalf("ListByState returned unexpected error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("len(cards) = %d, want %d", len(cards), 2)
	}
	if cards[0].AssociationID != 12 || cards[1].AssociationID != 5 {
		t.Errorf("association order = (%d, %d), want (12, 5)", cards[0].AssociationID, cards[1].AssociationID)
	}
	if cards[0].Opportunity.ID != 9 {
		t.Errorf("cards[0].Opportunity.ID = %d, want %d", cards[0].Opportunity.ID, 9)
	}
}

// 一致する行が無い場合に空スライスが返ることを検証（未知の状態も同じ経路）
func TestPostgresBoardRepo_ListByState_EmptyResult(t *testing.T) {
	repo, mock := newBoardRepoWithMock(t)

	columns := []string{
		"id", "title", "description", "company", "location", "url", "created_at",
		"uo_id", "state",
	}
	mock.ExpectQuery(regexp.QuoteMeta(`FROM opportunities o`)).
		WithArgs("user-42", model.OpportunityState("desconhecido")).
		WillReturnRows(sqlmock.NewRows(columns))

	cards, err := repo.ListByState(context.Background(), "user-42", model.OpportunityState("desconhecido"))
	if err != nil {
		t.Fatalf("ListByState returned unexpected error: %v", err)
	}
	if cards == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(cards) != 0 {
		t.Errorf("len(cards) = %d, want 0", len(cards))
	}
}

// UpdateStateが対象行を更新しRETURNING結果を返すことを検証
func TestPostgresBoardRepo_UpdateState_UpdatesMatchingRow(t *testing.T) {
	repo, mock := newBoardRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users_opportunities`)).
		WithArgs("user-42", int64(7), model.StateDoing).
		WillReturnRows(sqlmock.NewRows(boardColumns).
			AddRow(int64(1), "user-42", int64(7), "fazendo", now, now))

	row, err := repo.UpdateState(context.Background(), "user-42", 7, model.StateDoing)
	if err != nil {
		t.Fatalf("UpdateState returned unexpected error: %v", err)
	}
	if row == nil {
		t.Fatal("expected non-nil row")
	}
	if row.State != model.StateDoing {
		t.Errorf("row.State = %q, want %q", row.State, model.StateDoing)
	}
}

// 対象行が無い場合にnilが返り、行が作成されないことを検証
func TestPostgresBoardRepo_UpdateState_NotFound_ReturnsNil(t *testing.T) {
	repo, mock := newBoardRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users_opportunities`)).
		WithArgs("user-42", int64(404), model.StateDone).
		WillReturnRows(sqlmock.NewRows(boardColumns))

	row, err := repo.UpdateState(context.Background(), "user-42", 404, model.StateDone)
	if err != nil {
		t.Fatalf("UpdateState returned unexpected error: %v", err)
	}
	if row != nil {
		t.Errorf("expected nil row for missing pair, got %+v", row)
	}
}

// 同じ状態の再適用が同じ結果を返すことを検証（冪等性）
func TestPostgresBoardRepo_UpdateState_Idempotent(t *testing.T) {
	repo, mock := newBoardRepoWithMock(t)
	now := time.Now()

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users_opportunities`)).
			WithArgs("user-42", int64(7), model.StateDone).
			WillReturnRows(sqlmock.NewRows(boardColumns).
				AddRow(int64(1), "user-42", int64(7), "feito", now, now))
	}

	first, err := repo.UpdateState(context.Background(), "user-42", 7, model.StateDone)
	if err != nil {
		t.Fatalf("first UpdateState returned error: %v", err)
	}
	second, err := repo.UpdateState(context.Background(), "user-42", 7, model.StateDone)
	if err != nil {
		t.Fatalf("second UpdateState returned error: %v", err)
	}

	if first.ID != second.ID || first.State != second.State {
		t.Errorf("idempotent reapply changed result: first=%+v second=%+v", first, second)
	}
}

// PostgresBoardRepoはBoardRepositoryインターフェースを満たすことを検証
func TestPostgresBoardRepo_ImplementsInterface(t *testing.T) {
	var _ BoardRepository = (*PostgresBoardRepo)(nil)
}
