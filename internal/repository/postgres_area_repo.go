package repository

import (
	"context"
	"database/sql"

	"github.com/oportunizando/oportunizando/internal/model"
)

// PostgresAreaRepo はPostgreSQLを使用した分野リポジトリ。
type PostgresAreaRepo struct {
	db *sql.DB
}

// NewPostgresAreaRepo はPostgresAreaRepoを生成する。
func NewPostgresAreaRepo(db *sql.DB) *PostgresAreaRepo {
	return &PostgresAreaRepo{db: db}
}

// FindByID は指定IDの分野を取得する。見つからない場合はnilを返す。
func (r *PostgresAreaRepo) FindByID(ctx context.Context, id int64) (*model.Area, error) {
	area := &model.Area{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title FROM areas WHERE id = $1`,
		id,
	).Scan(&area.ID, &area.Title)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStorageError("分野の取得", err)
	}

	return area, nil
}

// ListAll は全分野をタイトル順で返す。
func (r *PostgresAreaRepo) ListAll(ctx context.Context) ([]model.Area, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title FROM areas ORDER BY title`,
	)
	if err != nil {
		return nil, model.NewStorageError("分野一覧の取得", err)
	}
	defer rows.Close()

	return scanAreas(rows)
}

// ListByUser はユーザーが興味として選択した分野の一覧を返す。
func (r *PostgresAreaRepo) ListByUser(ctx context.Context, userID string) ([]model.Area, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.title FROM areas a
		 JOIN users_areas ua ON a.id = ua.area_id
		 WHERE ua.user_id = $1
		 ORDER BY a.title`,
		userID,
	)
	if err != nil {
		return nil, model.NewStorageError("ユーザーの興味分野の取得", err)
	}
	defer rows.Close()

	return scanAreas(rows)
}

// SearchByTitle はタイトル部分一致で分野を検索する。
// 前後の空白は呼び出し側でトリム済みであることを前提にしない。
func (r *PostgresAreaRepo) SearchByTitle(ctx context.Context, title string) ([]model.Area, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title FROM areas
		 WHERE title ILIKE '%' || $1 || '%'
		 ORDER BY title`,
		title,
	)
	if err != nil {
		return nil, model.NewStorageError("分野の検索", err)
	}
	defer rows.Close()

	return scanAreas(rows)
}

// scanAreas は結果セットを分野スライスに読み出す。
func scanAreas(rows *sql.Rows) ([]model.Area, error) {
	areas := []model.Area{}
	for rows.Next() {
		var area model.Area
		if err := rows.Scan(&area.ID, &area.Title); err != nil {
			return nil, model.NewStorageError("分野の読み取り", err)
		}
		areas = append(areas, area)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStorageError("分野の走査", err)
	}
	return areas, nil
}

// compile-time interface check
var _ AreaRepository = (*PostgresAreaRepo)(nil)
