package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/oportunizando/oportunizando/internal/model"
)

// PostgresInterestRepo はPostgreSQLを使用した興味分野リポジトリ。
type PostgresInterestRepo struct {
	db *sql.DB
}

// NewPostgresInterestRepo はPostgresInterestRepoを生成する。
func NewPostgresInterestRepo(db *sql.DB) *PostgresInterestRepo {
	return &PostgresInterestRepo{db: db}
}

// Insert は(user, area)の組を1文で一括登録し、新規登録された件数を返す。
// VALUES句はプレースホルダで組み立てる。登録済みの組はON CONFLICTで無視する。
func (r *PostgresInterestRepo) Insert(ctx context.Context, userID string, areaIDs []int64) (int, error) {
	if len(areaIDs) == 0 {
		return 0, model.NewEmptyAreaSelectionError()
	}

	placeholders := make([]string, len(areaIDs))
	args := make([]interface{}, 0, len(areaIDs)+1)
	args = append(args, userID)
	for i, areaID := range areaIDs {
		placeholders[i] = fmt.Sprintf("($1, $%d, now())", i+2)
		args = append(args, areaID)
	}

	query := fmt.Sprintf(
		`INSERT INTO users_areas (user_id, area_id, created_at) VALUES %s
		 ON CONFLICT (user_id, area_id) DO NOTHING`,
		strings.Join(placeholders, ", "),
	)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
			if pqErr.Constraint == "users_areas_user_id_fkey" {
				return 0, model.NewUserNotFoundError()
			}
			return 0, model.NewAreaNotFoundError(0)
		}
		return 0, model.NewStorageError("興味分野の登録", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, model.NewStorageError("登録結果の確認", err)
	}

	return int(inserted), nil
}

// Delete は(user, area)の組を削除する。対象が無ければINTEREST_NOT_FOUNDを返す。
func (r *PostgresInterestRepo) Delete(ctx context.Context, userID string, areaID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM users_areas WHERE user_id = $1 AND area_id = $2`,
		userID, areaID,
	)
	if err != nil {
		return model.NewStorageError("興味分野の削除", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.NewStorageError("削除結果の確認", err)
	}
	if rowsAffected == 0 {
		return model.NewInterestNotFoundError(areaID)
	}

	return nil
}

// DeleteByUserID はユーザーの全興味分野を削除する。
func (r *PostgresInterestRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM users_areas WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return model.NewStorageError("興味分野の一括削除", err)
	}
	return nil
}

// compile-time interface check
var _ InterestRepository = (*PostgresInterestRepo)(nil)
