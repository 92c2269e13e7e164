package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/oportunizando/oportunizando/internal/model"
)

// PostgreSQLのエラーコード。lib/pqのpq.Error.Codeと比較する。
const (
	pgForeignKeyViolation = pq.ErrorCode("23503")
	pgUniqueViolation     = pq.ErrorCode("23505")
)

// QueryLatencyObserver はクエリ実行時間の記録先。
type QueryLatencyObserver interface {
	RecordQueryLatency(duration time.Duration)
}

// PostgresBoardRepo はPostgreSQLを使用したカンバン関係リポジトリ。
type PostgresBoardRepo struct {
	db       *sql.DB
	observer QueryLatencyObserver // nil可
}

// NewPostgresBoardRepo はPostgresBoardRepoを生成する。
func NewPostgresBoardRepo(db *sql.DB) *PostgresBoardRepo {
	return &PostgresBoardRepo{db: db}
}

// SetLatencyObserver はクエリレイテンシの記録先を設定する。
func (r *PostgresBoardRepo) SetLatencyObserver(obs QueryLatencyObserver) {
	r.observer = obs
}

func (r *PostgresBoardRepo) observe(start time.Time) {
	if r.observer != nil {
		r.observer.RecordQueryLatency(time.Since(start))
	}
}

// AddOrReset は関係行を冪等にUPSERTする。
// SELECTしてからINSERT/UPDATEを選ぶ2往復方式は同時リクエストで一意制約違反を
// 起こすため、単一のINSERT ON CONFLICT文で原子的に実行する。
func (r *PostgresBoardRepo) AddOrReset(ctx context.Context, userID string, opportunityID int64) (*model.UserOpportunity, error) {
	defer r.observe(time.Now())

	row := &model.UserOpportunity{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users_opportunities (user_id, opportunity_id, state, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())
		 ON CONFLICT (user_id, opportunity_id) DO UPDATE SET
		     state = EXCLUDED.state,
		     updated_at = now()
		 RETURNING id, user_id, opportunity_id, state, created_at, updated_at`,
		userID, opportunityID, model.StateToDo,
	).Scan(
		&row.ID, &row.UserID, &row.OpportunityID,
		&row.State, &row.CreatedAt, &row.UpdatedAt,
	)

	if err != nil {
		// 外部キー違反は参照先不在として呼び出し元に伝える。握り潰さない。
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
			if pqErr.Constraint == "users_opportunities_user_id_fkey" {
				return nil, model.NewUserNotFoundError()
			}
			return nil, model.NewOpportunityNotFoundError(opportunityID)
		}
		return nil, model.NewStorageError("ボードへの追加", err)
	}

	return row, nil
}

// ListByState はユーザーの指定状態の行を機会情報とJOINして返す。
// 毎回新しくクエリを発行する（キャッシュしない）。
func (r *PostgresBoardRepo) ListByState(ctx context.Context, userID string, state model.OpportunityState) ([]model.BoardCard, error) {
	defer r.observe(time.Now())

	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.title, o.description, o.company, o.location, o.url, o.created_at,
		        uo.id, uo.state
		 FROM opportunities o
		 JOIN users_opportunities uo ON o.id = uo.opportunity_id
		 WHERE uo.user_id = $1 AND uo.state = $2
		 ORDER BY uo.id DESC`,
		userID, state,
	)
	if err != nil {
		return nil, model.NewStorageError("ボード列の取得", err)
	}
	defer rows.Close()

	cards := []model.BoardCard{}
	for rows.Next() {
		var card model.BoardCard
		if err := rows.Scan(
			&card.Opportunity.ID, &card.Title, &card.Description,
			&card.Company, &card.Location, &card.URL, &card.Opportunity.CreatedAt,
			&card.AssociationID, &card.State,
		); err != nil {
			return nil, model.NewStorageError("ボード列の読み取り", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStorageError("ボード列の走査", err)
	}

	return cards, nil
}

// UpdateState は(user, opportunity)の組の状態を更新する。
// 対象行が無い場合はnilを返す。同じ状態を再適用しても結果は変わらない。
func (r *PostgresBoardRepo) UpdateState(ctx context.Context, userID string, opportunityID int64, state model.OpportunityState) (*model.UserOpportunity, error) {
	defer r.observe(time.Now())

	row := &model.UserOpportunity{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE users_opportunities
		 SET state = $3, updated_at = now()
		 WHERE user_id = $1 AND opportunity_id = $2
		 RETURNING id, user_id, opportunity_id, state, created_at, updated_at`,
		userID, opportunityID, state,
	).Scan(
		&row.ID, &row.UserID, &row.OpportunityID,
		&row.State, &row.CreatedAt, &row.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStorageError("状態の更新", err)
	}

	return row, nil
}

// DeleteByUserID はユーザーの全関係行を削除する。
func (r *PostgresBoardRepo) DeleteByUserID(ctx context.Context, userID string) error {
	defer r.observe(time.Now())

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM users_opportunities WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return model.NewStorageError("ボードの削除", err)
	}
	return nil
}

// compile-time interface check
var _ BoardRepository = (*PostgresBoardRepo)(nil)
