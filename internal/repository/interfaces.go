// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/oportunizando/oportunizando/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスの一意制約違反はDUPLICATE_EMAILエラーとして返す。
	Create(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// AreaRepository は興味分野マスタの読み取りインターフェース。
type AreaRepository interface {
	// FindByID は指定IDの分野を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Area, error)

	// ListAll は全分野を返す。
	ListAll(ctx context.Context) ([]model.Area, error)

	// ListByUser はユーザーが興味として選択した分野の一覧を返す。
	ListByUser(ctx context.Context, userID string) ([]model.Area, error)

	// SearchByTitle はタイトル部分一致（大文字小文字を区別しない）で分野を検索する。
	SearchByTitle(ctx context.Context, title string) ([]model.Area, error)
}

// OpportunityRepository は機会カタログの読み取りインターフェース。
type OpportunityRepository interface {
	// FindByID は指定IDの機会を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Opportunity, error)

	// ListByArea は指定分野に紐づく機会の一覧を返す。
	ListByArea(ctx context.Context, areaID int64) ([]model.Opportunity, error)
}

// InterestRepository はユーザーと分野の多対多関係の永続化インターフェース。
type InterestRepository interface {
	// Insert は(user, area)の組を一括登録し、新規登録された件数を返す。
	// 既に登録済みの組は無視する。
	Insert(ctx context.Context, userID string, areaIDs []int64) (int, error)

	// Delete は(user, area)の組を削除する。
	// 対象が存在しない場合はINTEREST_NOT_FOUNDエラーを返す。
	Delete(ctx context.Context, userID string, areaID int64) error

	// DeleteByUserID はユーザーの全興味分野を削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// BoardRepository はユーザーと機会の関係（カンバンの行）の永続化インターフェース。
// (user_id, opportunity_id)の一意制約が唯一の構造的保証。
type BoardRepository interface {
	// AddOrReset は関係行を冪等にUPSERTする。
	// 行が無ければ state='a-fazer' で作成し、あれば状態を'a-fazer'に戻す。
	// check-then-actではなく単一のINSERT ON CONFLICT文で実行する。
	AddOrReset(ctx context.Context, userID string, opportunityID int64) (*model.UserOpportunity, error)

	// ListByState はユーザーの指定状態の行を機会情報とJOINして返す。
	// 関係ID降順（後から追加したものが先頭）。未知の状態は空スライスになる。
	ListByState(ctx context.Context, userID string, state model.OpportunityState) ([]model.BoardCard, error)

	// UpdateState は(user, opportunity)の組の状態を更新する。
	// 対象行が無い場合はnilを返す（not-found。行の新規作成はしない）。
	UpdateState(ctx context.Context, userID string, opportunityID int64, state model.OpportunityState) (*model.UserOpportunity, error)

	// DeleteByUserID はユーザーの全関係行を削除する。退会処理用。
	DeleteByUserID(ctx context.Context, userID string) error
}
