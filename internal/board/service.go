// Package board はカンバンボード（機会の状態追跡）のドメインロジックを提供する。
//
// ユーザーと機会の関係は(user_id, opportunity_id)をキーとする集合で、
// 状態だけが可変。遷移グラフは制約しない（どの列へもドラッグできる）。
package board

import (
	"context"

	"github.com/oportunizando/oportunizando/internal/model"
	"github.com/oportunizando/oportunizando/internal/repository"
)

// boardTitle はボード画面の表示タイトル。
const boardTitle = "Kanban"

// MetricsCollector はボード操作のメトリクス収集インターフェース。
type MetricsCollector interface {
	RecordBoardUpsert()
	RecordBoardMove(state string)
}

// Board は3列分のカードを集約したビューモデル。
type Board struct {
	Title string
	ToDo  []model.BoardCard // a-fazer
	Doing []model.BoardCard // fazendo
	Done  []model.BoardCard // feito
}

// Service はカンバンボードのサービス層。
// 関係行の存在と状態に対する唯一の権威。
type Service struct {
	boardRepo repository.BoardRepository
	oppRepo   repository.OpportunityRepository
	collector MetricsCollector // nil可
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	boardRepo repository.BoardRepository,
	oppRepo repository.OpportunityRepository,
	collector MetricsCollector,
) *Service {
	return &Service{
		boardRepo: boardRepo,
		oppRepo:   oppRepo,
		collector: collector,
	}
}

// AddOrReset は機会をボードに追加する。
// 初回追加は'a-fazer'で作成し、既にボードにある場合は状態を'a-fazer'に戻す
// （再追加はワークフローのやり直し）。エラーにはしない。
// 機会が存在しない場合はOPPORTUNITY_NOT_FOUNDエラーを返す。
func (s *Service) AddOrReset(ctx context.Context, userID string, opportunityID int64) (*model.UserOpportunity, error) {
	// 機会の存在確認。外部キー違反はRepository層でも表面化するが、
	// 先に確認して明確なエラーを返す。
	opp, err := s.oppRepo.FindByID(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if opp == nil {
		return nil, model.NewOpportunityNotFoundError(opportunityID)
	}

	row, err := s.boardRepo.AddOrReset(ctx, userID, opportunityID)
	if err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.RecordBoardUpsert()
	}

	return row, nil
}

// GetBoard は3つの状態バケットを順に読み、ボードビューを返す。
// 各読み取りは独立したクエリで、リクエスト間の線形化は保証しない
// （画面リフレッシュ用途には十分）。
func (s *Service) GetBoard(ctx context.Context, userID string) (*Board, error) {
	toDo, err := s.boardRepo.ListByState(ctx, userID, model.StateToDo)
	if err != nil {
		return nil, err
	}
	doing, err := s.boardRepo.ListByState(ctx, userID, model.StateDoing)
	if err != nil {
		return nil, err
	}
	done, err := s.boardRepo.ListByState(ctx, userID, model.StateDone)
	if err != nil {
		return nil, err
	}

	return &Board{
		Title: boardTitle,
		ToDo:  toDo,
		Doing: doing,
		Done:  done,
	}, nil
}

// Move は(user, opportunity)の組の状態を指定の列へ変更する。
// 未知の状態文字列はDBに到達する前にINVALID_STATEで弾く。
// 組がボードに無い場合はNOT_ON_BOARDを返す（行は作成しない）。
func (s *Service) Move(ctx context.Context, userID string, opportunityID int64, state model.OpportunityState) (*model.UserOpportunity, error) {
	if !state.Valid() {
		return nil, model.NewInvalidStateError(string(state))
	}

	row, err := s.boardRepo.UpdateState(ctx, userID, opportunityID, state)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, model.NewNotOnBoardError(opportunityID)
	}

	if s.collector != nil {
		s.collector.RecordBoardMove(string(state))
	}

	return row, nil
}
