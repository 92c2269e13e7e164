// Package interest は学生の興味エリア管理機能を提供する。
package interest

import (
	"context"
	"strings"

	"github.com/oportunizando/oportunizando/internal/model"
	"github.com/oportunizando/oportunizando/internal/repository"
)

// Service は興味エリアの登録・検索サービス。
type Service struct {
	interestRepo repository.InterestRepository
	areaRepo     repository.AreaRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	interestRepo repository.InterestRepository,
	areaRepo repository.AreaRepository,
) *Service {
	return &Service{
		interestRepo: interestRepo,
		areaRepo:     areaRepo,
	}
}

// Select はユーザーの興味エリアを一括登録する。
// 既に登録済みの組は無視され、新規登録件数を返す。
// 空の選択はEMPTY_AREA_SELECTIONエラーを返す。
func (s *Service) Select(ctx context.Context, userID string, areaIDs []int64) (int, error) {
	if len(areaIDs) == 0 {
		return 0, model.NewEmptyAreaSelectionError()
	}
	return s.interestRepo.Insert(ctx, userID, areaIDs)
}

// Remove はユーザーの興味エリアを1件削除する。
// 登録されていない場合はINTEREST_NOT_FOUNDエラーを返す。
func (s *Service) Remove(ctx context.Context, userID string, areaID int64) error {
	return s.interestRepo.Delete(ctx, userID, areaID)
}

// ListAll は全エリアをタイトル順で返す。
func (s *Service) ListAll(ctx context.Context) ([]model.Area, error) {
	return s.areaRepo.ListAll(ctx)
}

// ListByUser はユーザーが興味登録したエリア一覧を返す。
func (s *Service) ListByUser(ctx context.Context, userID string) ([]model.Area, error) {
	return s.interestAreas(ctx, userID)
}

func (s *Service) interestAreas(ctx context.Context, userID string) ([]model.Area, error) {
	areas, err := s.areaRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if areas == nil {
		areas = []model.Area{}
	}
	return areas, nil
}

// SearchByTitle はタイトルの部分一致でエリアを検索する。
// 前後の空白を除去し、空の検索語は全件一覧と同じ結果を返す。
func (s *Service) SearchByTitle(ctx context.Context, title string) ([]model.Area, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return s.areaRepo.ListAll(ctx)
	}
	return s.areaRepo.SearchByTitle(ctx, title)
}
