// Package catalog は機会カタログの閲覧機能を提供する。
package catalog

import (
	"context"

	"github.com/oportunizando/oportunizando/internal/model"
	"github.com/oportunizando/oportunizando/internal/repository"
	"github.com/oportunizando/oportunizando/internal/security"
)

// Service は機会カタログの参照サービス。
// 説明文のHTMLは応答前に必ずサニタイズされる。
type Service struct {
	oppRepo   repository.OpportunityRepository
	areaRepo  repository.AreaRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	oppRepo repository.OpportunityRepository,
	areaRepo repository.AreaRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		oppRepo:   oppRepo,
		areaRepo:  areaRepo,
		sanitizer: sanitizer,
	}
}

// GetOpportunity は機会詳細を返す。
// 見つからない場合はOPPORTUNITY_NOT_FOUNDエラーを返す。
func (s *Service) GetOpportunity(ctx context.Context, id int64) (*model.Opportunity, error) {
	opp, err := s.oppRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if opp == nil {
		return nil, model.NewOpportunityNotFoundError(id)
	}

	opp.Description = s.sanitizer.Sanitize(opp.Description)
	return opp, nil
}

// ListByArea は指定エリアに属する機会一覧を返す。
// エリアが存在しない場合はAREA_NOT_FOUNDエラーを返す。
func (s *Service) ListByArea(ctx context.Context, areaID int64) ([]model.Opportunity, error) {
	area, err := s.areaRepo.FindByID(ctx, areaID)
	if err != nil {
		return nil, err
	}
	if area == nil {
		return nil, model.NewAreaNotFoundError(areaID)
	}

	opps, err := s.oppRepo.ListByArea(ctx, areaID)
	if err != nil {
		return nil, err
	}

	for i := range opps {
		opps[i].Description = s.sanitizer.Sanitize(opps[i].Description)
	}
	return opps, nil
}
