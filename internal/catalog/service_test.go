package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/oportunizando/oportunizando/internal/model"
)

// mockOpportunityRepo はOpportunityRepositoryのモック実装。
type mockOpportunityRepo struct {
	findByIDFn   func(ctx context.Context, id int64) (*model.Opportunity, error)
	listByAreaFn func(ctx context.Context, areaID int64) ([]model.Opportunity, error)
}

func (m *mockOpportunityRepo) FindByID(ctx context.Context, id int64) (*model.Opportunity, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockOpportunityRepo) ListByArea(ctx context.Context, areaID int64) ([]model.Opportunity, error) {
	if m.listByAreaFn != nil {
		return m.listByAreaFn(ctx, areaID)
	}
	return []model.Opportunity{}, nil
}

// mockAreaRepo はAreaRepositoryのモック実装。
type mockAreaRepo struct {
	findByIDFn func(ctx context.Context, id int64) (*model.Area, error)
}

func (m *mockAreaRepo) FindByID(ctx context.Context, id int64) (*model.Area, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &model.Area{ID: id, Title: "Tecnologia"}, nil
}

func (m *mockAreaRepo) ListAll(ctx context.Context) ([]model.Area, error) {
	return nil, nil
}

func (m *mockAreaRepo) ListByUser(ctx context.Context, userID string) ([]model.Area, error) {
	return nil, nil
}

func (m *mockAreaRepo) SearchByTitle(ctx context.Context, title string) ([]model.Area, error) {
	return nil, nil
}

// stubSanitizer はサニタイズ呼び出しを記録するContentSanitizerService。
type stubSanitizer struct {
	calls int
}

func (s *stubSanitizer) Sanitize(rawHTML string) string {
	s.calls++
	return strings.ReplaceAll(rawHTML, "<script>", "")
}

// 機会詳細が返り、説明文がサニタイズされることを検証
func TestService_GetOpportunity_SanitizesDescription(t *testing.T) {
	oppRepo := &mockOpportunityRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Opportunity, error) {
			return &model.Opportunity{
				ID:          id,
				Title:       "Estágio em Dados",
				Description: "<p>Vaga</p><script>alert(1)</script>",
			}, nil
		},
	}
	sanitizer := &stubSanitizer{}
	svc := NewService(oppRepo, &mockAreaRepo{}, sanitizer)

	opp, err := svc.GetOpportunity(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetOpportunity returned unexpected error: %v", err)
	}
	if sanitizer.calls != 1 {
		t.Errorf("sanitizer.calls = %d, want 1", sanitizer.calls)
	}
	if strings.Contains(opp.Description, "<script>") {
		t.Errorf("opp.Description = %q, script tag must be removed", opp.Description)
	}
}

// 存在しない機会の取得がOPPORTUNITY_NOT_FOUNDになることを検証
func TestService_GetOpportunity_NotFound(t *testing.T) {
	oppRepo := &mockOpportunityRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Opportunity, error) {
			return nil, nil
		},
	}
	svc := NewService(oppRepo, &mockAreaRepo{}, &stubSanitizer{})

	_, err := svc.GetOpportunity(context.Background(), 999)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeOpportunityNotFound {
		t.Errorf("apiErr.Code = %q, want %q", apiErr.Code, model.ErrCodeOpportunityNotFound)
	}
}

// エリア内の機会一覧が全件サニタイズされて返ることを検証
func TestService_ListByArea_SanitizesAll(t *testing.T) {
	oppRepo := &mockOpportunityRepo{
		listByAreaFn: func(ctx context.Context, areaID int64) ([]model.Opportunity, error) {
			return []model.Opportunity{
				{ID: 1, Description: "<p>1</p>"},
				{ID: 2, Description: "<p>2</p>"},
				{ID: 3, Description: "<p>3</p>"},
			}, nil
		},
	}
	sanitizer := &stubSanitizer{}
	svc := NewService(oppRepo, &mockAreaRepo{}, sanitizer)

	opps, err := svc.ListByArea(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListByArea returned unexpected error: %v", err)
	}
	if len(opps) != 3 {
		t.Fatalf("len(opps) = %d, want 3", len(opps))
	}
	if sanitizer.calls != 3 {
		t.Errorf("sanitizer.calls = %d, want 3", sanitizer.calls)
	}
}

// 存在しないエリアの一覧取得がAREA_NOT_FOUNDになり、機会は読まれないことを検証
func TestService_ListByArea_UnknownArea(t *testing.T) {
	listCalled := false
	oppRepo := &mockOpportunityRepo{
		listByAreaFn: func(ctx context.Context, areaID int64) ([]model.Opportunity, error) {
			listCalled = true
			return nil, nil
		},
	}
	areaRepo := &mockAreaRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Area, error) {
			return nil, nil
		},
	}
	svc := NewService(oppRepo, areaRepo, &stubSanitizer{})

	_, err := svc.ListByArea(context.Background(), 999)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeAreaNotFound {
		t.Errorf("apiErr.Code = %q, want %q", apiErr.Code, model.ErrCodeAreaNotFound)
	}
	if listCalled {
		t.Error("opportunity repo must not be called for unknown area")
	}
}
