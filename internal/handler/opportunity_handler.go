package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/oportunizando/oportunizando/internal/model"
)

// CatalogServiceInterface は機会カタログハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	// GetOpportunity は機会詳細をサニタイズ済みの説明文付きで返す。
	GetOpportunity(ctx context.Context, id int64) (*model.Opportunity, error)
	// ListByArea は指定エリアの機会一覧を返す。
	ListByArea(ctx context.Context, areaID int64) ([]model.Opportunity, error)
}

// OpportunityHandler は機会カタログのHTTPハンドラー。
type OpportunityHandler struct {
	service CatalogServiceInterface
}

// NewOpportunityHandler はOpportunityHandlerを生成する。
func NewOpportunityHandler(service CatalogServiceInterface) *OpportunityHandler {
	return &OpportunityHandler{service: service}
}

// opportunityResponse は機会のレスポンス。
type opportunityResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"` // サニタイズ済みHTML
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetOpportunity は機会詳細を取得する。
// GET /api/opportunities/:id
func (h *OpportunityHandler) GetOpportunity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	opp, err := h.service.GetOpportunity(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOpportunityResponse(opp))
}

// ListByArea はエリア内の機会一覧を取得する。
// GET /api/areas/:id/opportunities
func (h *OpportunityHandler) ListByArea(w http.ResponseWriter, r *http.Request) {
	areaID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	opps, err := h.service.ListByArea(r.Context(), areaID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]opportunityResponse, len(opps))
	for i := range opps {
		out[i] = toOpportunityResponse(&opps[i])
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"opportunities": out,
	})
}

func toOpportunityResponse(opp *model.Opportunity) opportunityResponse {
	return opportunityResponse{
		ID:          opp.ID,
		Title:       opp.Title,
		Description: opp.Description,
		Company:     opp.Company,
		Location:    opp.Location,
		URL:         opp.URL,
		CreatedAt:   opp.CreatedAt,
	}
}
