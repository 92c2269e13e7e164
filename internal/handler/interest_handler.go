package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/oportunizando/oportunizando/internal/middleware"
	"github.com/oportunizando/oportunizando/internal/model"
)

// InterestServiceInterface は興味エリアハンドラーが必要とするサービスインターフェース。
type InterestServiceInterface interface {
	// Select はユーザーの興味エリアを一括登録し、新規登録件数を返す。
	Select(ctx context.Context, userID string, areaIDs []int64) (int, error)
	// Remove はユーザーの興味エリアを1件削除する。
	Remove(ctx context.Context, userID string, areaID int64) error
	// ListAll は全エリアを返す。
	ListAll(ctx context.Context) ([]model.Area, error)
	// ListByUser はユーザーの興味エリア一覧を返す。
	ListByUser(ctx context.Context, userID string) ([]model.Area, error)
	// SearchByTitle はタイトルの部分一致でエリアを検索する。
	SearchByTitle(ctx context.Context, title string) ([]model.Area, error)
}

// InterestHandler は興味エリアのHTTPハンドラー。
type InterestHandler struct {
	service InterestServiceInterface
}

// NewInterestHandler はInterestHandlerを生成する。
func NewInterestHandler(service InterestServiceInterface) *InterestHandler {
	return &InterestHandler{service: service}
}

// --- リクエスト/レスポンス型 ---

type areaResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type selectInterestsRequest struct {
	AreaIDs []int64 `json:"area_ids"`
}

type selectInterestsResponse struct {
	Inserted int `json:"inserted"`
}

// ListAreas は全エリアを返す。title クエリで部分一致検索する。
// GET /api/areas?title=xxx
func (h *InterestHandler) ListAreas(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	var (
		areas []model.Area
		err   error
	)
	if title != "" {
		areas, err = h.service.SearchByTitle(r.Context(), title)
	} else {
		areas, err = h.service.ListAll(r.Context())
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeAreaList(w, areas)
}

// ListInterests はユーザーの興味エリア一覧を返す。
// GET /api/interests
func (h *InterestHandler) ListInterests(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	areas, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeAreaList(w, areas)
}

// SelectInterests は興味エリアを一括登録する。
// POST /api/interests
func (h *InterestHandler) SelectInterests(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req selectInterestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	inserted, err := h.service.Select(r.Context(), userID, req.AreaIDs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(selectInterestsResponse{Inserted: inserted})
}

// RemoveInterest は興味エリアを1件削除する。
// DELETE /api/interests/:areaID
func (h *InterestHandler) RemoveInterest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	areaID, ok := parseIDParam(w, r, "areaID")
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), userID, areaID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeAreaList はエリアの配列をJSONで書き込む。空でも配列を返す。
func writeAreaList(w http.ResponseWriter, areas []model.Area) {
	out := make([]areaResponse, len(areas))
	for i, a := range areas {
		out[i] = areaResponse{ID: a.ID, Title: a.Title}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"areas": out,
	})
}
