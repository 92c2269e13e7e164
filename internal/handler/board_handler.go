package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oportunizando/oportunizando/internal/board"
	"github.com/oportunizando/oportunizando/internal/middleware"
	"github.com/oportunizando/oportunizando/internal/model"
)

// BoardServiceInterface はボードハンドラーが必要とするサービスインターフェース。
type BoardServiceInterface interface {
	// AddOrReset は機会をボードに追加する。登録済みならa-fazerに戻す。
	AddOrReset(ctx context.Context, userID string, opportunityID int64) (*model.UserOpportunity, error)
	// GetBoard は3列に分類したボード全体を返す。
	GetBoard(ctx context.Context, userID string) (*board.Board, error)
	// Move はボード上の機会の状態を変更する。
	Move(ctx context.Context, userID string, opportunityID int64, state model.OpportunityState) (*model.UserOpportunity, error)
}

// BoardHandler はボード管理のHTTPハンドラー。
type BoardHandler struct {
	service BoardServiceInterface
}

// NewBoardHandler はBoardHandlerを生成する。
func NewBoardHandler(service BoardServiceInterface) *BoardHandler {
	return &BoardHandler{service: service}
}

// --- レスポンス型 ---

// boardCardResponse はボード上の1枚のカードのレスポンス。
type boardCardResponse struct {
	AssociationID int64  `json:"association_id"`
	OpportunityID int64  `json:"opportunity_id"`
	Title         string `json:"title"`
	Company       string `json:"company"`
	Location      string `json:"location"`
	URL           string `json:"url"`
	State         string `json:"state"`
}

// boardResponse はボード全体のレスポンス。3状態の列を固定で持つ。
type boardResponse struct {
	Title string              `json:"title"`
	ToDo  []boardCardResponse `json:"a-fazer"`
	Doing []boardCardResponse `json:"fazendo"`
	Done  []boardCardResponse `json:"feito"`
}

// associationResponse はボード行1件のレスポンス。
type associationResponse struct {
	ID            int64     `json:"id"`
	OpportunityID int64     `json:"opportunity_id"`
	State         string    `json:"state"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// moveRequest は状態変更リクエストのボディ。
type moveRequest struct {
	State string `json:"state"`
}

// GetBoard はユーザーのボード全体を取得する。
// GET /api/board
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	b, err := h.service.GetBoard(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(boardResponse{
		Title: b.Title,
		ToDo:  toCardResponses(b.ToDo),
		Doing: toCardResponses(b.Doing),
		Done:  toCardResponses(b.Done),
	})
}

// AddToBoard は機会をボードに追加する。登録済みの場合はa-fazerに戻す。
// POST /api/opportunities/:id/board
func (h *BoardHandler) AddToBoard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	opportunityID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	row, err := h.service.AddOrReset(r.Context(), userID, opportunityID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toAssociationResponse(row))
}

// Move はボード上の機会の状態を変更する。
// PUT /api/board/:opportunityID/state
func (h *BoardHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	opportunityID, ok := parseIDParam(w, r, "opportunityID")
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	row, err := h.service.Move(r.Context(), userID, opportunityID, model.OpportunityState(req.State))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toAssociationResponse(row))
}

// --- ヘルパー関数 ---

// toCardResponses はボード列をレスポンス形式に変換する。空列は空配列になる。
func toCardResponses(cards []model.BoardCard) []boardCardResponse {
	out := make([]boardCardResponse, len(cards))
	for i, c := range cards {
		out[i] = boardCardResponse{
			AssociationID: c.AssociationID,
			OpportunityID: c.Opportunity.ID,
			Title:         c.Opportunity.Title,
			Company:       c.Opportunity.Company,
			Location:      c.Opportunity.Location,
			URL:           c.Opportunity.URL,
			State:         string(c.State),
		}
	}
	return out
}

// toAssociationResponse はボード行をレスポンス形式に変換する。
func toAssociationResponse(row *model.UserOpportunity) associationResponse {
	return associationResponse{
		ID:            row.ID,
		OpportunityID: row.OpportunityID,
		State:         string(row.State),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

// parseIDParam はURLパラメータを数値IDとして解析する。不正な場合は400を書き込む。
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "IDの形式が正しくありません: " + raw,
			Category: "validation",
			Action:   "正の整数のIDを指定してください。",
		})
		return 0, false
	}
	return id, true
}

// apiErrorResponse は統一エラーフォーマットのレスポンスボディ。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		if statusCode >= 500 {
			// ストレージ障害の原因はレスポンスに出さずログにのみ残す
			slog.Error("service error",
				slog.String("code", apiErr.Code),
				slog.String("error", err.Error()),
			)
		}
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized, model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeDuplicateEmail:
		return http.StatusConflict
	case model.ErrCodeUserNotFound, model.ErrCodeOpportunityNotFound,
		model.ErrCodeAreaNotFound, model.ErrCodeInterestNotFound,
		model.ErrCodeNotOnBoard:
		return http.StatusNotFound
	case model.ErrCodeInvalidState, model.ErrCodeEmptyAreaSelection,
		model.ErrCodeMissingField:
		return http.StatusBadRequest
	case model.ErrCodeStorageFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
