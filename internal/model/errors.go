// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, board, conflict, system
	Action   string // ユーザー向け対処方法

	cause error // 元エラー。ログ専用で、レスポンスには含めない。
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap は元エラーを返す。ストレージ障害の原因をログに残すために使う。
func (e *APIError) Unwrap() error {
	return e.cause
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeDuplicateEmail      = "DUPLICATE_EMAIL"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeOpportunityNotFound = "OPPORTUNITY_NOT_FOUND"
	ErrCodeAreaNotFound        = "AREA_NOT_FOUND"
	ErrCodeInterestNotFound    = "INTEREST_NOT_FOUND"
	ErrCodeNotOnBoard          = "NOT_ON_BOARD"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeEmptyAreaSelection  = "EMPTY_AREA_SELECTION"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeStorageFailure      = "STORAGE_FAILURE"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// メールアドレス未登録とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "conflict",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewOpportunityNotFoundError は機会未検出エラーを生成する。
func NewOpportunityNotFoundError(opportunityID int64) *APIError {
	return &APIError{
		Code:     ErrCodeOpportunityNotFound,
		Message:  fmt.Sprintf("指定された機会が見つかりません: %d", opportunityID),
		Category: "board",
		Action:   "機会IDを確認してください。",
	}
}

// NewAreaNotFoundError は分野未検出エラーを生成する。
// 一括登録で個別の分野を特定できない場合はareaIDに0を渡す。
func NewAreaNotFoundError(areaID int64) *APIError {
	msg := "指定された分野が見つかりません。"
	if areaID > 0 {
		msg = fmt.Sprintf("指定された分野が見つかりません: %d", areaID)
	}
	return &APIError{
		Code:     ErrCodeAreaNotFound,
		Message:  msg,
		Category: "validation",
		Action:   "分野IDを確認してください。",
	}
}

// NewInterestNotFoundError は興味分野の登録が見つからない場合のエラーを生成する。
func NewInterestNotFoundError(areaID int64) *APIError {
	return &APIError{
		Code:     ErrCodeInterestNotFound,
		Message:  fmt.Sprintf("この分野は興味として登録されていません: %d", areaID),
		Category: "validation",
		Action:   "登録済みの興味分野を確認してください。",
	}
}

// NewNotOnBoardError はボードに存在しない機会への状態変更エラーを生成する。
// 行を新規作成せず、not-foundとして呼び出し元に返す。
func NewNotOnBoardError(opportunityID int64) *APIError {
	return &APIError{
		Code:     ErrCodeNotOnBoard,
		Message:  fmt.Sprintf("この機会はボードに追加されていません: %d", opportunityID),
		Category: "board",
		Action:   "先に機会をボードに追加してください。",
	}
}

// NewInvalidStateError は閉じた列挙に含まれない状態文字列のエラーを生成する。
func NewInvalidStateError(state string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidState,
		Message:  fmt.Sprintf("無効な状態です: %s", state),
		Category: "validation",
		Action:   "状態には a-fazer、fazendo、feito のいずれかを指定してください。",
	}
}

// NewEmptyAreaSelectionError は空の分野選択エラーを生成する。
func NewEmptyAreaSelectionError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyAreaSelection,
		Message:  "興味分野が選択されていません。",
		Category: "validation",
		Action:   "1つ以上の分野を選択してください。",
	}
}

// NewMissingFieldError は必須入力欠落エラーを生成する。
func NewMissingFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingField,
		Message:  fmt.Sprintf("必須項目が入力されていません: %s", field),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewStorageError はストレージ障害エラーを生成する。
// ドライバの生エラーはcauseとしてログにのみ残し、正規化したメッセージを返す。
func NewStorageError(op string, cause error) *APIError {
	return &APIError{
		Code:     ErrCodeStorageFailure,
		Message:  fmt.Sprintf("データベース操作に失敗しました: %s", op),
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
		cause:    cause,
	}
}
