// Package model はドメインモデルを定義する。
package model

import "time"

// Area は興味分野を表す。OpportunityおよびUserと多対多の関係を持つ。
type Area struct {
	ID    int64
	Title string
}

// Opportunity は学生に提示される機会（インターン、研究、イベント等）を表す。
// カンバンの観点からは読み取り専用。
type Opportunity struct {
	ID          int64
	Title       string
	Description string // サニタイズ済みHTML
	Company     string
	Location    string
	URL         string
	CreatedAt   time.Time
}

// OpportunityState はカンバンボード上のカードの状態を表す。
// 遷移グラフは定義しない。どの状態からどの状態へも移動できる。
type OpportunityState string

const (
	// StateToDo は「これから取り組む」列を表す。
	StateToDo OpportunityState = "a-fazer"
	// StateDoing は「取り組み中」列を表す。
	StateDoing OpportunityState = "fazendo"
	// StateDone は「完了」列を表す。
	StateDone OpportunityState = "feito"
)

// Valid は閉じた列挙に含まれる状態かどうかを判定する。
// 未知の文字列はDBに到達する前に境界で弾く。
func (s OpportunityState) Valid() bool {
	switch s {
	case StateToDo, StateDoing, StateDone:
		return true
	default:
		return false
	}
}

// BoardStates はボード描画時に読む3つの状態を列の表示順で返す。
func BoardStates() []OpportunityState {
	return []OpportunityState{StateToDo, StateDoing, StateDone}
}

// UserOpportunity は「ユーザーUが機会Oをボードに追加した」関係を表す。
// (UserID, OpportunityID) の組ごとに最大1行。状態のみが可変。
type UserOpportunity struct {
	ID            int64
	UserID        string
	OpportunityID int64
	State         OpportunityState
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BoardCard は機会情報とユーザーごとの状態を結合したモデル。
// users_opportunitiesテーブルとJOINして取得される。
type BoardCard struct {
	Opportunity
	AssociationID int64
	State         OpportunityState
}
