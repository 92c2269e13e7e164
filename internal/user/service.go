// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oportunizando/oportunizando/internal/model"
	"github.com/oportunizando/oportunizando/internal/repository"
)

// InterestDeleter は興味エリアの一括削除インターフェース。
type InterestDeleter interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// BoardDeleter はボード行の一括削除インターフェース。
type BoardDeleter interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// Service はユーザー管理のサービス層。
// 退会処理のビジネスロジックを提供する。
type Service struct {
	userRepo        repository.UserRepository
	sessionRepo     repository.SessionRepository
	interestDeleter InterestDeleter
	boardDeleter    BoardDeleter
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	interestDeleter InterestDeleter,
	boardDeleter BoardDeleter,
) *Service {
	return &Service{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		interestDeleter: interestDeleter,
		boardDeleter:    boardDeleter,
	}
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: users_areas → users_opportunities → sessions → user
// areas と opportunities は共有カタログとして残す。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	// ユーザー存在確認
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("退会処理を開始します",
		slog.String("user_id", userID),
	)

	// 1. 興味エリアを削除
	if s.interestDeleter != nil {
		if err := s.interestDeleter.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("興味エリアの削除に失敗しました: %w", err)
		}
	}

	// 2. ボード行を削除
	if s.boardDeleter != nil {
		if err := s.boardDeleter.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("ボード行の削除に失敗しました: %w", err)
		}
	}

	// 3. セッションを削除
	if s.sessionRepo != nil {
		if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("セッションの削除に失敗しました: %w", err)
		}
	}

	// 4. ユーザーを削除
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.String("user_id", userID),
	)

	return nil
}
