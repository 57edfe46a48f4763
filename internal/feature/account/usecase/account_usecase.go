// Package usecase はaccountフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// AccountReader は取引所の口座情報を読み取ります。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type AccountReader interface {
	Account(ctx context.Context) (domain.AccountSnapshot, error)
	PositionRisk(ctx context.Context, symbol string) ([]domain.Position, error)
}

// AccountUsecase は残高とアクティブなポジションをまとめて返します。
type AccountUsecase struct {
	reader AccountReader
}

// NewAccountUsecase はAccountUsecaseの新しいインスタンスを生成します。
func NewAccountUsecase(reader AccountReader) *AccountUsecase {
	return &AccountUsecase{reader: reader}
}

// Overview は残高とポジションを並行して取得し、建玉のあるポジションのみを返します。
// どちらか一方でも失敗した場合はエラーを返します。
func (u *AccountUsecase) Overview(ctx context.Context) (*domain.AccountOverview, error) {
	var (
		acc       domain.AccountSnapshot
		positions []domain.Position
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := u.reader.Account(gctx)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		acc = a
		return nil
	})
	g.Go(func() error {
		ps, err := u.reader.PositionRisk(gctx, "")
		if err != nil {
			return fmt.Errorf("get positions: %w", err)
		}
		positions = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.AccountOverview{
		Account:   acc,
		Positions: domain.ActivePositions(positions),
	}, nil
}
