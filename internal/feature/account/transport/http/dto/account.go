// Package dto はaccountフィーチャーのレスポンス型を定義します。
package dto

import domain "crypto_backend/internal/domain/entity"

// AccountResponse は GET /account のレスポンスボディです。
type AccountResponse struct {
	Account   domain.AccountSnapshot `json:"account"`
	Positions []domain.Position      `json:"positions"`
	Timestamp string                 `json:"timestamp"`
}
