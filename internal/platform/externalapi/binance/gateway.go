package binance

import (
	account "crypto_backend/internal/feature/account/usecase"
	trading "crypto_backend/internal/feature/trading/usecase"
)

var (
	_ trading.FuturesGateway  = (*Client)(nil)
	_ trading.PositionsReader = (*Client)(nil)
	_ account.AccountReader   = (*Client)(nil)
)
