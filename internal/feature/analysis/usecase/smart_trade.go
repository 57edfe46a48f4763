package usecase

import (
	"context"
	"crypto_backend/internal/feature/analysis/domain/entity"
	trading "crypto_backend/internal/feature/trading/domain/entity"
	tradeusecase "crypto_backend/internal/feature/trading/usecase"
	"log/slog"

	"github.com/shopspring/decimal"
)

// SmartTrade asks the model for instruction lines and, when autoExecute is set,
// executes them one after another through the simple trade actions. Each
// instruction's outcome is recorded on its own.
func (u *AnalysisUsecase) SmartTrade(ctx context.Context, coin string, autoExecute bool) (*entity.SmartTrade, error) {
	coin, symbol, err := u.indicators.ResolveSymbol(coin)
	if err != nil {
		return nil, err
	}
	snap, err := u.snapshot(ctx, coin)
	if err != nil {
		return nil, err
	}

	positions := "[]"
	if overview, err := u.account.Overview(ctx); err != nil {
		slog.Warn("smart trade: account unavailable", "symbol", symbol, "error", err)
	} else {
		positions = indentJSON(overview.Positions)
	}

	text, err := u.generate(ctx, "smart_trade.tmpl", map[string]any{
		"TechnicalData": technicalJSON(snap),
		"Positions":     positions,
	}, traderSystem, 0.7, 2000)
	if err != nil {
		return nil, err
	}

	st := &entity.SmartTrade{
		Coin:         coin,
		Symbol:       symbol,
		Text:         text,
		Instructions: ParseInstructions(text, u.settings.QuoteAsset),
		AutoExecute:  autoExecute,
	}
	if autoExecute {
		st.Executed = make([]entity.ExecutedInstruction, 0, len(st.Instructions))
		for _, in := range st.Instructions {
			st.Executed = append(st.Executed, u.executeInstruction(ctx, in))
		}
	}
	st.Time = u.now()
	return st, nil
}

func (u *AnalysisUsecase) executeInstruction(ctx context.Context, in entity.Instruction) entity.ExecutedInstruction {
	p := tradeusecase.Params{
		Action:    string(in.Action),
		Symbol:    in.Symbol,
		Quantity:  nullDecimal(in.Quantity),
		Price:     nullDecimal(in.Price),
		StopPrice: nullDecimal(in.StopPrice),
		OrderType: "MARKET",
	}
	if p.Price.Valid {
		p.OrderType = "LIMIT"
	}

	res, err := u.runParams(ctx, p, trading.SimpleKinds, trading.SourceSmartTrade)
	if err != nil {
		slog.Warn("smart trade instruction failed", "action", in.Action, "symbol", in.Symbol, "error", err)
		return entity.ExecutedInstruction{Instruction: in, Error: err.Error()}
	}
	return entity.ExecutedInstruction{Instruction: in, Result: res}
}

func nullDecimal(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
