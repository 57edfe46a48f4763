package usecase_test

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/trading/domain/entity"
	"errors"
	"fmt"
	"sync"
)

// mockGateway はFuturesGatewayとPositionsReaderのモック実装です。
// callsには呼び出し順が記録されます。
type mockGateway struct {
	mu    sync.Mutex
	calls []string

	ReadyFunc            func() error
	AccountFunc          func(ctx context.Context) (domain.AccountSnapshot, error)
	PositionRiskFunc     func(ctx context.Context, symbol string) ([]domain.Position, error)
	OpenOrdersFunc       func(ctx context.Context, symbol string) ([]domain.Order, error)
	PlaceOrderFunc       func(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
	CancelOrderFunc      func(ctx context.Context, symbol string, orderID int64) (domain.Order, error)
	CancelAllOrdersFunc  func(ctx context.Context, symbol string) error
	ChangeLeverageFunc   func(ctx context.Context, symbol string, leverage int) (domain.Leverage, error)
	PlaceBatchOrdersFunc func(ctx context.Context, reqs []domain.OrderRequest) (domain.BatchResult, error)
	RecentTradesFunc     func(ctx context.Context, symbol string, limit int) ([]domain.Trade, error)
	LeverageBracketsFunc func(ctx context.Context, symbol string) (domain.LeverageInfo, error)

	placed []domain.OrderRequest
}

var errNotImplemented = errors.New("not implemented")

func (m *mockGateway) log(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

func (m *mockGateway) Ready() error {
	if m.ReadyFunc != nil {
		return m.ReadyFunc()
	}
	return nil
}

func (m *mockGateway) Account(ctx context.Context) (domain.AccountSnapshot, error) {
	m.log("account")
	if m.AccountFunc != nil {
		return m.AccountFunc(ctx)
	}
	return domain.AccountSnapshot{}, errNotImplemented
}

func (m *mockGateway) PositionRisk(ctx context.Context, symbol string) ([]domain.Position, error) {
	m.log("positionRisk %s", symbol)
	if m.PositionRiskFunc != nil {
		return m.PositionRiskFunc(ctx, symbol)
	}
	return nil, errNotImplemented
}

func (m *mockGateway) OpenOrders(ctx context.Context, symbol string) ([]domain.Order, error) {
	m.log("openOrders %s", symbol)
	if m.OpenOrdersFunc != nil {
		return m.OpenOrdersFunc(ctx, symbol)
	}
	return nil, errNotImplemented
}

func (m *mockGateway) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	m.log("placeOrder %s %s", req.Type, req.Side)
	m.mu.Lock()
	m.placed = append(m.placed, req)
	id := int64(len(m.placed))
	m.mu.Unlock()
	if m.PlaceOrderFunc != nil {
		return m.PlaceOrderFunc(ctx, req)
	}
	return domain.Order{OrderID: id, Symbol: req.Symbol, Side: req.Side, Type: req.Type, Status: "NEW"}, nil
}

func (m *mockGateway) CancelOrder(ctx context.Context, symbol string, orderID int64) (domain.Order, error) {
	m.log("cancelOrder %d", orderID)
	if m.CancelOrderFunc != nil {
		return m.CancelOrderFunc(ctx, symbol, orderID)
	}
	return domain.Order{OrderID: orderID, Symbol: symbol, Status: "CANCELED"}, nil
}

func (m *mockGateway) CancelAllOrders(ctx context.Context, symbol string) error {
	m.log("cancelAllOrders %s", symbol)
	if m.CancelAllOrdersFunc != nil {
		return m.CancelAllOrdersFunc(ctx, symbol)
	}
	return nil
}

func (m *mockGateway) ChangeLeverage(ctx context.Context, symbol string, leverage int) (domain.Leverage, error) {
	m.log("changeLeverage %d", leverage)
	if m.ChangeLeverageFunc != nil {
		return m.ChangeLeverageFunc(ctx, symbol, leverage)
	}
	return domain.Leverage{Symbol: symbol, Leverage: leverage}, nil
}

func (m *mockGateway) PlaceBatchOrders(ctx context.Context, reqs []domain.OrderRequest) (domain.BatchResult, error) {
	m.log("placeBatchOrders %d", len(reqs))
	if m.PlaceBatchOrdersFunc != nil {
		return m.PlaceBatchOrdersFunc(ctx, reqs)
	}
	return domain.BatchResult{}, errNotImplemented
}

func (m *mockGateway) RecentTrades(ctx context.Context, symbol string, limit int) ([]domain.Trade, error) {
	m.log("recentTrades %s %d", symbol, limit)
	if m.RecentTradesFunc != nil {
		return m.RecentTradesFunc(ctx, symbol, limit)
	}
	return nil, errNotImplemented
}

func (m *mockGateway) LeverageBrackets(ctx context.Context, symbol string) (domain.LeverageInfo, error) {
	m.log("leverageBrackets %s", symbol)
	if m.LeverageBracketsFunc != nil {
		return m.LeverageBracketsFunc(ctx, symbol)
	}
	return domain.LeverageInfo{}, errNotImplemented
}

// withPosition は指定数量のポジションを返すPositionRiskFuncを生成します。
func withPosition(symbol, amt string, side domain.PositionSide) func(ctx context.Context, s string) ([]domain.Position, error) {
	return func(ctx context.Context, s string) ([]domain.Position, error) {
		return []domain.Position{{Symbol: symbol, PositionAmt: dec(amt), PositionSide: side}}, nil
	}
}

// mockJournal はJournalRepositoryのモック実装です。
type mockJournal struct {
	entries   []entity.JournalEntry
	RecordErr error
}

func (m *mockJournal) Record(ctx context.Context, e *entity.JournalEntry) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	e.ID = uint(len(m.entries) + 1)
	m.entries = append(m.entries, *e)
	return nil
}

func (m *mockJournal) Recent(ctx context.Context, symbol string, limit int) ([]entity.JournalEntry, error) {
	return m.entries, nil
}

// mockObserver はDispatchObserverのモック実装です。
type mockObserver struct {
	events []string
}

func (m *mockObserver) ObserveDispatch(action, outcome string) {
	m.events = append(m.events, action+":"+outcome)
}
