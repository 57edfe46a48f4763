package binance

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/indicators/usecase"
	"fmt"
	"strconv"
	"time"
)

// ClientがKlineRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.KlineRepository = (*Client)(nil)

// Klines はローソク足を古い順に取得します。公開エンドポイントのためAPIキーは不要です。
func (c *Client) Klines(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
	klines, err := c.futures.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, wrap("klines", err)
	}

	candles := make([]domain.Candle, 0, len(klines))
	for _, k := range klines {
		o, err := parseFloat("open", k.Open)
		if err != nil {
			return nil, err
		}
		h, err := parseFloat("high", k.High)
		if err != nil {
			return nil, err
		}
		l, err := parseFloat("low", k.Low)
		if err != nil {
			return nil, err
		}
		cl, err := parseFloat("close", k.Close)
		if err != nil {
			return nil, err
		}
		v, err := parseFloat("volume", k.Volume)
		if err != nil {
			return nil, err
		}
		candles = append(candles, domain.Candle{
			Symbol:    symbol,
			Interval:  interval,
			OpenTime:  time.UnixMilli(k.OpenTime).UTC(),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     cl,
			Volume:    v,
			CloseTime: time.UnixMilli(k.CloseTime).UTC(),
		})
	}
	return candles, nil
}

func parseFloat(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return f, nil
}
