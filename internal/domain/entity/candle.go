// Package entity defines the exchange domain model shared by every feature.
package entity

import "time"

// Candle represents one OHLCV kline of a futures symbol.
type Candle struct {
	Symbol    string    // Futures symbol (e.g., "BTCUSDT")
	Interval  string    // Kline interval (e.g., "15m", "1h")
	OpenTime  time.Time // Start of this candle period
	Open      float64   // Opening price
	High      float64   // Highest price during this period
	Low       float64   // Lowest price during this period
	Close     float64   // Closing price
	Volume    float64   // Base asset volume
	CloseTime time.Time // End of this candle period
}

// Closes extracts the close prices in order.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
