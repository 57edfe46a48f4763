// Package engine computes technical indicators over close prices and aligns
// them with the candle window they were computed from.
package engine

import (
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/indicators/domain/entity"

	"github.com/markcheno/go-talib"
)

const (
	// DefaultPeriod is the period of SMA, EMA and RSI.
	DefaultPeriod = 14
	// DefaultMACDFast is the fast EMA period of MACD.
	DefaultMACDFast = 12
	// DefaultMACDSlow is the slow EMA period of MACD.
	DefaultMACDSlow = 26
	// DefaultMACDSignal is the signal EMA period of MACD.
	DefaultMACDSignal = 9
)

// Params configures the indicator periods.
type Params struct {
	Period     int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

// DefaultParams returns the 14 / 12-26-9 configuration.
func DefaultParams() Params {
	return Params{
		Period:     DefaultPeriod,
		MACDFast:   DefaultMACDFast,
		MACDSlow:   DefaultMACDSlow,
		MACDSignal: DefaultMACDSignal,
	}
}

// Compute calculates SMA, EMA, RSI and MACD independently over closes.
// Inputs shorter than an indicator's warm-up produce an empty series for it.
func Compute(closes []float64, p Params) entity.Series {
	return entity.Series{
		SMA:  sma(closes, p.Period),
		EMA:  ema(closes, p.Period),
		RSI:  rsi(closes, p.Period),
		MACD: macd(closes, p.MACDFast, p.MACDSlow, p.MACDSignal),
	}
}

// AlignAndTrim cuts candles and series down to the most recent maxRows rows
// at which every indicator has a value. It never fails: when the candles do
// not cover the slowest warm-up, the dataset is empty.
func AlignAndTrim(candles []domain.Candle, s entity.Series, maxRows int) entity.AlignedDataset {
	n := len(candles)
	off := s.Offsets(n)
	validStart := off.Max()

	ds := entity.AlignedDataset{
		Timestamps: []int64{},
		Opens:      []float64{},
		Highs:      []float64{},
		Lows:       []float64{},
		Closes:     []float64{},
		Volumes:    []float64{},
		Indicators: entity.Series{
			SMA:  []float64{},
			EMA:  []float64{},
			RSI:  []float64{},
			MACD: entity.MACD{DIF: []float64{}, DEA: []float64{}, Histogram: []float64{}},
		},
		Metadata: entity.DatasetMetadata{
			FetchedCandles:  n,
			ValidStartIndex: validStart,
		},
	}

	returnCount := min(maxRows, n-validStart)
	if returnCount <= 0 {
		return ds
	}
	sliceStart := max(validStart, n-returnCount)

	for _, c := range candles[sliceStart:] {
		ds.Timestamps = append(ds.Timestamps, c.OpenTime.UnixMilli())
		ds.Opens = append(ds.Opens, c.Open)
		ds.Highs = append(ds.Highs, c.High)
		ds.Lows = append(ds.Lows, c.Low)
		ds.Closes = append(ds.Closes, c.Close)
		ds.Volumes = append(ds.Volumes, c.Volume)
	}

	ds.Indicators = entity.Series{
		SMA: tail(s.SMA, sliceStart-off.SMA),
		EMA: tail(s.EMA, sliceStart-off.EMA),
		RSI: tail(s.RSI, sliceStart-off.RSI),
		MACD: entity.MACD{
			DIF:       tail(s.MACD.DIF, sliceStart-off.MACD),
			DEA:       tail(s.MACD.DEA, sliceStart-off.MACD),
			Histogram: tail(s.MACD.Histogram, sliceStart-off.MACD),
		},
	}
	ds.Metadata.ReturnedCandles = returnCount

	return ds
}

// talib writes full-length outputs with zeros in the warm-up region and
// indexes out of range on short inputs, so every call is guarded by its lookback.

func sma(in []float64, period int) []float64 {
	if period < 1 || len(in) < period {
		return []float64{}
	}
	return tail(talib.Sma(in, period), period-1)
}

func ema(in []float64, period int) []float64 {
	if period < 1 || len(in) < period {
		return []float64{}
	}
	return tail(talib.Ema(in, period), period-1)
}

func rsi(in []float64, period int) []float64 {
	if period < 2 || len(in) <= period {
		return []float64{}
	}
	return tail(talib.Rsi(in, period), period)
}

// macd builds DIF from the two EMAs where both are defined and runs the
// signal EMA over those DIF values only.
func macd(in []float64, fast, slow, signal int) entity.MACD {
	empty := entity.MACD{DIF: []float64{}, DEA: []float64{}, Histogram: []float64{}}
	if fast > slow {
		fast, slow = slow, fast
	}
	if fast < 1 || signal < 1 || len(in) < slow+signal-1 {
		return empty
	}

	fastEMA := talib.Ema(in, fast)
	slowEMA := talib.Ema(in, slow)

	dif := make([]float64, 0, len(in)-slow+1)
	for i := slow - 1; i < len(in); i++ {
		dif = append(dif, fastEMA[i]-slowEMA[i])
	}

	dea := tail(talib.Ema(dif, signal), signal-1)
	dif = tail(dif, signal-1)

	hist := make([]float64, len(dea))
	for i := range dea {
		hist[i] = dif[i] - dea[i]
	}
	return entity.MACD{DIF: dif, DEA: dea, Histogram: hist}
}

// tail copies xs[from:], returning an empty slice when from is past the end.
func tail(xs []float64, from int) []float64 {
	if from < 0 {
		from = 0
	}
	if from >= len(xs) {
		return []float64{}
	}
	out := make([]float64, len(xs)-from)
	copy(out, xs[from:])
	return out
}
