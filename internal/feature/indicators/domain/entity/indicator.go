// Package entity defines the domain models for the indicators feature.
package entity

import "time"

// MACD holds the three MACD lines, index-aligned with each other.
type MACD struct {
	DIF       []float64 `json:"DIF"`  // EMA(fast) - EMA(slow)
	DEA       []float64 `json:"DEA"`  // signal line, EMA of DIF
	Histogram []float64 `json:"MACD"` // DIF - DEA
}

// Series holds indicator values computed over a close sequence.
// Each slice contains only defined values; element i of a series belongs to
// candle index i+offset, where offset is the series' warm-up length.
type Series struct {
	SMA  []float64 `json:"sma"`
	EMA  []float64 `json:"ema"`
	RSI  []float64 `json:"rsi"`
	MACD MACD      `json:"macd"`
}

// Offsets returns the warm-up offset of every series for an input of n closes.
func (s Series) Offsets(n int) Offsets {
	return Offsets{
		SMA:  n - len(s.SMA),
		EMA:  n - len(s.EMA),
		RSI:  n - len(s.RSI),
		MACD: n - len(s.MACD.DIF),
	}
}

// Offsets are the per-indicator warm-up offsets.
type Offsets struct {
	SMA  int
	EMA  int
	RSI  int
	MACD int
}

// Max returns the earliest candle index at which every indicator is defined.
func (o Offsets) Max() int {
	return max(o.SMA, o.EMA, o.RSI, o.MACD)
}

// DatasetMetadata describes how an AlignedDataset was cut.
type DatasetMetadata struct {
	FetchedCandles  int       `json:"fetchedCandles"`
	ReturnedCandles int       `json:"returnedCandles"`
	ValidStartIndex int       `json:"validStartIndex"`
	UpdateTime      time.Time `json:"updateTime"`
}

// AlignedDataset is a window of candles where every row has a value for every indicator.
type AlignedDataset struct {
	Timestamps []int64         `json:"timestamps"` // candle open time, unix milliseconds
	Opens      []float64       `json:"opens"`
	Highs      []float64       `json:"highs"`
	Lows       []float64       `json:"lows"`
	Closes     []float64       `json:"closes"`
	Volumes    []float64       `json:"volumes"`
	Indicators Series          `json:"indicators"`
	Metadata   DatasetMetadata `json:"metadata"`
}

// Len returns the number of aligned rows.
func (d AlignedDataset) Len() int {
	return len(d.Closes)
}

// LastClose returns the most recent close, or false when the dataset is empty.
func (d AlignedDataset) LastClose() (float64, bool) {
	if len(d.Closes) == 0 {
		return 0, false
	}
	return d.Closes[len(d.Closes)-1], true
}

// LastRSI returns the most recent RSI value, or false when the dataset is empty.
func (d AlignedDataset) LastRSI() (float64, bool) {
	if len(d.Indicators.RSI) == 0 {
		return 0, false
	}
	return d.Indicators.RSI[len(d.Indicators.RSI)-1], true
}

// TimeframeResult is the outcome of one timeframe of a multi-timeframe fetch.
// Exactly one of Dataset and Err is set.
type TimeframeResult struct {
	Timeframe string
	Dataset   *AlignedDataset
	Err       error
}

// Snapshot is the indicator view of one symbol across all configured timeframes.
type Snapshot struct {
	Coin       string
	Symbol     string
	Timeframes []TimeframeResult
	UpdateTime time.Time
}

// Dataset returns the dataset of timeframe tf when it was fetched successfully.
func (s *Snapshot) Dataset(tf string) (*AlignedDataset, bool) {
	for _, r := range s.Timeframes {
		if r.Timeframe == tf && r.Err == nil && r.Dataset != nil {
			return r.Dataset, true
		}
	}
	return nil, false
}

// Available lists the timeframes that produced a dataset.
func (s *Snapshot) Available() []string {
	out := make([]string, 0, len(s.Timeframes))
	for _, r := range s.Timeframes {
		if r.Err == nil {
			out = append(out, r.Timeframe)
		}
	}
	return out
}
