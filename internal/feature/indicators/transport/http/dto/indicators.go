// Package dto はindicatorsフィーチャーのリクエスト/レスポンス型を定義します。
package dto

import (
	"crypto_backend/internal/feature/indicators/domain/entity"
	"crypto_backend/internal/shared/timeutil"
	"time"
)

// IndicatorsRequest は POST /indicators のリクエストボディです。
type IndicatorsRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// TimeframeError は取得に失敗した時間足のスロットに入るエラーマーカーです。
type TimeframeError struct {
	Error string `json:"error"`
}

// IndicatorsMetadata はスナップショット全体の付帯情報です。
type IndicatorsMetadata struct {
	Coin              string   `json:"coin"`
	Timeframes        []string `json:"timeframes"`
	Available         []string `json:"available"`
	UpdateTime        string   `json:"updateTime"`
	UpdateTimeBeijing string   `json:"updateTimeBeijing"`
}

// IndicatorsResponse は POST /indicators のレスポンスボディです。
// Dataの値は *entity.AlignedDataset または TimeframeError です。
type IndicatorsResponse struct {
	Symbol    string             `json:"symbol"`
	Data      map[string]any     `json:"data"`
	Metadata  IndicatorsMetadata `json:"metadata"`
	Timestamp string             `json:"timestamp"`
}

// NewIndicatorsResponse はスナップショットからレスポンスを組み立てます。
func NewIndicatorsResponse(s *entity.Snapshot, now time.Time) IndicatorsResponse {
	data := make(map[string]any, len(s.Timeframes))
	tfs := make([]string, 0, len(s.Timeframes))
	for _, r := range s.Timeframes {
		tfs = append(tfs, r.Timeframe)
		if r.Err != nil {
			data[r.Timeframe] = TimeframeError{Error: r.Err.Error()}
			continue
		}
		data[r.Timeframe] = r.Dataset
	}

	return IndicatorsResponse{
		Symbol: s.Symbol,
		Data:   data,
		Metadata: IndicatorsMetadata{
			Coin:              s.Coin,
			Timeframes:        tfs,
			Available:         s.Available(),
			UpdateTime:        timeutil.FormatISO(s.UpdateTime),
			UpdateTimeBeijing: timeutil.FormatBeijing(s.UpdateTime),
		},
		Timestamp: timeutil.FormatISO(now),
	}
}
