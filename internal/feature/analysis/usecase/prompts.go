package usecase

import (
	"bytes"
	indicators "crypto_backend/internal/feature/indicators/domain/entity"
	"embed"
	"encoding/json"
	"fmt"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var promptTemplates = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

// System instructions per analysis mode.
const (
	traderSystem  = "你是一个专业的加密货币交易AI，擅长自动交易决策和风险管理。请基于市场数据做出精确的交易决策。"
	analystSystem = "你是一个专业的加密货币交易分析师，擅长技术指标分析和市场趋势判断。请用中文回答，保持专业、客观。"
)

func renderPrompt(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

// technicalJSON renders a snapshot the way POST /indicators reports it.
func technicalJSON(s *indicators.Snapshot) string {
	data := make(map[string]any, len(s.Timeframes))
	for _, r := range s.Timeframes {
		if r.Err != nil {
			data[r.Timeframe] = map[string]string{"error": r.Err.Error()}
			continue
		}
		data[r.Timeframe] = r.Dataset
	}
	return indentJSON(map[string]any{"symbol": s.Symbol, "data": data})
}

// latestValues keeps the most recent row of the first n available timeframes.
func latestValues(s *indicators.Snapshot, n int) string {
	type row struct {
		Close  float64  `json:"close"`
		Volume float64  `json:"volume"`
		RSI    *float64 `json:"rsi,omitempty"`
		SMA    *float64 `json:"sma,omitempty"`
		EMA    *float64 `json:"ema,omitempty"`
	}
	last := func(xs []float64) *float64 {
		if len(xs) == 0 {
			return nil
		}
		return &xs[len(xs)-1]
	}

	latest := make(map[string]row)
	tfs := make([]string, 0, n)
	for _, r := range s.Timeframes {
		if len(tfs) == n {
			break
		}
		if r.Err != nil || r.Dataset == nil || r.Dataset.Len() == 0 {
			continue
		}
		d := r.Dataset
		i := d.Len() - 1
		tfs = append(tfs, r.Timeframe)
		latest[r.Timeframe] = row{
			Close:  d.Closes[i],
			Volume: d.Volumes[i],
			RSI:    last(d.Indicators.RSI),
			SMA:    last(d.Indicators.SMA),
			EMA:    last(d.Indicators.EMA),
		}
	}
	return indentJSON(map[string]any{"symbol": s.Symbol, "timeframes": tfs, "latestData": latest})
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
