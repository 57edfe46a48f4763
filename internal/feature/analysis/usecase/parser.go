package usecase

import (
	"crypto_backend/internal/feature/analysis/domain/entity"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// decisionWire is the JSON shape the model is asked to return.
// Numbers are accepted as JSON numbers or strings.
type decisionWire struct {
	Action     string          `json:"action"`
	Quantity   optionalDecimal `json:"quantity"`
	Price      optionalDecimal `json:"price"`
	OrderType  string          `json:"orderType"`
	StopLoss   optionalDecimal `json:"stopLoss"`
	TakeProfit optionalDecimal `json:"takeProfit"`
	Reason     string          `json:"reason"`
	Confidence optionalDecimal `json:"confidence"`
}

// optionalDecimal is a NullDecimal that also reads a blank string as absent.
type optionalDecimal decimal.NullDecimal

func (o *optionalDecimal) UnmarshalJSON(data []byte) error {
	if s, err := strconv.Unquote(string(data)); err == nil && strings.TrimSpace(s) == "" {
		*o = optionalDecimal{}
		return nil
	}
	return (*decimal.NullDecimal)(o).UnmarshalJSON(data)
}

// ParseDecision extracts the first balanced JSON object from text and reads it as a
// TradeDecision. It never panics; failures are reported through the result variant.
func ParseDecision(text string) entity.ParseResult {
	obj, ok := firstJSONObject(text)
	if !ok {
		return entity.NoDecisionFound{Raw: text}
	}

	var w decisionWire
	if err := json.Unmarshal([]byte(obj), &w); err != nil {
		return entity.ParseError{Raw: text, Reason: err.Error()}
	}

	d, err := w.decision()
	if err != nil {
		return entity.ParseError{Raw: text, Reason: err.Error()}
	}
	return entity.Decision{Decision: d}
}

func (w decisionWire) decision() (entity.TradeDecision, error) {
	action := entity.DecisionAction(strings.ToLower(strings.TrimSpace(w.Action)))
	if !action.Valid() {
		return entity.TradeDecision{}, fmt.Errorf("unknown action %q", w.Action)
	}

	orderType := strings.ToUpper(strings.TrimSpace(w.OrderType))
	switch orderType {
	case "":
		orderType = "MARKET"
	case "MARKET", "LIMIT":
	default:
		return entity.TradeDecision{}, fmt.Errorf("unsupported orderType %q", w.OrderType)
	}

	var confidence float64
	if w.Confidence.Valid {
		confidence = w.Confidence.Decimal.InexactFloat64()
	}
	if confidence < 0 || confidence > 1 {
		return entity.TradeDecision{}, fmt.Errorf("confidence %v out of range [0,1]", confidence)
	}

	return entity.TradeDecision{
		Action:     action,
		Quantity:   decimal.NullDecimal(w.Quantity),
		Price:      decimal.NullDecimal(w.Price),
		OrderType:  orderType,
		StopLoss:   decimal.NullDecimal(w.StopLoss),
		TakeProfit: decimal.NullDecimal(w.TakeProfit),
		Reason:     w.Reason,
		Confidence: confidence,
	}, nil
}

// firstJSONObject returns the first balanced {...} substring of s.
// Braces inside JSON strings, including escaped quotes, are ignored.
func firstJSONObject(s string) (string, bool) {
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if end, ok := matchBrace(s, start); ok {
			return s[start : end+1], true
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchBrace returns the index of the brace closing the one at s[start].
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
