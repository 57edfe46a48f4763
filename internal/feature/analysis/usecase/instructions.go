package usecase

import (
	"crypto_backend/internal/feature/analysis/domain/entity"
	trading "crypto_backend/internal/feature/trading/domain/entity"
	"regexp"
	"sort"
	"strings"
)

// instructionPattern matches one kind of order line. Group 1 is the coin, group 2 the
// quantity or trigger price and, for orders, group 3 an optional limit price.
type instructionPattern struct {
	kind  trading.ActionKind
	re    *regexp.Regexp
	order bool
}

var instructionPatterns = []instructionPattern{
	{kind: trading.KindBuy, re: regexp.MustCompile(`(?i)买入\s*(\w+)\s*(\d+\.?\d*)(?:\s*价格(\d+\.?\d*))?`), order: true},
	{kind: trading.KindSell, re: regexp.MustCompile(`(?i)卖出\s*(\w+)\s*(\d+\.?\d*)(?:\s*价格(\d+\.?\d*))?`), order: true},
	{kind: trading.KindSetStopLoss, re: regexp.MustCompile(`(?i)止损\s*(\w+)\s*(\d+\.?\d*)`)},
	{kind: trading.KindSetTakeProfit, re: regexp.MustCompile(`(?i)止盈\s*(\w+)\s*(\d+\.?\d*)`)},
}

// ParseInstructions collects every order line in text, in the order they appear.
// Coins are upper-cased and suffixed with quoteAsset unless already quoted in it.
func ParseInstructions(text, quoteAsset string) []entity.Instruction {
	type hit struct {
		pos int
		in  entity.Instruction
	}

	out := []entity.Instruction{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var hits []hit
		for _, p := range instructionPatterns {
			for _, m := range p.re.FindAllStringSubmatchIndex(line, -1) {
				hits = append(hits, hit{pos: m[0], in: p.instruction(line, m, quoteAsset)})
			}
		}
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
		for _, h := range hits {
			out = append(out, h.in)
		}
	}
	return out
}

func (p instructionPattern) instruction(line string, m []int, quoteAsset string) entity.Instruction {
	group := func(n int) string {
		if m[2*n] < 0 {
			return ""
		}
		return line[m[2*n]:m[2*n+1]]
	}

	symbol := strings.ToUpper(group(1))
	if !strings.HasSuffix(symbol, quoteAsset) {
		symbol += quoteAsset
	}
	in := entity.Instruction{Action: p.kind, Symbol: symbol}
	if p.order {
		in.Quantity = group(2)
		in.Price = group(3)
	} else {
		in.StopPrice = group(2)
	}
	return in
}
