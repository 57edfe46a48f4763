package deepseek

import (
	"bytes"
	"context"
	"crypto_backend/internal/feature/analysis/domain/entity"
	"crypto_backend/internal/feature/analysis/usecase"
	"crypto_backend/internal/platform/externalapi/deepseek/dto"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// ErrMissingAPIKey はDEEPSEEK_KEYが未設定の場合に返されます。
var ErrMissingAPIKey = errors.New("deepseek api key is not configured (DEEPSEEK_KEY)")

// DeepSeekAnalyzer はDeepSeekのチャット補完APIで分析テキストを生成するLanguageModel実装です。
type DeepSeekAnalyzer struct {
	cfg    Config
	client *http.Client
}

// DeepSeekAnalyzerがLanguageModelを実装していることをコンパイル時に検証します。
var _ usecase.LanguageModel = (*DeepSeekAnalyzer)(nil)

// NewDeepSeekAnalyzer は指定された設定とHTTPクライアントでDeepSeekAnalyzerの新しいインスタンスを生成します。
func NewDeepSeekAnalyzer(cfg Config, client *http.Client) *DeepSeekAnalyzer {
	return &DeepSeekAnalyzer{cfg: cfg.withDefaults(), client: client}
}

// Model はチャットモデル名を返します。
func (d *DeepSeekAnalyzer) Model() string {
	return d.cfg.Model
}

// Generate はプロンプトを送信し、最初の候補のテキストを返します。
// 401は usecase.ErrLLMUnauthorized、429は usecase.ErrLLMRateLimited にラップされます。
func (d *DeepSeekAnalyzer) Generate(ctx context.Context, p entity.Prompt) (string, error) {
	if d.cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	messages := make([]dto.Message, 0, 2)
	if p.System != "" {
		messages = append(messages, dto.Message{Role: "system", Content: p.System})
	}
	messages = append(messages, dto.Message{Role: "user", Content: p.User})

	body, err := json.Marshal(dto.ChatCompletionRequest{
		Model:       d.cfg.Model,
		Messages:    messages,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode deepseek request: %w", err)
	}

	u := strings.TrimRight(d.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.cfg.APIKey)

	res, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepseek request: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return "", statusError(res)
	}

	var out dto.ChatCompletionResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode deepseek response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("deepseek returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func statusError(res *http.Response) error {
	msg := http.StatusText(res.StatusCode)
	b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	var e dto.ErrorResponse
	if json.Unmarshal(b, &e) == nil && e.Error.Message != "" {
		msg = e.Error.Message
	}

	switch res.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", usecase.ErrLLMUnauthorized, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", usecase.ErrLLMRateLimited, msg)
	}
	return fmt.Errorf("deepseek http %d: %s", res.StatusCode, msg)
}
