// Package gemini はGoogle Gemini APIを使用した市場分析クライアントを提供します。
package gemini

import (
	"context"
	"crypto_backend/internal/feature/analysis/domain/entity"
	"crypto_backend/internal/feature/analysis/usecase"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// GeminiAnalyzer はGoogle Gemini APIを使用して分析テキストを生成します。
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// GeminiAnalyzerがLanguageModelを実装していることをコンパイル時に検証します。
var _ usecase.LanguageModel = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer はGeminiAnalyzerの新しいインスタンスを生成します。
// apiKeyが空の場合はADCを使用し、環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION が必要です。
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string, httpClient *http.Client) (*GeminiAnalyzer, error) {
	var cfg *genai.ClientConfig
	if apiKey != "" {
		cfg = &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI, HTTPClient: httpClient}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

// Model はGeminiのモデル名を返します。
func (g *GeminiAnalyzer) Model() string {
	return g.model
}

// Generate はプロンプトを使用して分析テキストを生成します。
func (g *GeminiAnalyzer) Generate(ctx context.Context, p entity.Prompt) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(p.Temperature)),
		MaxOutputTokens: int32(p.MaxTokens),
	}
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(p.User), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", classify(err))
	}
	return resp.Text(), nil
}

// classify はGemini APIのステータスコードをユースケースのエラーに変換します。
func classify(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", usecase.ErrLLMUnauthorized, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", usecase.ErrLLMRateLimited, apiErr.Message)
	}
	return err
}
