// Package deepseek provides a client for the DeepSeek chat completion API.
package deepseek

import "time"

const (
	// DefaultBaseURL is the OpenAI compatible endpoint of DeepSeek.
	DefaultBaseURL = "https://api.deepseek.com/v1"
	// DefaultModel is the chat model used for analysis.
	DefaultModel = "deepseek-chat"
)

// Config holds configuration for the DeepSeek API client.
type Config struct {
	APIKey  string        // API key for authentication (DEEPSEEK_KEY)
	BaseURL string        // Base URL for the API (e.g., "https://api.deepseek.com/v1")
	Model   string        // Chat model name
	Timeout time.Duration // HTTP request timeout
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	return c
}
