package interview

import (
	"context"

	"github.com/jonathan/assessment-engine/internal/llm"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateJSONFunc          func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONWithModelFunc func(ctx context.Context, prompt string, model string) (string, error)
}

func (m *MockLLMClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return `{}`, nil
}

func (m *MockLLMClient) GenerateJSONWithModel(ctx context.Context, prompt string, model string) (string, error) {
	if m.GenerateJSONWithModelFunc != nil {
		return m.GenerateJSONWithModelFunc(ctx, prompt, model)
	}
	return `{}`, nil
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string {
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	return nil
}
