package interpret

import (
	"context"
	"errors"
	"testing"

	"dukaan/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// MockLLM is a mock implementation of the LLM interface
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func reply(content string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}
}

func TestInterpretParsesAction(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(reply(`{"action":"ADD_TO_CART","items":[{"name":"milk","quantity":2}]}`), nil)

	interp := New(mockLLM)
	record, err := interp.Interpret(context.Background(), "do packet doodh", nil)

	require.NoError(t, err)
	assert.Equal(t, models.ActionAddToCart, record.Kind)
	require.Len(t, record.Items, 1)
	assert.Equal(t, "milk", record.Items[0].Name)
	assert.Equal(t, 2, record.Items[0].Quantity)
}

func TestInterpretToleratesMarkdownFences(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(reply("Here you go:\n```json\n{\"action\":\"RESTOCK\",\"items\":[{\"name\":\"bread\",\"quantity\":10}]}\n```"), nil)

	interp := New(mockLLM)
	record, err := interp.Interpret(context.Background(), "restock bread", nil)

	require.NoError(t, err)
	assert.Equal(t, models.ActionRestock, record.Kind)
}

func TestInterpretRejectsUnknownAction(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(reply(`{"action":"MAKE_TEA","items":[]}`), nil)

	interp := New(mockLLM)
	_, err := interp.Interpret(context.Background(), "make tea", nil)

	assert.ErrorIs(t, err, ErrUnusableReply)
}

func TestInterpretRejectsProseReply(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(reply("Sorry, I did not understand that."), nil)

	interp := New(mockLLM)
	_, err := interp.Interpret(context.Background(), "mumble", nil)

	assert.ErrorIs(t, err, ErrUnusableReply)
}

func TestInterpretWrapsModelErrors(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited"))

	interp := New(mockLLM)
	_, err := interp.Interpret(context.Background(), "anything", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model call failed")
}

func TestPromptCarriesCatalogNames(t *testing.T) {
	catalog := []models.InventoryItem{
		{Name: "Amul Milk"},
		{Name: "Maggi Noodles"},
	}

	prompt := buildPrompt("ek packet maggi", catalog)

	assert.Contains(t, prompt, "Amul Milk, Maggi Noodles")
	assert.Contains(t, prompt, "ek packet maggi")
	assert.Contains(t, prompt, "COMPLETE_SALE")
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON(`noise {"a":1} trailing`))
	assert.Equal(t, "", extractJSON("no braces here"))
}
