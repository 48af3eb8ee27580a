package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"monetus/internal/core"
)

// DefaultGeminiModel is used when no model name is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiScanner implements Scanner against the Gemini API.
type GeminiScanner struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiScanner(ctx context.Context, apiKey, modelName string) (*GeminiScanner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiScanner{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func (s *GeminiScanner) Close() error {
	return s.client.Close()
}

// geminiGuess mirrors the JSON object the prompt asks the model for.
type geminiGuess struct {
	Amount    *float64 `json:"amount"`
	Date      *string  `json:"date"`
	IsExpense *bool    `json:"isExpense"`
	Type      *string  `json:"type"`
	Category  *string  `json:"category"`
}

func (s *GeminiScanner) ScanReceipt(ctx context.Context, image []byte, format string, catalog []core.CategoryItem) (ReceiptGuess, error) {
	prompt, err := buildPrompt(catalog)
	if err != nil {
		return ReceiptGuess{}, err
	}

	resp, err := s.model.GenerateContent(ctx,
		genai.ImageData(format, image),
		genai.Text(prompt),
	)
	if err != nil {
		return ReceiptGuess{}, fmt.Errorf("gemini request: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ReceiptGuess{}, fmt.Errorf("empty gemini response")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return ReceiptGuess{}, fmt.Errorf("unexpected gemini response part %T", resp.Candidates[0].Content.Parts[0])
	}

	guess, err := parseGuess(string(text))
	if err != nil {
		return ReceiptGuess{}, err
	}

	slog.DebugContext(ctx, "Receipt scanned",
		"has_amount", guess.Amount != nil,
		"date", guess.Date,
		"type", guess.Type)
	return guess, nil
}

func buildPrompt(catalog []core.CategoryItem) (string, error) {
	pairs, err := json.Marshal(catalog)
	if err != nil {
		return "", fmt.Errorf("encode catalog: %w", err)
	}

	return fmt.Sprintf(`Analyze this receipt image and answer with a single JSON object, no prose:
{
  "amount": total transaction amount as a positive number, or null,
  "date": transaction date as "YYYY-MM-DD", or null,
  "isExpense": true for a purchase receipt, false if it looks like income,
  "type": best matching "type" from the list below, or null,
  "category": the matched entry's "category", or null
}

Choose type/category only from this list:
%s`, pairs), nil
}

// parseGuess decodes the model's JSON, tolerating a fenced code block
// around it.
func parseGuess(text string) (ReceiptGuess, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var raw geminiGuess
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return ReceiptGuess{}, fmt.Errorf("parse gemini response: %w", err)
	}

	guess := ReceiptGuess{IsExpense: true}
	if raw.IsExpense != nil {
		guess.IsExpense = *raw.IsExpense
	}
	if raw.Amount != nil && *raw.Amount > 0 {
		amount := decimal.NewFromFloat(*raw.Amount)
		guess.Amount = &amount
	}
	if raw.Date != nil && core.ValidateDate(*raw.Date) == nil {
		guess.Date = *raw.Date
	}
	if raw.Type != nil {
		guess.Type = *raw.Type
	}
	if raw.Category != nil {
		guess.Category = *raw.Category
	}
	return guess, nil
}
