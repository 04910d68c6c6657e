package infra

// parser.go — external AI collaborator that turns transcribed speech or a
// bill photo into structured line items. The client only does transport and
// JSON extraction; tolerance rules (default quantity/price, name resolution)
// live in the parse service. Any malformed model output is a recoverable
// error surfaced to the user, never a crash.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ParsedLine is one raw line item as the model returned it. Quantity and
// price are json.Number so garbled values ("two", "") degrade to defaults
// downstream instead of failing the decode.
type ParsedLine struct {
	Name     string      `json:"name"`
	Quantity json.Number `json:"quantity"`
	Unit     string      `json:"unit"`
	Price    json.Number `json:"price"`
}

// ParsedBill is the structured result for a voice transcription.
type ParsedBill struct {
	Items        []ParsedLine `json:"items"`
	CustomerName string       `json:"customerName,omitempty"`
}

// ParserClient wraps the OpenAI API for both parse modes.
type ParserClient struct {
	client *openai.Client
	model  string
}

func NewParserClient(apiKey, model string) *ParserClient {
	return &ParserClient{client: openai.NewClient(apiKey), model: model}
}

const voicePromptFmt = `You are a bill parser for a small retail shop.
The following text is a transcription of the shopkeeper speaking a bill
(language hint: %s). Extract the billed items and, if mentioned, the
customer name.

Respond with ONLY a JSON object shaped exactly like:
{"items":[{"name":"...","quantity":1,"unit":"kg","price":0}],"customerName":"..."}

Omit customerName if no customer is mentioned. Use the item names as spoken.

Transcription:
%s`

// ParseVoiceText sends the transcription and returns the structured bill.
func (c *ParserClient) ParseVoiceText(ctx context.Context, text, lang string) (*ParsedBill, error) {
	content, err := c.complete(ctx, []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf(voicePromptFmt, lang, text),
	}})
	if err != nil {
		return nil, err
	}

	var bill ParsedBill
	if err := json.Unmarshal([]byte(content), &bill); err != nil {
		return nil, fmt.Errorf("parser: malformed voice response: %w", err)
	}
	if bill.Items == nil {
		return nil, fmt.Errorf("parser: voice response missing items array")
	}
	return &bill, nil
}

const imagePromptFmt = `This is a photo of a handwritten or printed shop bill
(language hint: %s). Extract every line item.

Respond with ONLY a JSON object shaped exactly like:
{"items":[{"name":"...","quantity":1,"unit":"pcs","price":0}]}`

// ParseBillImage sends a base64 JPEG/PNG payload and returns the line items.
func (c *ParserClient) ParseBillImage(ctx context.Context, imageB64, lang string) ([]ParsedLine, error) {
	content, err := c.complete(ctx, []openai.ChatCompletionMessage{{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: fmt.Sprintf(imagePromptFmt, lang),
			},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: "data:image/jpeg;base64," + imageB64,
				},
			},
		},
	}})
	if err != nil {
		return nil, err
	}

	var bill ParsedBill
	if err := json.Unmarshal([]byte(content), &bill); err != nil {
		return nil, fmt.Errorf("parser: malformed image response: %w", err)
	}
	if bill.Items == nil {
		return nil, fmt.Errorf("parser: image response missing items array")
	}
	return bill.Items, nil
}

func (c *ParserClient) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.1,
		MaxTokens:   1500,
	})
	if err != nil {
		return "", fmt.Errorf("parser: request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("parser: no response choices")
	}
	return stripCodeFence(resp.Choices[0].Message.Content), nil
}

// stripCodeFence handles models that wrap JSON in markdown code blocks.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
