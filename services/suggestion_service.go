package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// SuggestionService generates chat openers from the two matched profiles'
// interests.
type SuggestionService struct {
	Client *openai.Client
}

// NewSuggestionService builds the suggestion generator from an API key.
func NewSuggestionService(apiKey string) *SuggestionService {
	return &SuggestionService{Client: openai.NewClient(apiKey)}
}

// Suggestion is one proposed opener with its tone.
type Suggestion struct {
	Style string `json:"style"`
	Text  string `json:"text"`
}

type suggestionResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

const suggestionSystemPrompt = "You write short chat openers for a dating app. " +
	"Given two people's interests, respond with JSON of the form " +
	`{"suggestions":[{"style":"friendly","text":"..."},{"style":"humorous","text":"..."},{"style":"flirty","text":"..."}]}. ` +
	"Each opener is one sentence and references a shared or notable interest."

// GenerateOpeners returns three styled conversation starters for a pair.
func (ss *SuggestionService) GenerateOpeners(ctx context.Context, senderInterests, receiverInterests []string) ([]Suggestion, error) {
	userPrompt := fmt.Sprintf("Sender interests: %s. Receiver interests: %s.",
		strings.Join(senderInterests, ", "), strings.Join(receiverInterests, ", "))

	resp, err := ss.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("suggestion response was empty")
	}

	var parsed suggestionResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	if len(parsed.Suggestions) == 0 {
		return nil, fmt.Errorf("no suggestions returned")
	}
	return parsed.Suggestions, nil
}
