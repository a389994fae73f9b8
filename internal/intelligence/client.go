// Package intelligence는 생성형 AI 모델 호출을 추상화한다.
package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Message는 대화 이력의 한 발화.
type Message struct {
	Role string // "user" 또는 "model"
	Text string
}

// Generator는 모델 호출 인터페이스.
// 테스트에서는 모의 구현으로 대체한다.
type Generator interface {
	// Chat은 시스템 지시와 대화 이력을 바탕으로 다음 응답을 생성한다.
	Chat(ctx context.Context, model, systemInstruction string, history []Message, userMessage string) (string, error)

	// Generate는 단발 프롬프트로 텍스트를 생성한다.
	Generate(ctx context.Context, model, systemInstruction, prompt string) (string, error)
}

// GeminiClient는 Gemini API를 사용하는 Generator 구현.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient는 GeminiClient를 생성한다.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Close는 내부 연결을 해제한다.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// Chat은 시스템 지시와 대화 이력을 바탕으로 다음 응답을 생성한다.
func (g *GeminiClient) Chat(ctx context.Context, model, systemInstruction string, history []Message, userMessage string) (string, error) {
	m := g.client.GenerativeModel(model)
	if systemInstruction != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemInstruction)},
		}
	}

	cs := m.StartChat()
	for _, msg := range history {
		cs.History = append(cs.History, &genai.Content{
			Role:  msg.Role,
			Parts: []genai.Part{genai.Text(msg.Text)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(userMessage))
	if err != nil {
		return "", fmt.Errorf("gemini chat error: %w", err)
	}
	return extractText(resp)
}

// Generate는 단발 프롬프트로 텍스트를 생성한다.
func (g *GeminiClient) Generate(ctx context.Context, model, systemInstruction, prompt string) (string, error) {
	m := g.client.GenerativeModel(model)
	if systemInstruction != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemInstruction)},
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	return extractText(resp)
}

// extractText는 응답의 첫 후보에서 텍스트 파트를 이어 붙인다.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text parts")
	}
	return sb.String(), nil
}

// compile-time interface check
var _ Generator = (*GeminiClient)(nil)
