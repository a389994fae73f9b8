package intelligence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestDisabled_ReturnsErrDisabled(t *testing.T) {
	var gen Generator = Disabled{}

	if _, err := gen.Chat(context.Background(), "gemini-3-flash-preview", "", nil, "안녕하세요"); !errors.Is(err, ErrDisabled) {
		t.Errorf("Chat() error = %v, want ErrDisabled", err)
	}
	if _, err := gen.Generate(context.Background(), "gemini-3-pro-preview", "", "프롬프트"); !errors.Is(err, ErrDisabled) {
		t.Errorf("Generate() error = %v, want ErrDisabled", err)
	}
}

func TestExtractText_JoinsTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []genai.Part{genai.Text("TITLE: 제목\n"), genai.Text("본문")},
				},
			},
		},
	}

	got, err := extractText(resp)
	if err != nil {
		t.Fatalf("extractText() error = %v", err)
	}
	if got != "TITLE: 제목\n본문" {
		t.Errorf("extractText() = %q", got)
	}
}

func TestExtractText_NoCandidates(t *testing.T) {
	if _, err := extractText(&genai.GenerateContentResponse{}); err == nil {
		t.Error("후보가 없으면 에러를 반환해야 한다")
	}
	if _, err := extractText(nil); err == nil {
		t.Error("nil 응답에는 에러를 반환해야 한다")
	}
}

func TestExtractText_NoTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{}}},
		},
	}
	if _, err := extractText(resp); err == nil {
		t.Error("텍스트 파트가 없으면 에러를 반환해야 한다")
	}
}
