package intelligence

import (
	"context"
	"errors"
)

// ErrDisabled는 API 키 미설정으로 모델 호출이 비활성화되었음을 나타낸다.
var ErrDisabled = errors.New("generative api key not configured")

// Disabled는 모든 호출에 ErrDisabled를 반환하는 Generator.
// API 키가 설정되지 않은 환경에서 사용한다. 피해 제보 인터뷰는
// 생성 실패 시의 수동 아카이브 경로로 이어진다.
type Disabled struct{}

// Chat은 항상 ErrDisabled를 반환한다.
func (Disabled) Chat(ctx context.Context, model, systemInstruction string, history []Message, userMessage string) (string, error) {
	return "", ErrDisabled
}

// Generate는 항상 ErrDisabled를 반환한다.
func (Disabled) Generate(ctx context.Context, model, systemInstruction, prompt string) (string, error) {
	return "", ErrDisabled
}

var _ Generator = Disabled{}
