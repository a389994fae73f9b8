// Package contact는 문의 접수와 외부 웹훅 전달을 제공한다.
package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gwonyoung/aibuup/internal/model"
	"github.com/gwonyoung/aibuup/internal/repository"
)

// Service는 문의 비즈니스 로직을 제공한다.
type Service struct {
	contactRepo repository.ContactRepository
	webhookURL  string
	client      *http.Client
}

// NewService는 Service를 생성한다.
// client는 SSRF 방지가 적용된 HTTP 클라이언트를 전달한다.
// webhookURL이 비어 있으면 외부 전달을 생략한다.
func NewService(contactRepo repository.ContactRepository, webhookURL string, client *http.Client) *Service {
	return &Service{
		contactRepo: contactRepo,
		webhookURL:  webhookURL,
		client:      client,
	}
}

// Input은 문의 접수 입력값.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit은 문의를 저장하고 웹훅으로 전달한다.
// 웹훅 전달 실패는 로그만 남기고 접수 자체는 성공으로 처리한다.
func (s *Service) Submit(ctx context.Context, input Input) (*model.Contact, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)

	if name == "" {
		return nil, model.NewValidationError("이름을 입력해주세요.")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, model.NewValidationError("올바른 이메일 주소를 입력해주세요.")
	}
	if message == "" {
		return nil, model.NewValidationError("문의 내용을 입력해주세요.")
	}

	contact := &model.Contact{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}

	s.forward(ctx, contact)

	slog.Info("contact submitted", slog.String("contact_id", contact.ID))
	return contact, nil
}

// forward는 문의를 웹훅으로 전달한다.
func (s *Service) forward(ctx context.Context, contact *model.Contact) {
	if s.webhookURL == "" || s.client == nil {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"name":    contact.Name,
		"email":   contact.Email,
		"message": contact.Message,
	})
	if err != nil {
		slog.Warn("failed to marshal contact webhook payload", slog.String("error", err.Error()))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		slog.Warn("failed to build contact webhook request", slog.String("error", err.Error()))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Warn("failed to forward contact to webhook", slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		slog.Warn("contact webhook returned non-success status",
			slog.Int("status", resp.StatusCode),
		)
		return
	}

	slog.Info("contact forwarded to webhook", slog.String("contact_id", contact.ID))
}
