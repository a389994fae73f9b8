package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gwonyoung/aibuup/internal/contact"
	"github.com/gwonyoung/aibuup/internal/model"
)

// ContactServiceInterface는 문의 핸들러가 필요로 하는 서비스 인터페이스.
type ContactServiceInterface interface {
	// Submit은 문의를 저장하고 외부 폼 서비스로 전달한다.
	Submit(ctx context.Context, input contact.Input) (*model.Contact, error)
}

// ContactHandler는 문의 접수의 HTTP 핸들러.
type ContactHandler struct {
	service ContactServiceInterface
}

// NewContactHandler는 ContactHandler를 생성한다.
func NewContactHandler(service ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

type contactResponse struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

// Submit은 문의 접수를 처리한다. 미로그인도 보낼 수 있다.
// POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input contact.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidRequest(w)
		return
	}

	result, err := h.service.Submit(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, contactResponse{
		ID:        result.ID,
		CreatedAt: formatTime(result.CreatedAt),
	})
}
