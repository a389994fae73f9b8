package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gwonyoung/aibuup/internal/model"
)

// NewsServiceInterface는 뉴스 핸들러가 필요로 하는 서비스 인터페이스.
type NewsServiceInterface interface {
	// List는 뉴스 전체를 최신순으로 반환한다.
	List(ctx context.Context) ([]*model.News, error)
	// Get은 단건 뉴스를 조회한다.
	Get(ctx context.Context, id string) (*model.News, error)
}

// NewsHandler는 뉴스 조회의 HTTP 핸들러. 누구나 조회할 수 있다.
type NewsHandler struct {
	service NewsServiceInterface
}

// NewNewsHandler는 NewsHandler를 생성한다.
func NewNewsHandler(service NewsServiceInterface) *NewsHandler {
	return &NewsHandler{service: service}
}

// ListNews는 뉴스 목록을 반환한다.
// GET /api/news
func (h *NewsHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]newsResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toNewsResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetNews는 뉴스 상세를 반환한다.
// GET /api/news/{id}
func (h *NewsHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	newsID := chi.URLParam(r, "id")

	news, err := h.service.Get(r.Context(), newsID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNewsResponse(news))
}
