package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gwonyoung/aibuup/internal/middleware"
	"github.com/gwonyoung/aibuup/internal/model"
	"github.com/gwonyoung/aibuup/internal/news"
)

// AdminServiceInterface는 관리 콘솔 핸들러가 필요로 하는 서비스 인터페이스.
// 모든 조작은 행위자 프로필을 받아 서비스 계층에서 운영자 권한을 검증한다.
type AdminServiceInterface interface {
	DeletePost(ctx context.Context, actor *model.Profile, postID string) error
	ListProfiles(ctx context.Context, actor *model.Profile) ([]*model.Profile, error)
	UpdateProfileRole(ctx context.Context, actor *model.Profile, targetID string, role model.Role) error
	DeleteProfile(ctx context.Context, actor *model.Profile, targetID string) error
	CreateNews(ctx context.Context, actor *model.Profile, input news.CreateInput) (*model.News, error)
	DeleteNews(ctx context.Context, actor *model.Profile, newsID string) error
	ListNewsSources(ctx context.Context, actor *model.Profile) ([]*model.NewsSource, error)
	AddNewsSource(ctx context.Context, actor *model.Profile, rawURL, category string) (*model.NewsSource, error)
	DeleteNewsSource(ctx context.Context, actor *model.Profile, sourceID string) error
	SeedSampleData(ctx context.Context, actor *model.Profile) (int, error)
}

// AdminHandler는 관리 콘솔의 HTTP 핸들러.
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler는 AdminHandler를 생성한다.
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

type addNewsSourceRequest struct {
	URL      string `json:"url"`
	Category string `json:"category"`
}

type seedResponse struct {
	Seeded int `json:"seeded"`
}

// DeletePost는 게시글 강제 삭제를 처리한다.
// DELETE /api/admin/posts/{id}
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())
	postID := chi.URLParam(r, "id")

	if err := h.service.DeletePost(r.Context(), actor, postID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProfiles는 전체 회원 목록을 반환한다.
// GET /api/admin/profiles
func (h *AdminHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())

	profiles, err := h.service.ListProfiles(r.Context(), actor)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]*profileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, toProfileResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateProfileRole은 회원 등급 변경을 처리한다.
// PUT /api/admin/profiles/{id}/role
func (h *AdminHandler) UpdateProfileRole(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if err := h.service.UpdateProfileRole(r.Context(), actor, targetID, model.Role(req.Role)); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProfile은 회원 삭제를 처리한다. 자기 자신은 삭제할 수 없다.
// DELETE /api/admin/profiles/{id}
func (h *AdminHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	if err := h.service.DeleteProfile(r.Context(), actor, targetID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateNews는 뉴스 수동 등록을 처리한다.
// POST /api/admin/news
func (h *AdminHandler) CreateNews(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())

	var input news.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidRequest(w)
		return
	}

	created, err := h.service.CreateNews(r.Context(), actor, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNewsResponse(created))
}

// DeleteNews는 뉴스 삭제를 처리한다.
// DELETE /api/admin/news/{id}
func (h *AdminHandler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())
	newsID := chi.URLParam(r, "id")

	if err := h.service.DeleteNews(r.Context(), actor, newsID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListNewsSources는 뉴스 수집 소스 목록을 반환한다.
// GET /api/admin/news-sources
func (h *AdminHandler) ListNewsSources(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())

	sources, err := h.service.ListNewsSources(r.Context(), actor)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]newsSourceResponse, 0, len(sources))
	for _, source := range sources {
		resp = append(resp, toNewsSourceResponse(source))
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddNewsSource는 뉴스 수집 소스 등록을 처리한다.
// POST /api/admin/news-sources
func (h *AdminHandler) AddNewsSource(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())

	var req addNewsSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	source, err := h.service.AddNewsSource(r.Context(), actor, req.URL, req.Category)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNewsSourceResponse(source))
}

// DeleteNewsSource는 뉴스 수집 소스 삭제를 처리한다.
// DELETE /api/admin/news-sources/{id}
func (h *AdminHandler) DeleteNewsSource(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())
	sourceID := chi.URLParam(r, "id")

	if err := h.service.DeleteNewsSource(r.Context(), actor, sourceID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SeedSampleData는 샘플 게시글 투입을 처리한다.
// POST /api/admin/seed
func (h *AdminHandler) SeedSampleData(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())

	count, err := h.service.SeedSampleData(r.Context(), actor)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, seedResponse{Seeded: count})
}
