package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gwonyoung/aibuup/internal/middleware"
	"github.com/gwonyoung/aibuup/internal/model"
	"github.com/gwonyoung/aibuup/internal/news"
)

// mockAdminService는 테스트용 AdminServiceInterface 구현.
type mockAdminService struct {
	deletePostFn        func(ctx context.Context, actor *model.Profile, postID string) error
	listProfilesFn      func(ctx context.Context, actor *model.Profile) ([]*model.Profile, error)
	updateProfileRoleFn func(ctx context.Context, actor *model.Profile, targetID string, role model.Role) error
	deleteProfileFn     func(ctx context.Context, actor *model.Profile, targetID string) error
	createNewsFn        func(ctx context.Context, actor *model.Profile, input news.CreateInput) (*model.News, error)
	deleteNewsFn        func(ctx context.Context, actor *model.Profile, newsID string) error
	listNewsSourcesFn   func(ctx context.Context, actor *model.Profile) ([]*model.NewsSource, error)
	addNewsSourceFn     func(ctx context.Context, actor *model.Profile, rawURL, category string) (*model.NewsSource, error)
	deleteNewsSourceFn  func(ctx context.Context, actor *model.Profile, sourceID string) error
	seedSampleDataFn    func(ctx context.Context, actor *model.Profile) (int, error)
}

func (m *mockAdminService) DeletePost(ctx context.Context, actor *model.Profile, postID string) error {
	return m.deletePostFn(ctx, actor, postID)
}

func (m *mockAdminService) ListProfiles(ctx context.Context, actor *model.Profile) ([]*model.Profile, error) {
	return m.listProfilesFn(ctx, actor)
}

func (m *mockAdminService) UpdateProfileRole(ctx context.Context, actor *model.Profile, targetID string, role model.Role) error {
	return m.updateProfileRoleFn(ctx, actor, targetID, role)
}

func (m *mockAdminService) DeleteProfile(ctx context.Context, actor *model.Profile, targetID string) error {
	return m.deleteProfileFn(ctx, actor, targetID)
}

func (m *mockAdminService) CreateNews(ctx context.Context, actor *model.Profile, input news.CreateInput) (*model.News, error) {
	return m.createNewsFn(ctx, actor, input)
}

func (m *mockAdminService) DeleteNews(ctx context.Context, actor *model.Profile, newsID string) error {
	return m.deleteNewsFn(ctx, actor, newsID)
}

func (m *mockAdminService) ListNewsSources(ctx context.Context, actor *model.Profile) ([]*model.NewsSource, error) {
	return m.listNewsSourcesFn(ctx, actor)
}

func (m *mockAdminService) AddNewsSource(ctx context.Context, actor *model.Profile, rawURL, category string) (*model.NewsSource, error) {
	return m.addNewsSourceFn(ctx, actor, rawURL, category)
}

func (m *mockAdminService) DeleteNewsSource(ctx context.Context, actor *model.Profile, sourceID string) error {
	return m.deleteNewsSourceFn(ctx, actor, sourceID)
}

func (m *mockAdminService) SeedSampleData(ctx context.Context, actor *model.Profile) (int, error) {
	return m.seedSampleDataFn(ctx, actor)
}

var _ AdminServiceInterface = (*mockAdminService)(nil)

func adminIdentityRequest(req *http.Request) *http.Request {
	session := &model.Session{ID: "sess-a", UserID: "admin-1", ExpiresAt: time.Now().Add(time.Hour)}
	profile := &model.Profile{ID: "admin-1", Nickname: "운영자", Role: model.RoleAdmin}
	return req.WithContext(middleware.ContextWithIdentity(req.Context(), session, profile))
}

func TestAdminDeletePost_PassesActor(t *testing.T) {
	service := &mockAdminService{
		deletePostFn: func(_ context.Context, actor *model.Profile, postID string) error {
			if actor == nil || actor.Role != model.RoleAdmin {
				t.Errorf("actor = %+v, 운영자 프로필이 전달되어야 한다", actor)
			}
			if postID != "post-1" {
				t.Errorf("postID = %q, want post-1", postID)
			}
			return nil
		},
	}
	h := NewAdminHandler(service)

	req := adminIdentityRequest(withURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/admin/posts/post-1", nil), "id", "post-1"))
	w := httptest.NewRecorder()

	h.DeletePost(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
}

func TestAdminDeletePost_NonAdmin(t *testing.T) {
	service := &mockAdminService{
		deletePostFn: func(_ context.Context, _ *model.Profile, _ string) error {
			return model.NewAdminOnlyError()
		},
	}
	h := NewAdminHandler(service)

	req := silverIdentityRequest(withURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/admin/posts/post-1", nil), "id", "post-1"))
	w := httptest.NewRecorder()

	h.DeletePost(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}

	var got apiErrorResponse
	json.NewDecoder(resp.Body).Decode(&got)
	if got.Code != model.ErrCodeAdminOnly {
		t.Errorf("code = %q, want %q", got.Code, model.ErrCodeAdminOnly)
	}
}

func TestAdminListProfiles(t *testing.T) {
	service := &mockAdminService{
		listProfilesFn: func(_ context.Context, _ *model.Profile) ([]*model.Profile, error) {
			return []*model.Profile{
				{ID: "u-1", Email: "a@example.com", Nickname: "회원1", Role: model.RoleSilver},
				{ID: "u-2", Email: "b@example.com", Nickname: "회원2", Role: model.RoleGold},
			}, nil
		},
	}
	h := NewAdminHandler(service)

	req := adminIdentityRequest(httptest.NewRequest(http.MethodGet, "/api/admin/profiles", nil))
	w := httptest.NewRecorder()

	h.ListProfiles(w, req)

	var got []profileResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(got) != 2 || got[1].Role != "GOLD" {
		t.Errorf("unexpected profiles: %+v", got)
	}
}

func TestAdminUpdateProfileRole(t *testing.T) {
	service := &mockAdminService{
		updateProfileRoleFn: func(_ context.Context, _ *model.Profile, targetID string, role model.Role) error {
			if targetID != "u-1" || role != model.RoleGold {
				t.Errorf("args = %q %q", targetID, role)
			}
			return nil
		},
	}
	h := NewAdminHandler(service)

	body := `{"role":"GOLD"}`
	req := adminIdentityRequest(withURLParam(
		httptest.NewRequest(http.MethodPut, "/api/admin/profiles/u-1/role", strings.NewReader(body)), "id", "u-1"))
	w := httptest.NewRecorder()

	h.UpdateProfileRole(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
}

func TestAdminUpdateProfileRole_InvalidRole(t *testing.T) {
	service := &mockAdminService{
		updateProfileRoleFn: func(_ context.Context, _ *model.Profile, _ string, _ model.Role) error {
			return model.NewValidationError("정의되지 않은 등급입니다: PLATINUM")
		},
	}
	h := NewAdminHandler(service)

	body := `{"role":"PLATINUM"}`
	req := adminIdentityRequest(withURLParam(
		httptest.NewRequest(http.MethodPut, "/api/admin/profiles/u-1/role", strings.NewReader(body)), "id", "u-1"))
	w := httptest.NewRecorder()

	h.UpdateProfileRole(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestAdminDeleteProfile_Self(t *testing.T) {
	service := &mockAdminService{
		deleteProfileFn: func(_ context.Context, _ *model.Profile, _ string) error {
			return model.NewSelfWithdrawalError()
		},
	}
	h := NewAdminHandler(service)

	req := adminIdentityRequest(withURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/admin/profiles/admin-1", nil), "id", "admin-1"))
	w := httptest.NewRecorder()

	h.DeleteProfile(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var got apiErrorResponse
	json.NewDecoder(resp.Body).Decode(&got)
	if got.Code != model.ErrCodeSelfWithdrawal {
		t.Errorf("code = %q, want %q", got.Code, model.ErrCodeSelfWithdrawal)
	}
}

func TestAdminCreateNews(t *testing.T) {
	service := &mockAdminService{
		createNewsFn: func(_ context.Context, _ *model.Profile, input news.CreateInput) (*model.News, error) {
			if input.Title != "새 소식" || input.Category != model.NewsCategoryUpdate {
				t.Errorf("unexpected input: %+v", input)
			}
			return &model.News{ID: "news-9", Title: input.Title, Category: input.Category, Date: "2026.08.28"}, nil
		},
	}
	h := NewAdminHandler(service)

	body := `{"title":"새 소식","category":"Update","content":"본문"}`
	req := adminIdentityRequest(httptest.NewRequest(http.MethodPost, "/api/admin/news", strings.NewReader(body)))
	w := httptest.NewRecorder()

	h.CreateNews(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var got newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got.ID != "news-9" {
		t.Errorf("id = %q, want news-9", got.ID)
	}
}

func TestAdminAddNewsSource_Blocked(t *testing.T) {
	service := &mockAdminService{
		addNewsSourceFn: func(_ context.Context, _ *model.Profile, rawURL, _ string) (*model.NewsSource, error) {
			if rawURL != "http://169.254.169.254/rss" {
				t.Errorf("rawURL = %q", rawURL)
			}
			return nil, model.NewSSRFBlockedError()
		},
	}
	h := NewAdminHandler(service)

	body := `{"url":"http://169.254.169.254/rss","category":"Trend"}`
	req := adminIdentityRequest(httptest.NewRequest(http.MethodPost, "/api/admin/news-sources", strings.NewReader(body)))
	w := httptest.NewRecorder()

	h.AddNewsSource(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}

	var got apiErrorResponse
	json.NewDecoder(resp.Body).Decode(&got)
	if got.Code != model.ErrCodeSSRFBlocked {
		t.Errorf("code = %q, want %q", got.Code, model.ErrCodeSSRFBlocked)
	}
}

func TestAdminListNewsSources(t *testing.T) {
	fetchedAt := time.Date(2026, 8, 27, 3, 0, 0, 0, time.UTC)
	service := &mockAdminService{
		listNewsSourcesFn: func(_ context.Context, _ *model.Profile) ([]*model.NewsSource, error) {
			return []*model.NewsSource{
				{ID: "src-1", URL: "https://news.example.com/rss.xml", Category: model.NewsCategoryTrend, LastFetchedAt: &fetchedAt},
				{ID: "src-2", URL: "https://blog.example.com/feed", Category: model.NewsCategoryReview},
			}, nil
		},
	}
	h := NewAdminHandler(service)

	req := adminIdentityRequest(httptest.NewRequest(http.MethodGet, "/api/admin/news-sources", nil))
	w := httptest.NewRecorder()

	h.ListNewsSources(w, req)

	var got []newsSourceResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].LastFetchedAt == "" {
		t.Error("수집 이력이 있는 소스는 last_fetched_at을 반환해야 한다")
	}
	if got[1].LastFetchedAt != "" {
		t.Error("수집 이력이 없는 소스는 last_fetched_at을 생략해야 한다")
	}
}

func TestAdminSeedSampleData(t *testing.T) {
	service := &mockAdminService{
		seedSampleDataFn: func(_ context.Context, actor *model.Profile) (int, error) {
			if actor.ID != "admin-1" {
				t.Errorf("actor.ID = %q, want admin-1", actor.ID)
			}
			return 3, nil
		},
	}
	h := NewAdminHandler(service)

	req := adminIdentityRequest(httptest.NewRequest(http.MethodPost, "/api/admin/seed", nil))
	w := httptest.NewRecorder()

	h.SeedSampleData(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var got seedResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got.Seeded != 3 {
		t.Errorf("seeded = %d, want 3", got.Seeded)
	}
}

func TestAdminDeleteNewsSource(t *testing.T) {
	deleted := ""
	service := &mockAdminService{
		deleteNewsSourceFn: func(_ context.Context, _ *model.Profile, sourceID string) error {
			deleted = sourceID
			return nil
		},
	}
	h := NewAdminHandler(service)

	req := adminIdentityRequest(withURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/admin/news-sources/src-1", nil), "id", "src-1"))
	w := httptest.NewRecorder()

	h.DeleteNewsSource(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
	if deleted != "src-1" {
		t.Errorf("deleted = %q, want src-1", deleted)
	}
}
