// Package localstore는 백엔드 자격 증명이 구성되지 않은 데모 모드에서
// 데이터베이스를 대신하는 로컬 JSON 파일 저장소를 제공한다.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/gwonyoung/aibuup/internal/model"
	"github.com/gwonyoung/aibuup/internal/repository"
)

// DemoUserID는 데모 모드에서 합성되는 사용자 ID.
const DemoUserID = "demo-admin-id"

// demoUser는 데모 모드에서 유지되는 단일 사용자 기록.
type demoUser struct {
	Nickname string     `json:"nickname"`
	Role     model.Role `json:"role"`
	Email    string     `json:"email"`
}

// state는 파일로 직렬화되는 저장소 전체 상태.
type state struct {
	Posts          []*model.Post         `json:"posts"`
	Comments       []*model.Comment      `json:"comments"`
	LikedBy        map[string][]string   `json:"liked_by"`
	SampleLikes    map[string]int        `json:"sample_likes"`
	HiddenSamples  map[string]bool       `json:"hidden_samples"`
	News           []*model.News         `json:"news"`
	NewsSources    []*model.NewsSource   `json:"news_sources"`
	Contacts       []*model.Contact      `json:"contacts"`
	RoleOverrides  map[string]model.Role `json:"role_overrides"`
	HiddenProfiles map[string]bool       `json:"hidden_profiles"`
	DemoUser       *demoUser             `json:"demo_user,omitempty"`
}

func newState() *state {
	return &state{
		LikedBy:        map[string][]string{},
		SampleLikes:    map[string]int{},
		HiddenSamples:  map[string]bool{},
		RoleOverrides:  map[string]model.Role{},
		HiddenProfiles: map[string]bool{},
	}
}

// Store는 데모 모드용 로컬 저장소.
// 게시글, 댓글, 뉴스, 문의, 회원 목록 인터페이스를 구현하며
// 변경 시마다 상태 파일에 기록한다.
type Store struct {
	mu      sync.Mutex
	path    string
	nowFunc func() time.Time
	st      *state
}

// Open은 지정 경로의 상태 파일을 읽어 Store를 생성한다.
// 파일이 없으면 빈 상태로 시작한다.
func Open(path string) (*Store, error) {
	s := &Store{
		path:    path,
		nowFunc: time.Now,
		st:      newState(),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read demo state file: %w", err)
	}
	if err := json.Unmarshal(data, s.st); err != nil {
		return nil, fmt.Errorf("failed to parse demo state file: %w", err)
	}
	// 구버전 파일에 맵이 비어 있을 수 있다
	if s.st.LikedBy == nil {
		s.st.LikedBy = map[string][]string{}
	}
	if s.st.SampleLikes == nil {
		s.st.SampleLikes = map[string]int{}
	}
	if s.st.HiddenSamples == nil {
		s.st.HiddenSamples = map[string]bool{}
	}
	if s.st.RoleOverrides == nil {
		s.st.RoleOverrides = map[string]model.Role{}
	}
	if s.st.HiddenProfiles == nil {
		s.st.HiddenProfiles = map[string]bool{}
	}

	return s, nil
}

// save는 현재 상태를 파일에 기록한다. 호출 측이 mu를 보유해야 한다.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal demo state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write demo state file: %w", err)
	}
	return nil
}

// DemoIdentity는 저장된 데모 사용자 기록으로부터 세션과 프로필을 합성한다.
// 기록이 없으면 nil, nil을 반환한다.
func (s *Store) DemoIdentity() (*model.Session, *model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.DemoUser == nil {
		return nil, nil
	}
	now := s.nowFunc()
	session := &model.Session{
		ID:        DemoUserID,
		UserID:    DemoUserID,
		Email:     s.st.DemoUser.Email,
		ExpiresAt: now.Add(24 * time.Hour),
		CreatedAt: now,
	}
	profile := &model.Profile{
		ID:       DemoUserID,
		Email:    s.st.DemoUser.Email,
		Nickname: s.st.DemoUser.Nickname,
		Role:     s.st.DemoUser.Role,
	}
	return session, profile
}

// SetDemoUser는 데모 사용자 기록을 저장한다.
func (s *Store) SetDemoUser(nickname string, role model.Role, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.DemoUser = &demoUser{Nickname: nickname, Role: role, Email: email}
	return s.save()
}

// ClearDemoUser는 데모 사용자 기록을 제거한다.
func (s *Store) ClearDemoUser() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.DemoUser = nil
	return s.save()
}

// --- PostRepository ---

// samplePost는 숨김과 좋아요 가산을 반영한 샘플 게시글 사본을 반환한다.
func (s *Store) samplePosts() []*model.Post {
	var posts []*model.Post
	for _, p := range SamplePosts(s.nowFunc()) {
		if s.st.HiddenSamples[p.ID] {
			continue
		}
		cp := *p
		cp.Likes += s.st.SampleLikes[p.ID]
		posts = append(posts, &cp)
	}
	return posts
}

// FindByID는 지정 ID의 게시글을 조회한다. 없으면 nil을 반환한다.
func (s *Store) FindByID(ctx context.Context, id string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.st.Posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	for _, p := range s.samplePosts() {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

// List는 로컬 게시글 뒤에 샘플 게시글을 이어 붙여 반환한다.
// 로컬 게시글은 작성일 내림차순으로 정렬한다.
func (s *Store) List(ctx context.Context, category string, excludeCategories []string, limit, offset int) ([]*model.Post, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	local := make([]*model.Post, 0, len(s.st.Posts))
	for _, p := range s.st.Posts {
		cp := *p
		local = append(local, &cp)
	}
	sort.SliceStable(local, func(i, j int) bool {
		return local[i].CreatedAt.After(local[j].CreatedAt)
	})

	merged := append(local, s.samplePosts()...)

	excluded := map[string]bool{}
	for _, c := range excludeCategories {
		excluded[c] = true
	}

	var filtered []*model.Post
	for _, p := range merged {
		if category != "" && p.Category != category {
			continue
		}
		if category == "" && excluded[p.Category] {
			continue
		}
		filtered = append(filtered, p)
	}

	total := len(filtered)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}

// Create는 게시글을 로컬 목록 맨 앞에 추가한다.
func (s *Store) Create(ctx context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *post
	s.st.Posts = append([]*model.Post{&cp}, s.st.Posts...)
	return s.save()
}

// DeleteByID는 지정 ID의 게시글과 그 댓글을 삭제한다.
// 샘플 게시글은 숨김 처리한다.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	kept := s.st.Posts[:0]
	for _, p := range s.st.Posts {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	s.st.Posts = kept

	if !found {
		for _, p := range SamplePosts(s.nowFunc()) {
			if p.ID == id && !s.st.HiddenSamples[id] {
				s.st.HiddenSamples[id] = true
				found = true
				break
			}
		}
	}
	if !found {
		return fmt.Errorf("post not found: %s", id)
	}

	keptComments := s.st.Comments[:0]
	for _, c := range s.st.Comments {
		if c.PostID == id {
			continue
		}
		keptComments = append(keptComments, c)
	}
	s.st.Comments = keptComments
	delete(s.st.LikedBy, id)
	delete(s.st.SampleLikes, id)

	return s.save()
}

// Like는 좋아요를 1회 기록하고 갱신된 좋아요 수를 반환한다.
// 동일 사용자의 중복 좋아요는 alreadyLiked=true로 보고하며 수는 변하지 않는다.
func (s *Store) Like(ctx context.Context, postID, userID string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, liker := range s.st.LikedBy[postID] {
		if liker == userID {
			likes, ok := s.currentLikes(postID)
			if !ok {
				return 0, false, fmt.Errorf("post not found: %s", postID)
			}
			return likes, true, nil
		}
	}

	for _, p := range s.st.Posts {
		if p.ID == postID {
			p.Likes++
			s.st.LikedBy[postID] = append(s.st.LikedBy[postID], userID)
			return p.Likes, false, s.save()
		}
	}
	for _, p := range SamplePosts(s.nowFunc()) {
		if p.ID == postID && !s.st.HiddenSamples[postID] {
			s.st.SampleLikes[postID]++
			s.st.LikedBy[postID] = append(s.st.LikedBy[postID], userID)
			return p.Likes + s.st.SampleLikes[postID], false, s.save()
		}
	}

	return 0, false, fmt.Errorf("post not found: %s", postID)
}

// currentLikes는 게시글의 현재 좋아요 수를 반환한다. 호출 측이 mu를 보유해야 한다.
func (s *Store) currentLikes(postID string) (int, bool) {
	for _, p := range s.st.Posts {
		if p.ID == postID {
			return p.Likes, true
		}
	}
	for _, p := range SamplePosts(s.nowFunc()) {
		if p.ID == postID && !s.st.HiddenSamples[postID] {
			return p.Likes + s.st.SampleLikes[postID], true
		}
	}
	return 0, false
}

// --- CommentRepository ---

// ListByPostID는 게시글의 댓글을 작성일 오름차순으로 반환한다.
func (s *Store) ListByPostID(ctx context.Context, postID string) ([]*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var comments []*model.Comment
	for _, c := range s.st.Comments {
		if c.PostID == postID {
			cp := *c
			comments = append(comments, &cp)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// FindCommentByID는 지정 ID의 댓글을 조회한다. 없으면 nil을 반환한다.
func (s *Store) FindCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.st.Comments {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

// CreateComment는 댓글을 추가한다.
func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *comment
	s.st.Comments = append(s.st.Comments, &cp)
	return s.save()
}

// DeleteCommentByID는 지정 ID의 댓글을 삭제한다.
func (s *Store) DeleteCommentByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.st.Comments[:0]
	found := false
	for _, c := range s.st.Comments {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	s.st.Comments = kept
	if !found {
		return fmt.Errorf("comment not found: %s", id)
	}
	return s.save()
}

// --- NewsRepository ---

// ListNews는 로컬 뉴스 뒤에 샘플 뉴스를 이어 붙여 반환한다.
func (s *Store) ListNews(ctx context.Context) ([]*model.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []*model.News
	for _, n := range s.st.News {
		cp := *n
		items = append(items, &cp)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	for _, n := range SampleNews(s.nowFunc()) {
		if s.st.HiddenSamples[n.ID] {
			continue
		}
		cp := *n
		items = append(items, &cp)
	}
	return items, nil
}

// FindNewsByID는 지정 ID의 뉴스를 조회한다. 없으면 nil을 반환한다.
func (s *Store) FindNewsByID(ctx context.Context, id string) (*model.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.st.News {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	for _, n := range SampleNews(s.nowFunc()) {
		if n.ID == id && !s.st.HiddenSamples[id] {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

// CreateNews는 뉴스를 추가한다.
func (s *Store) CreateNews(ctx context.Context, news *model.News) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *news
	s.st.News = append([]*model.News{&cp}, s.st.News...)
	return s.save()
}

// NewsExistsByTitle은 동일 제목의 뉴스 존재 여부를 반환한다.
func (s *Store) NewsExistsByTitle(ctx context.Context, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.st.News {
		if n.Title == title {
			return true, nil
		}
	}
	for _, n := range SampleNews(s.nowFunc()) {
		if n.Title == title && !s.st.HiddenSamples[n.ID] {
			return true, nil
		}
	}
	return false, nil
}

// DeleteNewsByID는 지정 ID의 뉴스를 삭제한다. 샘플 뉴스는 숨김 처리한다.
func (s *Store) DeleteNewsByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.st.News[:0]
	found := false
	for _, n := range s.st.News {
		if n.ID == id {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	s.st.News = kept

	if !found {
		for _, n := range SampleNews(s.nowFunc()) {
			if n.ID == id && !s.st.HiddenSamples[id] {
				s.st.HiddenSamples[id] = true
				found = true
				break
			}
		}
	}
	if !found {
		return fmt.Errorf("news not found: %s", id)
	}
	return s.save()
}

// --- NewsSourceRepository ---

// ListNewsSources는 등록된 수집 소스 전체를 반환한다.
func (s *Store) ListNewsSources(ctx context.Context) ([]*model.NewsSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.NewsSource, 0, len(s.st.NewsSources))
	for _, src := range s.st.NewsSources {
		cp := *src
		out = append(out, &cp)
	}
	return out, nil
}

// CreateNewsSource는 수집 소스를 등록한다.
func (s *Store) CreateNewsSource(ctx context.Context, source *model.NewsSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *source
	s.st.NewsSources = append(s.st.NewsSources, &cp)
	return s.save()
}

// UpdateNewsSourceFetchedAt은 소스의 마지막 수집 시각을 갱신한다.
func (s *Store) UpdateNewsSourceFetchedAt(ctx context.Context, id string, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, src := range s.st.NewsSources {
		if src.ID == id {
			t := fetchedAt
			src.LastFetchedAt = &t
			return s.save()
		}
	}
	return fmt.Errorf("news source not found: %s", id)
}

// DeleteNewsSourceByID는 지정 ID의 수집 소스를 삭제한다.
func (s *Store) DeleteNewsSourceByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.st.NewsSources[:0]
	found := false
	for _, src := range s.st.NewsSources {
		if src.ID == id {
			found = true
			continue
		}
		kept = append(kept, src)
	}
	s.st.NewsSources = kept

	if !found {
		return fmt.Errorf("news source not found: %s", id)
	}
	return s.save()
}

// --- ContactRepository ---

// CreateContact는 문의를 저장한다.
func (s *Store) CreateContact(ctx context.Context, contact *model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *contact
	s.st.Contacts = append(s.st.Contacts, &cp)
	return s.save()
}

// --- ProfileRepository ---

// FindProfileByID는 지정 ID의 프로필을 조회한다. 없으면 nil을 반환한다.
func (s *Store) FindProfileByID(ctx context.Context, id string) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == DemoUserID && s.st.DemoUser != nil {
		return &model.Profile{
			ID:       DemoUserID,
			Email:    s.st.DemoUser.Email,
			Nickname: s.st.DemoUser.Nickname,
			Role:     s.st.DemoUser.Role,
		}, nil
	}
	for _, p := range SampleProfiles(s.nowFunc()) {
		if p.ID != id || s.st.HiddenProfiles[id] {
			continue
		}
		cp := *p
		if role, ok := s.st.RoleOverrides[id]; ok {
			cp.Role = role
		}
		return &cp, nil
	}
	return nil, nil
}

// ListProfiles는 숨김과 등급 변경을 반영한 회원 목록을 가입일 내림차순으로 반환한다.
func (s *Store) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var profiles []*model.Profile
	for _, p := range SampleProfiles(s.nowFunc()) {
		if s.st.HiddenProfiles[p.ID] {
			continue
		}
		cp := *p
		if role, ok := s.st.RoleOverrides[p.ID]; ok {
			cp.Role = role
		}
		profiles = append(profiles, &cp)
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})
	return profiles, nil
}

// UpdateProfileRole은 회원 등급 변경을 기록한다.
func (s *Store) UpdateProfileRole(ctx context.Context, id string, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == DemoUserID && s.st.DemoUser != nil {
		s.st.DemoUser.Role = role
		return s.save()
	}
	for _, p := range SampleProfiles(s.nowFunc()) {
		if p.ID == id && !s.st.HiddenProfiles[id] {
			s.st.RoleOverrides[id] = role
			return s.save()
		}
	}
	return fmt.Errorf("profile not found: %s", id)
}

// DeleteProfileByID는 회원을 목록에서 제거한다.
func (s *Store) DeleteProfileByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range SampleProfiles(s.nowFunc()) {
		if p.ID == id && !s.st.HiddenProfiles[id] {
			s.st.HiddenProfiles[id] = true
			delete(s.st.RoleOverrides, id)
			return s.save()
		}
	}
	return fmt.Errorf("profile not found: %s", id)
}

// 인터페이스 어댑터. Store의 메서드명이 겹치지 않도록 도메인별로 감싼다.

// PostStore는 Store를 PostRepository로 노출한다.
type PostStore struct{ *Store }

// CommentStore는 Store를 CommentRepository로 노출한다.
type CommentStore struct{ *Store }

// FindByID는 지정 ID의 댓글을 조회한다.
func (s CommentStore) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	return s.FindCommentByID(ctx, id)
}

// Create는 댓글을 추가한다.
func (s CommentStore) Create(ctx context.Context, comment *model.Comment) error {
	return s.CreateComment(ctx, comment)
}

// DeleteByID는 지정 ID의 댓글을 삭제한다.
func (s CommentStore) DeleteByID(ctx context.Context, id string) error {
	return s.DeleteCommentByID(ctx, id)
}

// NewsStore는 Store를 NewsRepository로 노출한다.
type NewsStore struct{ *Store }

// List는 뉴스 목록을 반환한다.
func (s NewsStore) List(ctx context.Context) ([]*model.News, error) {
	return s.ListNews(ctx)
}

// FindByID는 지정 ID의 뉴스를 조회한다.
func (s NewsStore) FindByID(ctx context.Context, id string) (*model.News, error) {
	return s.FindNewsByID(ctx, id)
}

// Create는 뉴스를 추가한다.
func (s NewsStore) Create(ctx context.Context, news *model.News) error {
	return s.CreateNews(ctx, news)
}

// ExistsByTitle은 동일 제목의 뉴스 존재 여부를 반환한다.
func (s NewsStore) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return s.NewsExistsByTitle(ctx, title)
}

// DeleteByID는 지정 ID의 뉴스를 삭제한다.
func (s NewsStore) DeleteByID(ctx context.Context, id string) error {
	return s.DeleteNewsByID(ctx, id)
}

// NewsSourceStore는 Store를 NewsSourceRepository로 노출한다.
type NewsSourceStore struct{ *Store }

// List는 수집 소스 목록을 반환한다.
func (s NewsSourceStore) List(ctx context.Context) ([]*model.NewsSource, error) {
	return s.ListNewsSources(ctx)
}

// Create는 수집 소스를 등록한다.
func (s NewsSourceStore) Create(ctx context.Context, source *model.NewsSource) error {
	return s.CreateNewsSource(ctx, source)
}

// UpdateLastFetchedAt은 소스의 마지막 수집 시각을 갱신한다.
func (s NewsSourceStore) UpdateLastFetchedAt(ctx context.Context, id string, fetchedAt time.Time) error {
	return s.UpdateNewsSourceFetchedAt(ctx, id, fetchedAt)
}

// DeleteByID는 수집 소스를 삭제한다.
func (s NewsSourceStore) DeleteByID(ctx context.Context, id string) error {
	return s.DeleteNewsSourceByID(ctx, id)
}

// ContactStore는 Store를 ContactRepository로 노출한다.
type ContactStore struct{ *Store }

// Create는 문의를 저장한다.
func (s ContactStore) Create(ctx context.Context, contact *model.Contact) error {
	return s.CreateContact(ctx, contact)
}

// ProfileStore는 Store를 ProfileRepository로 노출한다.
type ProfileStore struct{ *Store }

// FindByID는 지정 ID의 프로필을 조회한다.
func (s ProfileStore) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	return s.FindProfileByID(ctx, id)
}

// List는 회원 목록을 반환한다.
func (s ProfileStore) List(ctx context.Context) ([]*model.Profile, error) {
	return s.ListProfiles(ctx)
}

// UpdateRole은 회원 등급을 변경한다.
func (s ProfileStore) UpdateRole(ctx context.Context, id string, role model.Role) error {
	return s.UpdateProfileRole(ctx, id, role)
}

// DeleteByID는 회원을 제거한다.
func (s ProfileStore) DeleteByID(ctx context.Context, id string) error {
	return s.DeleteProfileByID(ctx, id)
}

// compile-time interface checks
var (
	_ repository.PostRepository       = PostStore{}
	_ repository.CommentRepository    = CommentStore{}
	_ repository.NewsRepository       = NewsStore{}
	_ repository.NewsSourceRepository = NewsSourceStore{}
	_ repository.ContactRepository    = ContactStore{}
	_ repository.ProfileRepository    = ProfileStore{}
)
