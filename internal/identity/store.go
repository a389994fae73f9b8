// Package identity는 세션과 프로필 쌍을 보관하는 관찰 가능한 저장소를 제공한다.
// 인증 상태 변경을 구독자에게 알리며, 프로필이 존재하면 반드시
// 같은 사용자의 세션이 존재한다는 정합성을 유지한다.
package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gwonyoung/aibuup/internal/model"
)

// State는 한 시점의 인증 상태 스냅샷.
type State struct {
	Session *model.Session
	Profile *model.Profile
}

// LoggedIn은 세션 보유 여부를 반환한다.
func (s State) LoggedIn() bool {
	return s.Session != nil
}

// ProfileLoader는 사용자 ID로 프로필을 조회한다.
type ProfileLoader interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
}

// Store는 세션과 프로필의 현재 상태를 보관하고 변경을 통지한다.
//
// 세션 변경마다 순번을 발급하고, 프로필 조회 결과는 발급 시점의 순번이
// 아직 최신일 때만 반영한다. 먼저 시작된 조회가 늦게 끝나더라도
// 나중 변경이 만든 상태를 덮어쓰지 않는다.
type Store struct {
	mu      sync.Mutex
	loader  ProfileLoader
	session *model.Session
	profile *model.Profile
	seq     uint64
	subs    map[int]func(State)
	nextSub int
	closed  bool
}

// NewStore는 Store를 생성한다.
func NewStore(loader ProfileLoader) *Store {
	return &Store{
		loader: loader,
		subs:   map[int]func(State){},
	}
}

// Current는 현재 상태의 스냅샷을 반환한다.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Session: s.session, Profile: s.profile}
}

// Subscribe는 상태 변경 구독을 등록하고 해제 함수를 반환한다.
// 등록 직후 현재 상태를 한 번 통지한다.
// 통지 순서 보장을 위해 콜백은 잠금 중에 호출되므로
// 콜백 안에서 Store의 메서드를 다시 호출해서는 안 된다.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	current := State{Session: s.session, Profile: s.profile}
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Apply는 인증 상태 변경을 반영한다.
//
// 세션이 nil이면 프로필도 같은 갱신에서 동기적으로 비운다.
// 세션이 있으면 먼저 세션만 반영해 통지한 뒤 프로필을 조회한다.
// 조회 실패는 로그만 남기고 프로필 없음으로 처리한다.
func (s *Store) Apply(ctx context.Context, session *model.Session) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq

	if session == nil {
		s.session = nil
		s.profile = nil
		s.notifyLocked()
		s.mu.Unlock()
		return
	}

	s.session = session
	s.profile = nil
	s.notifyLocked()
	s.mu.Unlock()

	s.loadProfile(ctx, session.UserID, seq)
}

// Refresh는 프로필을 다시 조회한다. 세션이 없으면 아무것도 하지 않는다.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.closed || s.session == nil {
		s.mu.Unlock()
		return
	}
	userID := s.session.UserID
	seq := s.seq
	s.mu.Unlock()

	s.loadProfile(ctx, userID, seq)
}

// Close는 모든 구독을 해제하고 이후의 변경을 무시한다.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = map[int]func(State){}
}

// loadProfile은 프로필을 조회하고 순번이 아직 최신이면 반영한다.
func (s *Store) loadProfile(ctx context.Context, userID string, seq uint64) {
	profile, err := s.loader.FindByID(ctx, userID)
	if err != nil {
		slog.Warn("failed to load profile",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		profile = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 조회 중에 상태가 바뀌었으면 결과를 버린다
	if s.closed || seq != s.seq {
		return
	}
	// 세션이 사라졌으면 프로필도 반영하지 않는다
	if s.session == nil {
		return
	}
	if profile != nil && profile.ID != s.session.UserID {
		slog.Warn("profile does not match session",
			slog.String("profile_id", profile.ID),
			slog.String("session_user_id", s.session.UserID),
		)
		return
	}

	s.profile = profile
	s.notifyLocked()
}

// notifyLocked는 모든 구독자에게 현재 상태를 통지한다.
// 호출 측이 mu를 보유해야 한다.
func (s *Store) notifyLocked() {
	state := State{Session: s.session, Profile: s.profile}
	for _, fn := range s.subs {
		fn(state)
	}
}
