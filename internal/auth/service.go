// Package auth는 이메일/비밀번호 인증과 세션 관리를 제공한다.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gwonyoung/aibuup/internal/model"
	"github.com/gwonyoung/aibuup/internal/repository"
)

const (
	minPasswordLength = 6
	minNicknameLength = 2
)

// ServiceConfig는 인증 서비스의 설정.
type ServiceConfig struct {
	SessionMaxAge int // 세션 유효 기간(초)
}

// Service는 회원 가입, 로그인, 세션에 관한 비즈니스 로직을 제공한다.
type Service struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService는 Service를 생성한다.
func NewService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// Signup은 계정과 프로필을 생성하고 세션을 발급한다.
// 신규 회원의 등급은 SILVER로 시작한다.
func (s *Service) Signup(ctx context.Context, email, password, nickname string) (*model.Session, *model.Profile, error) {
	email = strings.TrimSpace(email)
	nickname = strings.TrimSpace(nickname)

	if err := validateSignup(email, password, nickname); err != nil {
		return nil, nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, nil, model.NewEmailTakenError(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.New().String()
	now := time.Now()

	user := &model.User{
		ID:           userID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	profile := &model.Profile{
		ID:        userID,
		Email:     email,
		Nickname:  nickname,
		Role:      model.RoleSilver,
		CreatedAt: now,
	}

	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		return nil, nil, fmt.Errorf("failed to create user and profile: %w", err)
	}

	slog.Info("new user signed up",
		slog.String("user_id", userID),
		slog.String("nickname", nickname),
	)

	session, err := s.createSession(ctx, userID, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, profile, nil
}

// Signin은 자격 증명을 검증하고 세션을 발급한다.
// 계정이 없거나 비밀번호가 다른 경우 동일한 에러를 반환한다.
func (s *Service) Signin(ctx context.Context, email, password string) (*model.Session, *model.Profile, error) {
	email = strings.TrimSpace(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	profile, err := s.profileRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if profile == nil {
		return nil, nil, model.NewProfileNotFoundError()
	}

	session, err := s.createSession(ctx, user.ID, user.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user signed in", slog.String("user_id", user.ID))
	return session, profile, nil
}

// Signout은 세션을 파기한다.
func (s *Service) Signout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user signed out", slog.String("session_id", sessionID))
	return nil
}

// CurrentIdentity는 세션 ID로부터 세션과 프로필을 조회한다.
// 세션이 유효하지 않으면 nil, nil을 반환한다.
func (s *Service) CurrentIdentity(ctx context.Context, sessionID string) (*model.Session, *model.Profile, error) {
	if sessionID == "" {
		return nil, nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil, nil
	}

	profile, err := s.profileRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if profile == nil {
		// 세션만 남고 프로필이 지워진 경우는 로그아웃 취급
		return nil, nil, nil
	}

	return session, profile, nil
}

// createSession은 세션을 생성하고 영속화한다.
func (s *Service) createSession(ctx context.Context, userID, email string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		Email:     email,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// validateSignup은 가입 입력값을 검증한다.
func validateSignup(email, password, nickname string) error {
	if email == "" || !strings.Contains(email, "@") {
		return model.NewValidationError("올바른 이메일 주소를 입력해주세요.")
	}
	if len(password) < minPasswordLength {
		return model.NewValidationError("비밀번호는 6자 이상이어야 합니다.")
	}
	if utf8.RuneCountInString(nickname) < minNicknameLength {
		return model.NewValidationError("닉네임은 2자 이상이어야 합니다.")
	}
	return nil
}

// generateSessionID는 암호학적으로 안전한 세션 ID를 생성한다.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
