// Package model은 도메인 모델을 정의한다.
package model

import "fmt"

// APIError는 통일된 에러 포맷을 표현한다.
// UI에 표시할 원인 카테고리와 대처 방법을 포함한다.
type APIError struct {
	Code     string // 에러 코드
	Message  string // 에러 메시지
	Category string // 카테고리: auth, validation, board, news, ai, system
	Action   string // 사용자 대처 방법
}

// Error는 error 인터페이스를 구현한다.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 정의된 에러 코드
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeProfileNotFound    = "PROFILE_NOT_FOUND"
	ErrCodeAdminOnly          = "ADMIN_ONLY"
	ErrCodeRoleRequired       = "ROLE_REQUIRED"
	ErrCodeSelfWithdrawal     = "SELF_WITHDRAWAL_FORBIDDEN"
	ErrCodeInvalidCategory    = "INVALID_CATEGORY"
	ErrCodePostNotFound       = "POST_NOT_FOUND"
	ErrCodeCommentNotFound    = "COMMENT_NOT_FOUND"
	ErrCodeAlreadyLiked       = "ALREADY_LIKED"
	ErrCodeNewsNotFound       = "NEWS_NOT_FOUND"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeFlowNotFound       = "FLOW_NOT_FOUND"
	ErrCodeFlowFinished       = "FLOW_FINISHED"
	ErrCodeInvalidURL         = "INVALID_URL"
	ErrCodeSSRFBlocked        = "SSRF_BLOCKED"
	ErrCodeDemoMode           = "DEMO_MODE"
)

// NewUnauthorizedError는 로그인되지 않은 요청에 대한 에러를 생성한다.
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "로그인이 필요합니다.",
		Category: "auth",
		Action:   "로그인 후 다시 시도해 주세요.",
	}
}

// NewInvalidCredentialsError는 이메일 또는 비밀번호 불일치 에러를 생성한다.
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "이메일 또는 비밀번호가 올바르지 않습니다.",
		Category: "auth",
		Action:   "입력한 이메일과 비밀번호를 확인해 주세요.",
	}
}

// NewEmailTakenError는 이미 가입된 이메일로 회원가입을 시도한 경우의 에러를 생성한다.
func NewEmailTakenError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  fmt.Sprintf("이미 가입된 이메일입니다: %s", email),
		Category: "validation",
		Action:   "다른 이메일로 가입하거나, 기존 계정으로 로그인해 주세요.",
	}
}

// NewProfileNotFoundError는 프로필 미존재 에러를 생성한다.
func NewProfileNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotFound,
		Message:  "회원 정보를 찾을 수 없습니다.",
		Category: "auth",
		Action:   "다시 로그인해 주세요.",
	}
}

// NewAdminOnlyError는 운영자 전용 기능에 대한 접근 거부 에러를 생성한다.
func NewAdminOnlyError() *APIError {
	return &APIError{
		Code:     ErrCodeAdminOnly,
		Message:  "운영자만 사용할 수 있는 기능입니다.",
		Category: "auth",
		Action:   "운영자 계정으로 로그인해 주세요.",
	}
}

// NewRoleRequiredError는 VIP 카테고리 접근 권한 부족 에러를 생성한다.
func NewRoleRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeRoleRequired,
		Message:  "고수의 방 카테고리는 GOLD 등급 이상만 작성이 가능합니다.",
		Category: "auth",
		Action:   "일반 게시판에서 활동하여 등급을 높여보세요.",
	}
}

// NewSelfWithdrawalError는 운영자가 자기 자신을 삭제하려는 경우의 에러를 생성한다.
func NewSelfWithdrawalError() *APIError {
	return &APIError{
		Code:     ErrCodeSelfWithdrawal,
		Message:  "자기 자신의 계정은 삭제할 수 없습니다.",
		Category: "validation",
		Action:   "다른 운영자 계정으로 로그인하여 삭제해 주세요.",
	}
}

// NewInvalidCategoryError는 정의되지 않은 카테고리 에러를 생성한다.
func NewInvalidCategoryError(category string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCategory,
		Message:  fmt.Sprintf("존재하지 않는 카테고리입니다: %s", category),
		Category: "validation",
		Action:   "게시판 카테고리 목록에서 선택해 주세요.",
	}
}

// NewPostNotFoundError는 게시글 미존재 에러를 생성한다.
func NewPostNotFoundError(postID string) *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  fmt.Sprintf("게시글을 찾을 수 없습니다: %s", postID),
		Category: "board",
		Action:   "게시글이 삭제되었을 수 있습니다. 목록을 새로고침해 주세요.",
	}
}

// NewCommentNotFoundError는 댓글 미존재 에러를 생성한다.
func NewCommentNotFoundError(commentID string) *APIError {
	return &APIError{
		Code:     ErrCodeCommentNotFound,
		Message:  fmt.Sprintf("댓글을 찾을 수 없습니다: %s", commentID),
		Category: "board",
		Action:   "댓글이 삭제되었을 수 있습니다. 페이지를 새로고침해 주세요.",
	}
}

// NewAlreadyLikedError는 이미 좋아요를 누른 게시글에 대한 중복 요청 에러를 생성한다.
func NewAlreadyLikedError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyLiked,
		Message:  "이미 좋아요를 누른 게시글입니다.",
		Category: "board",
		Action:   "좋아요는 게시글당 한 번만 누를 수 있습니다.",
	}
}

// NewNewsNotFoundError는 뉴스 미존재 에러를 생성한다.
func NewNewsNotFoundError(newsID string) *APIError {
	return &APIError{
		Code:     ErrCodeNewsNotFound,
		Message:  fmt.Sprintf("뉴스를 찾을 수 없습니다: %s", newsID),
		Category: "news",
		Action:   "뉴스 목록을 새로고침해 주세요.",
	}
}

// NewValidationError는 입력값 검증 실패 에러를 생성한다.
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("입력값이 올바르지 않습니다: %s", reason),
		Category: "validation",
		Action:   "입력 내용을 확인한 뒤 다시 시도해 주세요.",
	}
}

// NewFlowNotFoundError는 진행 중인 인터뷰가 없는 경우의 에러를 생성한다.
func NewFlowNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeFlowNotFound,
		Message:  "진행 중인 인터뷰를 찾을 수 없습니다.",
		Category: "ai",
		Action:   "인터뷰를 처음부터 다시 시작해 주세요.",
	}
}

// NewFlowFinishedError는 이미 제출된 인터뷰에 답변을 추가하려는 경우의 에러를 생성한다.
func NewFlowFinishedError() *APIError {
	return &APIError{
		Code:     ErrCodeFlowFinished,
		Message:  "이미 완료된 인터뷰입니다.",
		Category: "ai",
		Action:   "새 인터뷰를 시작해 주세요.",
	}
}

// NewInvalidURLError는 무효한 URL 에러를 생성한다.
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("올바르지 않은 URL입니다: %s", reason),
		Category: "validation",
		Action:   "http:// 또는 https:// 로 시작하는 URL을 입력해 주세요.",
	}
}

// NewDemoModeError는 데이터베이스 미설정 상태에서 회원가입/로그인을 시도한 경우의 에러를 생성한다.
func NewDemoModeError() *APIError {
	return &APIError{
		Code:     ErrCodeDemoMode,
		Message:  "수퍼베이스 설정이 완료되지 않았습니다.",
		Category: "system",
		Action:   "데모 모드에서는 데모 계정으로 자동 로그인됩니다.",
	}
}

// NewSSRFBlockedError는 SSRF 차단 에러를 생성한다.
func NewSSRFBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeSSRFBlocked,
		Message:  "보안 정책에 따라 해당 URL에 대한 접근이 차단되었습니다.",
		Category: "validation",
		Action:   "공개된 웹사이트의 URL을 입력해 주세요. 내부 네트워크 주소는 허용되지 않습니다.",
	}
}
