// Package model은 도메인 모델을 정의한다.
package model

import "time"

// Role은 회원 등급을 표현하는 열거형이다.
type Role string

const (
	// RoleAdmin은 운영자 등급. 모든 카테고리 접근과 관리 콘솔 사용이 가능하다.
	RoleAdmin Role = "ADMIN"
	// RoleGold는 VIP 카테고리(고수의 방)에 접근 가능한 등급.
	RoleGold Role = "GOLD"
	// RoleSilver는 가입 직후 기본 등급.
	RoleSilver Role = "SILVER"
)

// Valid는 등급 값이 정의된 열거에 포함되는지 검증한다.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGold, RoleSilver:
		return true
	}
	return false
}

// CanAccessVIP는 VIP 카테고리 접근 권한 여부를 반환한다.
// GOLD 이상(GOLD, ADMIN)만 허용된다.
func (r Role) CanAccessVIP() bool {
	return r == RoleGold || r == RoleAdmin
}

// Profile은 애플리케이션 수준의 회원 정보를 표현한다.
// 인증 세션과는 구별되며, 등급(Role)을 통한 접근 제어에 사용된다.
type Profile struct {
	ID        string
	Email     string
	Nickname  string
	Role      Role
	CreatedAt time.Time
}

// Session은 로그인 세션을 표현한다.
// ID는 불투명한 세션 식별자로, 쿠키를 통해 클라이언트에 전달된다.
type Session struct {
	ID        string
	UserID    string
	Email     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
