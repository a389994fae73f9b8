// Package model은 도메인 모델을 정의한다.
package model

import "time"

// User는 인증 자격 증명을 보유하는 계정을 표현한다.
// 애플리케이션 수준의 회원 정보는 Profile이 담당한다.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
