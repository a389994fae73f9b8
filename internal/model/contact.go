// Package model은 도메인 모델을 정의한다.
package model

import "time"

// Contact는 문의 폼으로 접수된 메시지를 표현한다.
type Contact struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}
