// Package model은 도메인 모델을 정의한다.
package model

import "time"

// 뉴스 카테고리.
const (
	NewsCategoryTrend    = "Trend"
	NewsCategoryTutorial = "Tutorial"
	NewsCategoryReview   = "Review"
	NewsCategoryUpdate   = "Update"
)

// NewsCategories는 뉴스 카테고리 목록.
var NewsCategories = []string{
	NewsCategoryTrend,
	NewsCategoryTutorial,
	NewsCategoryReview,
	NewsCategoryUpdate,
}

// IsValidNewsCategory는 뉴스 카테고리가 정의된 목록에 포함되는지 판별한다.
func IsValidNewsCategory(category string) bool {
	for _, c := range NewsCategories {
		if c == category {
			return true
		}
	}
	return false
}

// News는 에디토리얼 뉴스 항목을 표현한다.
type News struct {
	ID        string
	Title     string
	Category  string
	Date      string
	Summary   string
	Content   string
	ImageURL  string
	CreatedAt time.Time
}

// NewsSource는 뉴스 자동 수집 대상 RSS 소스를 표현한다.
// 운영자가 등록하며, 워커가 주기적으로 가져와 뉴스 초안을 생성한다.
type NewsSource struct {
	ID            string
	URL           string
	Category      string
	LastFetchedAt *time.Time
	CreatedAt     time.Time
}
