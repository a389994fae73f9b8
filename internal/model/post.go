// Package model은 도메인 모델을 정의한다.
package model

import "time"

// 게시판 카테고리 이름.
const (
	CategoryAll     = "전체"
	CategoryScam    = "강팔이피해사례"
	CategoryExp     = "Ai부업경험담"
	CategoryVision  = "미래비전공유"
	CategoryRequest = "검증요청게시판"
	CategoryProfit  = "수익인증"
	CategoryCollab  = "협업및신사업제안"

	// VIP 카테고리(고수의 방). GOLD 등급 이상만 접근 가능.
	CategoryVIPAnalysis = "검증된부업분석-투자시간/비용체계적정리"
	CategoryVIPKnowhow  = "회원노하우전수"
)

// BoardCategories는 일반 게시판 카테고리 목록(전체 제외).
var BoardCategories = []string{
	CategoryScam,
	CategoryExp,
	CategoryVision,
	CategoryRequest,
	CategoryProfit,
	CategoryCollab,
}

// VIPCategories는 GOLD 등급 이상만 접근 가능한 카테고리 목록.
var VIPCategories = []string{
	CategoryVIPAnalysis,
	CategoryVIPKnowhow,
}

// PostsPerPage는 게시글 목록의 페이지당 건수.
const PostsPerPage = 10

// IsVIPCategory는 카테고리가 VIP 전용인지 판별한다.
func IsVIPCategory(category string) bool {
	for _, c := range VIPCategories {
		if c == category {
			return true
		}
	}
	return false
}

// IsValidCategory는 글 작성 가능한 카테고리인지 판별한다.
// '전체'는 조회 전용이므로 작성 대상에 포함되지 않는다.
func IsValidCategory(category string) bool {
	for _, c := range BoardCategories {
		if c == category {
			return true
		}
	}
	return IsVIPCategory(category)
}

// Post는 커뮤니티 게시글을 표현한다.
// Tool, Cost, DailyTime, Result는 부업 데이터 필드로 선택 입력이다.
type Post struct {
	ID        string
	Title     string
	Author    string
	Category  string
	Content   string
	Tool      string
	Cost      string
	DailyTime string
	Result    string
	Likes     int
	UserID    string
	CreatedAt time.Time
}

// Comment는 게시글에 달린 댓글을 표현한다.
// AuthorName과 Role은 작성 시점의 프로필 값을 스냅샷으로 보존한다.
type Comment struct {
	ID         string
	PostID     string
	UserID     string
	AuthorName string
	Role       Role
	Text       string
	CreatedAt  time.Time
}
