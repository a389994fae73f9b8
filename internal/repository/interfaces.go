// Package repository는 데이터 영속화 인터페이스를 정의한다.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/gwonyoung/aibuup/internal/model"
)

// UserRepository는 계정 데이터의 영속화 인터페이스.
type UserRepository interface {
	// FindByID는 지정 ID의 계정을 조회한다. 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail은 이메일로 계정을 조회한다. 없으면 nil을 반환한다.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// CreateWithProfile은 계정과 프로필을 동일 트랜잭션으로 생성한다.
	CreateWithProfile(ctx context.Context, user *model.User, profile *model.Profile) error

	// DeleteByID는 지정 ID의 계정을 삭제한다.
	// 연관된 profiles, sessions는 CASCADE 삭제된다.
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository는 세션 데이터의 영속화 인터페이스.
type SessionRepository interface {
	// Create는 세션을 생성한다.
	Create(ctx context.Context, session *model.Session) error
	// FindByID는 지정 ID의 세션을 조회한다. 기한이 지난 경우 nil을 반환한다.
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID는 지정 ID의 세션을 삭제한다.
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID는 지정 사용자의 모든 세션을 삭제한다.
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired는 기한이 지난 세션을 일괄 삭제하고 삭제 건수를 반환한다.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ProfileRepository는 회원 프로필의 영속화 인터페이스.
type ProfileRepository interface {
	// FindByID는 지정 ID의 프로필을 조회한다. 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id string) (*model.Profile, error)

	// List는 전체 프로필을 가입일 내림차순으로 반환한다.
	List(ctx context.Context) ([]*model.Profile, error)

	// UpdateRole은 프로필의 등급을 변경한다.
	UpdateRole(ctx context.Context, id string, role model.Role) error

	// DeleteByID는 지정 ID의 프로필과 계정을 삭제한다.
	DeleteByID(ctx context.Context, id string) error
}

// PostRepository는 게시글 데이터의 영속화 인터페이스.
type PostRepository interface {
	// FindByID는 지정 ID의 게시글을 조회한다. 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// List는 카테고리별 게시글 목록을 작성일 내림차순으로 반환한다.
	// category가 빈 문자열이면 전체를 대상으로 하되 excludeCategories에
	// 포함된 카테고리는 제외한다. 총 건수도 함께 반환한다.
	List(ctx context.Context, category string, excludeCategories []string, limit, offset int) ([]*model.Post, int, error)

	// Create는 게시글을 생성한다.
	Create(ctx context.Context, post *model.Post) error

	// DeleteByID는 지정 ID의 게시글을 삭제한다.
	// 연관된 comments, post_likes는 CASCADE 삭제된다.
	DeleteByID(ctx context.Context, id string) error

	// Like는 좋아요를 1회 기록하고 갱신된 좋아요 수를 반환한다.
	// 동일 사용자의 중복 좋아요는 alreadyLiked=true로 보고하며 수는 변하지 않는다.
	Like(ctx context.Context, postID, userID string) (likes int, alreadyLiked bool, err error)
}

// CommentRepository는 댓글 데이터의 영속화 인터페이스.
type CommentRepository interface {
	// ListByPostID는 게시글의 댓글을 작성일 오름차순으로 반환한다.
	ListByPostID(ctx context.Context, postID string) ([]*model.Comment, error)

	// FindByID는 지정 ID의 댓글을 조회한다. 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id string) (*model.Comment, error)

	// Create는 댓글을 생성한다.
	Create(ctx context.Context, comment *model.Comment) error

	// DeleteByID는 지정 ID의 댓글을 삭제한다.
	DeleteByID(ctx context.Context, id string) error
}

// NewsRepository는 뉴스 데이터의 영속화 인터페이스.
type NewsRepository interface {
	// List는 뉴스 목록을 등록일 내림차순으로 반환한다.
	List(ctx context.Context) ([]*model.News, error)

	// FindByID는 지정 ID의 뉴스를 조회한다. 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id string) (*model.News, error)

	// Create는 뉴스를 생성한다.
	Create(ctx context.Context, news *model.News) error

	// ExistsByTitle은 동일 제목의 뉴스 존재 여부를 반환한다.
	// 수집 워커의 중복 등록 방지에 사용한다.
	ExistsByTitle(ctx context.Context, title string) (bool, error)

	// DeleteByID는 지정 ID의 뉴스를 삭제한다.
	DeleteByID(ctx context.Context, id string) error
}

// NewsSourceRepository는 뉴스 수집 소스의 영속화 인터페이스.
type NewsSourceRepository interface {
	// List는 등록된 수집 소스 전체를 반환한다.
	List(ctx context.Context) ([]*model.NewsSource, error)

	// Create는 수집 소스를 등록한다.
	Create(ctx context.Context, source *model.NewsSource) error

	// UpdateLastFetchedAt은 소스의 마지막 수집 시각을 갱신한다.
	UpdateLastFetchedAt(ctx context.Context, id string, fetchedAt time.Time) error

	// DeleteByID는 지정 ID의 수집 소스를 삭제한다.
	DeleteByID(ctx context.Context, id string) error
}

// ContactRepository는 문의 데이터의 영속화 인터페이스.
type ContactRepository interface {
	// Create는 문의를 저장한다.
	Create(ctx context.Context, contact *model.Contact) error
}

// TxBeginner는 트랜잭션 시작용 인터페이스.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
