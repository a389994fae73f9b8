package handler

import (
	"time"

	"github.com/gwonyoung/aibuup/internal/board"
	"github.com/gwonyoung/aibuup/internal/model"
)

// postResponse는 게시글의 API 응답.
type postResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	Content   string `json:"content"`
	Tool      string `json:"tool,omitempty"`
	Cost      string `json:"cost,omitempty"`
	DailyTime string `json:"daily_time,omitempty"`
	Result    string `json:"result,omitempty"`
	Likes     int    `json:"likes"`
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at"`
}

// commentResponse는 댓글의 API 응답.
type commentResponse struct {
	ID         string `json:"id"`
	PostID     string `json:"post_id"`
	UserID     string `json:"user_id"`
	AuthorName string `json:"author_name"`
	Role       string `json:"role"`
	Text       string `json:"text"`
	CreatedAt  string `json:"created_at"`
}

// postListResponse는 페이지 단위 게시글 목록의 API 응답.
type postListResponse struct {
	Posts      []postResponse `json:"posts"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

// postDetailResponse는 게시글 상세와 댓글의 API 응답.
type postDetailResponse struct {
	Post     postResponse      `json:"post"`
	Comments []commentResponse `json:"comments"`
}

// newsResponse는 뉴스의 API 응답.
type newsResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}

// newsSourceResponse는 뉴스 수집 소스의 API 응답.
type newsSourceResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Category      string `json:"category"`
	LastFetchedAt string `json:"last_fetched_at,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toPostResponse(post *model.Post) postResponse {
	return postResponse{
		ID:        post.ID,
		Title:     post.Title,
		Author:    post.Author,
		Category:  post.Category,
		Content:   post.Content,
		Tool:      post.Tool,
		Cost:      post.Cost,
		DailyTime: post.DailyTime,
		Result:    post.Result,
		Likes:     post.Likes,
		UserID:    post.UserID,
		CreatedAt: formatTime(post.CreatedAt),
	}
}

func toCommentResponse(comment *model.Comment) commentResponse {
	return commentResponse{
		ID:         comment.ID,
		PostID:     comment.PostID,
		UserID:     comment.UserID,
		AuthorName: comment.AuthorName,
		Role:       string(comment.Role),
		Text:       comment.Text,
		CreatedAt:  formatTime(comment.CreatedAt),
	}
}

func toPostListResponse(list *board.PostList) postListResponse {
	posts := make([]postResponse, 0, len(list.Posts))
	for _, post := range list.Posts {
		posts = append(posts, toPostResponse(post))
	}
	return postListResponse{
		Posts:      posts,
		Total:      list.Total,
		Page:       list.Page,
		TotalPages: list.TotalPages,
	}
}

func toPostDetailResponse(detail *board.PostDetail) postDetailResponse {
	comments := make([]commentResponse, 0, len(detail.Comments))
	for _, comment := range detail.Comments {
		comments = append(comments, toCommentResponse(comment))
	}
	return postDetailResponse{
		Post:     toPostResponse(detail.Post),
		Comments: comments,
	}
}

func toNewsResponse(news *model.News) newsResponse {
	return newsResponse{
		ID:       news.ID,
		Title:    news.Title,
		Category: news.Category,
		Date:     news.Date,
		Summary:  news.Summary,
		Content:  news.Content,
		ImageURL: news.ImageURL,
	}
}

func toNewsSourceResponse(source *model.NewsSource) newsSourceResponse {
	resp := newsSourceResponse{
		ID:       source.ID,
		URL:      source.URL,
		Category: source.Category,
	}
	if source.LastFetchedAt != nil {
		resp.LastFetchedAt = formatTime(*source.LastFetchedAt)
	}
	return resp
}
