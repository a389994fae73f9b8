package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gwonyoung/aibuup/internal/interview"
	"github.com/gwonyoung/aibuup/internal/middleware"
	"github.com/gwonyoung/aibuup/internal/model"
)

// InterviewServiceInterface는 인터뷰 핸들러가 필요로 하는 서비스 인터페이스.
type InterviewServiceInterface interface {
	// StartScamReport는 피해 제보 인터뷰를 시작한다.
	StartScamReport(ctx context.Context, userID string) (*interview.StartResult, error)
	// AnswerScamReport는 답변을 기록하고 다음 질문 또는 완료 결과를 반환한다.
	AnswerScamReport(ctx context.Context, userID, flowID, answer, authorName string) (*interview.AnswerResult, error)
	// StartAssisted는 AI 글쓰기 도우미 인터뷰를 시작한다.
	StartAssisted(ctx context.Context, userID string, role model.Role, category string) (*interview.StartResult, error)
	// SendAssisted는 사용자 메시지를 전달하고 모델 응답을 반환한다.
	SendAssisted(ctx context.Context, userID, flowID, message string) (*interview.ChatResult, error)
	// FinalizeAssisted는 대화를 종합해 게시글을 등록한다.
	FinalizeAssisted(ctx context.Context, userID, flowID, authorName string) (*model.Post, error)
}

// GenerateMetricsRecorder는 AI 생성 메트릭 기록의 인터페이스.
// metrics.MetricsCollector의 부분집합으로 정의한다.
type GenerateMetricsRecorder interface {
	RecordGenerateSuccess(kind string)
	RecordGenerateFailure(kind string)
	RecordGenerateLatency(duration time.Duration)
}

// InterviewHandler는 가이드형 인터뷰의 HTTP 핸들러. 전 경로 로그인 필수.
type InterviewHandler struct {
	service InterviewServiceInterface
	metrics GenerateMetricsRecorder
}

// NewInterviewHandler는 InterviewHandler를 생성한다. metrics는 nil 허용.
func NewInterviewHandler(service InterviewServiceInterface, metrics GenerateMetricsRecorder) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		metrics: metrics,
	}
}

type answerRequest struct {
	FlowID string `json:"flow_id"`
	Answer string `json:"answer"`
}

type assistedStartRequest struct {
	Category string `json:"category"`
}

type assistedMessageRequest struct {
	FlowID  string `json:"flow_id"`
	Message string `json:"message"`
}

type finalizeRequest struct {
	FlowID string `json:"flow_id"`
}

// answerResponse는 고정 질문 인터뷰의 답변 처리 응답.
type answerResponse struct {
	Question string        `json:"question,omitempty"`
	Done     bool          `json:"done"`
	Messages []string      `json:"messages,omitempty"`
	Post     *postResponse `json:"post,omitempty"`
}

// StartScamReport는 피해 제보 인터뷰 시작을 처리한다.
// POST /api/interview/scam/start
func (h *InterviewHandler) StartScamReport(w http.ResponseWriter, r *http.Request) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	result, err := h.service.StartScamReport(r.Context(), profile.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// AnswerScamReport는 피해 제보 인터뷰의 답변을 처리한다.
// 마지막 답변이면 리포트 생성까지 수행한다.
// POST /api/interview/scam/answer
func (h *InterviewHandler) AnswerScamReport(w http.ResponseWriter, r *http.Request) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	start := time.Now()
	result, err := h.service.AnswerScamReport(r.Context(), profile.ID, req.FlowID, req.Answer, profile.Nickname)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 마지막 답변에서만 리포트 생성이 일어난다
	if result.Done && h.metrics != nil {
		if result.Fallback {
			h.metrics.RecordGenerateFailure("scam_report")
		} else {
			h.metrics.RecordGenerateSuccess("scam_report")
		}
		h.metrics.RecordGenerateLatency(time.Since(start))
	}

	resp := answerResponse{
		Question: result.Question,
		Done:     result.Done,
		Messages: result.Messages,
	}
	if result.Post != nil {
		post := toPostResponse(result.Post)
		resp.Post = &post
	}
	writeJSON(w, http.StatusOK, resp)
}

// StartAssisted는 AI 글쓰기 도우미 인터뷰 시작을 처리한다.
// POST /api/interview/assisted/start
func (h *InterviewHandler) StartAssisted(w http.ResponseWriter, r *http.Request) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req assistedStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	result, err := h.service.StartAssisted(r.Context(), profile.ID, profile.Role, req.Category)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SendAssisted는 도우미 인터뷰의 대화 메시지를 처리한다.
// POST /api/interview/assisted/message
func (h *InterviewHandler) SendAssisted(w http.ResponseWriter, r *http.Request) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req assistedMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	start := time.Now()
	result, err := h.service.SendAssisted(r.Context(), profile.ID, req.FlowID, req.Message)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordGenerateFailure("assisted_chat")
		}
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordGenerateSuccess("assisted_chat")
		h.metrics.RecordGenerateLatency(time.Since(start))
	}
	writeJSON(w, http.StatusOK, result)
}

// FinalizeAssisted는 도우미 인터뷰를 종합해 게시글로 등록한다.
// POST /api/interview/assisted/finalize
func (h *InterviewHandler) FinalizeAssisted(w http.ResponseWriter, r *http.Request) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req finalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	start := time.Now()
	post, err := h.service.FinalizeAssisted(r.Context(), profile.ID, req.FlowID, profile.Nickname)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordGenerateFailure("assisted_report")
		}
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordGenerateSuccess("assisted_report")
		h.metrics.RecordGenerateLatency(time.Since(start))
	}
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}
