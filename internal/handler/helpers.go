// Package handler는 HTTP 핸들러를 제공한다.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gwonyoung/aibuup/internal/model"
)

// apiErrorResponse는 통일 에러 포맷의 응답.
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeJSON은 JSON 응답을 기록한다.
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse는 통일 에러 포맷으로 에러 응답을 기록한다.
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeInvalidRequest는 요청 바디 해석 실패 응답을 기록한다.
func writeInvalidRequest(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "요청 바디를 해석할 수 없습니다.",
		Category: "validation",
		Action:   "올바른 JSON 형식으로 요청해 주세요.",
	})
}

// handleServiceError는 서비스 계층의 에러를 적절한 HTTP 상태 코드로 변환한다.
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError 이외의 에러는 내부 서버 에러로 취급한다
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "내부 오류가 발생했습니다.",
		Category: "system",
		Action:   "잠시 후 다시 시도해 주세요.",
	})
}

// mapAPIErrorToHTTPStatus는 APIError 코드를 HTTP 상태 코드로 매핑한다.
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized, model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeAdminOnly, model.ErrCodeRoleRequired, model.ErrCodeSSRFBlocked:
		return http.StatusForbidden
	case model.ErrCodeEmailTaken, model.ErrCodeAlreadyLiked:
		return http.StatusConflict
	case model.ErrCodeProfileNotFound, model.ErrCodePostNotFound,
		model.ErrCodeCommentNotFound, model.ErrCodeNewsNotFound,
		model.ErrCodeFlowNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidationFailed, model.ErrCodeInvalidCategory,
		model.ErrCodeInvalidURL, model.ErrCodeSelfWithdrawal:
		return http.StatusBadRequest
	case model.ErrCodeFlowFinished:
		return http.StatusConflict
	case model.ErrCodeDemoMode:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
