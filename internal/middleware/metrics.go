package middleware

import "net/http"

// HTTPStatusRecorder는 응답 상태 코드 메트릭 기록의 인터페이스.
// metrics.MetricsCollector의 부분집합으로 정의한다.
type HTTPStatusRecorder interface {
	RecordHTTPStatus(statusCode int)
}

// NewMetricsMiddleware는 응답 상태 코드를 메트릭으로 기록하는 미들웨어를 반환한다.
func NewMetricsMiddleware(recorder HTTPStatusRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(sr, r)
			recorder.RecordHTTPStatus(sr.statusCode)
		})
	}
}
