package newsfetch

import "time"

// FetchResult는 HTTP 상태 코드에 따른 수집 결과 분류.
type FetchResult int

const (
	// FetchResultOK는 수집 성공(200).
	FetchResultOK FetchResult = iota
	// FetchResultNotModified는 콘텐츠 미변경(304).
	FetchResultNotModified
	// FetchResultStop은 수집 중단이 필요한 상태(404/410/401/403).
	FetchResultStop
	// FetchResultBackoff는 백오프가 필요한 상태(429/5xx).
	FetchResultBackoff
	// FetchResultUnknown은 알 수 없는 상태 코드.
	FetchResultUnknown
)

const (
	// initialBackoff는 지수 백오프의 최초 지연(30분).
	initialBackoff = 30 * time.Minute
	// maxBackoff는 지수 백오프의 최대 지연(12시간).
	maxBackoff = 12 * time.Hour
)

// ClassifyHTTPStatus는 HTTP 상태 코드를 수집 결과로 분류한다.
func ClassifyHTTPStatus(statusCode int) FetchResult {
	switch {
	case statusCode == 200:
		return FetchResultOK
	case statusCode == 304:
		return FetchResultNotModified
	case statusCode == 404 || statusCode == 410:
		return FetchResultStop
	case statusCode == 401 || statusCode == 403:
		return FetchResultStop
	case statusCode == 429:
		return FetchResultBackoff
	case statusCode >= 500:
		return FetchResultBackoff
	default:
		return FetchResultUnknown
	}
}

// CalculateBackoff는 연속 에러 횟수에 따라 지수 백오프 지연을 계산한다.
// 최초 30분, 2배씩 증가, 최대 12시간.
func CalculateBackoff(consecutiveErrors int) time.Duration {
	delay := initialBackoff
	for i := 0; i < consecutiveErrors; i++ {
		delay *= 2
		if delay > maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

// sourceState는 수집 소스별 실패 이력을 메모리에 보관한다.
// 소스 테이블에는 기록하지 않으며 프로세스 재시작 시 초기화된다.
type sourceState struct {
	consecutiveErrors int
	nextAttempt       time.Time
	stopped           bool
}

// applyBackoff는 실패를 기록하고 다음 시도 시각을 지수 백오프로 미룬다.
func (s *sourceState) applyBackoff(now time.Time) {
	s.consecutiveErrors++
	s.nextAttempt = now.Add(CalculateBackoff(s.consecutiveErrors - 1))
}

// applySuccess는 성공 시 실패 이력을 초기화한다.
func (s *sourceState) applySuccess() {
	s.consecutiveErrors = 0
	s.nextAttempt = time.Time{}
}

// applyStop은 소스를 이번 프로세스 수명 동안 수집 대상에서 제외한다.
func (s *sourceState) applyStop() {
	s.stopped = true
}

// due는 지금 수집을 시도해도 되는지 판별한다.
func (s *sourceState) due(now time.Time) bool {
	return !s.stopped && !now.Before(s.nextAttempt)
}
