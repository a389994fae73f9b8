package interview

import (
	"sync"
	"time"

	"github.com/gwonyoung/aibuup/internal/intelligence"
)

// flowKind는 인터뷰 방식의 구분.
type flowKind int

const (
	kindScam flowKind = iota
	kindAssisted
)

// flow는 진행 중인 인터뷰 한 건의 상태.
type flow struct {
	id        string
	userID    string
	kind      flowKind
	expiresAt time.Time

	// 고정 질문 인터뷰
	answers []string

	// 대화형 인터뷰
	category   string
	transcript []intelligence.Message
	ready      bool
}

// FlowStore는 진행 중인 인터뷰를 메모리에 보관한다.
// 일정 시간 활동이 없는 인터뷰는 만료되어 잊힌다.
type FlowStore struct {
	mu    sync.Mutex
	flows map[string]*flow
	ttl   time.Duration
}

// NewFlowStore는 FlowStore를 생성한다.
func NewFlowStore(ttl time.Duration) *FlowStore {
	return &FlowStore{
		flows: map[string]*flow{},
		ttl:   ttl,
	}
}

// put은 인터뷰를 등록하고 만료 시각을 설정한다.
func (s *FlowStore) put(f *flow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.expiresAt = time.Now().Add(s.ttl)
	s.flows[f.id] = f
}

// lookup은 소유자가 일치하는 유효한 인터뷰를 반환한다.
// 없거나 만료되었거나 소유자가 다르면 nil을 반환한다.
// 접근할 때마다 만료 시각을 연장한다. 호출자가 mu를 보유해야 한다.
func (s *FlowStore) lookup(id, userID string) *flow {
	f, ok := s.flows[id]
	if !ok {
		return nil
	}
	if time.Now().After(f.expiresAt) {
		delete(s.flows, id)
		return nil
	}
	if f.userID != userID {
		return nil
	}
	f.expiresAt = time.Now().Add(s.ttl)
	return f
}

// scamAnswerOutcome은 answerScam의 상태 전이 결과.
type scamAnswerOutcome int

const (
	scamFlowMissing scamAnswerOutcome = iota
	scamFlowFinished
	scamNextQuestion
	scamCompleted
)

// answerScam은 잠금 아래에서 답변을 기록하고 인터뷰 상태를 전이한다.
// 마지막 답변이면 인터뷰를 제거하면서 전체 답변을 반환하므로
// 동시에 들어온 마지막 답변 중 하나만 scamCompleted를 받는다.
func (s *FlowStore) answerScam(id, userID, answer string, total int) (scamAnswerOutcome, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.lookup(id, userID)
	if f == nil || f.kind != kindScam {
		return scamFlowMissing, nil
	}
	if len(f.answers) >= total {
		return scamFlowFinished, nil
	}

	f.answers = append(f.answers, answer)
	if len(f.answers) < total {
		return scamNextQuestion, append([]string(nil), f.answers...)
	}

	answers := f.answers
	delete(s.flows, id)
	return scamCompleted, answers
}

// assistedState는 대화형 인터뷰의 스냅샷.
type assistedState struct {
	category   string
	transcript []intelligence.Message
	ready      bool
}

// assistedSnapshot은 소유자가 일치하는 대화형 인터뷰의 사본을 반환한다.
func (s *FlowStore) assistedSnapshot(id, userID string) (assistedState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.lookup(id, userID)
	if f == nil || f.kind != kindAssisted {
		return assistedState{}, false
	}
	return assistedState{
		category:   f.category,
		transcript: append([]intelligence.Message(nil), f.transcript...),
		ready:      f.ready,
	}, true
}

// extendAssisted는 주고받은 메시지 한 쌍을 대화에 추가한다.
// ready가 true이면 인터뷰를 완료 상태로 표시한다.
// 추가 후의 완료 상태와 인터뷰 존재 여부를 반환한다.
func (s *FlowStore) extendAssisted(id, userID, message, reply string, ready bool) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.lookup(id, userID)
	if f == nil || f.kind != kindAssisted {
		return false, false
	}
	f.transcript = append(f.transcript,
		intelligence.Message{Role: "user", Text: message},
		intelligence.Message{Role: "model", Text: reply},
	)
	if ready {
		f.ready = true
	}
	return f.ready, true
}

// delete는 인터뷰를 제거한다.
func (s *FlowStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, id)
}

// DeleteExpired는 만료된 인터뷰를 일괄 제거하고 제거 건수를 반환한다.
func (s *FlowStore) DeleteExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, f := range s.flows {
		if now.After(f.expiresAt) {
			delete(s.flows, id)
			count++
		}
	}
	return count
}

// Len은 보관 중인 인터뷰 수를 반환한다.
func (s *FlowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flows)
}
