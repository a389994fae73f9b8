package cleanup

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gwonyoung/aibuup/internal/model"
	"github.com/gwonyoung/aibuup/internal/repository"
)

// mockSessionRepo는 테스트용 SessionRepository 구현.
type mockSessionRepo struct {
	deleteExpiredCalled bool
	deleteExpiredResult int64
	deleteExpiredErr    error
}

func (m *mockSessionRepo) Create(_ context.Context, _ *model.Session) error {
	return nil
}

func (m *mockSessionRepo) FindByID(_ context.Context, _ string) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(_ context.Context, _ string) error {
	return nil
}

func (m *mockSessionRepo) DeleteByUserID(_ context.Context, _ string) error {
	return nil
}

func (m *mockSessionRepo) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	m.deleteExpiredCalled = true
	return m.deleteExpiredResult, m.deleteExpiredErr
}

var _ repository.SessionRepository = (*mockSessionRepo)(nil)

// mockFlowPruner는 테스트용 FlowPruner 구현.
type mockFlowPruner struct {
	called bool
	result int
}

func (m *mockFlowPruner) DeleteExpired(_ time.Time) int {
	m.called = true
	return m.result
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// logHasField는 JSON 로그에서 해당 필드 값이 기록되었는지 확인한다.
func logHasField(t *testing.T, buf *bytes.Buffer, key string, want float64) bool {
	t.Helper()
	var entry map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if v, ok := entry[key]; ok && v == want {
			return true
		}
	}
	return false
}

func TestNewCleanupJob_ReturnsNonNil(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockSessionRepo{}, &mockFlowPruner{}, newTestLogger(&buf))

	if job == nil {
		t.Fatal("NewCleanupJob은 nil을 반환해서는 안 된다")
	}
}

func TestRun_DeletesExpiredSessionsAndFlows(t *testing.T) {
	var buf bytes.Buffer
	sessions := &mockSessionRepo{deleteExpiredResult: 7}
	flows := &mockFlowPruner{result: 3}
	job := NewCleanupJob(sessions, flows, newTestLogger(&buf))

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !sessions.deleteExpiredCalled {
		t.Error("세션 DeleteExpired가 호출되어야 한다")
	}
	if !flows.called {
		t.Error("플로우 DeleteExpired가 호출되어야 한다")
	}
	if !logHasField(t, &buf, "deleted_sessions", 7) {
		t.Errorf("로그에 deleted_sessions=7이 기록되어야 한다. 로그: %s", buf.String())
	}
	if !logHasField(t, &buf, "deleted_flows", 3) {
		t.Errorf("로그에 deleted_flows=3이 기록되어야 한다. 로그: %s", buf.String())
	}
}

func TestRun_NilFlowPruner(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockSessionRepo{deleteExpiredResult: 1}, nil, newTestLogger(&buf))

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !logHasField(t, &buf, "deleted_flows", 0) {
		t.Errorf("플로우 저장소가 없으면 deleted_flows=0으로 기록되어야 한다. 로그: %s", buf.String())
	}
}

func TestRun_NilSessionRepo(t *testing.T) {
	var buf bytes.Buffer
	flows := &mockFlowPruner{result: 2}
	job := NewCleanupJob(nil, flows, newTestLogger(&buf))

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !logHasField(t, &buf, "deleted_sessions", 0) {
		t.Errorf("세션 저장소가 없으면 deleted_sessions=0으로 기록되어야 한다. 로그: %s", buf.String())
	}
	if !logHasField(t, &buf, "deleted_flows", 2) {
		t.Errorf("플로우 정리는 세션 저장소 없이도 수행되어야 한다. 로그: %s", buf.String())
	}
}

func TestRun_ReturnsErrorOnSessionDeleteFailure(t *testing.T) {
	var buf bytes.Buffer
	sessions := &mockSessionRepo{deleteExpiredErr: context.DeadlineExceeded}
	flows := &mockFlowPruner{}
	job := NewCleanupJob(sessions, flows, newTestLogger(&buf))

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("세션 삭제 실패 시 에러를 반환해야 한다")
	}

	if flows.called {
		t.Error("세션 삭제 실패 시 플로우 삭제는 건너뛴다")
	}
	if !strings.Contains(buf.String(), "ERROR") {
		t.Errorf("에러 로그가 기록되어야 한다. 로그: %s", buf.String())
	}
}

func TestRun_Idempotent_ZeroRows(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockSessionRepo{}, &mockFlowPruner{}, newTestLogger(&buf))

	// 삭제 대상이 없어도 연속 실행에서 에러가 나지 않는다
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("1회차 Run() error = %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("2회차 Run() error = %v", err)
	}

	if !logHasField(t, &buf, "deleted_sessions", 0) {
		t.Errorf("0건 삭제 시에도 로그가 기록되어야 한다. 로그: %s", buf.String())
	}
}

func TestRun_LogsExecutionTime(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockSessionRepo{deleteExpiredResult: 2}, &mockFlowPruner{}, newTestLogger(&buf))

	_ = job.Run(context.Background())

	var entry map[string]interface{}
	found := false
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if _, ok := entry["duration_ms"]; ok {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("로그에 duration_ms가 기록되어야 한다. 로그: %s", buf.String())
	}
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockSessionRepo{}, &mockFlowPruner{}, newTestLogger(&buf))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		job.Start(ctx, time.Hour)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("컨텍스트 취소 후 Start가 종료되어야 한다")
	}
}
