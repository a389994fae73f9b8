// Package cleanup은 만료 데이터의 자동 삭제 잡을 제공한다.
// 만료된 세션과 오래된 AI 인터뷰 플로우를 주기적으로 정리한다.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gwonyoung/aibuup/internal/repository"
)

// FlowPruner는 만료된 인터뷰 플로우의 삭제 인터페이스.
// interview.FlowStore의 부분집합으로 정의한다.
type FlowPruner interface {
	DeleteExpired(now time.Time) int
}

// CleanupJob은 만료 데이터 삭제 잡. 멱등하게 동작하며
// 삭제 대상이 없어도 에러가 되지 않는다.
type CleanupJob struct {
	sessions repository.SessionRepository
	flows    FlowPruner
	logger   *slog.Logger
}

// NewCleanupJob은 새 CleanupJob을 생성한다. sessions와 flows는 nil 허용.
// 데모 모드에는 세션 테이블이 없으므로 sessions 없이 플로우만 정리한다.
func NewCleanupJob(sessions repository.SessionRepository, flows FlowPruner, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		sessions: sessions,
		flows:    flows,
		logger:   logger,
	}
}

// Start는 지정 간격의 티커로 정리 잡을 반복 실행한다.
// 컨텍스트가 취소될 때까지 계속된다.
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("정리 잡을 시작했습니다",
		slog.Duration("interval", interval),
	)

	if err := j.Run(ctx); err != nil {
		j.logger.Error("정리 잡 실행에 실패했습니다",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("정리 잡을 정지했습니다")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("정리 잡 실행에 실패했습니다",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Run은 만료된 세션과 인터뷰 플로우를 1회 삭제한다.
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()
	now := time.Now()

	var deletedSessions int64
	if j.sessions != nil {
		var err error
		deletedSessions, err = j.sessions.DeleteExpired(ctx, now)
		if err != nil {
			j.logger.Error("만료 세션 삭제에 실패했습니다",
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("만료 세션 삭제에 실패: %w", err)
		}
	}

	deletedFlows := 0
	if j.flows != nil {
		deletedFlows = j.flows.DeleteExpired(now)
	}

	duration := time.Since(start)
	j.logger.Info("정리 잡이 완료되었습니다",
		slog.Int64("deleted_sessions", deletedSessions),
		slog.Int("deleted_flows", deletedFlows),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
