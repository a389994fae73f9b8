package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup은 JSON 구조화 로그를 출력하는 slog.Logger를 생성하여 반환한다.
// writer가 지정된 경우 해당 writer로 출력한다.
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupDefault는 JSON 구조화 로그 출력을 글로벌 로거로 설정한다.
// writer가 지정된 경우 해당 writer로 출력한다.
// 운영 환경에서는 os.Stdout을 전달하는 것을 상정한다.
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w)
	slog.SetDefault(logger)
}
