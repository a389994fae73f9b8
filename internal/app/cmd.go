package app

// Command는 애플리케이션의 기동 모드를 표현한다.
type Command string

const (
	// CommandServe는 API 서버 모드로 기동함을 나타낸다.
	CommandServe Command = "serve"
	// CommandWorker는 워커 모드로 기동함을 나타낸다.
	CommandWorker Command = "worker"
	// CommandMigrate는 데이터베이스 마이그레이션을 실행함을 나타낸다.
	CommandMigrate Command = "migrate"
	// CommandHealthcheck는 헬스 체크를 실행함을 나타낸다.
	// distroless 환경의 Docker 헬스 체크용.
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand는 커맨드라인 인수에서 서브커맨드를 해석한다.
// 인수가 비어 있거나 지원하지 않는 커맨드인 경우 CommandServe를 반환한다.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "worker":
		return CommandWorker
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
