package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// minServiceKeyLength는 서비스 키가 유효로 판정되기 위한 최소 길이.
// 키 길이는 이 값을 초과해야 한다.
const minServiceKeyLength = 20

// CredentialSource는 자격 증명의 단일 출처를 표현한다.
// 로컬 오버라이드 파일, 환경 변수 등 우선순위가 있는 출처를 순서대로 전달한다.
type CredentialSource struct {
	Name string
	URL  string
	Key  string
}

// Resolution은 자격 증명 해석 결과를 표현한다.
// Configured가 false이면 데모 모드로 동작해야 하며, URL과 Key는 비어 있다.
type Resolution struct {
	Configured bool
	URL        string
	Key        string
	Source     string
}

// Resolve는 우선순위 순으로 정렬된 출처 목록에서 자격 증명을 해석한다.
// 순수 함수이며 네트워크 검증은 수행하지 않는다.
//
// 판정 규칙:
//   - 값이 하나라도 존재하는 최초의 출처가 판정 대상이 된다.
//   - URL과 Key가 모두 존재하고, URL이 https 스킴이며,
//     Key 길이가 임계값을 초과하는 경우에만 설정 완료로 판정한다.
//   - 일부만 채워진 출처는 이후 출처로 넘어가지 않고 미설정으로 판정한다
//     (엄격한 쪽을 우선).
func Resolve(sources ...CredentialSource) Resolution {
	for _, s := range sources {
		if s.URL == "" && s.Key == "" {
			continue
		}
		if s.URL == "" || s.Key == "" {
			return Resolution{}
		}
		if !strings.HasPrefix(s.URL, "https://") {
			return Resolution{}
		}
		if len(s.Key) <= minServiceKeyLength {
			return Resolution{}
		}
		return Resolution{
			Configured: true,
			URL:        strings.TrimSuffix(s.URL, "/"),
			Key:        s.Key,
			Source:     s.Name,
		}
	}
	return Resolution{}
}

// DatabaseURL은 해석된 자격 증명에서 PostgreSQL 접속 DSN을 파생한다.
// 미설정 상태에서는 빈 문자열을 반환한다.
func (r Resolution) DatabaseURL() string {
	if !r.Configured {
		return ""
	}
	host := strings.TrimPrefix(r.URL, "https://")
	return fmt.Sprintf("postgres://postgres:%s@db.%s:5432/postgres?sslmode=require",
		url.QueryEscape(r.Key), host)
}

// OverrideFile은 로컬 오버라이드 파일의 내용을 표현한다.
// 브라우저 클라이언트의 로컬 저장소 오버라이드에 해당하는 서버측 대체 수단이다.
type OverrideFile struct {
	BackendURL string `json:"backend_url"`
	BackendKey string `json:"backend_key"`
	AIKey      string `json:"ai_key"`
}

// LoadOverrideFile은 로컬 오버라이드 파일을 읽어 들인다.
// 파일이 존재하지 않는 경우 빈 값을 반환하며 에러로 취급하지 않는다.
func LoadOverrideFile(path string) (OverrideFile, error) {
	var f OverrideFile

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, fmt.Errorf("failed to read override file: %w", err)
	}

	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse override file: %w", err)
	}

	return f, nil
}

// ResolveBackend는 Config와 오버라이드 파일에서 백엔드 자격 증명을 해석한다.
// 우선순위는 오버라이드 파일, 환경 변수 순이다.
func ResolveBackend(cfg *Config, override OverrideFile) Resolution {
	return Resolve(
		CredentialSource{Name: "override", URL: override.BackendURL, Key: override.BackendKey},
		CredentialSource{Name: "env", URL: cfg.BackendURL, Key: cfg.BackendServiceKey},
	)
}

// ResolveAIKey는 생성형 언어 API 키를 해석한다.
// 우선순위는 오버라이드 파일, 환경 변수 순이다. 빈 문자열은 AI 기능 비활성을 의미한다.
func ResolveAIKey(cfg *Config, override OverrideFile) string {
	if override.AIKey != "" {
		return override.AIKey
	}
	return cfg.AIAPIKey
}
