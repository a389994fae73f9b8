// Package security는 애플리케이션의 보안 기능을 제공한다.
//
// ContentSanitizerService는 수집한 뉴스 본문의 HTML 콘텐츠를 정화하여
// XSS 공격 등의 보안 위험으로부터 사용자를 보호한다.
// bluemonday 라이브러리를 사용한 허용 목록 기반 정책으로
// 안전한 태그와 속성만 통과시킨다.
package security

import (
	"net/url"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService는 HTML 콘텐츠 정화 기능의 인터페이스를 정의한다.
// 수집한 뉴스 본문의 저장 전에 사용된다.
type ContentSanitizerService interface {
	// Sanitize는 HTML 콘텐츠를 정화해 안전한 HTML을 반환한다.
	// 허용 태그(p, br, a, ul, ol, li, blockquote, pre, code, strong, em, img)만 통과시키고
	// script, iframe, style 태그와 on* 이벤트 속성을 제거한다.
	// img 태그의 src 속성은 https 스킴만 허용된다.
	// a 태그에는 target="_blank"와 rel="noopener noreferrer"가 자동 부여된다.
	// 빈 문자열 입력에는 빈 문자열을 반환한다.
	// 동일 입력에 대해 항상 동일 출력을 반환한다(멱등).
	Sanitize(rawHTML string) string
}

// contentSanitizer는 ContentSanitizerService의 구현.
// bluemonday 정책을 보유하고 스레드 안전하게 정화 처리를 수행한다.
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer는 ContentSanitizerService의 새 인스턴스를 생성한다.
// 초기화 시 bluemonday의 커스텀 정책을 구성한다.
// 정책 내용:
//   - 허용 태그: p, br, a, ul, ol, li, blockquote, pre, code, strong, em, img
//   - 금지 태그: script, iframe, style 및 모든 on* 이벤트 속성
//   - img의 src 속성: https 스킴만 허용
//   - a 태그: target="_blank"와 rel="noopener noreferrer" 자동 부여
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	// 허용 태그 설정(속성 없는 단순 태그)
	// script, iframe, style 등은 허용 목록에 넣지 않으면 자동으로 제거된다
	// on* 이벤트 속성은 bluemonday 기본값에서 허용되지 않으므로 제거된다
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	// a 태그 설정:
	// - href 속성 허용
	// - 상대 URL 불허(수집 콘텐츠에는 부적절)
	// - target="_blank"를 모든 링크에 강제 부여
	// - rel="noreferrer noopener" 강제 부여
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	// img 태그 설정:
	// - src 속성은 https 스킴만 허용(http, javascript, data 등은 거부)
	// - alt 속성 허용(접근성 확보)
	p.AllowAttrs("src").OnElements("img")
	p.AllowAttrs("alt").OnElements("img")
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return true
	})

	return &contentSanitizer{
		policy: p,
	}
}

// Sanitize는 HTML 콘텐츠를 정화해 안전한 HTML을 반환한다.
func (s *contentSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}
