package newsfetch

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// ExtractCoverImage는 HTML 본문에서 표지로 쓸 첫 번째 이미지 URL을 추출한다.
// https 스킴의 src만 채택하고, 이미지가 없으면 빈 문자열을 반환한다.
func ExtractCoverImage(rawHTML string) string {
	if rawHTML == "" {
		return ""
	}

	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return ""
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		token := tokenizer.Token()
		if token.Data != "img" {
			continue
		}
		for _, attr := range token.Attr {
			if attr.Key == "src" && strings.HasPrefix(attr.Val, "https://") {
				return attr.Val
			}
		}
	}
}

// PlainText는 HTML에서 태그를 제거한 텍스트를 반환한다.
// script/style의 내용은 버리고, 공백은 한 칸으로 축약한다.
func PlainText(rawHTML string) string {
	if rawHTML == "" {
		return ""
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	skipDepth := 0
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.StartTagToken:
			token := tokenizer.Token()
			if token.Data == "script" || token.Data == "style" {
				skipDepth++
			}
		case html.EndTagToken:
			token := tokenizer.Token()
			if (token.Data == "script" || token.Data == "style") && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.WriteString(tokenizer.Token().Data)
				b.WriteByte(' ')
			}
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Summarize는 HTML에서 추출한 텍스트를 지정 글자 수로 잘라 요약으로 만든다.
func Summarize(rawHTML string, maxRunes int) string {
	text := PlainText(rawHTML)
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	return string(runes[:maxRunes]) + "..."
}
