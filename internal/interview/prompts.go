package interview

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gwonyoung/aibuup/internal/intelligence"
)

// ScamQuestions는 피해 제보 인터뷰의 고정 질문 목록.
var ScamQuestions = []string{
	"실행한 부업명이 무엇인가요?",
	"강의 비용은 얼마였나요?",
	"강의에서 무엇을 배웠나요? 생각나시는대로 서술해 주세요.",
	"강팔이가 제시한 장밋빛 미래를 문장으로 표현하면?",
	"모험가님이 실행한 결과는 어떠했나요?",
	"강팔이에게 속았다고 생각하시나요?",
	"왜 그렇게 생각하시나요? 길게 써도 됩니다.",
	"이런 강팔이를 만났을 때, 주의할 사항을 한 수 가르쳐 주세요.",
	"자유롭게 하시고 싶은 말씀 부탁드려요.",
}

// 피해 제보 인터뷰의 안내 메시지
const (
	ScamGreeting1     = "안녕하세요. 강팔이 피해 사례 공유를 위한 정밀 분석 채팅방입니다. 🛡️"
	ScamGreeting2     = "공유해주신 데이터는 익명으로 처리되며, 다른 분들의 추가 피해를 막는 강력한 방패가 됩니다."
	ScamGeneratingMsg = "제공해주신 데이터를 바탕으로 AI 감사관이 정밀 분석 리포트를 작성 중입니다. 잠시만 기다려 주세요... 🛡️"
	ScamDoneMsg       = "데이터 분석이 완료되었습니다. 생성된 리포트는 게시판에 즉시 등록되었습니다. 🛡️ 당신의 용기 있는 제보에 감사드립니다."
)

// ReportReadyTag는 대화형 인터뷰에서 정보 수집 완료를 나타내는 태그.
const ReportReadyTag = "[REPORT_READY]"

var titleLineRe = regexp.MustCompile(`(?i)TITLE:\s*(.*)`)
var titleStripRe = regexp.MustCompile(`(?i)TITLE:.*\n?`)

// scamReportPrompt는 고정 질문의 답변으로 피해 고발 리포트 생성 프롬프트를 만든다.
func scamReportPrompt(answers []string) string {
	var pairs []string
	for i, q := range ScamQuestions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		pairs = append(pairs, fmt.Sprintf("질문: %s\n답변: %s", q, answer))
	}

	return fmt.Sprintf(`너는 AI 부업 검증 플랫폼 'Ai BuUp'의 수석 사기 피해 분석 에이전트야.
사용자가 입력한 사기 피해(강팔이) 데이터를 바탕으로 매우 비판적이고 분석적인 '피해 고발 리포트'를 작성해줘.

데이터:
%s

작성 가이드라인:
1. 마크다운 형식을 사용하여 전문적으로 작성할 것.
2. '## ⚠️ [강팔이 피해 고발] 정밀 분석 리포트'로 시작할 것.
3. '피해 개요', '기망 기법 분석(어떻게 속였는가)', '실제 피해 사실', 'AI 감사관의 최종 경고', '다른 모험가들을 위한 방어 가이드' 섹션으로 나눌 것.
4. 사용자의 답변을 논리적으로 재구성하여 읽는 사람이 피해의 심각성을 느낄 수 있게 할 것.
5. 리포트 최상단에 매력적인 제목을 TITLE: [제목] 형식으로 제안해줘.`, strings.Join(pairs, "\n\n"))
}

// assistedSystemInstruction은 카테고리별 심층 인터뷰의 시스템 지시를 만든다.
func assistedSystemInstruction(category string) string {
	return fmt.Sprintf(`당신은 AI 부업 검증 플랫폼 'Ai BuUp'의 수석 분석 에이전트입니다.
현재 사용자는 '%s' 카테고리에 대한 정보를 공유하려고 합니다.
목표: 사용자의 부업 경험에서 '진짜 데이터'를 추출하기 위해 날카로운 질문을 던지세요.
한 번에 하나의 질문만 하세요. 질문은 구체적이어야 합니다.
수익성, 투입 시간, 리스크 등을 파고드세요.
충분한 정보가 모였다면 메시지 끝에 반드시 "%s" 태그를 붙이세요.
말투는 냉철하고 지적인 AI 감사관 톤을 유지하세요.`, category, ReportReadyTag)
}

// assistedKickoffMessage는 인터뷰를 여는 첫 사용자 메시지를 만든다.
func assistedKickoffMessage(category string) string {
	return fmt.Sprintf("안녕하세요. [%s] 카테고리에 대한 인터뷰를 시작하겠습니다. 해당 주제에 대해 본인이 경험하거나 알고 있는 내용을 간단히 설명해 주세요.", category)
}

// assistedReportPrompt는 대화 이력으로 최종 리포트 생성 프롬프트를 만든다.
func assistedReportPrompt(category string, transcript []intelligence.Message) string {
	var lines []string
	for _, m := range transcript {
		speaker := "사용자"
		if m.Role == "model" {
			speaker = "에이전트"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, m.Text))
	}

	return fmt.Sprintf(`다음 대화 데이터를 바탕으로 '%s' 카테고리에 등록될 최종 '인텔리전스 리포트'를 마크다운으로 작성하세요.
최상단에 "TITLE: [제목]" 형식으로 제목을 포함할 것.

대화 내용:
%s`, category, strings.Join(lines, "\n"))
}

// extractTitle은 생성 결과에서 TITLE 행을 분리해 제목과 본문을 반환한다.
// TITLE 행이 없으면 fallbackTitle을 사용한다.
func extractTitle(text, fallbackTitle string) (title, content string) {
	title = fallbackTitle
	if m := titleLineRe.FindStringSubmatch(text); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			title = t
		}
	}
	// 첫 TITLE 행만 제거한다
	content = text
	if loc := titleStripRe.FindStringIndex(text); loc != nil {
		content = text[:loc[0]] + text[loc[1]:]
	}
	return title, strings.TrimSpace(content)
}
