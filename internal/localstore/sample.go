package localstore

import (
	"time"

	"github.com/gwonyoung/aibuup/internal/model"
)

// SamplePosts는 데모 모드에서 항상 노출되는 내장 샘플 게시글 3건을 반환한다.
// 로컬에서 작성된 게시글 뒤에 이어 붙는다.
func SamplePosts(now time.Time) []*model.Post {
	return []*model.Post{
		{
			ID:        "demo-1",
			Title:     "유튜브 쇼츠 AI 자동화 3개월 차 수익 인증 (월 180만원)",
			Author:    "AI마스터",
			Category:  model.CategoryProfit,
			Result:    "월 180만원 달성",
			DailyTime: "1.5시간",
			Tool:      "Midjourney + ElevenLabs",
			Content: "### 📊 실전 수익 리포트\n\n지난 3개월간 AI 툴들을 조합하여 쇼츠 채널 3개를 운영한 결과입니다.\n\n**1. 사용된 워크플로우:**\n- 주제 선정: ChatGPT-4o 브레인스토밍\n- 이미지: Midjourney v6.1 (특정 스타일 프롬프트 유지)\n- 음성: ElevenLabs (자연스러운 한국어 남성 목소리)\n- 편집: CapCut 자동 자막 및 화면 전환\n\n**2. 수익 결과:**\n- 애드센스: 120만원\n- 제휴 마케팅: 60만원\n\n단순히 영상을 뽑는 게 아니라 시청 지속 시간을 늘리는 AI 편집 노하우가 핵심입니다.",
			CreatedAt: now,
		},
		{
			ID:        "demo-2",
			Title:     "강남역 OOO AI 부업 강의 330만원 사기 피해 고발",
			Author:    "정의의사도",
			Category:  model.CategoryScam,
			Result:    "전형적인 강팔이",
			DailyTime: "0분 (수익없음)",
			Cost:      "330만원",
			Content: "### ⚠️ 피해 주의보\n\n수익 100% 보장이라는 말에 속아 330만원 고액 강의를 결제했습니다.\n\n**피해 사실 요약:**\n1. 유튜브에 무료로 풀린 챗GPT 기본 프롬프트만 재구성해서 알려줌.\n2. 수익이 안 난다고 하자 본인의 노력이 부족하다며 가스라이팅 시전.\n3. 핵심이라던 전용 프로그램은 사실상 작동하지 않는 조잡한 수준.\n\n고액 결제를 유도하는 강의는 반드시 의심하세요. 제가 잃은 돈이 다른 분들의 방패가 되길 바랍니다.",
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID:        "demo-3",
			Title:     "[고수] 미드저니 6.1 실전 인테리어 사진 판매 노하우",
			Author:    "고수X",
			Category:  model.CategoryVIPAnalysis,
			Result:    "스톡 사이트 통과",
			DailyTime: "상시",
			Content: "### 🔒 VIP Intelligence Report\n\n미드저니 6.1에서 생성한 이미지를 상업적으로 활용하기 위해 반드시 거쳐야 하는 스톡 사이트(Adobe Stock, Shutterstock) 승인 가이드입니다.\n\n**핵심 전략:**\n- 업스케일링: Topaz Photo AI를 활용한 디테일 보정\n- 메타데이터: AI가 생성한 이미지임을 표기하면서도 노출 빈도를 높이는 태깅 전략\n- 저작권: 미드저니 유료 플랜을 통한 저작권 확보 증빙 방식",
			CreatedAt: now.Add(-48 * time.Hour),
		},
	}
}

// SampleNews는 데모 모드에서 노출되는 내장 뉴스 2건을 반환한다.
func SampleNews(now time.Time) []*model.News {
	return []*model.News{
		{
			ID:       "news-1",
			Title:    "AI 부업 시장, 2025년 전망 리포트",
			Category: model.NewsCategoryTrend,
			Date:     "2025.05.01",
			Summary:  "인공지능 기술의 발전이 부업 시장에 미치는 영향과 새로운 기회들을 분석합니다. 단순 노동이 사라지고 창의적 협업이 중요해집니다.",
			Content:  "인공지능 기술의 급격한 발전으로 인해 전통적인 부업의 형태가 변화하고 있습니다. 2025년에는 단순히 AI를 사용하는 것을 넘어, AI와 함께 가치를 창출하는 모델이 주류가 될 것입니다.",
			ImageURL: "https://images.unsplash.com/photo-1677442136019-21780ecad995?auto=format&fit=crop&q=80&w=800",
			CreatedAt: now,
		},
		{
			ID:       "news-2",
			Title:    "생성형 AI로 웹툰 배경 제작하기: 수익화 가이드",
			Category: model.NewsCategoryTutorial,
			Date:     "2025.05.10",
			Summary:  "스테이블 디퓨전을 활용하여 고퀄리티 웹툰 배경을 제작하고 판매하는 실전 노하우를 공개합니다.",
			Content:  "웹툰 시장의 폭발적인 성장과 함께 배경 리소스에 대한 수요도 급증하고 있습니다. AI를 활용해 제작 시간을 70% 단축하면서도 퀄리티를 유지하는 비법을 알아봅니다.",
			ImageURL: "https://images.unsplash.com/photo-1618005182384-a83a8bd57fbe?auto=format&fit=crop&q=80&w=800",
			CreatedAt: now.Add(-time.Hour),
		},
	}
}

// SampleProfiles는 데모 모드 관리 콘솔에 노출되는 내장 회원 목록을 반환한다.
func SampleProfiles(now time.Time) []*model.Profile {
	return []*model.Profile{
		{ID: "u-1", Email: "ai_master@example.com", Nickname: "AI마스터", Role: model.RoleGold, CreatedAt: now.Add(-10 * 24 * time.Hour)},
		{ID: "u-2", Email: "justice@example.com", Nickname: "정의의사도", Role: model.RoleSilver, CreatedAt: now.Add(-5 * 24 * time.Hour)},
		{ID: "u-3", Email: "admin@aibuup.com", Nickname: "최고관리자", Role: model.RoleAdmin, CreatedAt: now.Add(-30 * 24 * time.Hour)},
	}
}
