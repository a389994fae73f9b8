// Package interview는 AI 에이전트가 진행하는 게시글 작성 인터뷰를 제공한다.
//
// 두 가지 방식이 있다. 고정 질문 인터뷰는 피해 제보용으로 9개의 질문을
// 순서대로 묻고, 대화형 인터뷰는 카테고리별 시스템 지시에 따라 모델이
// 질문을 만들어 간다. 어느 쪽이든 수집이 끝나면 대화 내용을 종합해
// 게시글을 생성한다.
package interview

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gwonyoung/aibuup/internal/intelligence"
	"github.com/gwonyoung/aibuup/internal/model"
	"github.com/gwonyoung/aibuup/internal/repository"
)

// ServiceConfig는 인터뷰 서비스의 설정.
type ServiceConfig struct {
	ChatModel      string        // 대화와 피해 리포트 생성에 사용
	SynthesisModel string        // 대화형 인터뷰의 최종 리포트 생성에 사용
	FlowTTL        time.Duration // 인터뷰 상태 보관 기간
}

// Service는 인터뷰 진행과 리포트 생성을 담당한다.
type Service struct {
	gen      intelligence.Generator
	postRepo repository.PostRepository
	flows    *FlowStore
	config   ServiceConfig
}

// NewService는 Service를 생성한다.
func NewService(gen intelligence.Generator, postRepo repository.PostRepository, config ServiceConfig) *Service {
	return &Service{
		gen:      gen,
		postRepo: postRepo,
		flows:    NewFlowStore(config.FlowTTL),
		config:   config,
	}
}

// Flows는 내부 인터뷰 저장소를 반환한다. 만료 정리 워커가 사용한다.
func (s *Service) Flows() *FlowStore {
	return s.flows
}

// StartResult는 인터뷰 시작 응답.
type StartResult struct {
	FlowID   string   `json:"flow_id"`
	Messages []string `json:"messages"`
}

// AnswerResult는 고정 질문 인터뷰의 답변 처리 결과.
// Done이 true이면 리포트가 게시판에 등록된 상태다.
type AnswerResult struct {
	Question string      `json:"question,omitempty"`
	Done     bool        `json:"done"`
	Messages []string    `json:"messages,omitempty"`
	Post     *model.Post `json:"post,omitempty"`

	// Fallback은 리포트 생성이 실패해 수동 아카이브로 대체되었음을 나타낸다.
	Fallback bool `json:"-"`
}

// StartScamReport는 피해 제보 인터뷰를 시작한다.
func (s *Service) StartScamReport(ctx context.Context, userID string) (*StartResult, error) {
	f := &flow{
		id:     uuid.New().String(),
		userID: userID,
		kind:   kindScam,
	}
	s.flows.put(f)

	return &StartResult{
		FlowID:   f.id,
		Messages: []string{ScamGreeting1, ScamGreeting2, ScamQuestions[0]},
	}, nil
}

// AnswerScamReport는 답변을 기록하고 다음 질문을 반환한다.
// 마지막 질문의 답변이 들어오면 한 번만 제출 상태로 전환해
// 리포트를 생성하고 게시글로 등록한다.
func (s *Service) AnswerScamReport(ctx context.Context, userID, flowID, answer, authorName string) (*AnswerResult, error) {
	outcome, answers := s.flows.answerScam(flowID, userID, answer, len(ScamQuestions))
	switch outcome {
	case scamFlowMissing:
		return nil, model.NewFlowNotFoundError()
	case scamFlowFinished:
		return nil, model.NewFlowFinishedError()
	case scamNextQuestion:
		return &AnswerResult{
			Question: ScamQuestions[len(answers)],
		}, nil
	}

	// 마지막 답변: answerScam이 인터뷰를 제거했으므로 제출 전이는 한 번뿐이다
	post, fallback := s.buildScamReport(ctx, answers, authorName, userID)
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	slog.Info("scam report submitted",
		slog.String("post_id", post.ID),
		slog.String("user_id", userID),
		slog.Bool("fallback", fallback),
	)

	return &AnswerResult{
		Done:     true,
		Messages: []string{ScamGeneratingMsg, ScamDoneMsg},
		Post:     post,
		Fallback: fallback,
	}, nil
}

// buildScamReport는 답변을 종합해 게시글을 만든다.
// 생성 실패 시에는 원본 답변으로 수동 아카이브 게시글을 만들고
// 대체 여부를 함께 반환한다.
func (s *Service) buildScamReport(ctx context.Context, answers []string, authorName, userID string) (*model.Post, bool) {
	now := time.Now()
	cost := ""
	if len(answers) > 1 {
		cost = answers[1]
	}

	text, err := s.gen.Generate(ctx, s.config.ChatModel, "", scamReportPrompt(answers))
	if err != nil {
		slog.Warn("scam report generation failed", slog.String("error", err.Error()))
		author := authorName
		if author == "" {
			author = "익명"
		}
		return &model.Post{
			ID:        uuid.New().String(),
			Title:     "[피해사례] " + answers[0] + " 관련 제보 리포트",
			Author:    author,
			Category:  model.CategoryScam,
			Content:   fallbackScamContent(answers, err),
			Result:    "검토 중",
			Cost:      cost,
			UserID:    userID,
			CreatedAt: now,
		}, true
	}

	title, content := extractTitle(text, "[피해사례] "+answers[0]+" 관련 제보")
	author := authorName
	if author == "" {
		author = "익명의모험가"
	}
	return &model.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Author:    author,
		Category:  model.CategoryScam,
		Content:   content,
		Result:    "AI 검증 완료: 사기 주의보",
		Cost:      cost,
		UserID:    userID,
		CreatedAt: now,
	}, false
}

// fallbackScamContent는 생성 실패 시의 수동 아카이브 본문을 만든다.
func fallbackScamContent(answers []string, genErr error) string {
	var sb strings.Builder
	sb.WriteString("### ⚠️ 강팔이 피해 리포트 (수동 아카이브)\n\n")
	sb.WriteString("**1. 실행 부업:** " + answers[0] + "\n")
	if len(answers) > 1 {
		sb.WriteString("**2. 강의 비용:** " + answers[1] + "\n")
	}
	sb.WriteString("**3. 피해 판단:** AI 분석 오류로 기본 데이터만 저장되었습니다. (" + genErr.Error() + ")")
	return sb.String()
}

// StartAssisted는 카테고리를 선택해 대화형 인터뷰를 시작한다.
// 고수의 방 카테고리는 GOLD 등급 이상만 선택할 수 있다.
func (s *Service) StartAssisted(ctx context.Context, userID string, role model.Role, category string) (*StartResult, error) {
	if !model.IsValidCategory(category) {
		return nil, model.NewInvalidCategoryError(category)
	}
	if model.IsVIPCategory(category) && !role.CanAccessVIP() {
		return nil, model.NewRoleRequiredError()
	}

	kickoff := assistedKickoffMessage(category)
	reply, err := s.gen.Chat(ctx, s.config.ChatModel, assistedSystemInstruction(category), nil, kickoff)
	if err != nil {
		return nil, err
	}

	f := &flow{
		id:       uuid.New().String(),
		userID:   userID,
		kind:     kindAssisted,
		category: category,
		transcript: []intelligence.Message{
			{Role: "user", Text: kickoff},
			{Role: "model", Text: reply},
		},
	}
	s.flows.put(f)

	return &StartResult{
		FlowID:   f.id,
		Messages: []string{reply},
	}, nil
}

// ChatResult는 대화형 인터뷰의 응답.
type ChatResult struct {
	Reply string `json:"reply"`
	// Ready는 정보 수집이 끝나 리포트 생성이 가능함을 나타낸다.
	Ready bool `json:"ready"`
}

// SendAssisted는 사용자 메시지를 전달하고 모델의 응답을 그대로 반환한다.
// 응답에 완료 태그가 포함되면 Ready를 보고한다.
func (s *Service) SendAssisted(ctx context.Context, userID, flowID, message string) (*ChatResult, error) {
	state, ok := s.flows.assistedSnapshot(flowID, userID)
	if !ok {
		return nil, model.NewFlowNotFoundError()
	}

	reply, err := s.gen.Chat(ctx, s.config.ChatModel, assistedSystemInstruction(state.category), state.transcript, message)
	if err != nil {
		return nil, err
	}

	// 모델 호출 중에 인터뷰가 만료되었을 수 있다
	ready, ok := s.flows.extendAssisted(flowID, userID, message, reply, strings.Contains(reply, ReportReadyTag))
	if !ok {
		return nil, model.NewFlowNotFoundError()
	}

	return &ChatResult{Reply: reply, Ready: ready}, nil
}

// FinalizeAssisted는 대화 전체를 종합해 리포트를 생성하고 게시글로 등록한다.
// 생성에 실패하면 인터뷰는 유지되어 다시 시도할 수 있다.
func (s *Service) FinalizeAssisted(ctx context.Context, userID, flowID, authorName string) (*model.Post, error) {
	state, ok := s.flows.assistedSnapshot(flowID, userID)
	if !ok {
		return nil, model.NewFlowNotFoundError()
	}
	if !state.ready {
		return nil, model.NewValidationError("아직 인터뷰가 끝나지 않았습니다.")
	}

	text, err := s.gen.Generate(ctx, s.config.SynthesisModel, "", assistedReportPrompt(state.category, state.transcript))
	if err != nil {
		return nil, err
	}

	title, content := extractTitle(text, "["+state.category+"] 분석 리포트")
	author := authorName
	if author == "" {
		author = "익명"
	}

	post := &model.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Author:    author,
		Category:  state.category,
		Content:   content,
		Result:    "AI 정밀 분석 완료",
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.flows.delete(flowID)

	slog.Info("intelligence report submitted",
		slog.String("post_id", post.ID),
		slog.String("category", state.category),
		slog.String("user_id", userID),
	)

	return post, nil
}
