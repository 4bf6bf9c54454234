package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/keithshino/one-on-one-supporter/internal/models"
	"github.com/sashabaranov/go-openai"
)

// ErrAINotConfigured is returned when no API credential was supplied. The
// editor shows it inline; saving a log never depends on a summary.
var ErrAINotConfigured = errors.New("AI summarization is not configured")

// SummaryService wraps the text-summarization provider.
type SummaryService struct {
	client *openai.Client
}

// StructuredSummary is the result of summarizing a raw meeting transcript.
type StructuredSummary struct {
	Summary           string      `json:"summary"`
	Good              string      `json:"good"`
	More              string      `json:"more"`
	NextAction        string      `json:"next_action"`
	Mood              models.Mood `json:"mood"`
	PhysicalCondition *int        `json:"physical_condition"`
	MentalCondition   *int        `json:"mental_condition"`
}

func NewSummaryService(apiKey string) *SummaryService {
	return &SummaryService{
		client: openai.NewClient(apiKey),
	}
}

// Summarize produces a short plain-text summary of the structured meeting
// notes.
func (s *SummaryService) Summarize(ctx context.Context, good, more, nextAction, memo string) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrAINotConfigured
	}

	prompt := fmt.Sprintf(`以下の1on1ミーティングのメモを読んで、重要なポイントを「簡潔に、最大3行程度で」要約してください。
口調は「〜について話した」「〜することになった」のような客観的なトーンでお願いします。

【Good（良かったこと）】
%s

【More（課題・悩み）】
%s

【Next Action（次やること）】
%s

【Memo（その他）】
%s`, good, more, nextAction, memo)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4oMini,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.7,
		},
	)
	if err != nil {
		return "", fmt.Errorf("summarization API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from summarization API")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SummarizeTranscript turns a raw meeting transcript (plain text or a
// subtitle-style export) into structured log fields.
func (s *SummaryService) SummarizeTranscript(ctx context.Context, transcript string) (*StructuredSummary, error) {
	if s == nil || s.client == nil {
		return nil, ErrAINotConfigured
	}

	cleaned := CleanTranscript(transcript)
	if cleaned == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	prompt := fmt.Sprintf(`あなたは1on1ミーティングの記録アシスタントです。以下の文字起こしを読んで、記録用の構造化データを作成してください。

文字起こし:
%s

以下のJSON形式のみを返してください（説明文は不要です）:
{
  "summary": "全体の要約（150文字程度）",
  "good": "良かったこと・ポジティブな話題",
  "more": "課題・悩み・改善したいこと",
  "next_action": "次回までのアクション",
  "mood": "sunny | cloudy | rainy | stormy のいずれか（本人の雰囲気から判断）",
  "physical_condition": 1-5の整数または null,
  "mental_condition": 1-5の整数または null
}`, cleaned)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4oMini,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("summarization API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from summarization API")
	}

	content := resp.Choices[0].Message.Content

	var result StructuredSummary
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse summarization response: %w", err)
	}

	if !models.ValidMood(result.Mood) {
		result.Mood = ""
	}
	result.PhysicalCondition = clampCondition(result.PhysicalCondition)
	result.MentalCondition = clampCondition(result.MentalCondition)

	return &result, nil
}

var (
	srtIndexRe = regexp.MustCompile(`^\d+$`)
	cueTimeRe  = regexp.MustCompile(`\d{1,2}:\d{2}(:\d{2})?[.,]\d{3}\s+-->\s+\d{1,2}:\d{2}(:\d{2})?[.,]\d{3}`)
)

// CleanTranscript strips SRT/WebVTT scaffolding (headers, cue indexes,
// timestamp lines) so only spoken text reaches the model.
func CleanTranscript(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "WEBVTT" {
			continue
		}
		if srtIndexRe.MatchString(trimmed) || cueTimeRe.MatchString(trimmed) {
			continue
		}
		lines = append(lines, trimmed)
	}
	return strings.Join(lines, "\n")
}

func clampCondition(v *int) *int {
	if v == nil {
		return nil
	}
	if *v < 1 || *v > 5 {
		return nil
	}
	return v
}
