package insight

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/quantum-box/urushiri/internal/dify"
	"github.com/quantum-box/urushiri/internal/models"
)

var ageGroupOrder = []string{"teens", "twenties", "thirties", "forties", "fifties", "sixtiesPlus"}
var occupationOrder = []string{"student", "engineer", "designer", "planner", "manager", "other"}

// Summarizer produces a one-line Japanese description of an event's expected
// atmosphere from its registrations. Best effort: any failure yields an empty
// summary, never an error.
type Summarizer struct {
	client *dify.Client
}

func NewSummarizer(client *dify.Client) *Summarizer {
	return &Summarizer{client: client}
}

func (s *Summarizer) Summarize(ctx context.Context, event models.Event, registrations []models.Registration) string {
	if s.client == nil {
		return ""
	}

	query := BuildPrompt(event, registrations)
	if query == "" {
		return ""
	}

	response, err := s.client.SendChatMessage(ctx, dify.ChatMessageParams{
		Query: query,
		User:  fmt.Sprintf("event-ai-summary-%d", event.ID),
	})
	if err != nil {
		log.Printf("Failed to generate event insight: %v", err)
		return ""
	}

	answer := dify.ExtractAnswer(response)
	if answer == "" {
		log.Printf("Insight response did not contain an answer field")
	}
	return answer
}

// BuildPrompt assembles the Japanese prompt lines fed to the model.
func BuildPrompt(event models.Event, registrations []models.Registration) string {
	ageCounts := map[string]int{}
	occupationCounts := map[string]int{}
	for _, registration := range registrations {
		if registration.AgeGroup != "" {
			ageCounts[registration.AgeGroup]++
		}
		if registration.Occupation != "" {
			occupationCounts[registration.Occupation]++
		}
	}

	lines := []string{
		"イベントタイトル: " + event.Title,
	}
	if event.Category != nil && *event.Category != "" {
		lines = append(lines, "カテゴリ: "+*event.Category)
	}
	if event.Description != nil && *event.Description != "" {
		lines = append(lines, "イベント説明: "+truncateRunes(*event.Description, 500))
	}
	if ageSummary := formatDistribution(ageCounts, ageGroupOrder, models.AgeGroupLabels); ageSummary != "" {
		lines = append(lines, "参加者の年代構成: "+ageSummary)
	}
	if occupationSummary := formatDistribution(occupationCounts, occupationOrder, models.OccupationLabels); occupationSummary != "" {
		lines = append(lines, "参加者の職種構成: "+occupationSummary)
	}
	lines = append(lines,
		"上記の情報をもとに、このイベントがどんな体験になるかを日本語で60字以内で端的に説明してください。",
		"「コミュニケーション多め」や「手を動かす」など、イベントの雰囲気を示す短い表現を必ず含めてください。",
		"箇条書きは使わず、文末はフラットな言い切りにしてください。",
	)

	return strings.Join(lines, "\n")
}

func formatDistribution(counts map[string]int, order []string, labels map[string]string) string {
	parts := make([]string, 0, len(order))
	for _, key := range order {
		if count := counts[key]; count > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d人", labels[key], count))
		}
	}
	return strings.Join(parts, "、")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
