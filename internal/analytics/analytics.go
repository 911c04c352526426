package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quantum-box/urushiri/internal/models"
)

// EventSummary is the per-event rollup shown on the organizer dashboard.
// Recomputed on every request, nothing is persisted.
type EventSummary struct {
	EventID          uint           `json:"event_id"`
	EventTitle       string         `json:"event_title"`
	EventDate        string         `json:"event_date"`
	Total            int            `json:"total"`
	AgeCounts        map[string]int `json:"age_counts"`
	OccupationCounts map[string]int `json:"occupation_counts"`
	DiscoveryCounts  map[string]int `json:"discovery_counts"`
	LastRegisteredAt *time.Time     `json:"last_registered_at"`
}

// Participant is one registration row joined with its event for the flat
// organizer list.
type Participant struct {
	ID           uint       `json:"id"`
	EventID      uint       `json:"event_id"`
	EventTitle   string     `json:"event_title"`
	EventDate    string     `json:"event_date"`
	Name         string     `json:"name"`
	AgeGroup     string     `json:"age_group"`
	Occupation   string     `json:"occupation"`
	Discovery    string     `json:"discovery"`
	Other        string     `json:"other"`
	RegisteredAt *time.Time `json:"registered_at"`
}

const unknownEventTitle = "不明なイベント"

// BuildParticipants joins registrations against their events. Registrations
// pointing at a deleted event keep a placeholder title instead of dropping
// out of the list.
func BuildParticipants(events []models.Event, registrations []models.Registration) []Participant {
	eventsByID := make(map[uint]models.Event, len(events))
	for _, event := range events {
		eventsByID[event.ID] = event
	}

	participants := make([]Participant, 0, len(registrations))
	for _, registration := range registrations {
		title := unknownEventTitle
		date := ""
		if event, ok := eventsByID[registration.EventID]; ok {
			title = event.Title
			date = event.Date
		}

		other := ""
		if registration.Other != nil {
			other = *registration.Other
		}

		createdAt := registration.CreatedAt
		participants = append(participants, Participant{
			ID:           registration.ID,
			EventID:      registration.EventID,
			EventTitle:   title,
			EventDate:    date,
			Name:         registration.Name,
			AgeGroup:     registration.AgeGroup,
			Occupation:   registration.Occupation,
			Discovery:    registration.Discovery,
			Other:        other,
			RegisteredAt: &createdAt,
		})
	}

	return participants
}

// Summarize groups participants by event and tallies the survey answers.
// Summaries are ordered newest event first, ties broken by total count.
func Summarize(participants []Participant) []EventSummary {
	summaryByEvent := make(map[uint]*EventSummary)

	for _, participant := range participants {
		summary, ok := summaryByEvent[participant.EventID]
		if !ok {
			summary = &EventSummary{
				EventID:          participant.EventID,
				EventTitle:       participant.EventTitle,
				EventDate:        participant.EventDate,
				AgeCounts:        map[string]int{},
				OccupationCounts: map[string]int{},
				DiscoveryCounts:  map[string]int{},
			}
			summaryByEvent[participant.EventID] = summary
		}

		summary.Total++

		if participant.AgeGroup != "" {
			summary.AgeCounts[participant.AgeGroup]++
		}
		if participant.Occupation != "" {
			summary.OccupationCounts[participant.Occupation]++
		}
		if participant.Discovery != "" {
			summary.DiscoveryCounts[participant.Discovery]++
		}

		if participant.RegisteredAt != nil &&
			(summary.LastRegisteredAt == nil || participant.RegisteredAt.After(*summary.LastRegisteredAt)) {
			summary.LastRegisteredAt = participant.RegisteredAt
		}
	}

	summaries := make([]EventSummary, 0, len(summaryByEvent))
	for _, summary := range summaryByEvent {
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.EventDate != "" && b.EventDate != "" && a.EventDate != b.EventDate {
			return a.EventDate > b.EventDate
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.EventID < b.EventID
	})

	return summaries
}

// FormatDistribution renders the top-limit entries of a tally as
// "label N人 / label N人", matching the dashboard display. Ties are broken by
// key for stable output. Returns 未回答 when every count is zero.
func FormatDistribution(counts map[string]int, labels map[string]string, limit int) string {
	type entry struct {
		key   string
		count int
	}

	entries := make([]entry, 0, len(counts))
	for key, count := range counts {
		if count > 0 {
			entries = append(entries, entry{key, count})
		}
	}

	if len(entries) == 0 {
		return "未回答"
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		label, ok := labels[e.key]
		if !ok {
			label = e.key
		}
		parts = append(parts, fmt.Sprintf("%s %d人", label, e.count))
	}

	return strings.Join(parts, " / ")
}
