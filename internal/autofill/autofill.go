package autofill

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FieldMapping is a partially-populated event draft extracted from AI output.
// It only feeds form state and is never persisted.
type FieldMapping struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Date         *string `json:"date,omitempty"`
	Time         *string `json:"time,omitempty"`
	Location     *string `json:"location,omitempty"`
	Category     *string `json:"category,omitempty"`
	MaxAttendees *int    `json:"maxAttendees,omitempty"`
	IsPublic     *bool   `json:"isPublic,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
}

func (m *FieldMapping) Empty() bool {
	return m == nil || (m.Title == nil && m.Description == nil && m.Date == nil &&
		m.Time == nil && m.Location == nil && m.Category == nil &&
		m.MaxAttendees == nil && m.IsPublic == nil && m.ImageURL == nil)
}

// Merge overlays the populated fields of other onto m.
func (m *FieldMapping) Merge(other *FieldMapping) {
	if other == nil {
		return
	}
	if other.Title != nil {
		m.Title = other.Title
	}
	if other.Description != nil {
		m.Description = other.Description
	}
	if other.Date != nil {
		m.Date = other.Date
	}
	if other.Time != nil {
		m.Time = other.Time
	}
	if other.Location != nil {
		m.Location = other.Location
	}
	if other.Category != nil {
		m.Category = other.Category
	}
	if other.MaxAttendees != nil {
		m.MaxAttendees = other.MaxAttendees
	}
	if other.IsPublic != nil {
		m.IsPublic = other.IsPublic
	}
	if other.ImageURL != nil {
		m.ImageURL = other.ImageURL
	}
}

var codeBlockPattern = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// TryParseJSON parses s as JSON directly, then as a fenced ```json``` block.
// Returns nil when neither parses.
func TryParseJSON(s string) any {
	trimmed := strings.TrimSpace(s)

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var direct any
		if err := json.Unmarshal([]byte(trimmed), &direct); err == nil {
			return direct
		}
	}

	if match := codeBlockPattern.FindStringSubmatch(trimmed); match != nil {
		var fenced any
		if err := json.Unmarshal([]byte(match[1]), &fenced); err == nil {
			return fenced
		}
	}

	return nil
}

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	looseDatePattern = regexp.MustCompile(`(\d{4})[^0-9]?(\d{1,2})[^0-9]?(\d{1,2})`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

var fallbackDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate normalizes free-text dates to YYYY-MM-DD. ISO input passes
// through; Japanese 年/月/日 particles are stripped before a Y/M/D match;
// anything else runs through a short list of generic layouts. Unparseable
// input reports false so the field can be omitted rather than fabricated.
func ParseDate(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", false
	}

	if isoDatePattern.MatchString(trimmed) {
		return trimmed, true
	}

	normalized := strings.NewReplacer("年", "-", "/", "-", "月", "-", "日", "").Replace(trimmed)
	normalized = spacePattern.ReplaceAllString(normalized, " ")

	if match := looseDatePattern.FindStringSubmatch(normalized); match != nil {
		year, _ := strconv.Atoi(match[1])
		month, _ := strconv.Atoi(match[2])
		day, _ := strconv.Atoi(match[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
		}
	}

	for _, layout := range fallbackDateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format("2006-01-02"), true
		}
	}

	return "", false
}

func pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}

var (
	explicitTimePattern = regexp.MustCompile(`(?i)(午前|午後|am|pm)?\s*(\d{1,2})(?:[:時](\d{1,2}))?`)
	simpleTimePattern   = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseTime normalizes free-text times to HH:MM, folding 午前/午後 and AM/PM
// markers into 24-hour values. A bare number is treated as minutes since
// midnight.
func ParseTime(value any) (string, bool) {
	if s, ok := value.(string); ok {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return "", false
		}

		if match := explicitTimePattern.FindStringSubmatch(trimmed); match != nil {
			period := strings.ToLower(match[1])
			hour, hourErr := strconv.Atoi(match[2])
			minute := 0
			var minuteErr error
			if match[3] != "" {
				minute, minuteErr = strconv.Atoi(match[3])
			}

			if hourErr == nil && minuteErr == nil {
				switch {
				case period == "午後" || period == "pm":
					if hour < 12 {
						hour += 12
					}
				case period == "午前" || period == "am":
					if hour == 12 {
						hour = 0
					}
				}

				if hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59 {
					return pad2(hour) + ":" + pad2(minute), true
				}
			}
		}

		if match := simpleTimePattern.FindStringSubmatch(trimmed); match != nil {
			hour, _ := strconv.Atoi(match[1])
			minute, _ := strconv.Atoi(match[2])
			if hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59 {
				return pad2(hour) + ":" + pad2(minute), true
			}
		}

		return "", false
	}

	if n, ok := toFloat(value); ok {
		totalMinutes := int(math.Round(n))
		if totalMinutes < 0 {
			totalMinutes = 0
		}
		if totalMinutes > 23*60+59 {
			totalMinutes = 23*60 + 59
		}
		return pad2(totalMinutes/60) + ":" + pad2(totalMinutes%60), true
	}

	return "", false
}

// ParseBool maps tolerant truthy/falsy strings onto booleans.
func ParseBool(value any) (bool, bool) {
	if b, ok := value.(bool); ok {
		return b, true
	}

	if s, ok := value.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "公開", "public", "open", "1", "available":
			return true, true
		case "false", "no", "非公開", "private", "closed", "0":
			return false, true
		}
	}

	return false, false
}

var nonNumericPattern = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumber accepts numbers directly and strips non-digit noise from
// strings ("50名" -> 50).
func ParseNumber(value any) (float64, bool) {
	if n, ok := toFloat(value); ok {
		return n, true
	}

	if s, ok := value.(string); ok {
		digits := strings.TrimSpace(nonNumericPattern.ReplaceAllString(s, ""))
		if digits == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(digits, 64)
		if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
			return 0, false
		}
		return parsed, true
	}

	return 0, false
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}
