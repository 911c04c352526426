package autofill

import (
	"math"
	"strings"
)

// ParseFields walks an AI payload of unknown shape and pulls out whatever
// event-form fields it can. Strings are retried as JSON, arrays are merged
// item by item, objects are read field by field with the alternate key names
// the model tends to use.
func ParseFields(raw any) *FieldMapping {
	if raw == nil {
		return nil
	}

	switch v := raw.(type) {
	case string:
		parsed := TryParseJSON(v)
		if parsed == nil {
			return nil
		}
		return ParseFields(parsed)

	case []any:
		merged := &FieldMapping{}
		for _, item := range v {
			merged.Merge(ParseFields(item))
		}
		if merged.Empty() {
			return nil
		}
		return merged

	case map[string]any:
		return parseRecord(v)
	}

	return nil
}

func parseRecord(record map[string]any) *FieldMapping {
	mapping := &FieldMapping{}

	if title := trimmedString(record["title"]); title != "" {
		mapping.Title = &title
	}

	if description := trimmedString(record["description"]); description != "" {
		mapping.Description = &description
	}

	if date, ok := ParseDate(firstPresent(record, "date", "eventDate", "startDate")); ok {
		mapping.Date = &date
	}

	if t, ok := ParseTime(firstPresent(record, "time", "eventTime", "startTime")); ok {
		mapping.Time = &t
	}

	if location := trimmedString(record["location"]); location != "" {
		mapping.Location = &location
	}

	if category, ok := NormalizeCategory(firstPresent(record, "category", "type", "topic")); ok {
		mapping.Category = &category
	}

	if n, ok := ParseNumber(firstPresent(record, "maxAttendees", "capacity", "maxParticipants")); ok {
		rounded := int(math.Round(n))
		if rounded < 1 {
			rounded = 1
		}
		mapping.MaxAttendees = &rounded
	}

	if isPublic, ok := ParseBool(firstPresent(record, "isPublic", "visibility", "public")); ok {
		mapping.IsPublic = &isPublic
	}

	if imageURL := trimmedString(firstPresent(record, "imageUrl", "coverImageUrl", "bannerUrl")); imageURL != "" {
		mapping.ImageURL = &imageURL
	}

	if mapping.Empty() {
		return nil
	}
	return mapping
}

func firstPresent(record map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := record[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

func trimmedString(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// ResponseCandidates lists the places in a chat response that may carry form
// fields, in the order they should be tried. Later candidates overwrite
// earlier ones when both parse.
func ResponseCandidates(response map[string]any) []any {
	var candidates []any

	if data, ok := response["data"].(map[string]any); ok {
		for _, key := range []string{"formFields", "form_fields", "structuredData", "structured_data", "outputs"} {
			if value, ok := data[key]; ok && value != nil {
				candidates = append(candidates, value)
			}
		}
		candidates = append(candidates, data)
	}

	if answer, ok := response["answer"].(string); ok {
		candidates = append(candidates, answer)
	}

	if outputs, ok := response["outputs"]; ok && outputs != nil {
		candidates = append(candidates, outputs)
	}

	if message, ok := response["message"].(map[string]any); ok {
		if content, ok := message["content"].([]any); ok {
			candidates = append(candidates, content)
		}
	}

	return candidates
}

// Extract runs ParseFields over every response candidate and merges the
// results. Returns nil when nothing in the response was usable.
func Extract(response map[string]any) *FieldMapping {
	merged := &FieldMapping{}
	for _, candidate := range ResponseCandidates(response) {
		merged.Merge(ParseFields(candidate))
	}
	if merged.Empty() {
		return nil
	}
	return merged
}
