package dify

import (
	"regexp"
	"strings"
)

// ImageResult is an image pulled out of a chat response, either inline or as
// a URL that still needs downloading.
type ImageResult struct {
	Base64 string
	URL    string
}

var (
	dataURLPattern = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)
	bareURLPattern = regexp.MustCompile(`https?://[\w\-._~:/?#\[\]@!$&'()*+,;=%]+`)
)

// DataURL is the decoded form of a data: URL.
type DataURL struct {
	MimeType string
	Base64   string
}

// ParseDataURL splits a data: URL into its MIME type and base64 payload.
// Returns nil when the input is not a data URL.
func ParseDataURL(raw string) *DataURL {
	match := dataURLPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return nil
	}
	return &DataURL{MimeType: match[1], Base64: match[2]}
}

// SanitizeURL trims a URL candidate and strips the trailing parentheses the
// model leaves behind when it wraps links in markdown.
func SanitizeURL(raw string) string {
	sanitized := strings.TrimSpace(raw)
	for strings.HasSuffix(sanitized, ")") {
		sanitized = sanitized[:len(sanitized)-1]
	}
	return sanitized
}

// ExtractImage walks the known response variants in priority order: direct
// image fields under data, data.outputs entries, top-level outputs text,
// message.content items, then data-URL or bare-URL matches inside any
// collected prose. Returns nil when the response carries no image.
func ExtractImage(response ChatMessageResponse) *ImageResult {
	var candidates []string

	if answer, ok := response["answer"].(string); ok {
		candidates = append(candidates, answer)
	}

	if data, ok := response["data"].(map[string]any); ok {
		if url := stringField(data, "image_url"); url != "" {
			return &ImageResult{URL: SanitizeURL(url)}
		}
		if b64 := stringField(data, "image_base64"); b64 != "" {
			return &ImageResult{Base64: b64}
		}
		if outputs, ok := data["outputs"].([]any); ok {
			for _, output := range outputs {
				record, ok := output.(map[string]any)
				if !ok {
					continue
				}
				if b64 := stringField(record, "image_base64"); b64 != "" {
					return &ImageResult{Base64: b64}
				}
				if url := stringField(record, "image_url"); url != "" {
					return &ImageResult{URL: SanitizeURL(url)}
				}
				if text := stringField(record, "text"); text != "" {
					candidates = append(candidates, text)
				}
			}
		}
	}

	if outputs, ok := response["outputs"].([]any); ok {
		for _, output := range outputs {
			if record, ok := output.(map[string]any); ok {
				if text := stringField(record, "text"); text != "" {
					candidates = append(candidates, text)
				}
			}
		}
	}

	if message, ok := response["message"].(map[string]any); ok {
		if content, ok := message["content"].([]any); ok {
			for _, item := range content {
				record, ok := item.(map[string]any)
				if !ok {
					continue
				}
				if record["type"] == "image" {
					if url := stringField(record, "image_url"); url != "" {
						return &ImageResult{URL: SanitizeURL(url)}
					}
					if b64 := stringField(record, "image_base64"); b64 != "" {
						return &ImageResult{Base64: b64}
					}
				}
				if data, ok := record["data"].(map[string]any); ok {
					if url := stringField(data, "url"); url != "" {
						return &ImageResult{URL: SanitizeURL(url)}
					}
					if url := stringField(data, "image_url"); url != "" {
						return &ImageResult{URL: SanitizeURL(url)}
					}
					if b64 := stringField(data, "image_base64"); b64 != "" {
						return &ImageResult{Base64: b64}
					}
				}
				if text := stringField(record, "text"); text != "" {
					candidates = append(candidates, text)
				}
			}
		}
	}

	for _, candidate := range candidates {
		if match := dataURLPattern.FindStringSubmatch(candidate); match != nil {
			return &ImageResult{Base64: match[2]}
		}
		if match := bareURLPattern.FindString(candidate); match != "" {
			if sanitized := SanitizeURL(match); sanitized != "" {
				return &ImageResult{URL: sanitized}
			}
		}
	}

	return nil
}

// ExtractAnswer pulls the assistant's text out of a chat response: the usual
// answer-style keys first, then messages[].data.content.
func ExtractAnswer(response ChatMessageResponse) string {
	for _, key := range []string{"answer", "output_text", "message", "result", "text"} {
		if value, ok := response[key].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}

	if messages, ok := response["messages"].([]any); ok {
		for _, message := range messages {
			record, ok := message.(map[string]any)
			if !ok {
				continue
			}
			data, ok := record["data"].(map[string]any)
			if !ok {
				continue
			}
			if content, ok := data["content"].(string); ok {
				if trimmed := strings.TrimSpace(content); trimmed != "" {
					return trimmed
				}
			}
		}
	}

	return ""
}

func stringField(record map[string]any, key string) string {
	value, ok := record[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
