package dify

import (
	"testing"
)

func TestSanitizeURL(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{" https://example.com/a.png ", "https://example.com/a.png"},
		{"https://example.com/a.png))", "https://example.com/a.png"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeURL(tc.input); got != tc.want {
			t.Errorf("SanitizeURL(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestExtractImage(t *testing.T) {
	t.Run("DirectDataURLField", func(t *testing.T) {
		result := ExtractImage(ChatMessageResponse{
			"data": map[string]any{"image_url": "https://files.example.com/out.png)"},
		})
		if result == nil || result.URL != "https://files.example.com/out.png" {
			t.Fatalf("unexpected result: %#v", result)
		}
	})

	t.Run("DataOutputsBase64", func(t *testing.T) {
		result := ExtractImage(ChatMessageResponse{
			"data": map[string]any{
				"outputs": []any{
					map[string]any{"image_base64": "QUJD"},
				},
			},
		})
		if result == nil || result.Base64 != "QUJD" {
			t.Fatalf("unexpected result: %#v", result)
		}
	})

	t.Run("MessageContentImage", func(t *testing.T) {
		result := ExtractImage(ChatMessageResponse{
			"message": map[string]any{
				"content": []any{
					map[string]any{"type": "image", "image_url": "https://files.example.com/img.webp"},
				},
			},
		})
		if result == nil || result.URL != "https://files.example.com/img.webp" {
			t.Fatalf("unexpected result: %#v", result)
		}
	})

	t.Run("DataURLInProse", func(t *testing.T) {
		result := ExtractImage(ChatMessageResponse{
			"answer": "data:image/png;base64,aGVsbG8=",
		})
		if result == nil || result.Base64 != "aGVsbG8=" {
			t.Fatalf("unexpected result: %#v", result)
		}
	})

	t.Run("BareURLInProse", func(t *testing.T) {
		result := ExtractImage(ChatMessageResponse{
			"answer": "生成結果はこちらです: https://files.example.com/gen/123.png をご利用ください",
		})
		if result == nil || result.URL != "https://files.example.com/gen/123.png" {
			t.Fatalf("unexpected result: %#v", result)
		}
	})

	t.Run("NoImage", func(t *testing.T) {
		if result := ExtractImage(ChatMessageResponse{"answer": "画像を生成できませんでした"}); result != nil {
			t.Fatalf("expected nil, got %#v", result)
		}
	})
}

func TestExtractAnswer(t *testing.T) {
	t.Run("AnswerKey", func(t *testing.T) {
		if got := ExtractAnswer(ChatMessageResponse{"answer": " 手を動かす勉強会です "}); got != "手を動かす勉強会です" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("FallbackKeyOrder", func(t *testing.T) {
		got := ExtractAnswer(ChatMessageResponse{
			"result": "result text",
			"text":   "text value",
		})
		if got != "result text" {
			t.Errorf("got %q, want result text", got)
		}
	})

	t.Run("NestedMessages", func(t *testing.T) {
		got := ExtractAnswer(ChatMessageResponse{
			"messages": []any{
				map[string]any{"data": map[string]any{"content": "ネスト応答"}},
			},
		})
		if got != "ネスト応答" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := ExtractAnswer(ChatMessageResponse{}); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}
