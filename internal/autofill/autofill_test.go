package autofill

import (
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{"ISOPassthrough", "2025-03-15", "2025-03-15", true},
		{"JapaneseParticles", "2025年3月15日", "2025-03-15", true},
		{"Slashes", "2025/3/5", "2025-03-05", true},
		{"EnglishLayout", "March 15, 2025", "2025-03-15", true},
		{"Unparseable", "来週の土曜日", "", false},
		{"Empty", "   ", "", false},
		{"NotAString", 20250315.0, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseDate(tc.input)
			if ok != tc.ok {
				t.Fatalf("ParseDate(%v) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if got != tc.want {
				t.Errorf("ParseDate(%v) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{"Simple", "14:30", "14:30", true},
		{"JapaneseAfternoon", "午後3時", "15:00", true},
		{"JapaneseMorningNoon", "午前12時", "00:00", true},
		{"PMWithMinutes", "pm 7:45", "19:45", true},
		{"HourOnly", "18時", "18:00", true},
		{"MinutesSinceMidnight", 570.0, "09:30", true},
		{"MinutesClampedHigh", 5000.0, "23:59", true},
		{"MinutesClampedLow", -30.0, "00:00", true},
		{"Empty", "", "", false},
		{"NoDigits", "夕方ごろ", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTime(tc.input)
			if ok != tc.ok {
				t.Fatalf("ParseTime(%v) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if got != tc.want {
				t.Errorf("ParseTime(%v) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{"ExactVocabulary", "テクノロジー", "テクノロジー", true},
		{"SynonymAI", "AI", "テクノロジー", true},
		{"SynonymDesign", "UX", "デザイン", true},
		{"SubstringKeyword", "スタートアップ交流会", "ビジネス", true},
		{"JapaneseHeuristic", "音楽フェスの打ち上げ", "エンターテイメント", true},
		{"UnknownFallsBack", "謎のジャンル", "その他", true},
		{"Empty", " ", "", false},
		{"NotAString", 42.0, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeCategory(tc.input)
			if ok != tc.ok {
				t.Fatalf("NormalizeCategory(%v) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if got != tc.want {
				t.Errorf("NormalizeCategory(%v) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	truthy := []any{true, "true", "YES", "公開", "public", "1", "available"}
	for _, v := range truthy {
		got, ok := ParseBool(v)
		if !ok || !got {
			t.Errorf("ParseBool(%v) = (%v, %v), want (true, true)", v, got, ok)
		}
	}

	falsy := []any{false, "false", "No", "非公開", "private", "0"}
	for _, v := range falsy {
		got, ok := ParseBool(v)
		if !ok || got {
			t.Errorf("ParseBool(%v) = (%v, %v), want (false, true)", v, got, ok)
		}
	}

	if _, ok := ParseBool("maybe"); ok {
		t.Error("ParseBool(\"maybe\") should not resolve")
	}
	if _, ok := ParseBool(3.14); ok {
		t.Error("ParseBool(3.14) should not resolve")
	}
}

func TestParseNumber(t *testing.T) {
	if n, ok := ParseNumber(50.0); !ok || n != 50 {
		t.Errorf("ParseNumber(50.0) = (%v, %v)", n, ok)
	}
	if n, ok := ParseNumber("定員50名"); !ok || n != 50 {
		t.Errorf("ParseNumber(\"定員50名\") = (%v, %v)", n, ok)
	}
	if _, ok := ParseNumber("たくさん"); ok {
		t.Error("ParseNumber(\"たくさん\") should not resolve")
	}
}

func TestTryParseJSON(t *testing.T) {
	t.Run("Direct", func(t *testing.T) {
		parsed := TryParseJSON(`{"title": "勉強会"}`)
		record, ok := parsed.(map[string]any)
		if !ok || record["title"] != "勉強会" {
			t.Fatalf("unexpected parse result: %#v", parsed)
		}
	})

	t.Run("FencedBlock", func(t *testing.T) {
		raw := "以下が抽出結果です。\n```json\n{\"title\": \"勉強会\"}\n```\nご確認ください。"
		parsed := TryParseJSON(raw)
		record, ok := parsed.(map[string]any)
		if !ok || record["title"] != "勉強会" {
			t.Fatalf("unexpected parse result: %#v", parsed)
		}
	})

	t.Run("Prose", func(t *testing.T) {
		if parsed := TryParseJSON("特に構造化されていない文章"); parsed != nil {
			t.Fatalf("expected nil, got %#v", parsed)
		}
	})
}

func TestParseFields(t *testing.T) {
	t.Run("FullRecord", func(t *testing.T) {
		fields := ParseFields(map[string]any{
			"title":        "テックカンファレンス 2025",
			"description":  "年次カンファレンス",
			"date":         "2025年3月15日",
			"time":         "午後1時30分",
			"location":     "東京国際フォーラム",
			"category":     "tech",
			"maxAttendees": "500名",
			"isPublic":     "公開",
			"imageUrl":     " https://example.com/cover.png ",
		})
		if fields == nil {
			t.Fatal("expected fields, got nil")
		}
		if *fields.Title != "テックカンファレンス 2025" {
			t.Errorf("title = %q", *fields.Title)
		}
		if *fields.Date != "2025-03-15" {
			t.Errorf("date = %q", *fields.Date)
		}
		if *fields.Time != "13:30" {
			t.Errorf("time = %q", *fields.Time)
		}
		if *fields.Category != "テクノロジー" {
			t.Errorf("category = %q", *fields.Category)
		}
		if *fields.MaxAttendees != 500 {
			t.Errorf("maxAttendees = %d", *fields.MaxAttendees)
		}
		if !*fields.IsPublic {
			t.Error("isPublic should be true")
		}
		if *fields.ImageURL != "https://example.com/cover.png" {
			t.Errorf("imageUrl = %q", *fields.ImageURL)
		}
	})

	t.Run("AlternateKeys", func(t *testing.T) {
		fields := ParseFields(map[string]any{
			"eventDate": "2025-04-01",
			"startTime": "10:00",
			"capacity":  30.0,
			"topic":     "design",
		})
		if fields == nil {
			t.Fatal("expected fields, got nil")
		}
		if *fields.Date != "2025-04-01" || *fields.Time != "10:00" {
			t.Errorf("date/time = %q/%q", *fields.Date, *fields.Time)
		}
		if *fields.MaxAttendees != 30 {
			t.Errorf("maxAttendees = %d", *fields.MaxAttendees)
		}
		if *fields.Category != "デザイン" {
			t.Errorf("category = %q", *fields.Category)
		}
	})

	t.Run("UnparseableDateOmitted", func(t *testing.T) {
		fields := ParseFields(map[string]any{
			"title": "もくもく会",
			"date":  "そのうち",
		})
		if fields == nil {
			t.Fatal("expected fields, got nil")
		}
		if fields.Date != nil {
			t.Errorf("date should be omitted, got %q", *fields.Date)
		}
	})

	t.Run("CapacityFloorsAtOne", func(t *testing.T) {
		fields := ParseFields(map[string]any{"maxAttendees": 0.0})
		if fields == nil || fields.MaxAttendees == nil {
			t.Fatal("expected maxAttendees")
		}
		if *fields.MaxAttendees != 1 {
			t.Errorf("maxAttendees = %d, want 1", *fields.MaxAttendees)
		}
	})

	t.Run("JSONString", func(t *testing.T) {
		fields := ParseFields("```json\n{\"title\": \"LT大会\"}\n```")
		if fields == nil || fields.Title == nil || *fields.Title != "LT大会" {
			t.Fatalf("unexpected fields: %#v", fields)
		}
	})

	t.Run("ArrayMerged", func(t *testing.T) {
		fields := ParseFields([]any{
			map[string]any{"title": "前半"},
			map[string]any{"title": "後半", "location": "渋谷"},
		})
		if fields == nil {
			t.Fatal("expected fields, got nil")
		}
		if *fields.Title != "後半" {
			t.Errorf("later item should win, got %q", *fields.Title)
		}
		if *fields.Location != "渋谷" {
			t.Errorf("location = %q", *fields.Location)
		}
	})

	t.Run("NothingUsable", func(t *testing.T) {
		if fields := ParseFields(map[string]any{"unrelated": "value"}); fields != nil {
			t.Fatalf("expected nil, got %#v", fields)
		}
	})
}

func TestExtract(t *testing.T) {
	t.Run("AnswerString", func(t *testing.T) {
		fields := Extract(map[string]any{
			"answer": "{\"title\": \"ハンズオン\", \"date\": \"2025-06-01\"}",
		})
		if fields == nil || *fields.Title != "ハンズオン" || *fields.Date != "2025-06-01" {
			t.Fatalf("unexpected fields: %#v", fields)
		}
	})

	t.Run("NestedFormFields", func(t *testing.T) {
		fields := Extract(map[string]any{
			"data": map[string]any{
				"form_fields": map[string]any{"title": "読書会"},
			},
		})
		if fields == nil || *fields.Title != "読書会" {
			t.Fatalf("unexpected fields: %#v", fields)
		}
	})

	t.Run("MessageContent", func(t *testing.T) {
		fields := Extract(map[string]any{
			"message": map[string]any{
				"content": []any{
					map[string]any{"title": "展示会", "category": "art"},
				},
			},
		})
		if fields == nil || *fields.Category != "アート" {
			t.Fatalf("unexpected fields: %#v", fields)
		}
	})

	t.Run("NoCandidates", func(t *testing.T) {
		if fields := Extract(map[string]any{"conversation_id": "abc"}); fields != nil {
			t.Fatalf("expected nil, got %#v", fields)
		}
	})
}
