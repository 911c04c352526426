package autofill

import (
	"regexp"
	"strings"
)

// The fixed category vocabulary of the event form.
var Categories = []string{
	"テクノロジー",
	"デザイン",
	"ビジネス",
	"教育",
	"エンターテイメント",
	"スポーツ",
	"アート",
	"その他",
}

const CategoryFallback = "その他"

type synonym struct {
	keyword  string
	category string
}

// Ordered so substring matching is deterministic.
var categorySynonyms = []synonym{
	{"technology", "テクノロジー"},
	{"tech", "テクノロジー"},
	{"it", "テクノロジー"},
	{"software", "テクノロジー"},
	{"developer", "テクノロジー"},
	{"engineering", "テクノロジー"},
	{"ai", "テクノロジー"},
	{"デジタル", "テクノロジー"},
	{"テック", "テクノロジー"},
	{"design", "デザイン"},
	{"designer", "デザイン"},
	{"creative", "デザイン"},
	{"ux", "デザイン"},
	{"ui", "デザイン"},
	{"art", "アート"},
	{"arts", "アート"},
	{"culture", "アート"},
	{"cultural", "アート"},
	{"exhibition", "アート"},
	{"gallery", "アート"},
	{"business", "ビジネス"},
	{"marketing", "ビジネス"},
	{"startup", "ビジネス"},
	{"finance", "ビジネス"},
	{"management", "ビジネス"},
	{"教育", "教育"},
	{"education", "教育"},
	{"learning", "教育"},
	{"study", "教育"},
	{"workshop", "教育"},
	{"lecture", "教育"},
	{"entertainment", "エンターテイメント"},
	{"music", "エンターテイメント"},
	{"movie", "エンターテイメント"},
	{"film", "エンターテイメント"},
	{"game", "エンターテイメント"},
	{"festival", "エンターテイメント"},
	{"sports", "スポーツ"},
	{"sport", "スポーツ"},
	{"fitness", "スポーツ"},
	{"athletic", "スポーツ"},
	{"soccer", "スポーツ"},
	{"baseball", "スポーツ"},
	{"その他", "その他"},
	{"other", "その他"},
	{"others", "その他"},
	{"misc", "その他"},
	{"general", "その他"},
}

var synonymIndex = func() map[string]string {
	index := make(map[string]string, len(categorySynonyms))
	for _, s := range categorySynonyms {
		index[s.keyword] = s.category
	}
	return index
}()

var keywordHeuristics = []struct {
	keywords []string
	category string
}{
	{[]string{"テクノロジー", "テック", "it", "ai"}, "テクノロジー"},
	{[]string{"アート", "芸術", "クリエイ", "デザイン"}, "アート"},
	{[]string{"ビジネス", "起業", "スタートアップ", "マーケ"}, "ビジネス"},
	{[]string{"教育", "勉強", "学習", "セミナー"}, "教育"},
	{[]string{"エンタ", "音楽", "ライブ", "映画", "フェス"}, "エンターテイメント"},
	{[]string{"スポーツ", "運動", "フィットネス", "マラソン"}, "スポーツ"},
}

var separatorPattern = regexp.MustCompile(`[、・|]`)

// NormalizeCategory maps free text onto the fixed vocabulary: exact match,
// then synonym lookup, then substring keyword heuristics. Any non-empty input
// that matches nothing falls back to その他 so the form select always lands on
// a valid option.
func NormalizeCategory(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", false
	}

	for _, category := range Categories {
		if trimmed == category {
			return category, true
		}
	}

	lower := strings.ToLower(trimmed)
	if category, ok := synonymIndex[lower]; ok {
		return category, true
	}

	normalized := separatorPattern.ReplaceAllString(lower, " ")
	for _, s := range categorySynonyms {
		if strings.Contains(normalized, s.keyword) {
			return s.category, true
		}
	}

	for _, h := range keywordHeuristics {
		for _, keyword := range h.keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				return h.category, true
			}
		}
	}

	return CategoryFallback, true
}
