package models

import (
	"gorm.io/gorm"
)

// Survey vocabularies carried over from the production registration form.
var AgeGroupLabels = map[string]string{
	"teens":       "10代以下",
	"twenties":    "20代",
	"thirties":    "30代",
	"forties":     "40代",
	"fifties":     "50代",
	"sixtiesPlus": "60代以上",
}

var OccupationLabels = map[string]string{
	"student":  "学生",
	"engineer": "エンジニア",
	"designer": "デザイナー",
	"planner":  "企画・マーケティング",
	"manager":  "マネジメント",
	"other":    "その他",
}

var DiscoveryLabels = map[string]string{
	"sns":       "SNS",
	"search":    "インターネット検索",
	"friend":    "友人・知人の紹介",
	"media":     "メディア記事・ブログ",
	"eventSite": "イベント紹介サイト",
	"other":     "その他",
}

func ValidAgeGroup(v string) bool {
	_, ok := AgeGroupLabels[v]
	return ok
}

func ValidOccupation(v string) bool {
	_, ok := OccupationLabels[v]
	return ok
}

func ValidDiscovery(v string) bool {
	_, ok := DiscoveryLabels[v]
	return ok
}

type RegistrationFields struct {
	Name       string  `json:"name"`
	AgeGroup   string  `json:"age_group"`
	Occupation string  `json:"occupation"`
	Discovery  string  `json:"discovery"`
	Other      *string `json:"other"`
}

type Registration struct {
	gorm.Model
	EventID            uint `json:"event_id" gorm:"uniqueIndex:idx_event_user"`
	UserID             uint `json:"user_id" gorm:"uniqueIndex:idx_event_user"`
	User               User `gorm:"foreignKey:UserID"`
	RegistrationFields `gorm:"embedded"`
}
