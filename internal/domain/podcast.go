package domain

import (
	"fmt"
	"time"
)

// Language enumerates synthesis output languages.
type Language string

const (
	LanguageCantonese Language = "cantonese"
	LanguageMandarin  Language = "mandarin"
	LanguageEnglish   Language = "english"
)

// Valid reports whether the language is one of the supported values.
func (l Language) Valid() bool {
	switch l {
	case LanguageCantonese, LanguageMandarin, LanguageEnglish:
		return true
	}
	return false
}

// PodcastRecord represents a generated podcast row. Content holds the text
// actually synthesized, which differs from the submitted text when the
// translation branch ran.
type PodcastRecord struct {
	ID          int64
	Title       string
	Description string
	Content     string
	Voice       string
	Emotion     string
	Speed       float64
	AudioURL    string
	Duration    string
	FileSize    int64
	OwnerEmail  string
	Tags        []string
	IsPublic    bool
	Language    Language
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FormatDuration renders a duration in seconds as HH:MM:SS.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
