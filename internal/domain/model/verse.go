package model

import (
	"fmt"
	"strconv"
	"strings"

	"telegram-gita-bot/internal/domain"
)

// MaxChapter is the number of chapters in the Bhagavad Gita.
const MaxChapter = 18

// VerseRef addresses a single verse.
type VerseRef struct {
	Chapter int
	Verse   int
}

// ParseVerseRef parses the two positional /verse arguments.
func ParseVerseRef(chapter, verse string) (VerseRef, error) {
	c, err := strconv.Atoi(strings.TrimSpace(chapter))
	if err != nil {
		return VerseRef{}, fmt.Errorf("%w: chapter %q", domain.ErrInvalidVerseRef, chapter)
	}
	v, err := strconv.Atoi(strings.TrimSpace(verse))
	if err != nil {
		return VerseRef{}, fmt.Errorf("%w: verse %q", domain.ErrInvalidVerseRef, verse)
	}
	ref := VerseRef{Chapter: c, Verse: v}
	if err := ref.Validate(); err != nil {
		return VerseRef{}, err
	}
	return ref, nil
}

func (r VerseRef) Validate() error {
	if r.Chapter < 1 || r.Chapter > MaxChapter {
		return fmt.Errorf("%w: chapter %d out of range", domain.ErrInvalidVerseRef, r.Chapter)
	}
	if r.Verse < 1 {
		return fmt.Errorf("%w: verse %d out of range", domain.ErrInvalidVerseRef, r.Verse)
	}
	return nil
}

func (r VerseRef) String() string { return fmt.Sprintf("%d.%d", r.Chapter, r.Verse) }

// Verse is the content service payload for one verse.
type Verse struct {
	OriginalVerse   string `json:"originalVerse"`
	Transliteration string `json:"transliteration"`
	Translation     string `json:"translation"`
	Commentary      string `json:"commentary"`
	WordMeanings    string `json:"wordMeanings"`
}

func (v *Verse) IsZero() bool {
	return v == nil || (v.OriginalVerse == "" && v.Translation == "")
}
