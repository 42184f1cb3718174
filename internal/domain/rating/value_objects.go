package rating

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxReviewLength = 500

var (
	ErrInvalidScore  = errors.New("score must be between 1 and 5")
	ErrReviewTooLong = errors.New("review exceeds maximum length")
)

type Score struct {
	value int
}

func NewScore(v int) (Score, error) {
	if v < 1 || v > 5 {
		return Score{}, ErrInvalidScore
	}
	return Score{value: v}, nil
}

func (s Score) Value() int { return s.value }

// Review is the free-text portion of a rating. Empty is allowed. Length is
// counted in characters to line up with the char_length column constraint.
type Review struct {
	text string
}

func NewReview(s string) (Review, error) {
	t := strings.TrimSpace(s)
	if utf8.RuneCountInString(t) > MaxReviewLength {
		return Review{}, ErrReviewTooLong
	}
	return Review{text: t}, nil
}

func (r Review) String() string { return r.text }

func (r Review) IsEmpty() bool { return r.text == "" }
