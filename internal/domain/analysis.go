package domain

import (
	"time"

	"github.com/google/uuid"
)

// RatingScores holds the five 1-10 rating axes.
type RatingScores struct {
	ContentQuality float64 `json:"contentQuality"`
	Depth          float64 `json:"depth"`
	Structure      float64 `json:"structure"`
	Relevance      float64 `json:"relevance"`
	Uniqueness     float64 `json:"uniqueness"`
}

// ContentRating is one AI rating pass over a single article version.
type ContentRating struct {
	OverallScore float64      `json:"overallScore"`
	Ratings      RatingScores `json:"ratings"`
	Strengths    []string     `json:"strengths"`
	Weaknesses   []string     `json:"weaknesses"`
	Summary      string       `json:"summary"`
}

// Reference is a web page the AI was pointed at while rewriting.
type Reference struct {
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}

// ArticleSnapshot pins the state of an article at analysis time.
type ArticleSnapshot struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	RawContent string    `json:"rawContent"`
}

// UpdatedSnapshot is the AI-produced replacement body.
type UpdatedSnapshot struct {
	Title      string `json:"title"`
	RawContent string `json:"rawContent"`
}

// RatingPair keeps the before/after ratings together.
type RatingPair struct {
	Original ContentRating `json:"original"`
	Updated  ContentRating `json:"updated"`
}

// Improvement is derived from the two overall scores at creation time.
type Improvement struct {
	ScoreDifference float64 `json:"scoreDifference"`
	Improved        bool    `json:"improved"`
}

// ArticleAnalysis records one rewrite/rating pass. Immutable once stored;
// an article may accumulate any number of analyses.
type ArticleAnalysis struct {
	ID              uuid.UUID       `json:"id"`
	OriginalArticle ArticleSnapshot `json:"originalArticle"`
	UpdatedArticle  UpdatedSnapshot `json:"updatedArticle"`
	References      []Reference     `json:"references"`
	ChangesApplied  []string        `json:"changesApplied"`
	NewInsights     []string        `json:"newInsights"`
	Ratings         RatingPair      `json:"ratings"`
	Improvement     Improvement     `json:"improvement"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// NewImprovement derives the improvement record from a rating pair.
func NewImprovement(ratings RatingPair) Improvement {
	diff := ratings.Updated.OverallScore - ratings.Original.OverallScore
	return Improvement{ScoreDifference: diff, Improved: diff > 0}
}
