package domain

// RewriteResult is the combined answer of one AI update-and-rate call.
type RewriteResult struct {
	OriginalRating    ContentRating `json:"originalRating"`
	UpdatedTitle      string        `json:"updatedTitle"`
	UpdatedRawContent string        `json:"updatedRawContent"`
	ChangesApplied    []string      `json:"changesApplied"`
	NewInsights       []string      `json:"newInsights"`
	UpdatedRating     ContentRating `json:"updatedRating"`
}
