package llm

import (
	"context"

	"BlogCurator/internal/apperr"
	"BlogCurator/internal/domain"
	"BlogCurator/internal/ports"
)

// Disabled stands in for the Gemini client when no service-account
// credentials are configured. The rest of the API keeps working; only the
// AI endpoints answer with an upstream failure.
type Disabled struct{}

var _ ports.ContentRewriter = Disabled{}

func (Disabled) UpdateAndRate(ctx context.Context, original domain.ArticleSnapshot, refs []domain.Reference) (domain.RewriteResult, error) {
	return domain.RewriteResult{}, apperr.NewUpstream("AI rewriter is not configured", nil)
}

func (Disabled) Rate(ctx context.Context, title, rawContent string) (domain.ContentRating, error) {
	return domain.ContentRating{}, apperr.NewUpstream("AI rewriter is not configured", nil)
}
