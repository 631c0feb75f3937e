package llm

import (
	"fmt"
	"strings"

	"BlogCurator/internal/domain"
)

func buildUpdatePrompt(original domain.ArticleSnapshot, refs []domain.Reference) string {
	lines := make([]string, 0, len(refs))
	for i, ref := range refs {
		lines = append(lines, fmt.Sprintf("Reference %d: %s - %s", i+1, ref.URL, ref.Reason))
	}
	referencesText := strings.Join(lines, "\n")

	return fmt.Sprintf(`You are a content improvement expert. You have an original blog post and %d reference website URLs.

ORIGINAL BLOG POST:
Title: %s
Raw HTML Content: %s

REFERENCE WEBSITE URLs (for your reference):
%s

Your task:
1. First, rate the ORIGINAL content on these criteria (scale 1-10):
   - Content Quality (how well-written and informative)
   - Depth (how comprehensive and detailed)
   - Structure (how well-organized)
   - Relevance (how relevant to the topic)
   - Uniqueness (how unique the insights are)

2. Then, update and enhance the original blog post with better insights and information
   - Use the reference URLs as inspiration
   - Keep the original style and tone
   - Make the content more comprehensive and valuable
   - Return the updated content as clean HTML that matches the original format

3. Finally, rate the UPDATED content using the same criteria

Return your response in this JSON format:
{
  "originalRating": {
    "overallScore": 8.5,
    "ratings": {
      "contentQuality": 9,
      "depth": 8,
      "structure": 9,
      "relevance": 9,
      "uniqueness": 7
    },
    "strengths": ["List of strengths"],
    "weaknesses": ["List of weaknesses"],
    "summary": "Brief summary"
  },
  "updatedTitle": "Updated title if changed, or original",
  "updatedRawContent": "The complete updated blog post content in HTML format",
  "changesApplied": ["List of key changes made"],
  "newInsights": ["List of new insights added"],
  "updatedRating": {
    "overallScore": 9.2,
    "ratings": {
      "contentQuality": 10,
      "depth": 9,
      "structure": 9,
      "relevance": 10,
      "uniqueness": 8
    },
    "strengths": ["List of strengths"],
    "weaknesses": ["List of weaknesses"],
    "summary": "Brief summary"
  }
}`, len(refs), original.Title, original.RawContent, referencesText)
}

func buildRatePrompt(title, rawContent string) string {
	return fmt.Sprintf(`Rate this blog post on the following criteria (scale 1-10):

BLOG POST:
Title: %s
Content: %s

Provide ratings for:
1. Content Quality - How well-written and informative
2. Depth - How comprehensive and detailed
3. Structure - How well-organized
4. Relevance - How relevant to the topic
5. Uniqueness - How unique the insights are

Return your response in this JSON format:
{
  "overallScore": number,
  "ratings": {
    "contentQuality": number,
    "depth": number,
    "structure": number,
    "relevance": number,
    "uniqueness": number
  },
  "strengths": ["List of strengths"],
  "weaknesses": ["List of weaknesses"],
  "summary": "Brief summary of the rating"
}`, title, rawContent)
}
