package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BlogCurator/internal/domain"
)

// contentSelectors is tried in order, most specific first. The first
// selector matching at least one element wins; its first match becomes the
// content container.
var contentSelectors = []string{
	"#content .e-con-inner .elementor-widget-theme-post-content",
	"#content",
	"article",
}

// chromeSelector matches known non-content substructures stripped from the
// container before extraction.
const chromeSelector = ".comments-area, .related-posts, .post-navigation, " +
	".author-box, footer, [class*=\"footer\"], [class*=\"comment\"], nav, .social-share"

// boilerplatePhrases is a denylist of site-chrome text known to leak into
// the content container on this site's templates.
var boilerplatePhrases = []string{
	"BeyondChats", "Contact Us", "Features", "Integrations",
	"RESOURCES", "Products", "Pricing", "Startup", "Standard",
	"Business", "Enterprise", "Case studies", "Success stories",
	"All rights reserved", "Post Comment", "Required fields",
	"Website", "Add Comment", "Leave a Reply", "Save my name",
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ExtractSections structures a single article page into titled sections.
// It never fails: malformed markup degrades to empty sections with the
// fallback content string.
func ExtractSections(pageHTML string) domain.ExtractedArticle {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return domain.ExtractedArticle{
			Content:       domain.FallbackContent,
			Sections:      []domain.Section{},
			PublishedDate: time.Now().UTC(),
		}
	}

	return extractFromDocument(doc)
}

func extractFromDocument(doc *goquery.Document) domain.ExtractedArticle {
	container := findContentContainer(doc)

	var (
		sections   []domain.Section
		intro      []string
		rawContent string
	)

	if container != nil {
		clean := container.Clone()
		clean.Find(chromeSelector).Remove()

		if html, err := clean.Html(); err == nil {
			rawContent = html
		}

		sections, intro = walkSections(clean)
	}

	if len(intro) > 0 {
		sections = append([]domain.Section{{Title: "Introduction", Paragraphs: intro}}, sections...)
	}

	content := flattenSections(sections)
	if content == "" {
		content = domain.FallbackContent
	}
	if sections == nil {
		sections = []domain.Section{}
	}

	return domain.ExtractedArticle{
		Content:       content,
		Sections:      sections,
		RawContent:    rawContent,
		PublishedDate: extractPublishedDate(doc),
	}
}

func findContentContainer(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel.First()
		}
	}
	return nil
}

// walkSections scans the container's direct children as a linear token
// stream. Headings open sections; paragraphs, blockquotes and lists attach
// to the open section, or buffer as introduction text before the first
// heading.
func walkSections(clean *goquery.Selection) ([]domain.Section, []string) {
	var (
		sections []domain.Section
		intro    []string
		current  *domain.Section
	)

	clean.Children().Each(func(_ int, node *goquery.Selection) {
		tag := goquery.NodeName(node)
		text := strings.TrimSpace(node.Text())

		if len(text) < 2 {
			return
		}
		if isBoilerplate(text) {
			return
		}

		switch tag {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if current != nil && len(current.Paragraphs) > 0 {
				sections = append(sections, *current)
			}
			current = &domain.Section{Title: text}
		case "p", "blockquote", "ul", "ol":
			paragraph := text
			if tag == "ul" || tag == "ol" {
				paragraph = joinListItems(node)
			}
			if paragraph == "" {
				return
			}
			if current != nil {
				current.Paragraphs = append(current.Paragraphs, paragraph)
			} else {
				intro = append(intro, paragraph)
			}
		}
	})

	if current != nil && len(current.Paragraphs) > 0 {
		sections = append(sections, *current)
	}

	return sections, intro
}

func isBoilerplate(text string) bool {
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func joinListItems(node *goquery.Selection) string {
	var items []string
	node.Find("li").Each(func(_ int, li *goquery.Selection) {
		items = append(items, strings.TrimSpace(li.Text()))
	})
	return strings.Join(items, "\n• ")
}

func flattenSections(sections []domain.Section) string {
	parts := make([]string, 0, len(sections))
	for _, section := range sections {
		lines := append([]string{section.Title}, section.Paragraphs...)
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// extractPublishedDate reads the first time element, preferring its
// machine-readable datetime attribute over visible text. Unparseable or
// absent dates default to the current timestamp.
func extractPublishedDate(doc *goquery.Document) time.Time {
	timeEl := doc.Find("time").First()
	if timeEl.Length() > 0 {
		if attr, ok := timeEl.Attr("datetime"); ok {
			if parsed, ok := parseDate(attr); ok {
				return parsed
			}
		}
		if parsed, ok := parseDate(timeEl.Text()); ok {
			return parsed
		}
	}
	return time.Now().UTC()
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
