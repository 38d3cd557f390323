// Package extract implements the Extractor interface.
// It locates the readable text of a page with an ordered fallback chain:
//  1. Article body: paragraph text of the first recognized content region,
//     then go-readability, accepted only above a minimum length
//  2. The <meta name="description"> content
//  3. The <title> text alone
package extract

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/threadpipe/core"
	"github.com/gaurav-prasanna/threadpipe/core/chunk"
	"github.com/gaurav-prasanna/threadpipe/core/normalize"
)

// DefaultMinArticleChars is the shortest body text accepted as an article.
const DefaultMinArticleChars = 200

// noiseSelectors are HTML elements removed before paragraph collection.
// These contribute no meaningful content to the page text.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header", "aside",
	"img", "picture", "figure", "figcaption",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
	".comments", "#comments",
	"[class*=cookie]", "[id*=cookie]", "[class*=consent]", "[id*=consent]",
}

// contentRegions are containers searched for paragraphs, most specific first.
var contentRegions = []string{
	"article",
	"[itemprop=articleBody]",
	"main",
	"[role=main]",
	".post-content", ".entry-content", ".article-body", ".article-content",
	"#content", ".content",
	"body",
}

// HTMLExtractor pulls a SourceDocument out of raw HTML.
type HTMLExtractor struct {
	minChars   int
	normalizer core.Normalizer
}

// Option configures an HTMLExtractor.
type Option func(*HTMLExtractor)

// WithMinArticleChars sets the article-body threshold.
func WithMinArticleChars(n int) Option {
	return func(e *HTMLExtractor) {
		if n > 0 {
			e.minChars = n
		}
	}
}

// WithNormalizer replaces the HTML→Markdown converter.
func WithNormalizer(n core.Normalizer) Option {
	return func(e *HTMLExtractor) {
		e.normalizer = n
	}
}

// New creates an HTMLExtractor.
func New(opts ...Option) *HTMLExtractor {
	e := &HTMLExtractor{
		minChars:   DefaultMinArticleChars,
		normalizer: normalize.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the fallback chain over rawHTML. It fails with
// *core.ExtractionError only when there is no article body, no meta
// description and no title.
func (e *HTMLExtractor) Extract(rawHTML string, pageURL string) (core.SourceDocument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return core.SourceDocument{}, &core.ExtractionError{URL: pageURL, Reason: "parsing HTML: " + err.Error()}
	}

	out := core.SourceDocument{
		URL:      pageURL,
		RawHTML:  rawHTML,
		Title:    pageTitle(doc),
		Language: strings.TrimSpace(doc.Find("html").AttrOr("lang", "")),
	}
	description := metaDescription(doc)

	if body, region, ok := e.articleBody(doc, rawHTML, pageURL); ok {
		out.BodyText = body
		out.ExtractionMethod = core.ArticleBody
		out.Markdown = e.markdown(region)
	} else if description != "" {
		out.BodyText = description
		out.ExtractionMethod = core.MetaDescription
	} else if out.Title != "" {
		out.BodyText = out.Title
		out.ExtractionMethod = core.TitleOnly
	} else {
		return core.SourceDocument{}, &core.ExtractionError{URL: pageURL, Reason: "no article body, meta description or title found"}
	}

	log.Debug().
		Str("url", pageURL).
		Str("method", string(out.ExtractionMethod)).
		Int("chars", utf8.RuneCountInString(out.BodyText)).
		Str("title", out.Title).
		Msg("extracted document")
	return out, nil
}

// articleBody tries the structural heuristics in order. It returns the text
// and the HTML of the region it came from.
func (e *HTMLExtractor) articleBody(doc *goquery.Document, rawHTML, pageURL string) (string, string, bool) {
	// Work on a clone so noise removal does not leak into other lookups.
	clean := goquery.CloneDocument(doc)
	for _, sel := range noiseSelectors {
		clean.Find(sel).Remove()
	}

	for _, region := range contentRegions {
		text, html := longestParagraphRun(clean.Find(region))
		if utf8.RuneCountInString(text) >= e.minChars {
			return text, html, true
		}
	}

	if text, html := readable(rawHTML, pageURL); utf8.RuneCountInString(text) >= e.minChars {
		return text, html, true
	}
	return "", "", false
}

// longestParagraphRun joins the <p> text of every matched container and
// returns the longest result.
func longestParagraphRun(containers *goquery.Selection) (string, string) {
	var bestText, bestHTML string
	containers.Each(func(_ int, c *goquery.Selection) {
		var paras []string
		c.Find("p").Each(func(_ int, p *goquery.Selection) {
			if t := chunk.CollapseSpace(p.Text()); t != "" {
				paras = append(paras, t)
			}
		})
		text := strings.Join(paras, "\n")
		if len(text) > len(bestText) {
			bestText = text
			bestHTML, _ = goquery.OuterHtml(c)
		}
	})
	return bestText, bestHTML
}

// readable runs go-readability over the page. Failures only mean this
// heuristic found nothing.
func readable(rawHTML, pageURL string) (string, string) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		parsed = nil
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), parsed)
	if err != nil {
		log.Debug().Err(err).Str("url", pageURL).Msg("readability found no article")
		return "", ""
	}
	return collapseLines(article.TextContent), article.Content
}

func (e *HTMLExtractor) markdown(html string) string {
	if e.normalizer == nil || html == "" {
		return ""
	}
	md, err := e.normalizer.Normalize(html)
	if err != nil {
		log.Debug().Err(err).Msg("markdown conversion failed")
		return ""
	}
	return strings.TrimSpace(md)
}

// pageTitle reads <title>, then og:title, then the first <h1>.
func pageTitle(doc *goquery.Document) string {
	if t := chunk.CollapseSpace(doc.Find("head title").First().Text()); t != "" {
		return t
	}
	if t := chunk.CollapseSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", "")); t != "" {
		return t
	}
	return chunk.CollapseSpace(doc.Find("h1").First().Text())
}

// metaDescription reads <meta name="description">, then og:description.
func metaDescription(doc *goquery.Document) string {
	var desc, og string
	doc.Find("meta").Each(func(_ int, m *goquery.Selection) {
		content := chunk.CollapseSpace(m.AttrOr("content", ""))
		if content == "" {
			return
		}
		if strings.EqualFold(m.AttrOr("name", ""), "description") && desc == "" {
			desc = content
		}
		if strings.EqualFold(m.AttrOr("property", ""), "og:description") && og == "" {
			og = content
		}
	})
	if desc != "" {
		return desc
	}
	return og
}

// collapseLines collapses whitespace inside each line and drops blank lines.
func collapseLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if t := chunk.CollapseSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}
