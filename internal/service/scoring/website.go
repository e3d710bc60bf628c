package scoring

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	fetchTimeout     = 10 * time.Second
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxBodyBytes     = 2 << 20

	maxTitleChars      = 200
	maxMetaChars       = 300
	maxSectionChars    = 500
	maxKeySectionChars = 1000
	maxTextSampleChars = 1500
	minContentChars    = 100
)

var sectionKeywords = []string{"about", "service", "what we do", "expertise", "consulting"}

// WebsiteSummary is the bounded result of fetching and condensing a lead's
// website. A nil *WebsiteSummary means no website was provided; a non-empty
// FetchError marks an attempted fetch that failed.
type WebsiteSummary struct {
	Title           string
	MetaDescription string
	KeySections     string
	FullTextSample  string
	HasContent      bool
	URLAnalyzed     string
	FetchError      string
}

// Failed reports whether the summary records a fetch failure.
func (s *WebsiteSummary) Failed() bool {
	return s != nil && s.FetchError != ""
}

// Summarizer fetches websites and condenses them into WebsiteSummary values.
type Summarizer struct {
	client *http.Client
}

// NewSummarizer builds a summarizer. A nil client gets a default one with the
// standard fetch timeout.
func NewSummarizer(client *http.Client) *Summarizer {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Summarizer{client: client}
}

// Summarize fetches the given website and extracts title, meta description,
// key sections and a text sample. It never returns an error: fetch and parse
// failures are folded into the returned summary, and missing input yields nil.
func (s *Summarizer) Summarize(ctx context.Context, rawURL string) *WebsiteSummary {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || strings.EqualFold(rawURL, "nan") {
		return nil
	}

	target := normalizeURL(rawURL)

	doc, err := s.fetch(ctx, target)
	if err != nil {
		return &WebsiteSummary{
			FetchError:  fmt.Sprintf("Could not fetch website: %v", err),
			URLAnalyzed: target,
		}
	}

	stripBoilerplate(doc)
	text := collapseWhitespace(collectText(doc))

	return &WebsiteSummary{
		Title:           truncateRunes(strings.TrimSpace(pageTitle(doc)), maxTitleChars),
		MetaDescription: truncateRunes(metaDescription(doc), maxMetaChars),
		KeySections:     truncateRunes(strings.Join(keySections(doc), " "), maxKeySectionChars),
		FullTextSample:  truncateRunes(text, maxTextSampleChars),
		HasContent:      utf8.RuneCountInString(text) > minContentChars,
		URLAnalyzed:     target,
	}
}

func normalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

func (s *Summarizer) fetch(ctx context.Context, target string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

var boilerplateTags = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"footer": true,
	"header": true,
}

// stripBoilerplate removes script/style/nav/footer/header subtrees in place.
func stripBoilerplate(n *html.Node) {
	var next *html.Node
	for child := n.FirstChild; child != nil; child = next {
		next = child.NextSibling
		if child.Type == html.ElementNode && boilerplateTags[child.Data] {
			n.RemoveChild(child)
			continue
		}
		stripBoilerplate(child)
	}
}

func collectText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteByte(' ')
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func pageTitle(doc *html.Node) string {
	title := findElement(doc, "title")
	if title == nil {
		return ""
	}
	return collapseWhitespace(collectText(title))
}

func metaDescription(doc *html.Node) string {
	var desc string
	eachElement(doc, "meta", func(n *html.Node) {
		if desc != "" {
			return
		}
		if strings.EqualFold(attr(n, "name"), "description") {
			desc = attr(n, "content")
		}
	})
	return desc
}

var sectionBodyTags = map[string]bool{"p": true, "ul": true, "div": true}

// keySections collects the text following h1/h2/h3 headings whose text
// mentions one of the section keywords. Up to three p/ul/div siblings feed
// each section, capped per heading.
var headingTags = map[string]bool{"h1": true, "h2": true, "h3": true}

func keySections(doc *html.Node) []string {
	var sections []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && headingTags[n.Data] {
			if section := sectionAfterHeading(n); section != "" {
				sections = append(sections, section)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return sections
}

func sectionAfterHeading(heading *html.Node) string {
	text := strings.ToLower(strings.TrimSpace(collapseWhitespace(collectText(heading))))
	if !containsAny(text, sectionKeywords) {
		return ""
	}

	var section strings.Builder
	matched := 0
	for sib := heading.NextSibling; sib != nil && matched < 3; sib = sib.NextSibling {
		if sib.Type != html.ElementNode || !sectionBodyTags[sib.Data] {
			continue
		}
		matched++
		section.WriteByte(' ')
		section.WriteString(strings.TrimSpace(collapseWhitespace(collectText(sib))))
	}

	if strings.TrimSpace(section.String()) == "" {
		return ""
	}
	return truncateRunes(section.String(), maxSectionChars)
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func eachElement(n *html.Node, tag string, fn func(*html.Node)) {
	if n.Type == html.ElementNode && n.Data == tag {
		fn(n)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		eachElement(child, tag, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
