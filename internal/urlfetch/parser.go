package urlfetch

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Candidate scoring weights. Long prose and content keywords pull a block up;
// link-heavy and short-line-heavy blocks are menus and get pushed down.
const (
	candidateMinLength  = 50
	longParagraphLength = 50
	shortLineLength     = 30

	textLengthWeight    = 0.1
	longParagraphWeight = 100.0
	keywordWeight       = 300.0

	linkDensityLimit      = 0.3
	shortLineDensityLimit = 0.8
	shortLineKeywordGuard = 2
	shortLinePenalty      = 0.5
)

// contentKeywords are the strongest signal that a block holds the JD body.
var contentKeywords = []string{
	"자격요건", "우대사항", "담당업무", "주요업무", "지원자격", "복리후생", "전형절차",
	"Requirements", "Responsibilities", "Qualifications", "Preferred", "Description", "Benefits",
}

const (
	noiseTags     = "script, style, noscript, iframe, svg, path, header, footer, nav"
	candidateTags = "div, section, article, main, td"
)

// uiWords are widget captions that survive tag stripping inside the body.
var uiWords = map[string]struct{}{
	"닫기": {}, "Close": {}, "Share": {}, "공유하기": {}, "지원하기": {},
	"Apply": {}, "Filter": {}, "초기화": {}, "검색": {},
}

// Parsed is the title and line-joined body text extracted from one page.
type Parsed struct {
	Title string
	Body  string
}

// Parse extracts the JD body from rawHTML. Selector-based extraction breaks
// on every new job board, so the body is found by scoring block candidates
// and keeping the best one.
func Parse(rawHTML string) (Parsed, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return Parsed{}, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find(noiseTags).Remove()

	var (
		best      *goquery.Selection
		bestScore float64
	)

	doc.Find(candidateTags).Each(func(_ int, sel *goquery.Selection) {
		score, ok := scoreCandidate(sel)
		if !ok {
			return
		}

		if best == nil || score > bestScore {
			best = sel
			bestScore = score
		}
	})

	root := best
	if root == nil {
		root = doc.Find("body").First()
		if root.Length() == 0 {
			root = doc.Selection
		}
	}

	return Parsed{Title: title, Body: extractBody(root)}, nil
}

// scoreCandidate rates one block. Blocks with less than candidateMinLength
// characters of text are not candidates at all.
func scoreCandidate(sel *goquery.Selection) (float64, bool) {
	lines := blockLines(sel)

	flat := strings.Join(lines, " ")

	flatLen := len([]rune(flat))
	if flatLen < candidateMinLength {
		return 0, false
	}

	score := float64(flatLen) * textLengthWeight

	longParagraphs := 0

	for _, part := range strings.Split(flat, ".") {
		if len([]rune(strings.TrimSpace(part))) > longParagraphLength {
			longParagraphs++
		}
	}

	score += float64(longParagraphs) * longParagraphWeight

	hits := 0

	for _, kw := range contentKeywords {
		if strings.Contains(flat, kw) {
			hits++
		}
	}

	score += float64(hits) * keywordWeight

	linkLen := 0

	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		linkLen += len([]rune(strings.TrimSpace(a.Text())))
	})

	if density := float64(linkLen) / float64(flatLen); density > linkDensityLimit {
		score *= 1 - density*2
	}

	if len(lines) > 0 {
		short := 0

		for _, line := range lines {
			if len([]rune(line)) < shortLineLength {
				short++
			}
		}

		// A bullet-heavy JD also has many short lines, so the penalty only
		// applies when content keywords are absent too.
		if float64(short)/float64(len(lines)) > shortLineDensityLimit && hits < shortLineKeywordGuard {
			score *= shortLinePenalty
		}
	}

	return score, true
}

// extractBody flattens the chosen root to lines and drops leftover widget
// captions and single-character fragments.
func extractBody(root *goquery.Selection) string {
	var kept []string

	for _, line := range blockLines(root) {
		if _, ok := uiWords[line]; ok {
			continue
		}

		if len([]rune(line)) < 2 && !containsDigit(line) {
			continue
		}

		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

// blockBoundary tags force a line break when flattening element text.
var blockBoundary = map[string]struct{}{
	"p": {}, "div": {}, "br": {}, "li": {}, "ul": {}, "ol": {},
	"section": {}, "article": {}, "main": {}, "table": {}, "tr": {}, "td": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
}

// blockLines flattens sel into trimmed text lines, breaking at block-level
// tags so inline markup does not glue words together across elements.
func blockLines(sel *goquery.Selection) []string {
	var b strings.Builder

	for _, node := range sel.Nodes {
		writeNodeText(node, &b)
	}

	var lines []string

	for _, raw := range strings.Split(b.String(), "\n") {
		line := strings.Join(strings.Fields(raw), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

func writeNodeText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(c, b)
	}

	if n.Type == html.ElementNode {
		if _, ok := blockBoundary[n.Data]; ok {
			b.WriteString("\n")
		}
	}
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}

	return false
}
