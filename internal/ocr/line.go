package ocr

import (
	"regexp"
	"sort"
	"strings"
)

// Visual merge constants. Values are pixel distances on the source image.
const (
	rowTolerance       = 5    // lines within this y distance sort as one row
	maxYGap            = 25   // larger gaps separate paragraphs
	heightSimilarRatio = 0.8  // style similarity gate for merging
	lowConfidence      = 60.0 // per-line low confidence marker
)

// BBox is an axis-aligned bounding box.
type BBox struct {
	X, Y, W, H float64
}

// Line is the pipeline's working representation of one OCR line.
type Line struct {
	Text          string
	Confidence    float64
	ConfidenceMin float64
	LowConfRatio  float64
	BBox          BBox
	TokenCount    int
	Height        float64
	HeaderScore   int
}

var (
	ocrBulletRe        = regexp.MustCompile(`^(\d+[.)]|[가-힣][.)]|\(\d+\)|\([가-힣]\))\s?`)
	continuationLeadRe = regexp.MustCompile(`^[가-힣]{1,2}\s`)
)

var ocrBulletPrefixes = []string{"·", "-", "•", "※", "○", "●", "□", "■", "▪", "▫"}

// Continuation lead-ins typical of wrapped bullet text.
var continuationPrefixes = []string{
	"의", "를", "을", "로", "으로", "및", "서,", "며",
	"고 ", "드 ", "서 ", "와 ", "과 ",
}

// BuildLines converts raw engine output into sorted, merged pipeline lines.
// Lines are sorted visually top-to-bottom (row tolerance applied), then
// wrapped continuations inside a bullet are merged back into their item.
func BuildLines(raw []RawLine) []Line {
	lines := make([]Line, 0, len(raw))

	for _, item := range raw {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}

		lowConf := 0.0
		if item.Confidence < lowConfidence {
			lowConf = 1.0
		}

		lines = append(lines, Line{
			Text:          text,
			Confidence:    item.Confidence,
			ConfidenceMin: item.Confidence,
			LowConfRatio:  lowConf,
			BBox:          bboxFromPolygon(item.Box),
			TokenCount:    len(strings.Fields(text)),
			Height:        item.Height,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		ri := int(lines[i].BBox.Y) / rowTolerance
		rj := int(lines[j].BBox.Y) / rowTolerance

		if ri != rj {
			return ri < rj
		}

		return lines[i].BBox.X < lines[j].BBox.X
	})

	return mergeWrappedLines(lines)
}

func bboxFromPolygon(box [][2]float64) BBox {
	if len(box) == 0 {
		return BBox{}
	}

	minX, minY := box[0][0], box[0][1]
	maxX, maxY := minX, minY

	for _, p := range box[1:] {
		if p[0] < minX {
			minX = p[0]
		}
		if p[0] > maxX {
			maxX = p[0]
		}
		if p[1] < minY {
			minY = p[1]
		}
		if p[1] > maxY {
			maxY = p[1]
		}
	}

	return BBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// mergeWrappedLines joins continuation lines back into the bullet item the
// engine split them from. Only bullet-internal wrapping is merged; anything
// else stays a separate line.
func mergeWrappedLines(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}

	var merged []Line

	buffer := lines[0]

	for _, current := range lines[1:] {
		if shouldMerge(buffer, current) {
			buffer = mergeInto(buffer, current)
			continue
		}

		merged = append(merged, buffer)
		buffer = current
	}

	return append(merged, buffer)
}

func shouldMerge(prev, curr Line) bool {
	if !isOCRBullet(prev.Text) {
		return false
	}

	if isOCRBullet(curr.Text) {
		return false
	}

	if curr.BBox.Y-prev.BBox.Y > maxYGap {
		return false
	}

	if prev.Height > 0 && curr.Height > 0 {
		ratio := min(prev.Height, curr.Height) / max(prev.Height, curr.Height)
		if ratio < heightSimilarRatio {
			return false
		}
	}

	return isContinuationLine(curr.Text)
}

func mergeInto(buffer, current Line) Line {
	buffer.Text = strings.TrimRight(buffer.Text, " ") + strings.TrimLeft(current.Text, " ")

	x1 := min(buffer.BBox.X, current.BBox.X)
	y1 := min(buffer.BBox.Y, current.BBox.Y)
	x2 := max(buffer.BBox.X+buffer.BBox.W, current.BBox.X+current.BBox.W)
	y2 := max(buffer.BBox.Y+buffer.BBox.H, current.BBox.Y+current.BBox.H)
	buffer.BBox = BBox{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}

	buffer.Confidence = (buffer.Confidence + current.Confidence) / 2
	buffer.ConfidenceMin = min(buffer.ConfidenceMin, current.ConfidenceMin)
	buffer.TokenCount = len(strings.Fields(buffer.Text))

	return buffer
}

func isOCRBullet(text string) bool {
	if text == "" {
		return false
	}

	for _, b := range ocrBulletPrefixes {
		if strings.HasPrefix(text, b) {
			return true
		}
	}

	return ocrBulletRe.MatchString(text)
}

func isContinuationLine(text string) bool {
	if text == "" {
		return false
	}

	for _, p := range continuationPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}

	return continuationLeadRe.MatchString(text)
}
