package pdf

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"

	"MarketBrief/internal/domain/models"
	applogger "MarketBrief/pkg/logger"
)

// Renderer turns a report into an A4 PDF attachment. Chat markup in the
// body is stripped; bold runs become bold text, everything else is plain.
type Renderer struct {
	logger *applogger.Logger
}

func NewRenderer(l *applogger.Logger) *Renderer {
	return &Renderer{logger: l}
}

var tagRe = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

func (r *Renderer) Render(report *models.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("render: nil report")
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.SetTitle(report.Title, true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.MultiCell(0, 8, report.Title, "", "L", false)
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(110, 110, 110)
	doc.CellFormat(0, 5, report.GeneratedAt.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	doc.Ln(4)

	for _, line := range strings.Split(report.Body, "\n") {
		r.writeLine(doc, line)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}

	r.logger.Info("pdf rendered",
		applogger.String("kind", string(report.Kind)),
		applogger.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

func (r *Renderer) writeLine(doc *fpdf.Fpdf, line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		doc.Ln(3)
		return
	}

	bold := strings.HasPrefix(trimmed, "<b>") && strings.HasSuffix(trimmed, "</b>")
	text := html.UnescapeString(tagRe.ReplaceAllString(line, ""))

	// Core fonts are latin-1 only; swap unmappable runes for '?'.
	tr := doc.UnicodeTranslatorFromDescriptor("")
	text = tr(text)

	if bold {
		doc.SetFont("Helvetica", "B", 11)
	} else {
		doc.SetFont("Helvetica", "", 10)
	}
	doc.MultiCell(0, 5.5, text, "", "L", false)
}
