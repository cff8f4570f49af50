package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/abhisek/hwhelper/internal/store"
)

// DefaultConceptsTitle heads the concepts summary.
const DefaultConceptsTitle = "Weekly Concepts Summary"

const (
	conceptsIntro = "This summary includes topics and vocabulary extracted from newsletters or database entries."
	noConcepts    = "No concepts found for the selected time period."

	lineHeight = 6.0
)

// doc wraps fpdf with the handful of blocks both exports use. Core fonts
// are cp1252, so all text goes through the translator.
type doc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDoc() *doc {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	return &doc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *doc) title(s string) {
	d.pdf.SetFont("Helvetica", "B", 18)
	d.pdf.MultiCell(0, 10, d.tr(s), "", "C", false)
	d.pdf.Ln(4)
}

func (d *doc) heading(s string) {
	d.pdf.SetFont("Helvetica", "B", 14)
	d.pdf.MultiCell(0, 8, d.tr(s), "", "L", false)
}

func (d *doc) para(s string) {
	d.pdf.SetFont("Helvetica", "", 11)
	d.pdf.MultiCell(0, lineHeight, d.tr(s), "", "L", false)
}

// field writes "label: value" with a bold label.
func (d *doc) field(label, value string) {
	d.pdf.SetFont("Helvetica", "B", 11)
	w := d.pdf.GetStringWidth(d.tr(label+": ")) + 1
	d.pdf.CellFormat(w, lineHeight, d.tr(label+": "), "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 11)
	d.pdf.MultiCell(0, lineHeight, d.tr(value), "", "L", false)
}

func (d *doc) rule() {
	x, y := d.pdf.GetXY()
	pageW, _ := d.pdf.GetPageSize()
	_, _, right, _ := d.pdf.GetMargins()
	d.pdf.Line(x, y, pageW-right, y)
	d.pdf.Ln(4)
}

func (d *doc) output(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return err
	}
	return d.pdf.Output(w)
}

// WritePassagePDF renders passage p of sess as a PDF.
func WritePassagePDF(w io.Writer, sess *store.Session, p *store.Passage) error {
	d := newDoc()
	d.title(fmt.Sprintf("Homework Helper - Session %d", sess.ID))
	d.field("Topic", topicOf(sess))
	d.field("Date", sess.CreatedAt.Format(dateLayout))
	d.pdf.Ln(lineHeight)

	d.heading("Original Passage:")
	original := p.OriginalText
	if original == "" {
		original = "-"
	}
	d.para(original)
	d.pdf.Ln(lineHeight)

	if p.SimplifiedText != "" {
		d.heading("Simplified Version:")
		d.para(p.SimplifiedText)
		d.pdf.Ln(lineHeight)
	}
	if len(p.Questions) > 0 {
		d.heading("Comprehension Questions:")
		for _, q := range p.Questions {
			d.para("• " + q)
		}
		d.pdf.Ln(lineHeight)
	}
	if len(p.Words) > 0 {
		d.heading("Vocabulary Words:")
		for _, word := range p.Words {
			d.field(word.Word, word.Explanation)
		}
	}
	return d.output(w)
}

// WriteConceptsPDF renders a concepts summary titled title.
func WriteConceptsPDF(w io.Writer, concepts []store.Concept, title string) error {
	d := newDoc()
	d.title(title)
	d.para(conceptsIntro)
	d.pdf.Ln(lineHeight)

	if len(concepts) == 0 {
		d.para(noConcepts)
		return d.output(w)
	}
	for _, c := range concepts {
		d.heading("Subject: " + c.Subject)
		d.field("Topic", c.Topic)
		d.field("Type", orNA(c.Type))
		d.field("Date Range", dateRange(c))
		if c.Notes != "" {
			d.field("Notes", c.Notes)
		}
		d.pdf.Ln(4)
		d.rule()
	}
	return d.output(w)
}

// dateRange renders "start to end", with N/A for a concept still running.
func dateRange(c store.Concept) string {
	return fmt.Sprintf("%s to %s", c.DateStart, orNA(c.DateEnd))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
