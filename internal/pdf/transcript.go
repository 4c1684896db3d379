// Package pdf renders conversation transcripts.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator: интерфейс, чтобы мокать в тестах
type Generator interface {
	Transcript(data TranscriptData) ([]byte, error)
}

type TranscriptLine struct {
	Author string
	SentAt time.Time
	Text   string
	// file names or URLs of attachments
	Attachments []string
}

type TranscriptData struct {
	Title       string
	Participant string
	GeneratedAt time.Time
	Lines       []TranscriptLine
}

type TranscriptGenerator struct {
	FontPath string // путь до TTF, например "assets/fonts/DejaVuSans.ttf"
	fontName string
}

func NewTranscriptGenerator(fontPath string) *TranscriptGenerator {
	return &TranscriptGenerator{FontPath: fontPath, fontName: "DejaVu"}
}

func (g *TranscriptGenerator) Transcript(data TranscriptData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(data.Title, true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	font, tr := g.setupFont(pdf)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(font, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(font, "B", 16)
	pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(font, "", 10)
	sub := fmt.Sprintf("%s  |  %s", data.Participant, data.GeneratedAt.Format("02.01.2006 15:04"))
	pdf.CellFormat(0, 6, tr(sub), "", 1, "C", false, 0, "")
	hr(pdf)

	if len(data.Lines) == 0 {
		pdf.SetFont(font, "I", 11)
		pdf.CellFormat(0, 8, "No messages.", "", 1, "L", false, 0, "")
	}
	for _, l := range data.Lines {
		pdf.SetFont(font, "B", 10)
		head := fmt.Sprintf("%s  %s", l.Author, l.SentAt.Format("02.01.2006 15:04"))
		pdf.CellFormat(0, 6, tr(head), "", 1, "L", false, 0, "")
		pdf.SetFont(font, "", 11)
		if l.Text != "" {
			pdf.MultiCell(0, 6, tr(l.Text), "", "L", false)
		}
		for _, a := range l.Attachments {
			pdf.MultiCell(0, 5, tr("[attachment] "+a), "", "L", false)
		}
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render transcript: %w", err)
	}
	return buf.Bytes(), nil
}

// setupFont prefers the configured UTF-8 TTF and falls back to core Helvetica
// with a cp1252 translator.
func (g *TranscriptGenerator) setupFont(pdf *gofpdf.Fpdf) (string, func(string) string) {
	if g.FontPath != "" {
		if _, err := os.Stat(g.FontPath); err == nil {
			pdf.AddUTF8Font(g.fontName, "", g.FontPath)
			pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
			pdf.AddUTF8Font(g.fontName, "I", g.FontPath)
			return g.fontName, func(s string) string { return s }
		}
	}
	return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
}

func hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
