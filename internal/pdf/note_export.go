package pdf

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"hivedesk/internal/models"
)

// Renderer turns notes into PDF documents.
type Renderer interface {
	RenderNote(w io.Writer, note models.Note) error
}

// NoteRenderer renders with a UTF-8 TTF when FontPath points at one and
// falls back to the Helvetica core font otherwise.
type NoteRenderer struct {
	FontPath string
	fontName string
	utf8     bool
}

func NewNoteRenderer(fontPath string) *NoteRenderer {
	r := &NoteRenderer{FontPath: fontPath, fontName: "Helvetica"}
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err == nil {
			r.fontName = "DejaVu"
			r.utf8 = true
		}
	}
	return r
}

func (r *NoteRenderer) RenderNote(w io.Writer, note models.Note) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(note.Title, r.utf8)
	pdf.SetCreator("HiveDesk", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	r.addFont(pdf)
	tr := r.translator(pdf)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(r.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(r.fontName, "B", 18)
	pdf.MultiCell(0, 9, tr(note.Title), "", "L", false)
	pdf.Ln(1)

	r.kvLine(pdf, "Category", tr(note.Category.Name))
	if len(note.Tags) > 0 {
		r.kvLine(pdf, "Tags", tr(strings.Join(note.Tags, ", ")))
	}
	if note.IsPinned {
		r.kvLine(pdf, "Pinned", "yes")
	}
	r.kvLine(pdf, "Updated", note.UpdatedAt.Format("2006-01-02 15:04"))
	r.hr(pdf)

	pdf.SetFont(r.fontName, "", 11)
	pdf.MultiCell(0, 6, tr(note.Content), "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render note pdf: %w", err)
	}
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName builds an attachment name from the note title.
func FileName(note models.Note) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(note.Title, "_"), "_")
	if base == "" {
		base = "note"
	}
	if len(base) > 60 {
		base = base[:60]
	}
	return base + ".pdf"
}

func (r *NoteRenderer) addFont(pdf *gofpdf.Fpdf) {
	if !r.utf8 {
		return
	}
	pdf.AddUTF8Font(r.fontName, "", r.FontPath)
	pdf.AddUTF8Font(r.fontName, "B", r.FontPath)
}

// translator maps UTF-8 onto cp1252 for the core fonts.
func (r *NoteRenderer) translator(pdf *gofpdf.Fpdf) func(string) string {
	if r.utf8 {
		return func(s string) string { return s }
	}
	return pdf.UnicodeTranslatorFromDescriptor("")
}

func (r *NoteRenderer) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(r.fontName, "B", 10)
	pdf.CellFormat(25, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(r.fontName, "", 10)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (r *NoteRenderer) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 3)
}
