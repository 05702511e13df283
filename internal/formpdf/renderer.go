package formpdf

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
)

const signatureImageName = "signature"

// Renderer fills the template with form records. It holds no mutable state and is safe for
// concurrent use.
type Renderer struct {
	layout Layout
	now    func() time.Time
}

func NewRenderer(layout Layout) *Renderer {
	return &Renderer{
		layout: layout,
		now:    time.Now,
	}
}

// Render overlays rec onto the first page of template and returns the single page document.
// Errors are always *RenderError.
func (r *Renderer) Render(template []byte, rec *domain.FormRecord) ([]byte, error) {
	template, err := trimTemplate(template)
	if err != nil {
		return nil, &RenderError{Kind: KindTemplateInvalid, Err: err}
	}

	ops := Plan(rec, r.layout)

	var signature []byte
	for _, op := range ops {
		if op.Kind != OpSignature {
			continue
		}
		sig, err := decodeSignature(rec.Signature, op.Box)
		if err != nil {
			return nil, &RenderError{Kind: KindInvalidSignature, Err: err}
		}
		signature = sig
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: r.layout.PageWidth, Ht: r.layout.PageHeight},
	})
	pdf.SetCreationDate(r.now())
	pdf.SetCatalogSort(true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	if err := r.drawTemplate(pdf, template); err != nil {
		return nil, &RenderError{Kind: KindTemplateInvalid, Err: err}
	}

	pdf.SetFont(r.layout.FontFamily, "", r.layout.FontSize)
	pdf.SetTextColor(0, 0, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, op := range ops {
		switch op.Kind {
		case OpText:
			pdf.Text(op.At.X, r.top(op.At.Y), tr(op.Text))
		case OpSignature:
			opts := fpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(signatureImageName, opts, bytes.NewReader(signature))
			if err := pdf.Error(); err != nil {
				return nil, &RenderError{Kind: KindInvalidSignature, Err: err}
			}
			pdf.ImageOptions(signatureImageName, op.Box.X, r.top(op.Box.Y+op.Box.Height), op.Box.Width, op.Box.Height, false, opts, 0, "")
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, &RenderError{Kind: KindOutput, Err: err}
	}
	return out.Bytes(), nil
}

// drawTemplate places the first page of template under everything drawn afterwards. The importer
// panics on malformed documents, so panics are turned into errors here.
func (r *Renderer) drawTemplate(pdf *fpdf.Fpdf, template []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("import first page: %v", rec)
		}
	}()

	imp := gofpdi.NewImporter()
	var rs io.ReadSeeker = bytes.NewReader(template)
	tpl := imp.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")
	imp.UseImportedTemplate(pdf, tpl, 0, 0, r.layout.PageWidth, r.layout.PageHeight)

	return pdf.Error()
}

// top converts a bottom-left based y coordinate to the top-left based one used by fpdf.
func (r *Renderer) top(y float64) float64 {
	return r.layout.PageHeight - y
}
