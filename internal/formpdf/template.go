package formpdf

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
)

var xrefStreamStart = regexp.MustCompile(`^\d+\s+\d+\s+obj`)

// Readers look for the header and the trailer within this many bytes of either end.
const markerWindow = 1024

// trimTemplate checks the document structure the importer relies on and returns the document
// starting at its header. The importer loops forever on documents without a usable
// cross-reference section, so those never reach it.
func trimTemplate(template []byte) ([]byte, error) {
	head := template[:min(len(template), markerWindow)]
	start := bytes.Index(head, []byte("%PDF-"))
	if start < 0 {
		return nil, errors.New("not a PDF document")
	}
	// offsets in the document are relative to the header
	template = template[start:]

	tail := template[max(0, len(template)-markerWindow):]
	if !bytes.Contains(tail, []byte("%%EOF")) {
		return nil, errors.New("missing end of file marker")
	}

	i := bytes.LastIndex(tail, []byte("startxref"))
	if i < 0 {
		return nil, errors.New("missing startxref")
	}
	fields := bytes.Fields(tail[i+len("startxref"):])
	if len(fields) == 0 {
		return nil, errors.New("missing cross-reference offset")
	}
	offset, err := strconv.Atoi(string(fields[0]))
	if err != nil || offset <= 0 || offset >= len(template) {
		return nil, errors.New("invalid cross-reference offset")
	}

	xref := bytes.TrimLeft(template[offset:], " \t\r\n")
	if !bytes.HasPrefix(xref, []byte("xref")) && !xrefStreamStart.Match(xref) {
		return nil, errors.New("cross-reference offset does not point at a cross-reference section")
	}

	return template, nil
}

// CheckTemplate renders an empty form onto template and fails when that does not finish within
// timeout. Run it once at startup: a stalled import cannot be interrupted and keeps its goroutine.
func (r *Renderer) CheckTemplate(template []byte, timeout time.Duration) error {
	if _, err := trimTemplate(template); err != nil {
		return &RenderError{Kind: KindTemplateInvalid, Err: err}
	}

	done := make(chan error, 1)
	go func() {
		_, err := r.Render(template, &domain.FormRecord{})
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return &RenderError{Kind: KindTemplateInvalid, Err: errors.New("template import timed out")}
	}
}
