// Package storage archives rendered forms in an object store and hands out short-lived download
// links for them.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"
	"unicode"
)

const PDFContentType = "application/pdf"

var ErrInvalidKey = errors.New("invalid object key")

// ObjectStore is the subset of an object storage service used by the forms service.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Ping(ctx context.Context) error
}

// SanitizeName turns a display name into something safe to embed in an object key:
// runs of whitespace become a single underscore and anything outside [A-Za-z0-9._-] is dropped.
func SanitizeName(name string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.'):
		case r == '_':
		default:
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSpace = false
		b.WriteRune(r)
	}

	s := strings.Trim(b.String(), ".")
	if s == "" {
		return "form"
	}
	return s
}

// FileName is the object name of a form PDF, e.g. "John_Doe_<id>.pdf".
func FileName(employeeName, id string) string {
	return SanitizeName(employeeName) + "_" + id + ".pdf"
}

// ObjectKey places the form PDF under prefix.
func ObjectKey(prefix, employeeName, id string) string {
	return prefix + FileName(employeeName, id)
}

// KeyForFileName resolves a file name received from a client to a key under prefix. Names that
// would escape the prefix are rejected.
func KeyForFileName(prefix, fileName string) (string, error) {
	if fileName == "" || strings.ContainsAny(fileName, `/\`) || path.Clean(fileName) != fileName || strings.HasPrefix(fileName, ".") {
		return "", ErrInvalidKey
	}
	if !strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		return "", ErrInvalidKey
	}
	return prefix + fileName, nil
}
