package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
)

// Part is one field of a multipart/form-data body.
// FileName is empty for plain form values.
type Part struct {
	FieldName string
	FileName  string
	Content   []byte
}

// ParseMultipart splits a multipart body into its parts, in body order.
func ParseMultipart(body []byte, boundary string) ([]Part, error) {
	if boundary == "" {
		return nil, errors.New("multipart boundary is empty")
	}

	r := multipart.NewReader(bytes.NewReader(body), boundary)
	var parts []Part
	for {
		p, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			return parts, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read multipart: %w", err)
		}

		content, err := io.ReadAll(p)
		_ = p.Close()
		if err != nil {
			return nil, fmt.Errorf("read part %q: %w", p.FormName(), err)
		}
		parts = append(parts, Part{
			FieldName: p.FormName(),
			FileName:  p.FileName(),
			Content:   content,
		})
	}
}

// Value returns the content of the first non-file part named field.
func Value(parts []Part, field string) string {
	for _, p := range parts {
		if p.FieldName == field && p.FileName == "" {
			return string(p.Content)
		}
	}
	return ""
}

// IsImageField reports whether a form field carries listing images.
func IsImageField(name string) bool {
	return name == "images" || name == "images[]"
}

// ImageParts keeps the image file parts with a non-empty filename, in order.
func ImageParts(parts []Part) []Part {
	var out []Part
	for _, p := range parts {
		if IsImageField(p.FieldName) && p.FileName != "" {
			out = append(out, p)
		}
	}
	return out
}
