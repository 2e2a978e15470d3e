package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/hanifml/storefront/internal/domain"
)

// maxUploadSize bounds multipart request bodies.
const maxUploadSize = 10 << 20

// fileFromForm decodes an optional file field into its tagged form. A file
// part wins over the remove flag; the flag only matters when no file was
// sent.
func fileFromForm(r *http.Request, field, removeField string) (domain.FileInput, error) {
	file, header, err := r.FormFile(field)
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			return domain.FileInput{}, fmt.Errorf("read uploaded file: %w", readErr)
		}
		return domain.FileInput{Kind: domain.FileNew, Filename: header.Filename, Data: data}, nil
	case errors.Is(err, http.ErrMissingFile):
		if removeField != "" && r.FormValue(removeField) == "true" {
			return domain.FileInput{Kind: domain.FileRemove}, nil
		}
		return domain.FileInput{Kind: domain.FileNone}, nil
	default:
		return domain.FileInput{}, fmt.Errorf("parse uploaded file: %w", err)
	}
}

// filesFromForm decodes every file sent under a repeated field name.
func filesFromForm(r *http.Request, field string) ([]domain.FileInput, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[field]
	inputs := make([]domain.FileInput, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open uploaded file: %w", err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("read uploaded file: %w", err)
		}
		inputs = append(inputs, domain.FileInput{
			Kind:     domain.FileNew,
			Filename: header.Filename,
			Data:     data,
		})
	}
	return inputs, nil
}

// formString returns the first value of a form field, or nil when the field
// was not sent at all. An explicitly empty value comes back as a pointer to
// the empty string.
func formString(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	vals, ok := r.MultipartForm.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

// --- Query string helpers ---

func queryString(r *http.Request, key string) *string {
	if !r.URL.Query().Has(key) {
		return nil
	}
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func queryFloat(r *http.Request, key string) (*float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &v, nil
}
