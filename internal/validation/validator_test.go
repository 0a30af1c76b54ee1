package validation_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/photoalbum/photoalbum-server/internal/errors"
	"github.com/photoalbum/photoalbum-server/internal/validation"
)

type uploadForm struct {
	FileName string `form:"photo" validate:"objectkey"`
	Label1   string `form:"label1" validate:"max=100"`
	Label2   string `form:"label2" validate:"max=100"`
}

type indexRecord struct {
	Bucket string `json:"bucket" validate:"required,min=3"`
	Key    string `json:"key" validate:"objectkey"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(uploadForm{FileName: "my photo.jpg", Label1: "cat"}))
	assert.NoError(t, v.Validate(indexRecord{Bucket: "photos", Key: "a/b.png"}))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		input     any
		wantField string
		wantMsg   string
	}{
		{"missing bucket", indexRecord{Key: "a.jpg"}, "bucket", "is required"},
		{"empty key", indexRecord{Bucket: "photos"}, "key", "must be a valid object key"},
		{"oversized key", indexRecord{Bucket: "photos", Key: strings.Repeat("k", 1025)}, "key", "must be a valid object key"},
		{"short bucket", indexRecord{Bucket: "ab", Key: "a.jpg"}, "bucket", "must be at least 3 characters"},
		{"long label", uploadForm{FileName: "a.jpg", Label2: strings.Repeat("x", 101)}, "label2", "must not exceed 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
			assert.True(t, errors.Is(err, domainerrors.ErrValidation))

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_NonStruct(t *testing.T) {
	err := validation.New().Validate("not a struct")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domainerrors.ErrValidation))
}
