package http

import (
	"context"
	"errors"
	apperrors "github.com/mufasadev/velocity-ledger/internal/errors"
	"github.com/mufasadev/velocity-ledger/internal/usecases/dtos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"from_account":"VB1","to_account":"VB2","amount":"1.50"}`))
		var dto dtos.TransferDTO
		require.NoError(t, DecodeJSON(httptest.NewRecorder(), r, &dto))
		assert.Equal(t, "VB1", dto.FromAccount)
		assert.Equal(t, "1.50", dto.Amount.String())
	})

	t.Run("malformed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"from_account":`))
		var dto dtos.TransferDTO
		err := DecodeJSON(httptest.NewRecorder(), r, &dto)
		assert.True(t, errors.Is(err, apperrors.NewBadRequestError("")))
	})

	t.Run("fails validation with json field names", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"x@example.com","password":"123"}`))
		var dto dtos.RegisterDTO
		err := DecodeJSON(httptest.NewRecorder(), r, &dto)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.NewBadRequestError("")))
		assert.Contains(t, err.Error(), "password must satisfy min=6")
		assert.Contains(t, err.Error(), "full_name must satisfy required")
	})
}

func TestDecodeJSONBodyLimit(t *testing.T) {
	padding := strings.Repeat(" ", MaxBodyBytes)
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(padding+`{"from_account":"VB1","to_account":"VB2","amount":"1.00"}`))
	var dto dtos.TransferDTO
	err := DecodeJSON(httptest.NewRecorder(), r, &dto)
	assert.True(t, errors.Is(err, apperrors.NewBadRequestError("")))
	assert.Empty(t, dto.FromAccount)
}

func TestDecodeJSONHugeExponent(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"from_account":"VB1","to_account":"VB2","amount":"1e5000000"}`))
	var dto dtos.TransferDTO
	err := DecodeJSON(httptest.NewRecorder(), r, &dto)
	assert.True(t, errors.Is(err, apperrors.NewBadRequestError("")))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"ok": "yes"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())
}

func TestUserIDContext(t *testing.T) {
	assert.Empty(t, UserIDFromContext(context.Background()))
	assert.Equal(t, "u1", UserIDFromContext(WithUserID(context.Background(), "u1")))
}
