package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookclub/bookclub-server/internal/errors"
)

func marshalMap(t *testing.T, v any) map[string]any {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestEnvelopeTransformer_Success(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "moby-dick"})
	require.NoError(t, err)

	out := marshalMap(t, result)
	assert.Equal(t, map[string]any{
		"v":       float64(1),
		"success": true,
		"data":    map[string]any{"id": "moby-dick"},
	}, out)
}

func TestEnvelopeTransformer_Error(t *testing.T) {
	RegisterErrorHandler()

	apiErr := &APIError{status: http.StatusConflict, Code: "CONFLICT", Message: "taken"}
	result, err := EnvelopeTransformer(nil, "409", apiErr)
	require.NoError(t, err)

	out := marshalMap(t, result)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, map[string]any{"code": "CONFLICT", "message": "taken"}, out["error"])
	assert.NotContains(t, out, "data")
}

func TestEnvelopeTransformer_NoDoubleWrap(t *testing.T) {
	first, err := EnvelopeTransformer(nil, "200", "x")
	require.NoError(t, err)
	second, err := EnvelopeTransformer(nil, "200", first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRegisterErrorHandler_MapsDomainErrors(t *testing.T) {
	RegisterErrorHandler()

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domainerrors.Validation("bad"), http.StatusBadRequest, "VALIDATION"},
		{domainerrors.Conflict("dup"), http.StatusConflict, "CONFLICT"},
		{domainerrors.NotFound("gone"), http.StatusNotFound, "NOT_FOUND"},
		{domainerrors.Auth("nope"), http.StatusUnauthorized, "AUTH"},
		{domainerrors.Unauthorized("sign in"), http.StatusUnauthorized, "UNAUTHORIZED"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			se := huma.NewError(http.StatusInternalServerError, "unexpected", tt.err)
			assert.Equal(t, tt.status, se.GetStatus())
			apiErr, ok := se.(*APIError)
			require.True(t, ok)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.err.(*domainerrors.Error).Message, apiErr.Message)
		})
	}
}

func TestRegisterErrorHandler_HidesInternalMessages(t *testing.T) {
	RegisterErrorHandler()

	se := huma.NewError(http.StatusInternalServerError, "db exploded")
	apiErr, ok := se.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "INTERNAL", apiErr.Code)
	assert.Equal(t, domainerrors.MsgGeneric, apiErr.Message)
}
