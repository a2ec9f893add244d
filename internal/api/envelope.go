package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookclub/bookclub-server/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the versioned
// envelope. Errors become {success: false, error: {...}}.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope, *response.Envelope:
		return v, nil
	case *APIError:
		return response.Fail(body.Code, body.Message, body.Details), nil
	case huma.StatusError:
		return response.Fail(statusToCode(body.GetStatus()), body.Error(), nil), nil
	}

	if code, err := strconv.Atoi(status); err == nil && code >= 400 {
		return response.Fail(statusToCode(code), "request failed", v), nil
	}
	return response.Ok(v), nil
}
