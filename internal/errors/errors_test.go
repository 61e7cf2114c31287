package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := ValidationError("title or text required")
	wrapped := Wrap(base, "submit rejected")

	assert.Equal(t, CodeValidationError, GetCode(wrapped))
	assert.Equal(t, "title or text required", UserMessage(wrapped))
	assert.Contains(t, wrapped.Error(), "submit rejected")
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("boom"), "step %d", 3)
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ValidationError("x"), http.StatusBadRequest},
		{Busy("x"), http.StatusConflict},
		{ApplicationError("x"), http.StatusUnprocessableEntity},
		{NetworkError(fmt.Errorf("dial")), http.StatusBadGateway},
		{ExternalServiceError("classifier", nil), http.StatusBadGateway},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), GetCode(tt.err))
	}
}

func TestIsMatchesThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", Busy("analysis in progress"))
	assert.True(t, Is(err, CodeBusy))
	assert.True(t, IsAppError(err))
}
