package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantTitle  string
	}{
		{"not found", ErrNotFound, http.StatusNotFound, "Not Found"},
		{"wrapped not found", fmt.Errorf("%w: album 7", ErrNotFound), http.StatusNotFound, "Not Found"},
		{"duplicate", ErrDuplicate, http.StatusConflict, "Duplicate"},
		{"validation", ErrValidation, http.StatusBadRequest, "Validation Failed"},
		{"forbidden", fmt.Errorf("%w: edit session: not owner", ErrForbidden), http.StatusForbidden, "Forbidden"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{"unprocessable", fmt.Errorf("%w: incorrect album password", ErrUnprocessable), http.StatusUnprocessableEntity, "Unprocessable"},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "Internal Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)

			require.Equal(t, tc.wantStatus, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ProblemDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.wantTitle, body.Title)
			require.Equal(t, tc.wantStatus, body.Status)
		})
	}
}

func TestForbiddenDetailIsGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, fmt.Errorf("%w: delete photo 5: not owner of photo 5", ErrForbidden))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotContains(t, body.Detail, "photo 5")
}
