package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	ctx := SetTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")

	other := GetTraceID(SetTraceID(context.Background()))
	assert.NotEqual(t, id, other)
}

type createRequest struct {
	Name  string `json:"name"  validate:"required,max=8"`
	Start string `json:"start" validate:"required,datetime=2006-01-02 15:04"`
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		decodeErr bool
		field     string
	}{
		{name: "valid", body: `{"name":"Work","start":"2025-01-06 09:00"}`},
		{name: "malformed", body: `{"name":`, decodeErr: true},
		{name: "unknown field", body: `{"name":"Work","colour":"red"}`, decodeErr: true},
		{name: "missing name", body: `{"start":"2025-01-06 09:00"}`, field: "name"},
		{name: "long name", body: `{"name":"Much too long","start":"2025-01-06 09:00"}`, field: "name"},
		{name: "bad start", body: `{"name":"Work","start":"06/01/2025"}`, field: "start"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			w := httptest.NewRecorder()

			var req createRequest
			err := DecodeJSON(w, r, &req)
			if tc.decodeErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			err = ValidateRequest(req)
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			verr := ValidationFailure(err)
			assert.ErrorIs(t, verr, domain.ErrValidation)
			var typed *domain.ValidationError
			require.True(t, errors.As(verr, &typed))
			assert.Equal(t, tc.field, typed.Field)
		})
	}
}

func TestPathParam(t *testing.T) {
	r := chi.NewRouter()
	var got string
	var gotErr error
	r.Get("/events/{title}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = PathParam(r, "title")
	})

	tests := []struct {
		path string
		want string
	}{
		{"/events/Team%20lunch", "Team lunch"},
		{"/events/50%25%20review", "50% review"},
		{"/events/a%2541", "a%41"},
		{"/events/in%2Fout", "in/out"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, gotErr = "", nil
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.NoError(t, gotErr)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := PathParam(httptest.NewRequest(http.MethodGet, "/", nil), "title")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	buf, log := logger.SetupTestLogger(t)

	r := httptest.NewRequest(http.MethodGet, "/api/calendars", nil)
	ctx := logger.WithLogger(SetTraceID(r.Context()), log)
	r = r.WithContext(ctx)
	w := httptest.NewRecorder()

	secret := "Bearer eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJhIn0.c2ln"
	RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "An unexpected error occurred",
		errors.New("store failed with "+secret))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "An unexpected error occurred", body.Error)
	assert.Equal(t, GetTraceID(ctx), body.TraceID)

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.NotContains(t, entries[0]["error"], "eyJ")
}
