package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/api/shared"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserIDFromContext(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := getUserIDFromContext(r)
	assert.False(t, ok)

	r = r.WithContext(shared.WithUserID(r.Context(), userID))
	got, ok := getUserIDFromContext(r)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func requestWithParam(name, value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetPathUUID(t *testing.T) {
	t.Parallel()
	id := uuid.New()

	tests := []struct {
		name    string
		value   string
		want    uuid.UUID
		wantErr error
	}{
		{"valid", id.String(), id, nil},
		{"missing", "", uuid.Nil, domain.ErrRequired},
		{"invalid", "not-a-uuid", uuid.Nil, domain.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := getPathUUID(requestWithParam("id", tt.value), "id")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleUserIDAndPathUUID(t *testing.T) {
	t.Parallel()
	userID, taskID := uuid.New(), uuid.New()

	t.Run("no user", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		_, _, ok := handleUserIDAndPathUUID(w, requestWithParam("id", taskID.String()), "id", nil)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		t.Parallel()
		r := requestWithParam("id", "xyz")
		r = r.WithContext(shared.WithUserID(r.Context(), userID))
		w := httptest.NewRecorder()
		_, _, ok := handleUserIDAndPathUUID(w, r, "id", nil)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		r := requestWithParam("id", taskID.String())
		r = r.WithContext(shared.WithUserID(r.Context(), userID))
		gotUser, gotTask, ok := handleUserIDAndPathUUID(httptest.NewRecorder(), r, "id", nil)
		require.True(t, ok)
		assert.Equal(t, userID, gotUser)
		assert.Equal(t, taskID, gotTask)
	})
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query   string
		want    store.Page
		wantErr bool
	}{
		{"", store.Page{Number: 1, Size: store.DefaultPageSize}, false},
		{"page=3&page_size=25", store.Page{Number: 3, Size: 25}, false},
		{"page_size=1000", store.Page{Number: 1, Size: store.MaxPageSize}, false},
		{"page=0", store.Page{}, true},
		{"page=abc", store.Page{}, true},
		{"page_size=-1", store.Page{}, true},
		{"page=922337203685477580&page_size=100", store.Page{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			page, err := parsePage(httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, page)
		})
	}
}

func TestParseTaskFilter(t *testing.T) {
	t.Parallel()
	labelID := uuid.New()

	t.Run("all fields", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet,
			"/?status=complete&priority=high&sort=deadline&label_id="+labelID.String(), nil)
		filter, err := parseTaskFilter(r)
		require.NoError(t, err)
		require.NotNil(t, filter.Status)
		assert.Equal(t, domain.TaskStatusComplete, *filter.Status)
		require.NotNil(t, filter.Priority)
		assert.Equal(t, domain.TaskPriorityHigh, *filter.Priority)
		require.NotNil(t, filter.LabelID)
		assert.Equal(t, labelID, *filter.LabelID)
		assert.Equal(t, store.SortDeadline, filter.Sort)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		filter, err := parseTaskFilter(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Nil(t, filter.Status)
		assert.Nil(t, filter.Priority)
		assert.Nil(t, filter.LabelID)
		assert.Equal(t, store.SortNewest, filter.Sort)
	})

	for _, query := range []string{"status=done", "priority=urgent", "label_id=abc", "sort=title"} {
		t.Run(query, func(t *testing.T) {
			t.Parallel()
			_, err := parseTaskFilter(httptest.NewRequest(http.MethodGet, "/?"+query, nil))
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
