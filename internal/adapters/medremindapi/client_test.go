package medremindapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medremind/internal/engine"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, DebugUser: "user-1", Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func TestSnapshot(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user-1", r.Header.Get("X-Debug-User-ID"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/medications":
			_, _ = w.Write([]byte(`[{"id":"med-1","name":"Ibuprofen","times":["08:00"],"startDate":"2024-03-01","duration":"7 days","currentSupply":3,"totalSupply":10,"refillAt":20,"supply":{"tier":"Medium"}}]`))
		case "/dose-history":
			assert.Empty(t, r.URL.RawQuery)
			_, _ = w.Write([]byte(`[{"id":"d-1","medicationId":"med-1","taken":true,"timestamp":"2024-03-02T08:01:00Z","recordedAt":"2024-03-02T08:01:00Z"}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	fixed := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	snap, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Medications, 1)
	assert.Equal(t, engine.DurationLabel("7 days"), snap.Medications[0].Duration)
	assert.Equal(t, 3, *snap.Medications[0].CurrentSupply)
	require.Len(t, snap.History, 1)
	assert.True(t, snap.History[0].Taken)
	assert.True(t, snap.FetchedAt.Equal(fixed))
}

func TestDoseHistory_DateRange(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-03-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2024-03-07", r.URL.Query().Get("endDate"))
		_, _ = w.Write([]byte(`[]`))
	})

	items, err := c.DoseHistory(context.Background(), engine.NewDate(2024, 3, 1), engine.NewDate(2024, 3, 7))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRecordDose(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req recordDoseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "med-1", req.MedicationID)
		assert.False(t, req.Taken)
		assert.Equal(t, "2024-03-02T08:00:00Z", req.Timestamp)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"d-9","medicationId":"med-1","taken":false,"timestamp":"2024-03-02T08:00:00Z"}`))
	})

	e, err := c.RecordDose(context.Background(), "med-1", false, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "d-9", e.ID)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusConflict, `{"error":"supply already full"}`, engine.ErrAlreadyFull},
		{http.StatusNotFound, `{"error":"medication not found"}`, ErrNotFound},
		{http.StatusBadRequest, `{"error":"unknown medication"}`, ErrRejected},
		{http.StatusUnauthorized, `{"error":"unauthorized"}`, ErrUnauthorized},
	}
	for _, tc := range cases {
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		})

		_, err := c.Refill(context.Background(), "med-1")
		assert.True(t, errors.Is(err, tc.want), "status %d: got %v", tc.status, err)
	}
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
