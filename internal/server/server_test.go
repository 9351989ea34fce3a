package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layoutbuilder/internal/dnd"
	"layoutbuilder/internal/domain"
	"layoutbuilder/internal/export"
	"layoutbuilder/internal/layout"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	b, err := layout.NewBoard(domain.DefaultCatalog(), 18, 3)
	require.NoError(t, err)
	return New(dnd.NewController(b), export.DefaultOptions())
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, gestureResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	var resp gestureResponse
	if rec.Code == http.StatusOK && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func slotState(doc layout.Document, i int) string { return doc.Slots[i].State }

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec, _ := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetLayout(t *testing.T) {
	s := newTestServer(t)
	rec, _ := do(t, s, http.MethodGet, "/api/layout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc layout.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, 3, doc.Columns)
	assert.Len(t, doc.Slots, 18)
	assert.Equal(t, 12, doc.PoolSize())
}

func TestPlaceWideFromPool(t *testing.T) {
	s := newTestServer(t)
	rec, resp := do(t, s, http.MethodPost, "/api/gestures/start", `{"itemId":"hero-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Started)
	assert.True(t, *resp.Started)
	require.NotNil(t, resp.Layout.Dragging)
	assert.Equal(t, "pool", resp.Layout.Dragging.Origin)

	rec, resp = do(t, s, http.MethodPost, "/api/gestures/end", `{"activeItemId":"hero-1","targetId":"slot-3"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "placed", resp.Outcome)
	assert.Equal(t, "slot-3", resp.To)
	assert.Empty(t, resp.From)
	assert.Equal(t, "primary", slotState(resp.Layout, 3))
	assert.Equal(t, "secondary", slotState(resp.Layout, 4))
	assert.Nil(t, resp.Layout.Dragging)
	assert.Equal(t, 11, resp.Layout.PoolSize())
}

func TestRejectedDropIsOK(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/gestures/start", `{"itemId":"hero-1"}`)
	rec, resp := do(t, s, http.MethodPost, "/api/gestures/end", `{"activeItemId":"hero-1","targetId":"slot-2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rejected", resp.Outcome)
	assert.Equal(t, 12, resp.Layout.PoolSize())
	for i := range resp.Layout.Slots {
		assert.Equal(t, "empty", slotState(resp.Layout, i))
	}
}

func TestUnknownItemAndIdleEnd(t *testing.T) {
	s := newTestServer(t)
	_, resp := do(t, s, http.MethodPost, "/api/gestures/start", `{"itemId":"ghost"}`)
	require.NotNil(t, resp.Started)
	assert.False(t, *resp.Started)
	_, resp = do(t, s, http.MethodPost, "/api/gestures/end", `{"activeItemId":"ghost","targetId":"slot-0"}`)
	assert.Equal(t, "idle", resp.Outcome)
}

func TestCancelRestores(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/gestures/start", `{"itemId":"chart-1"}`)
	do(t, s, http.MethodPost, "/api/gestures/end", `{"activeItemId":"chart-1","targetId":"slot-0"}`)
	_, resp := do(t, s, http.MethodPost, "/api/gestures/start", `{"itemId":"chart-1"}`)
	assert.Equal(t, "empty", slotState(resp.Layout, 1), "wide box is lifted while dragging")
	_, resp = do(t, s, http.MethodPost, "/api/gestures/cancel", "")
	assert.Equal(t, "rolled_back", resp.Outcome)
	assert.Equal(t, "secondary", slotState(resp.Layout, 1))
}

func TestRemoveBox(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/gestures/start", `{"itemId":"card-1"}`)
	do(t, s, http.MethodPost, "/api/gestures/end", `{"activeItemId":"card-1","targetId":"slot-8"}`)
	rec, resp := do(t, s, http.MethodDelete, "/api/boxes/card-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Removed)
	assert.True(t, *resp.Removed)
	assert.Equal(t, "empty", slotState(resp.Layout, 8))
	assert.Equal(t, 12, resp.Layout.PoolSize())

	_, resp = do(t, s, http.MethodDelete, "/api/boxes/card-1", "")
	assert.False(t, *resp.Removed)
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []string{`{`, `{"itemId":1}`, `{"item":"x"}`} {
		rec, _ := do(t, s, http.MethodPost, "/api/gestures/start", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "malformed request body")
	}
}

func TestExportEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec, _ := do(t, s, http.MethodGet, "/api/export/svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg ")

	rec, _ = do(t, s, http.MethodGet, "/api/export/PNG", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec, _ = do(t, s, http.MethodGet, "/api/export/gif", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventsStream(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	rd := bufio.NewReader(resp.Body)
	next := func() layout.Document {
		t.Helper()
		var doc layout.Document
		for {
			line, err := rd.ReadString('\n')
			require.NoError(t, err)
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				require.NoError(t, json.Unmarshal([]byte(data), &doc))
				return doc
			}
		}
	}
	first := next()
	assert.Equal(t, 12, first.PoolSize())

	require.Eventually(t, func() bool { return s.Broadcaster().ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	do(t, s, http.MethodPost, "/api/gestures/start", `{"itemId":"nav-1"}`)
	dragging := next()
	require.NotNil(t, dragging.Dragging)
	assert.Equal(t, "nav-1", dragging.Dragging.Box.ID)

	do(t, s, http.MethodPost, "/api/gestures/end", `{"activeItemId":"nav-1","targetId":"slot-0"}`)
	placed := next()
	assert.Equal(t, "primary", placed.Slots[0].State)
	assert.Nil(t, placed.Dragging)
}

func TestExportDuringWideDragKeepsLiftedBox(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/gestures/start", `{"itemId":"hero-1"}`)
	do(t, s, http.MethodPost, "/api/gestures/end", `{"activeItemId":"hero-1","targetId":"slot-0"}`)

	_, resp := do(t, s, http.MethodPost, "/api/gestures/start", `{"itemId":"hero-1"}`)
	require.NotNil(t, resp.Layout.Dragging)
	assert.Equal(t, "empty", slotState(resp.Layout, 0))

	rec, _ := do(t, s, http.MethodGet, "/api/export/svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-box="hero-1"`)
}

func TestConcurrentGesturesBroadcastInBoardOrder(t *testing.T) {
	s := newTestServer(t)
	sub := s.sse.register()
	defer s.sse.unregister(sub)

	var (
		last []byte
		done = make(chan struct{})
	)
	go func() {
		defer close(done)
		for data := range sub.ch {
			last = data
		}
	}()

	// four start/cancel pairs stay under the subscriber buffer, so nothing is dropped
	var wg sync.WaitGroup
	for _, id := range []string{"nav-1", "hero-1", "card-1", "footer-1"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			do(t, s, http.MethodPost, "/api/gestures/start", `{"itemId":"`+id+`"}`)
			do(t, s, http.MethodPost, "/api/gestures/cancel", "")
		}()
	}
	wg.Wait()
	s.sse.unregister(sub)
	<-done

	rec, _ := do(t, s, http.MethodGet, "/api/layout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, last)
	assert.JSONEq(t, rec.Body.String(), string(last))
}
