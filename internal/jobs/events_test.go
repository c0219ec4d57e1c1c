package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	events, unsubscribe := b.Subscribe("j1")
	other, unsubscribeOther := b.Subscribe("j2")
	defer unsubscribeOther()

	b.Publish(Event{JobID: "j1", RunID: "r1", Status: StatusProcessing})

	select {
	case ev := <-events:
		assert.Equal(t, StatusProcessing, ev.Status)
		assert.False(t, ev.Time.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	assert.Empty(t, other)

	unsubscribe()
	unsubscribe()
	_, ok := <-events
	assert.False(t, ok, "channel closed after unsubscribe")

	// no subscribers left: must not block
	b.Publish(Event{JobID: "j1", Status: StatusCompleted})
}

func TestBrokerDropsWhenSubscriberIsSlow(t *testing.T) {
	b := NewBroker()
	events, unsubscribe := b.Subscribe("j")
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+5; i++ {
		b.Publish(Event{JobID: "j", Status: StatusProcessing})
	}
	assert.Len(t, events, subscriberBuffer)
}

func dialEvents(t *testing.T, srv *httptest.Server, jobID string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/jobs/" + jobID + "/events"
	return websocket.DefaultDialer.Dial(url, nil)
}

func TestEventStreamFollowsRunToTerminalStatus(t *testing.T) {
	store := setupStore(t)
	// not started, so the run stays queued until cancelled
	runner := NewRunner(store, blockingWorker{}, nil, nil, RunnerConfig{QueueSize: 1})
	srv := httptest.NewServer(newTestRouter(runner, store))
	defer srv.Close()

	_, err := runner.Submit(context.Background(), Request{JobID: "watch", RepoURL: "r", CallbackURL: "c"})
	require.NoError(t, err)

	conn, resp, err := dialEvents(t, srv, "watch")
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, StatusQueued, ev.Status)
	assert.Equal(t, "watch", ev.JobID)

	_, err = runner.Cancel(context.Background(), "watch")
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, StatusFailed, ev.Status)
	assert.Equal(t, "job cancelled", ev.Error)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestEventStreamFinishedJob(t *testing.T) {
	store := setupStore(t)
	runner := NewRunner(store, blockingWorker{}, nil, nil, RunnerConfig{QueueSize: 1})
	srv := httptest.NewServer(newTestRouter(runner, store))
	defer srv.Close()

	job, err := store.Create(context.Background(), Request{JobID: "done", RepoURL: "r", CallbackURL: "c"})
	require.NoError(t, err)
	require.NoError(t, store.Finish(context.Background(), job.ID, StatusFailed, "", "boom"))

	conn, _, err := dialEvents(t, srv, "done")
	require.NoError(t, err)
	defer conn.Close()

	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, StatusFailed, ev.Status)
	assert.Equal(t, "boom", ev.Error)

	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestEventStreamUnknownJob(t *testing.T) {
	store := setupStore(t)
	runner := NewRunner(store, blockingWorker{}, nil, nil, RunnerConfig{})
	srv := httptest.NewServer(newTestRouter(runner, store))
	defer srv.Close()

	_, resp, err := dialEvents(t, srv, "missing")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
