package websocket

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeConn struct {
	mu       sync.Mutex
	received []ActivityEvent
	closed   bool
	fail     bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.received = append(f.received, v.(ActivityEvent))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) events() []ActivityEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ActivityEvent(nil), f.received...)
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func runHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHub_DeliversOnlyToWatchersOfTheTest(t *testing.T) {
	hub := runHub(t)
	watched, other := uuid.New(), uuid.New()

	watcher := &fakeConn{}
	bystander := &fakeConn{}
	hub.Register <- &Client{TestID: watched, UserID: uuid.New(), Conn: watcher}
	hub.Register <- &Client{TestID: other, UserID: uuid.New(), Conn: bystander}

	hub.Publish(ActivityEvent{TestID: watched, UserID: uuid.New(), Activity: "Window lost focus", Timestamp: time.Now()})

	assert.Eventually(t, func() bool { return len(watcher.events()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "suspicious_activity", watcher.events()[0].Type)
	assert.Equal(t, "Window lost focus", watcher.events()[0].Activity)
	assert.Empty(t, bystander.events())
}

func TestHub_DropsFailingSubscriber(t *testing.T) {
	hub := runHub(t)
	testID := uuid.New()

	broken := &fakeConn{fail: true}
	hub.Register <- &Client{TestID: testID, Conn: broken}
	assert.Eventually(t, func() bool { return hub.Subscribers(testID) == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(ActivityEvent{TestID: testID, Activity: "Attempted to copy/paste"})

	assert.Eventually(t, func() bool { return hub.Subscribers(testID) == 0 }, time.Second, 10*time.Millisecond)
	assert.True(t, broken.isClosed())
}

func TestHub_Unregister(t *testing.T) {
	hub := runHub(t)
	testID := uuid.New()
	client := &Client{TestID: testID, Conn: &fakeConn{}}

	hub.Register <- client
	hub.Unregister <- client
	assert.Eventually(t, func() bool { return hub.Subscribers(testID) == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_JoinAndLeaveAfterStop(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	testID := uuid.New()
	watching := &Client{TestID: testID, UserID: uuid.New(), Conn: &fakeConn{}}
	assert.True(t, hub.Join(watching))

	cancel()
	<-stopped
	assert.True(t, watching.Conn.(*fakeConn).isClosed())

	late := &Client{TestID: testID, UserID: uuid.New(), Conn: &fakeConn{}}
	returned := make(chan bool, 1)
	go func() {
		joined := hub.Join(late)
		hub.Leave(late)
		hub.Leave(watching)
		returned <- joined
	}()

	select {
	case joined := <-returned:
		assert.False(t, joined)
	case <-time.After(time.Second):
		t.Fatal("Join or Leave blocked on a stopped hub")
	}
}
