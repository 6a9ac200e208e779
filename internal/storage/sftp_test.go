package storage

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"
)

type recordingConn struct {
	closed atomic.Bool
}

func (c *recordingConn) Close() error {
	c.closed.Store(true)
	return nil
}

func TestDialDetachedReturnsConnection(t *testing.T) {
	conn := &recordingConn{}
	got, err := dialDetached(context.Background(), func() (io.Closer, error) {
		return conn, nil
	})
	if err != nil {
		t.Fatalf("dialDetached: %v", err)
	}
	if got != conn {
		t.Fatalf("dialDetached returned %v, want the dialed connection", got)
	}
	if conn.closed.Load() {
		t.Fatal("delivered connection was closed")
	}
}

func TestDialDetachedPropagatesDialError(t *testing.T) {
	dialErr := errors.New("refused")
	_, err := dialDetached(context.Background(), func() (io.Closer, error) {
		return nil, dialErr
	})
	if !errors.Is(err, dialErr) {
		t.Fatalf("dialDetached err = %v, want %v", err, dialErr)
	}
}

func TestDialDetachedClosesAbandonedConnection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conn := &recordingConn{}
	release := make(chan struct{})
	got, err := dialDetached(ctx, func() (io.Closer, error) {
		<-release
		return conn, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("dialDetached err = %v, want context.Canceled", err)
	}
	if got != nil {
		t.Fatalf("dialDetached returned %v after cancellation", got)
	}

	close(release)
	deadline := time.Now().Add(2 * time.Second)
	for !conn.closed.Load() {
		if time.Now().After(deadline) {
			t.Fatal("abandoned connection was never closed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
