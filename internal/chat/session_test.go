package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runPipeSession serves one session over net.Pipe. Pipe writes block until
// the client side reads, so a client that stops reading stalls its session.
func runPipeSession(t *testing.T, names *Names, rooms *Rooms) *testClient {
	t.Helper()
	serverConn, clientConn := net.Pipe()

	opts := sessionOptions{defaultRoom: "main", maxLineBytes: 1024}
	sess := newSession(serverConn, names, rooms, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = clientConn.Close()
		<-done
	})

	return &testClient{t: t, conn: clientConn, reader: bufio.NewReader(clientConn)}
}

func TestSession_LaggedReceiverKeepsConnection(t *testing.T) {
	names, rooms := NewNames("A"), NewRooms(2)
	c := runPipeSession(t, names, rooms)
	require.Equal(t, "A1", c.greeting())

	peer := rooms.Join("main")
	defer peer.Close()
	const flood = 50
	for i := 0; i < flood; i++ {
		peer.Publish(fmt.Sprintf("m%d", i))
	}

	skipped := c.expect(fmt.Sprintf("m%d", flood-1))
	assert.Less(t, len(skipped), flood-1, "a stalled receiver must skip ahead")

	c.send("still here")
	c.expect("A1: still here")
}

func TestSession_JoinMovesMembership(t *testing.T) {
	names, rooms := NewNames("A"), NewRooms(8)
	c := runPipeSession(t, names, rooms)
	c.greeting()

	c.send("/join lobby")
	c.expect("A1 joined lobby")

	assert.Equal(t, []RoomInfo{
		{Name: "lobby", Members: 1},
		{Name: "main", Members: 0},
	}, rooms.List())
}
