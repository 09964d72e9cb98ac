package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

type sessionOptions struct {
	defaultRoom  string
	maxLineBytes int
	writeTimeout time.Duration
}

// Session is the per-connection protocol loop. All fields below conn are
// owned by the goroutine running Run.
type Session struct {
	id     string
	conn   net.Conn
	names  *Names
	rooms  *Rooms
	opts   sessionOptions
	logger *slog.Logger
	out    *lineWriter

	name     string
	reserved []string
	room     string
	sub      *Subscription

	closeOnce sync.Once
}

func newSession(conn net.Conn, names *Names, rooms *Rooms, opts sessionOptions, logger *slog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:     id,
		conn:   conn,
		names:  names,
		rooms:  rooms,
		opts:   opts,
		logger: logger.With("conn_id", id, "addr", conn.RemoteAddr().String()),
		out:    newLineWriter(conn, opts.writeTimeout),
	}
}

// Run serves the connection until the client quits or disconnects, a write
// fails, or ctx is cancelled. The connection is closed on return.
func (s *Session) Run(ctx context.Context) {
	done := make(chan struct{})
	defer close(done)
	lines, readErr := startLineReader(s.conn, s.opts.maxLineBytes, done)

	s.name = s.names.AssignUnique()
	s.reserved = append(s.reserved, s.name)
	s.room = s.opts.defaultRoom
	s.sub = s.rooms.Join(s.room)
	defer s.terminate()

	ConnectedClients.Inc()
	defer ConnectedClients.Dec()

	if err := s.send(youAreLine(s.name)); err != nil {
		return
	}
	s.sub.Publish(joinedLine(s.name, s.room))
	s.logger.Info("client joined", "name", s.name, "room", s.room)

	for {
		select {
		case <-ctx.Done():
			return

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					s.logger.Warn("read failed", "name", s.name, "error", err)
					if errors.Is(err, ErrLineTooLong) {
						ProtocolErrorsTotal.Inc()
						_ = s.send(errorLine(fmt.Errorf("%w (max %d bytes)", ErrLineTooLong, s.opts.maxLineBytes)))
					}
				default:
				}
				return
			}
			quit, err := s.handleLine(line)
			if err != nil || quit {
				return
			}

		case msg := <-s.sub.C():
			if n := s.sub.Lagged(); n > 0 {
				LaggedMessagesTotal.Add(float64(n))
				s.logger.Debug("receiver lagged", "name", s.name, "room", s.room, "skipped", n)
			}
			if err := s.send(msg); err != nil {
				return
			}
		}
	}
}

// handleLine dispatches one inbound line. quit reports a /quit; err reports
// a failed write to the client.
func (s *Session) handleLine(line string) (quit bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while handling line", "name", s.name, "panic", r)
			quit = true
		}
	}()

	cmd, perr := ParseCommand(line)
	if perr != nil {
		ProtocolErrorsTotal.Inc()
		MessagesTotal.WithLabelValues("invalid").Inc()
		return false, s.send(errorLine(perr))
	}
	if cmd.Kind == CmdEmpty {
		return false, nil
	}

	start := time.Now()
	defer func() {
		MessagesTotal.WithLabelValues(cmd.Kind.String()).Inc()
		CommandDuration.WithLabelValues(cmd.Kind.String()).Observe(time.Since(start).Seconds())
	}()

	switch cmd.Kind {
	case CmdHelp:
		return false, s.send(HelpText)
	case CmdRooms:
		return false, s.send(FormatRooms(s.rooms.List()))
	case CmdJoin:
		return false, s.join(cmd.Arg)
	case CmdName:
		return false, s.rename(cmd.Arg)
	case CmdQuit:
		return true, nil
	default:
		s.sub.Publish(chatLine(s.name, cmd.Text))
		return false, nil
	}
}

func (s *Session) join(room string) error {
	if room == s.room {
		return s.send(alreadyInLine(room))
	}

	s.sub.Publish(leftLine(s.name, s.room))
	// Detach before subscribing elsewhere so the old room never keeps a
	// stale member, whatever happens next.
	s.sub.Close()
	oldRoom := s.room
	s.sub = s.rooms.Join(room)
	s.room = room

	s.sub.Publish(joinedLine(s.name, s.room))
	s.logger.Info("client switched room", "name", s.name, "from", oldRoom, "to", room)
	return nil
}

func (s *Session) rename(newName string) error {
	if !s.names.Rename(s.name, newName) {
		return s.send(takenLine(newName))
	}
	// The previous name stays reserved until disconnect.
	s.reserved = append(s.reserved, newName)
	s.sub.Publish(renamedLine(s.name, newName))
	s.logger.Info("client renamed", "name", s.name, "new_name", newName)
	s.name = newName
	return nil
}

func (s *Session) send(line string) error {
	if err := s.out.WriteLine(line); err != nil {
		if !errors.Is(err, net.ErrClosed) {
			s.logger.Warn("write failed", "name", s.name, "error", err)
		}
		return err
	}
	return nil
}

func (s *Session) terminate() {
	s.closeOnce.Do(func() {
		s.sub.Close()
		for _, name := range s.reserved {
			s.names.Release(name)
		}
		s.sub.Publish(leftLine(s.name, s.room))
		_ = s.conn.Close()
		s.logger.Info("client left", "name", s.name, "room", s.room)
	})
}
