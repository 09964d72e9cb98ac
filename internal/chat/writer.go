package chat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// lineWriter writes one flushed line per call. Only the session loop writes,
// so it needs no lock.
type lineWriter struct {
	conn    net.Conn
	w       *bufio.Writer
	timeout time.Duration
}

func newLineWriter(conn net.Conn, timeout time.Duration) *lineWriter {
	return &lineWriter{conn: conn, w: bufio.NewWriter(conn), timeout: timeout}
}

func (lw *lineWriter) WriteLine(line string) error {
	if lw.timeout > 0 {
		_ = lw.conn.SetWriteDeadline(time.Now().Add(lw.timeout))
	}
	if _, err := lw.w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := lw.w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// startLineReader pumps lines from r into the returned channel until EOF,
// a read error, or done is closed. The channel is then closed and a read
// error, if any, is left on errc. A final line without a newline is still
// delivered.
func startLineReader(r io.Reader, maxLine int, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)

		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, min(4096, maxLine)), maxLine)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		if err := sc.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				err = fmt.Errorf("read: %w (max %d bytes)", ErrLineTooLong, maxLine)
			} else {
				err = fmt.Errorf("read: %w", err)
			}
			errc <- err
		}
	}()
	return lines, errc
}
