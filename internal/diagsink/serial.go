package diagsink

import (
	"fmt"
	"io"

	"github.com/pkg/term"
)

// SerialConn wraps an open serial device as an io.Writer suitable for
// Sink's serial mirror. It hides the OS differences the way the
// original serial-port wrapper did: callers supply a device name
// ("/dev/ttyUSB0", "/dev/rfcomm0", ...) and a baud rate, and get back
// something they can just write lines to.
type SerialConn struct {
	fd *term.Term
}

// validBauds lists the speeds the underlying line discipline accepts;
// an unsupported rate falls back to 9600 rather than failing open.
var validBauds = map[int]bool{
	1200: true, 2400: true, 4800: true, 9600: true,
	19200: true, 38400: true, 57600: true, 115200: true,
}

// OpenSerial opens devicename in raw mode and sets its speed. baud of
// 0 leaves the current line speed alone.
func OpenSerial(devicename string, baud int) (*SerialConn, error) {
	fd, err := term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("diagsink: open serial port %s: %w", devicename, err)
	}

	switch {
	case baud == 0:
	case validBauds[baud]:
		if err := fd.SetSpeed(baud); err != nil {
			fd.Close()
			return nil, fmt.Errorf("diagsink: set speed %d on %s: %w", baud, devicename, err)
		}
	default:
		if err := fd.SetSpeed(9600); err != nil {
			fd.Close()
			return nil, fmt.Errorf("diagsink: set fallback speed on %s: %w", devicename, err)
		}
	}

	return &SerialConn{fd: fd}, nil
}

// Write implements io.Writer.
func (c *SerialConn) Write(p []byte) (int, error) {
	return c.fd.Write(p)
}

// Close closes the underlying serial device.
func (c *SerialConn) Close() error {
	return c.fd.Close()
}

var _ io.WriteCloser = (*SerialConn)(nil)
