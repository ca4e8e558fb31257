package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/stockroom/internal/port"
)

// classify sorts a backend error into a transport failure (the call did not
// complete) or a store failure (the backend answered with an error).
func classify(op string, err error) error {
	if isTransport(err) {
		return &port.TransportError{Op: op, Err: err}
	}
	return &port.StoreError{Op: op, Message: err.Error(), Err: err}
}

func isTransport(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, redis.ErrClosed) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
