package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/rl1809/stockroom/internal/port"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		transport bool
	}{
		{"bad conn", driver.ErrBadConn, true},
		{"wrapped deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"canceled", context.Canceled, true},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true},
		{"constraint", errors.New("UNIQUE constraint failed: items.id"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify("insert item", tc.err)

			var te *port.TransportError
			var se *port.StoreError
			switch {
			case tc.transport && !errors.As(err, &te):
				t.Fatalf("expected TransportError, got %T", err)
			case !tc.transport && !errors.As(err, &se):
				t.Fatalf("expected StoreError, got %T", err)
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("expected classified error to wrap %v", tc.err)
			}
		})
	}
}

func TestClassify_StoreMessage(t *testing.T) {
	err := classify("update item", errors.New("permission denied"))

	var se *port.StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected StoreError, got %T", err)
	}
	if se.Message != "permission denied" || se.Op != "update item" {
		t.Errorf("unexpected store error %+v", se)
	}
}
