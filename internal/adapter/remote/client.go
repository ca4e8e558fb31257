package remote

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

const defaultCallTimeout = 10 * time.Second

// Client is a port.RecordStore backed by a remote Server.
type Client struct {
	cc      grpc.ClientConnInterface
	timeout time.Duration
}

// Dial connects to the record store at addr. Extra dial options are
// appended after the defaults.
func Dial(addr string, opts ...grpc.DialOption) (*Client, func() error, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("dial record store %s: %w", addr, err)
	}
	return NewClient(conn), conn.Close, nil
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc, timeout: defaultCallTimeout}
}

func (c *Client) invoke(ctx context.Context, op, method string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.cc.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(codecName))
	if err != nil {
		return fromStatus(op, err)
	}
	return nil
}

func (c *Client) ListItems(ctx context.Context) ([]domain.Item, error) {
	var out itemList
	if err := c.invoke(ctx, "list items", methodListItems, &empty{}, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) InsertItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	var out itemMessage
	if err := c.invoke(ctx, "insert item", methodInsertItem, &itemMessage{Item: item}, &out); err != nil {
		return domain.Item{}, err
	}
	return out.Item, nil
}

func (c *Client) UpdateItem(ctx context.Context, item domain.Item) error {
	return c.invoke(ctx, "update item", methodUpdateItem, &itemMessage{Item: item}, &empty{})
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.invoke(ctx, "delete item", methodDeleteItem, &deleteRequest{ID: id}, &empty{})
}

func (c *Client) ListIssuances(ctx context.Context) ([]domain.Issuance, error) {
	var out issuanceList
	if err := c.invoke(ctx, "list issuances", methodListIssuances, &empty{}, &out); err != nil {
		return nil, err
	}
	return out.Issuances, nil
}

func (c *Client) InsertIssuance(ctx context.Context, rec domain.Issuance) (domain.Issuance, error) {
	var out issuanceMessage
	if err := c.invoke(ctx, "insert issuance", methodInsertIssuance, &issuanceMessage{Issuance: rec}, &out); err != nil {
		return domain.Issuance{}, err
	}
	return out.Issuance, nil
}

func (c *Client) UpdateIssuance(ctx context.Context, rec domain.Issuance) error {
	return c.invoke(ctx, "update issuance", methodUpdateIssuance, &issuanceMessage{Issuance: rec}, &empty{})
}

func (c *Client) DeleteIssuance(ctx context.Context, id string) error {
	return c.invoke(ctx, "delete issuance", methodDeleteIssuance, &deleteRequest{ID: id}, &empty{})
}

func fromStatus(op string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return &port.TransportError{Op: op, Err: err}
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return &port.TransportError{Op: op, Err: err}
	case codes.NotFound:
		return &port.StoreError{Op: op, Message: st.Message(), Err: port.ErrNotFound}
	default:
		return &port.StoreError{Op: op, Message: st.Message(), Err: err}
	}
}

var _ port.RecordStore = (*Client)(nil)
