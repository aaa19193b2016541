package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

// #region client-struct
// Client calls a remote decision service.
type Client struct {
	conn *grpc.ClientConn // nil when built from an injected connection
	cc   grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor
// NewClient connects to the decision service at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn creates a Client over an existing connection. Close
// leaves cc open.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// #endregion constructor

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #region decide
// Decide asks the service for the next move. InvalidArgument replies come
// back wrapping policy.ErrInvalidArgument.
func (c *Client) Decide(ctx context.Context, req Request) (policy.Decision, error) {
	in, err := EncodeRequest(req)
	if err != nil {
		return policy.Decision{}, fmt.Errorf("encode request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DecideMethod, in, out); err != nil {
		if status.Code(err) == codes.InvalidArgument {
			return policy.Decision{}, fmt.Errorf("decide rpc: %w: %s", policy.ErrInvalidArgument, status.Convert(err).Message())
		}
		return policy.Decision{}, fmt.Errorf("decide rpc: %w", err)
	}
	d, err := DecodeDecision(out)
	if err != nil {
		return policy.Decision{}, fmt.Errorf("decode reply: %w", err)
	}
	return d, nil
}

// #endregion decide
