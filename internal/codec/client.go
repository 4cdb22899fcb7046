package codec

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/persona-diversity/internal/embedding"
)

var _ embedding.Embedder = (*Client)(nil)

// #region client-struct

// Client calls a remote EmbeddingService over gRPC.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor

// NewClient connects to an embedding service at addr without transport security.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn wraps an existing connection. Close is then a no-op;
// the caller owns cc.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// #endregion constructor

// #region close

// Close shuts down the gRPC connection if the client created it.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region embed

// Embed sends texts to the service and returns one vector per text.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	req, err := encodeTexts(texts)
	if err != nil {
		return nil, fmt.Errorf("encode embed request: %w", err)
	}
	resp := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, embedMethod, req, resp); err != nil {
		return nil, fmt.Errorf("embed rpc: %w", err)
	}
	vectors, err := decodeVectors(resp)
	if err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embed rpc: got %d vectors for %d texts: %w", len(vectors), len(texts), embedding.ErrEmbeddingShape)
	}
	return vectors, nil
}

// #endregion embed
