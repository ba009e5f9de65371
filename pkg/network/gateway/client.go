package gateway

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/quic-go/quic-go"

	"github.com/persimmonlabs/optimist/internal/message"
)

// Client is a typed connection to a gateway. A relayer submits messages for
// pre-verification and finalization; a watcher flags fraud under the
// identity of its certificate key.
type Client struct {
	conn quic.Connection
}

// Dial connects to a gateway, authenticating with a certificate generated
// from the given key pair.
func Dial(ctx context.Context, addr string, pub ed25519.PublicKey, priv ed25519.PrivateKey) (*Client, error) {
	tlsConf, err := certificateForTLS(pub, priv, DefaultCertValidity, NewValidator())
	if err != nil {
		return nil, err
	}
	conn, err := quic.DialAddr(ctx, addr, tlsConf, &quic.Config{
		MaxIdleTimeout: MaxIdleTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.CloseWithError(0, "client closed")
}

// roundTrip opens a stream, writes the kind byte and request frames,
// half-closes, and decodes the single response frame.
func (c *Client) roundTrip(ctx context.Context, kind byte, frames ...[]byte) error {
	stream, err := c.conn.OpenStreamSync(ctx)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}

	if _, err := stream.Write([]byte{kind}); err != nil {
		stream.CancelRead(0)
		return fmt.Errorf("failed to write stream kind: %w", err)
	}
	for _, frame := range frames {
		if err := writeFrame(ctx, stream, frame); err != nil {
			stream.CancelRead(0)
			return err
		}
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}

	response, err := readFrame(ctx, stream)
	if err != nil {
		return err
	}
	return decodeResult(response)
}

// PreVerify submits a metadata and message pair for delegate checking and
// window scheduling.
func (c *Client) PreVerify(ctx context.Context, metadata message.Metadata, msg message.Message) error {
	return c.roundTrip(ctx, kindPreVerify, metadata, msg)
}

// Verify attempts to finalize a metadata and message pair.
func (c *Client) Verify(ctx context.Context, metadata message.Metadata, msg message.Message) error {
	return c.roundTrip(ctx, kindVerify, metadata, msg)
}

// MarkFraudulent flags the current delegate as fraudulent under the
// client's certificate identity.
func (c *Client) MarkFraudulent(ctx context.Context) error {
	return c.roundTrip(ctx, kindMarkFraudulent)
}

// SubmitFraudProof checks a watcher signature quorum over the message
// digest without touching gateway state.
func (c *Client) SubmitFraudProof(ctx context.Context, metadata message.Metadata, msg message.Message) error {
	return c.roundTrip(ctx, kindFraudProof, metadata, msg)
}
