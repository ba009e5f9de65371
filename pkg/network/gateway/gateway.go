// Package gateway exposes the verification module to relayers and watchers
// over QUIC. Peers authenticate with self-signed ed25519 certificates; the
// certificate key doubles as the watcher identity when flagging fraud.
package gateway

import (
	"context"
	"crypto/ed25519"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/rs/zerolog"

	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/internal/message"
)

// alpnProtocol is the ALPN identifier negotiated on every gateway
// connection.
const alpnProtocol = "optimist/0"

// MaxIdleTimeout is how long a connection may stay idle before the gateway
// drops it.
const MaxIdleTimeout = 30 * time.Minute

// DefaultCertValidity is the lifetime of generated gateway certificates.
const DefaultCertValidity = 24 * time.Hour

// Verifier is the operation surface the gateway serves. Satisfied by
// ism.Module.
type Verifier interface {
	PreVerify(metadata message.Metadata, msg message.Message) error
	Verify(metadata message.Metadata, msg message.Message) error
	MarkFraudulent(identity crypto.WatcherKey) error
	VerifyFraudProof(metadata message.Metadata, msg message.Message) error
}

// Config contains the parameters needed to run a gateway.
type Config struct {
	// ListenAddr is the UDP address the gateway listens on.
	ListenAddr string
	// PublicKey and PrivateKey identify this gateway to its peers.
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
	// CertValidity overrides DefaultCertValidity when non-zero.
	CertValidity time.Duration
}

// Gateway accepts QUIC connections and dispatches one verification
// operation per stream.
type Gateway struct {
	config    Config
	verifier  Verifier
	validator *Validator
	log       zerolog.Logger

	listener *quic.Listener
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func New(config Config, verifier Verifier, logger zerolog.Logger) *Gateway {
	return &Gateway{
		config:    config,
		verifier:  verifier,
		validator: NewValidator(),
		log:       logger,
	}
}

// Start begins listening and accepting connections. It returns once the
// listener is up; serving continues in the background until Stop.
func (g *Gateway) Start() error {
	validity := g.config.CertValidity
	if validity == 0 {
		validity = DefaultCertValidity
	}
	cert, err := SelfSignedCertificate(g.config.PublicKey, g.config.PrivateKey, validity)
	if err != nil {
		return fmt.Errorf("failed to generate gateway certificate: %w", err)
	}

	tlsConf := &tls.Config{
		Certificates:       []tls.Certificate{*cert},
		NextProtos:         []string{alpnProtocol},
		ClientAuth:         tls.RequireAnyClientCert,
		MinVersion:         tls.VersionTLS13,
		InsecureSkipVerify: true,
		VerifyConnection: func(cs tls.ConnectionState) error {
			if len(cs.PeerCertificates) == 0 {
				return fmt.Errorf("%w: no peer certificate provided", ErrInvalidCertificate)
			}
			if err := g.validator.ValidateCertificate(cs.PeerCertificates[0]); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
			}
			return nil
		},
	}

	listener, err := quic.ListenAddr(g.config.ListenAddr, tlsConf, &quic.Config{
		MaxIdleTimeout: MaxIdleTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", g.config.ListenAddr, err)
	}

	g.listener = listener
	g.ctx, g.cancel = context.WithCancel(context.Background())
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.acceptLoop()
	}()
	g.log.Info().Str("addr", listener.Addr().String()).Msg("gateway listening")
	return nil
}

// Stop closes the listener and waits for in-flight handlers to finish.
func (g *Gateway) Stop() error {
	g.cancel()
	err := g.listener.Close()
	g.wg.Wait()
	return err
}

// Addr returns the bound listener address.
func (g *Gateway) Addr() string {
	return g.listener.Addr().String()
}

func (g *Gateway) acceptLoop() {
	for {
		conn, err := g.listener.Accept(g.ctx)
		if err != nil {
			if g.ctx.Err() != nil {
				return
			}
			g.log.Warn().Err(err).Msg("failed to accept connection")
			continue
		}
		g.wg.Add(1)
		go func() {
			defer g.wg.Done()
			g.handleConnection(conn)
		}()
	}
}

func (g *Gateway) handleConnection(conn quic.Connection) {
	peerKey, err := g.validator.ExtractPublicKey(conn.ConnectionState().TLS.PeerCertificates[0])
	if err != nil {
		g.log.Warn().Err(err).Msg("failed to extract peer key")
		_ = conn.CloseWithError(0, ErrInvalidCertificate.Error())
		return
	}
	logger := g.log.With().Str("peer", EncodeKeyToDNS(peerKey)).Logger()
	logger.Debug().Msg("peer connected")

	for {
		stream, err := conn.AcceptStream(g.ctx)
		if err != nil {
			if g.ctx.Err() == nil {
				logger.Debug().Err(err).Msg("peer disconnected")
			}
			return
		}
		g.wg.Add(1)
		go func() {
			defer g.wg.Done()
			g.handleStream(logger, stream, peerKey)
		}()
	}
}

// handleStream serves a single operation: kind byte, request frames, one
// response frame.
func (g *Gateway) handleStream(logger zerolog.Logger, stream quic.Stream, peerKey ed25519.PublicKey) {
	defer stream.Close()

	var kind [1]byte
	if _, err := io.ReadFull(stream, kind[:]); err != nil {
		logger.Warn().Err(err).Msg("failed to read stream kind")
		return
	}

	result := g.serve(kind[0], stream, peerKey)
	if err := writeFrame(g.ctx, stream, encodeResult(result)); err != nil {
		logger.Warn().Err(err).Msg("failed to write response")
		return
	}
	logger.Debug().
		Uint8("kind", kind[0]).
		Err(result).
		Msg("stream served")
}

func (g *Gateway) serve(kind byte, stream quic.Stream, peerKey ed25519.PublicKey) error {
	switch kind {
	case kindPreVerify, kindVerify, kindFraudProof:
		metadata, err := readFrame(g.ctx, stream)
		if err != nil {
			return err
		}
		msg, err := readFrame(g.ctx, stream)
		if err != nil {
			return err
		}
		switch kind {
		case kindPreVerify:
			return g.verifier.PreVerify(metadata, msg)
		case kindVerify:
			return g.verifier.Verify(metadata, msg)
		default:
			return g.verifier.VerifyFraudProof(metadata, msg)
		}
	case kindMarkFraudulent:
		// The peer's certificate key is its watcher identity; the request
		// carries no payload.
		return g.verifier.MarkFraudulent(crypto.WatcherKey(peerKey))
	default:
		return ErrUnknownStreamKind
	}
}

// certificateForTLS builds the client-side TLS configuration used by Dial.
func certificateForTLS(pub ed25519.PublicKey, priv ed25519.PrivateKey, validity time.Duration, validator *Validator) (*tls.Config, error) {
	cert, err := SelfSignedCertificate(pub, priv, validity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate certificate: %w", err)
	}
	return &tls.Config{
		Certificates:       []tls.Certificate{*cert},
		NextProtos:         []string{alpnProtocol},
		MinVersion:         tls.VersionTLS13,
		InsecureSkipVerify: true,
		VerifyPeerCertificate: func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			leaf, err := x509.ParseCertificate(rawCerts[0])
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
			}
			if err := validator.ValidateCertificate(leaf); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
			}
			return nil
		},
	}, nil
}
