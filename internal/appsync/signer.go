package appsync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// Signer attaches SigV4 authorization headers to outgoing requests
type Signer struct {
	credentials aws.CredentialsProvider
	signer      *v4.Signer
	region      string
	service     string
	now         func() time.Time
}

// NewSigner creates a signer bound to a region and service name
func NewSigner(credentials aws.CredentialsProvider, region, service string) *Signer {
	if service == "" {
		service = ServiceName
	}
	return &Signer{
		credentials: credentials,
		signer:      v4.NewSigner(),
		region:      region,
		service:     service,
		now:         time.Now,
	}
}

// Sign resolves credentials and signs req over its method, URL, headers and body.
// It fails closed: without credentials the request is left unsigned and an error
// wrapping ErrMissingCredentials is returned.
func (s *Signer) Sign(ctx context.Context, req *http.Request, body []byte) error {
	if s.credentials == nil {
		return ErrMissingCredentials
	}

	creds, err := s.credentials.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMissingCredentials, err)
	}
	if !creds.HasKeys() {
		return ErrMissingCredentials
	}

	if err := s.signer.SignHTTP(ctx, creds, req, PayloadHash(body), s.service, s.region, s.now().UTC()); err != nil {
		return fmt.Errorf("appsync: failed to sign request: %w", err)
	}
	return nil
}

// PayloadHash is the hex encoded SHA-256 of the request body
func PayloadHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
