package appsync

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "https://example.appsync-api.us-east-1.amazonaws.com/graphql"

var fixedTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func staticCreds(session string) aws.CredentialsProvider {
	return credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY", session)
}

func signedRequest(t *testing.T, provider aws.CredentialsProvider, region, service string) (*http.Request, error) {
	t.Helper()
	body := []byte(`{"query":"query ListRecipes { listRecipes { items { id } } }"}`)
	req, err := http.NewRequest(http.MethodPost, testEndpoint, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", ContentType)

	signer := NewSigner(provider, region, service)
	signer.now = func() time.Time { return fixedTime }
	return req, signer.Sign(context.Background(), req, body)
}

func TestSigner_Sign(t *testing.T) {
	req, err := signedRequest(t, staticCreds(""), "us-east-1", ServiceName)
	require.NoError(t, err)

	auth := req.Header.Get("Authorization")
	assert.True(t, strings.HasPrefix(auth, "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20240115/us-east-1/appsync/aws4_request"), auth)
	assert.Contains(t, auth, "SignedHeaders=")
	assert.Contains(t, auth, "content-type")
	assert.Contains(t, auth, "Signature=")
	assert.Equal(t, "20240115T120000Z", req.Header.Get("X-Amz-Date"))
	assert.Empty(t, req.Header.Get("X-Amz-Security-Token"))
}

func TestSigner_SessionToken(t *testing.T) {
	req, err := signedRequest(t, staticCreds("session-token"), "us-east-1", ServiceName)
	require.NoError(t, err)

	assert.Equal(t, "session-token", req.Header.Get("X-Amz-Security-Token"))
}

func TestSigner_DefaultsServiceName(t *testing.T) {
	req, err := signedRequest(t, staticCreds(""), "us-east-1", "")
	require.NoError(t, err)

	assert.Contains(t, req.Header.Get("Authorization"), "/us-east-1/appsync/aws4_request")
}

func TestSigner_AuthorizationVariesWithScope(t *testing.T) {
	base, err := signedRequest(t, staticCreds(""), "us-east-1", ServiceName)
	require.NoError(t, err)
	otherRegion, err := signedRequest(t, staticCreds(""), "eu-west-1", ServiceName)
	require.NoError(t, err)
	otherService, err := signedRequest(t, staticCreds(""), "us-east-1", "execute-api")
	require.NoError(t, err)

	baseAuth := base.Header.Get("Authorization")
	assert.NotEqual(t, baseAuth, otherRegion.Header.Get("Authorization"))
	assert.NotEqual(t, baseAuth, otherService.Header.Get("Authorization"))
	assert.Contains(t, otherRegion.Header.Get("Authorization"), "/eu-west-1/appsync/")
	assert.Contains(t, otherService.Header.Get("Authorization"), "/us-east-1/execute-api/")
}

func TestSigner_FailsClosed(t *testing.T) {
	tests := []struct {
		name     string
		provider aws.CredentialsProvider
	}{
		{name: "nil provider", provider: nil},
		{name: "anonymous credentials", provider: aws.AnonymousCredentials{}},
		{name: "empty static credentials", provider: credentials.NewStaticCredentialsProvider("", "", "")},
		{
			name: "provider error",
			provider: aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{}, errors.New("profile brain not found")
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := signedRequest(t, tt.provider, "us-east-1", ServiceName)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingCredentials))
			assert.Empty(t, req.Header.Get("Authorization"))
		})
	}
}

func TestPayloadHash(t *testing.T) {
	// SHA-256 of the empty string
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", PayloadHash(nil))
	assert.NotEqual(t, PayloadHash([]byte("a")), PayloadHash([]byte("b")))
}
