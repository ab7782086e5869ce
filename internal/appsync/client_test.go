package appsync

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const getRecipeQuery = `query GetRecipe($id: ID!) { getRecipe(id: $id) { id title } }`

// mockRecorder collects call records
type mockRecorder struct {
	mu      sync.Mutex
	records []CallRecord
	err     error
}

func (m *mockRecorder) RecordCall(ctx context.Context, rec CallRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return m.err
}

func newTestClient(t *testing.T, url string, opts ...Option) *Client {
	t.Helper()
	client, err := NewClient(Config{Endpoint: url, Region: "us-east-1"}, staticCreds(""), opts...)
	require.NoError(t, err)
	return client
}

func respondWith(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid https", cfg: Config{Endpoint: testEndpoint, Region: "us-east-1"}},
		{name: "valid http", cfg: Config{Endpoint: "http://localhost:20002/graphql", Region: "us-east-1"}},
		{name: "empty endpoint", cfg: Config{Region: "us-east-1"}, wantErr: true},
		{name: "relative endpoint", cfg: Config{Endpoint: "/graphql", Region: "us-east-1"}, wantErr: true},
		{name: "wrong scheme", cfg: Config{Endpoint: "ftp://example.com/graphql", Region: "us-east-1"}, wantErr: true},
		{name: "missing region", cfg: Config{Endpoint: testEndpoint}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg, staticCreds(""))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Endpoint, client.Endpoint())
		})
	}
}

func TestClient_RequestShape(t *testing.T) {
	tests := []struct {
		name      string
		request   Request
		wantVars  bool
		variables map[string]any
	}{
		{
			name:    "query without variables",
			request: Request{Query: `query ListRecipes { listRecipes { items { id } } }`},
		},
		{
			name:      "query with variables",
			request:   Request{Query: getRecipeQuery, Variables: map[string]any{"id": "test-recipe-id"}},
			wantVars:  true,
			variables: map[string]any{"id": "test-recipe-id"},
		},
		{
			name:      "explicit empty variables are kept",
			request:   Request{Query: `query ListRecipes { listRecipes { items { id } } }`, Variables: map[string]any{}},
			wantVars:  true,
			variables: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				gotBody    map[string]any
				gotHeaders http.Header
				gotMethod  string
			)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotHeaders = r.Header.Clone()
				_ = json.NewDecoder(r.Body).Decode(&gotBody)
				_, _ = io.WriteString(w, `{"data":{}}`)
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv.URL).Do(context.Background(), tt.request)
			require.NoError(t, err)

			assert.Equal(t, http.MethodPost, gotMethod)
			assert.Equal(t, ContentType, gotHeaders.Get("Content-Type"))
			assert.Contains(t, gotHeaders.Get("Authorization"), "/us-east-1/appsync/aws4_request")
			assert.NotEmpty(t, gotHeaders.Get("X-Amz-Date"))

			assert.Equal(t, tt.request.Query, gotBody["query"])
			vars, ok := gotBody["variables"]
			assert.Equal(t, tt.wantVars, ok)
			if tt.wantVars {
				assert.Equal(t, tt.variables, vars)
			}
			assert.Len(t, gotBody, map[bool]int{true: 2, false: 1}[tt.wantVars])
		})
	}
}

func TestRequest_Body(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		want    string
	}{
		{name: "nil variables", request: Request{Query: "query Q { a }"}, want: `{"query":"query Q { a }"}`},
		{name: "empty variables", request: Request{Query: "query Q { a }", Variables: map[string]any{}}, want: `{"query":"query Q { a }","variables":{}}`},
		{name: "variables", request: Request{Query: "query Q { a }", Variables: map[string]any{"id": "r1"}}, want: `{"query":"query Q { a }","variables":{"id":"r1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := tt.request.Body()
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(body))
		})
	}
}

func TestClient_NotFoundIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(respondWith(http.StatusOK, `{"data":{"getRecipe":null}}`))
	defer srv.Close()

	result, err := newTestClient(t, srv.URL).Do(context.Background(), Request{
		Query:     getRecipeQuery,
		Variables: map[string]any{"id": "missing"},
	})
	require.NoError(t, err)

	assert.True(t, result.IsNull("getRecipe"))
	assert.Empty(t, result.Errors)
}

func TestClient_GraphQLErrors(t *testing.T) {
	body := `{"data":{"getRecipe":null},"errors":[{"message":"Not Authorized to access getRecipe on type Query","errorType":"Unauthorized","path":["getRecipe"]}]}`
	srv := httptest.NewServer(respondWith(http.StatusOK, body))
	defer srv.Close()

	result, err := newTestClient(t, srv.URL).Do(context.Background(), Request{Query: getRecipeQuery})
	require.Error(t, err)

	var gqlErrs GraphQLErrors
	require.True(t, errors.As(err, &gqlErrs))
	require.Len(t, gqlErrs, 1)
	assert.Equal(t, "Unauthorized", gqlErrs[0].ErrorType)
	assert.Contains(t, err.Error(), "Not Authorized")
	assert.Equal(t, OutcomeGraphQLError, Classify(err))

	require.NotNil(t, result)
	assert.Len(t, result.Errors, 1)
}

func TestClient_ResponseTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		outcome string
		check   func(t *testing.T, result *Result, err error)
	}{
		{
			name:    "data",
			status:  http.StatusOK,
			body:    `{"data":{"listRecipes":{"items":[]}}}`,
			outcome: OutcomeOK,
			check: func(t *testing.T, result *Result, err error) {
				require.NoError(t, err)
				value, ok := result.Field("listRecipes")
				assert.True(t, ok)
				assert.JSONEq(t, `{"items":[]}`, string(value))
				assert.False(t, result.IsNull("listRecipes"))
			},
		},
		{
			name:    "empty body",
			status:  http.StatusOK,
			body:    "",
			outcome: OutcomeEmpty,
			check: func(t *testing.T, result *Result, err error) {
				assert.True(t, errors.Is(err, ErrEmptyResponse))
				require.NotNil(t, result)
				assert.Equal(t, http.StatusOK, result.StatusCode)
			},
		},
		{
			name:    "empty object",
			status:  http.StatusOK,
			body:    `{}`,
			outcome: OutcomeNoData,
			check: func(t *testing.T, result *Result, err error) {
				assert.True(t, errors.Is(err, ErrNoData))
				require.NotNil(t, result)
				assert.Empty(t, result.Data)
			},
		},
		{
			name:    "json null",
			status:  http.StatusOK,
			body:    `null`,
			outcome: OutcomeNoData,
			check: func(t *testing.T, result *Result, err error) {
				assert.True(t, errors.Is(err, ErrNoData))
				require.NotNil(t, result)
			},
		},
		{
			name:    "null data without errors",
			status:  http.StatusOK,
			body:    `{"data":null}`,
			outcome: OutcomeNoData,
			check: func(t *testing.T, result *Result, err error) {
				assert.True(t, errors.Is(err, ErrNoData))
				assert.False(t, result.IsNull("listRecipes"))
			},
		},
		{
			name:    "not json",
			status:  http.StatusOK,
			body:    "<html>gateway</html>",
			outcome: OutcomeDecodeError,
			check: func(t *testing.T, result *Result, err error) {
				var decodeErr *DecodeError
				require.True(t, errors.As(err, &decodeErr))
				assert.Equal(t, "<html>gateway</html>", decodeErr.Raw)
				assert.Equal(t, "<html>gateway</html>", result.Pretty())
			},
		},
		{
			name:    "non-200",
			status:  http.StatusForbidden,
			body:    `{"errors":[{"errorType":"UnauthorizedException","message":"Permission denied"}]}`,
			outcome: OutcomeHTTPError,
			check: func(t *testing.T, result *Result, err error) {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
				assert.Contains(t, statusErr.Body, "Permission denied")
				require.NotNil(t, result)
				assert.Equal(t, http.StatusForbidden, result.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(respondWith(tt.status, tt.body))
			defer srv.Close()

			recorder := &mockRecorder{}
			result, err := newTestClient(t, srv.URL, WithRecorder(recorder)).Do(context.Background(), Request{
				Query: `query ListRecipes { listRecipes { items { id } } }`,
			})

			tt.check(t, result, err)
			assert.Equal(t, tt.outcome, Classify(err))

			require.Len(t, recorder.records, 1)
			assert.Equal(t, "ListRecipes", recorder.records[0].Operation)
			assert.Equal(t, "query", recorder.records[0].OperationType)
			assert.Equal(t, tt.status, recorder.records[0].StatusCode)
			assert.Equal(t, tt.outcome, recorder.records[0].Outcome)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Do(context.Background(),
		Request{Query: `mutation SendMessage { sousChef(conversationId: "c", content: []) { id } }`},
		WithTimeout(50*time.Millisecond),
	)
	require.Error(t, err)

	var transErr *TransportError
	require.True(t, errors.As(err, &transErr))
	assert.True(t, transErr.Timeout())
	assert.Equal(t, "SendMessage", transErr.Operation)
	assert.Equal(t, OutcomeTransportError, Classify(err))
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(respondWith(http.StatusOK, `{"data":{}}`))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).Do(context.Background(), Request{Query: `query ListRecipes { listRecipes { items { id } } }`})

	var transErr *TransportError
	require.True(t, errors.As(err, &transErr))
	assert.False(t, transErr.Timeout())
}

func TestClient_NothingSentWithoutCredentials(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	client, err := NewClient(Config{Endpoint: srv.URL, Region: "us-east-1"}, nil)
	require.NoError(t, err)

	_, err = client.Do(context.Background(), Request{Query: `query ListRecipes { listRecipes { items { id } } }`})
	assert.True(t, errors.Is(err, ErrMissingCredentials))
	assert.Equal(t, OutcomeSigningError, Classify(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestClient_InvalidQueryNeverSent(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	recorder := &mockRecorder{}
	_, err := newTestClient(t, srv.URL, WithRecorder(recorder)).Do(context.Background(), Request{Query: `query { listRecipes {`})

	var queryErr *QueryError
	assert.True(t, errors.As(err, &queryErr))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	require.Len(t, recorder.records, 1)
	assert.Equal(t, OutcomeInvalidRequest, recorder.records[0].Outcome)
}

func TestClient_RecorderFailureDoesNotFailCall(t *testing.T) {
	srv := httptest.NewServer(respondWith(http.StatusOK, `{"data":{"listRecipes":{"items":[]}}}`))
	defer srv.Close()

	recorder := &mockRecorder{err: errors.New("journal offline")}
	_, err := newTestClient(t, srv.URL, WithRecorder(recorder)).Do(context.Background(), Request{
		Query: `query ListRecipes { listRecipes { items { id } } }`,
	})
	assert.NoError(t, err)
	assert.Len(t, recorder.records, 1)
}

func TestResult_Decode(t *testing.T) {
	result, err := interpret(http.StatusOK, []byte(`{"data":{"getRecipe":{"id":"r1","title":"Enchanted Herb Bread"}}}`))
	require.NoError(t, err)

	var recipe struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, result.Decode("getRecipe", &recipe))
	assert.Equal(t, "r1", recipe.ID)
	assert.Equal(t, "Enchanted Herb Bread", recipe.Title)

	var missing *MissingFieldError
	assert.True(t, errors.As(result.Decode("listRecipes", &recipe), &missing))
}

func TestResult_Pretty(t *testing.T) {
	result, err := interpret(http.StatusOK, []byte(`{"data":{"a":1}}`))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"data\": {\n    \"a\": 1\n  }\n}", result.Pretty())
}
