package main

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raulc0399/arcane-kitchen/internal/appsync/appsynctest"
	"github.com/raulc0399/arcane-kitchen/internal/journal"
	"github.com/raulc0399/arcane-kitchen/internal/logging"
	"github.com/raulc0399/arcane-kitchen/internal/runner"
)

func setup(t *testing.T) (*appsynctest.Server, []runner.Option) {
	t.Helper()
	for _, key := range []string{"APPSYNC_URL", "APPSYNC_REGION", "AWS_PROFILE", "JOURNAL_DRIVER", "JOURNAL_DSN", "AMPLIFY_OUTPUTS"} {
		t.Setenv(key, "")
	}
	srv := appsynctest.NewServer(t)
	t.Setenv("APPSYNC_URL", srv.URL)

	return srv, []runner.Option{
		runner.WithCredentials(credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", "")),
		runner.WithStore(journal.NoOpStore{}),
		runner.WithLogger(logging.NopLogger{}),
	}
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const introspection = `{"data":{"__schema":{"mutationType":{"fields":[
	{"name":"createRecipe","description":null,"args":[{"name":"input","type":{"name":null,"kind":"NON_NULL"}},{"name":"condition","type":{"name":"ModelRecipeConditionInput","kind":"INPUT_OBJECT"}}]},
	{"name":"sousChef","description":"chat","args":[{"name":"conversationId","type":{"name":null,"kind":"NON_NULL"}},{"name":"content","type":{"name":null,"kind":"LIST"}}]},
	{"name":"createConversationSousChef","description":null,"args":[]}
]}}}}`

func TestDebugMutations(t *testing.T) {
	srv, opts := setup(t)
	srv.Respond("IntrospectionQuery", introspection)

	out, err := execute(newCommand(opts...))
	require.NoError(t, err)

	assert.Contains(t, out, "• createRecipe(input, condition)")
	assert.Contains(t, out, "• sousChef(conversationId, content)")
	assert.Contains(t, out, "• createConversationSousChef()")

	section := out[strings.Index(out, "Conversation Mutations:"):]
	assert.NotContains(t, section, "createRecipe")
	assert.Contains(t, section, "• sousChef\n  - conversationId: NON_NULL\n  - content: LIST\n")
	assert.Contains(t, section, "• createConversationSousChef\n")
}

func TestDebugMutations_HTTPFailure(t *testing.T) {
	srv, opts := setup(t)
	srv.On("IntrospectionQuery", func(map[string]any) (int, string) {
		return http.StatusForbidden, `{"message":"forbidden"}`
	})

	out, err := execute(newCommand(opts...))
	require.Error(t, err)
	assert.Contains(t, out, "Introspection failed")
	assert.NotContains(t, out, "Available Mutations")
}
