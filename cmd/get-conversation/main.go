package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raulc0399/arcane-kitchen/internal/kitchen"
	"github.com/raulc0399/arcane-kitchen/internal/runner"
)

const script = "get-conversation"

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand(opts ...runner.Option) *cobra.Command {
	return &cobra.Command{
		Use:          script + " [conversation-id]",
		Short:        "List sous chef conversations, then fetch one by id",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conversationID := kitchen.DefaultConversationID
			if len(args) == 1 {
				conversationID = args[0]
			}

			ctx := cmd.Context()
			env, err := runner.Build(ctx, script, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Testing Arcane Kitchen GraphQL Conversation API")
			fmt.Fprintln(out, strings.Repeat("=", 50))

			fmt.Fprintln(out, "\nListing all conversations...")
			result, listErr := env.Kitchen.Exchange(ctx, kitchen.ListConversationsQuery, nil)
			runner.PrintExchange(out, "listConversationSousChefs", result, listErr)

			fmt.Fprintf(out, "\nGetting conversation %s...\n", conversationID)
			result, getErr := env.Kitchen.Exchange(ctx, kitchen.GetConversationQuery, map[string]any{"id": conversationID})
			runner.PrintExchange(out, "getConversationSousChef", result, getErr)

			if listErr != nil {
				return env.Finish(ctx, listErr)
			}
			return env.Finish(ctx, getErr)
		},
	}
}
