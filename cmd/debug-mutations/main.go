package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raulc0399/arcane-kitchen/internal/kitchen"
	"github.com/raulc0399/arcane-kitchen/internal/runner"
)

const script = "debug-mutations"

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand(opts ...runner.Option) *cobra.Command {
	return &cobra.Command{
		Use:          script,
		Short:        "List the mutations the API exposes",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := runner.Build(ctx, script, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fields, err := env.Kitchen.MutationFields(ctx)
			if err != nil {
				fmt.Fprintf(out, "Introspection failed: %v\n", err)
				return env.Finish(ctx, err)
			}

			fmt.Fprintln(out, "Available Mutations:")
			fmt.Fprintln(out, strings.Repeat("=", 50))
			for _, field := range fields {
				fmt.Fprintf(out, "• %s\n", field.Signature())
			}

			conversational := kitchen.ConversationMutations(fields)
			if len(conversational) > 0 {
				fmt.Fprintln(out, "\nConversation Mutations:")
				fmt.Fprintln(out, strings.Repeat("-", 30))
				for _, field := range conversational {
					fmt.Fprintf(out, "• %s\n", field.Name)
					for _, arg := range field.Args {
						fmt.Fprintf(out, "  - %s: %s\n", arg.Name, arg.Type)
					}
				}
			}
			return env.Finish(ctx, nil)
		},
	}
}
