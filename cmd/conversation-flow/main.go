package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/raulc0399/arcane-kitchen/internal/flow"
	"github.com/raulc0399/arcane-kitchen/internal/logging"
	"github.com/raulc0399/arcane-kitchen/internal/runner"
)

const script = "conversation-flow"

func main() {
	if err := newCommand(flow.DefaultPause).Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand(pause time.Duration, opts ...runner.Option) *cobra.Command {
	return &cobra.Command{
		Use:          script,
		Short:        "Create a conversation, chat with the sous chef and print the history",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := runner.Build(ctx, script, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Testing Complete Conversation Flow")
			fmt.Fprintln(out, strings.Repeat("=", 50))
			env.Banner(ctx, out)

			f := flow.New(env.Kitchen, out, flow.WithPause(pause), flow.WithLogger(env.Logger))
			report, err := f.Run(ctx)
			if err == nil {
				env.Logger.Info("Conversation flow finished",
					logging.F("conversationId", report.ConversationID),
					logging.F("sent", report.Sent),
					logging.F("history", len(report.History)))
			}
			return env.Finish(ctx, err)
		},
	}
}
