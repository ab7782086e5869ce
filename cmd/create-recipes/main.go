package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raulc0399/arcane-kitchen/internal/kitchen"
	"github.com/raulc0399/arcane-kitchen/internal/runner"
)

const script = "create-recipes"

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand(opts ...runner.Option) *cobra.Command {
	return &cobra.Command{
		Use:          script,
		Short:        "Create the sample recipes through the GraphQL API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := runner.Build(ctx, script, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Creating Mystical Test Recipes")
			fmt.Fprintln(out, strings.Repeat("=", 40))

			var createdIDs []string
			var firstErr error
			for _, input := range kitchen.SampleRecipes() {
				fmt.Fprintf(out, "\nCreating: %s\n", input.Title)
				recipe, err := env.Kitchen.CreateRecipe(ctx, input)
				if err != nil {
					fmt.Fprintf(out, "Failed to create recipe: %v\n", err)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				fmt.Fprintf(out, "Created: %s\n", recipe.Title)
				createdIDs = append(createdIDs, recipe.ID)
			}

			fmt.Fprintf(out, "\nCreated %d recipes!\n", len(createdIDs))
			if len(createdIDs) > 0 {
				fmt.Fprintf(out, "Recipe IDs: %s\n", strings.Join(createdIDs, ", "))
			}
			return env.Finish(ctx, firstErr)
		},
	}
}
