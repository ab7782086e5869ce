package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raulc0399/arcane-kitchen/internal/kitchen"
	"github.com/raulc0399/arcane-kitchen/internal/runner"
)

const script = "test-recipes"

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand(opts ...runner.Option) *cobra.Command {
	return &cobra.Command{
		Use:          script + " [recipe-id]",
		Short:        "List recipes, then fetch one by id",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipeID := kitchen.DefaultRecipeID
			if len(args) == 1 {
				recipeID = args[0]
			}

			ctx := cmd.Context()
			env, err := runner.Build(ctx, script, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Testing Arcane Kitchen GraphQL Recipe API")
			fmt.Fprintln(out, strings.Repeat("=", 50))

			fmt.Fprintln(out, "\nTesting recipe list query...")
			result, listErr := env.Kitchen.Exchange(ctx, kitchen.ListRecipesQuery, nil)
			runner.PrintExchange(out, "listRecipes", result, listErr)

			fmt.Fprintln(out, "\nTesting specific recipe query...")
			result, getErr := env.Kitchen.Exchange(ctx, kitchen.GetRecipeQuery, map[string]any{"id": recipeID})
			runner.PrintExchange(out, "getRecipe", result, getErr)

			if listErr != nil {
				return env.Finish(ctx, listErr)
			}
			return env.Finish(ctx, getErr)
		},
	}
}
