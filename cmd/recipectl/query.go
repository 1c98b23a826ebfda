package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/alchemorsel-v2/recipetool/internal/identity"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/service"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/tools"
)

var (
	queryCmdEmail     string
	queryCmdFavorites bool
	queryCmdSearch    string
	queryCmdJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List a user's recipes, newest first",
	Long: "Runs the recipe query for the user with the given email.\n" +
		"Use --favorites to restrict to favorite recipes and --search to match titles, ingredients and instructions.",
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryCmdEmail, "email", "", "Email of the user whose recipes to list")
	queryCmd.Flags().BoolVar(&queryCmdFavorites, "favorites", false, "Only list favorite recipes")
	queryCmd.Flags().StringVar(&queryCmdSearch, "search", "", "Case-insensitive text to search for")
	queryCmd.Flags().BoolVar(&queryCmdJSON, "json", false, "Print the full result as JSON")
	_ = queryCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	user, err := e.userByEmail(queryCmdEmail)
	if err != nil {
		return err
	}

	tool := tools.NewRecipeTool(service.NewRecipeQueryService(e.db, nil, nil, e.logger), e.logger)
	ctx := identity.WithCaller(cmd.Context(), user.ID)
	result := tool.Run(ctx, service.QueryParams{
		FavoritesOnly: queryCmdFavorites,
		SearchQuery:   queryCmdSearch,
	})

	out := cmd.OutOrStdout()
	if queryCmdJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintln(out, result.Summary)
	for _, r := range result.Recipes {
		marker := " "
		if r.Favorite {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s  %s  %s\n", marker, r.ID, r.CreatedAt.Format("2006-01-02"), r.Title)
	}
	if result.Status != service.StatusOK {
		return fmt.Errorf("recipe query failed: %s", result.ErrorKind)
	}
	return nil
}
