package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/alchemorsel-v2/recipetool/internal/service"
)

var tokenCmdEmail string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for a user",
	Long: "Prints a bearer token for the user with the given email, signed with JWT_SECRET.\n" +
		"Use it against /api/v1/recipes/query or the /mcp endpoint.",
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenCmdEmail, "email", "", "Email of the user to issue the token for")
	_ = tokenCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	user, err := e.userByEmail(tokenCmdEmail)
	if err != nil {
		return err
	}
	token, err := service.NewAuthService(e.db, e.cfg.JWTSecret).GenerateToken(user)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
