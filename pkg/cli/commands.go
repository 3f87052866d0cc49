package cli

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

func newWhoamiCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the principal the server resolves for the current token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var out map[string]any
			if err := client().Do("GET", "/v1/whoami", nil, &out); err != nil {
				return err
			}
			return PrintJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <login>",
		Short: "Sign a development HS256 bearer token for a login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("a signing secret is required (--secret or JWT_SECRET)")
			}
			now := time.Now()
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": args[0],
				"iat": now.Unix(),
				"exp": now.Add(ttl).Unix(),
			})
			signed, err := token.SignedString([]byte(secret))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret (defaults to JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func newIssuesCmd(client func() *Client) *cobra.Command {
	issuesCmd := &cobra.Command{
		Use:   "issues",
		Short: "Issue operations",
	}

	issuesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List issues visible to the current principal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var out map[string]any
			if err := client().Do("GET", "/v1/issues/", nil, &out); err != nil {
				return err
			}
			return PrintJSON(cmd.OutOrStdout(), out)
		},
	})

	issuesCmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("invalid issue id %q", args[0])
			}
			var out map[string]any
			if err := client().Do("GET", "/v1/issues/"+args[0], nil, &out); err != nil {
				return err
			}
			return PrintJSON(cmd.OutOrStdout(), out)
		},
	})

	var query string
	var page, perPage int
	candidates := &cobra.Command{
		Use:   "watcher-candidates <id>",
		Short: "List principals addable as watchers of an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/v1/issues/%s/watchers/candidates?page=%d&per_page=%d&q=%s",
				args[0], page, perPage, url.QueryEscape(query))
			var out map[string]any
			if err := client().Do("GET", path, nil, &out); err != nil {
				return err
			}
			return PrintJSON(cmd.OutOrStdout(), out)
		},
	}
	candidates.Flags().StringVar(&query, "q", "", "search query over name and login")
	candidates.Flags().IntVar(&page, "page", 1, "page number")
	candidates.Flags().IntVar(&perPage, "per-page", 25, "page size")
	issuesCmd.AddCommand(candidates)

	return issuesCmd
}

func newPrincipalsCmd(client func() *Client) *cobra.Command {
	principalsCmd := &cobra.Command{
		Use:   "principals",
		Short: "Principal administration",
	}

	principalsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List principals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var out map[string]any
			if err := client().Do("GET", "/v1/principals/", nil, &out); err != nil {
				return err
			}
			return PrintJSON(cmd.OutOrStdout(), out)
		},
	})

	var (
		login string
		name  string
		kind  string
		admin bool
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a principal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := map[string]any{
				"login":    login,
				"name":     name,
				"type":     kind,
				"is_admin": admin,
			}
			var out map[string]any
			if err := client().Do("POST", "/v1/principals/", body, &out); err != nil {
				return err
			}
			return PrintJSON(cmd.OutOrStdout(), out)
		},
	}
	create.Flags().StringVar(&login, "login", "", "login (required for users)")
	create.Flags().StringVar(&name, "name", "", "display name")
	create.Flags().StringVar(&kind, "type", "user", "principal type: user or group")
	create.Flags().BoolVar(&admin, "admin", false, "grant admin")
	principalsCmd.AddCommand(create)

	return principalsCmd
}
