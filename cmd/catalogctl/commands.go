package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"site-catalog/internal/authz"
	"site-catalog/internal/client"
	"site-catalog/internal/config"
)

type options struct {
	baseURL string
	token   string
}

func newRootCmd() *cobra.Command {
	cfg := config.FromEnv()
	opts := &options{}

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Manage the site catalog from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "server", cfg.CatalogURL, "catalog API base URL (CATALOG_URL)")
	root.PersistentFlags().StringVar(&opts.token, "token", cfg.CatalogToken, "bearer token (CATALOG_TOKEN)")

	root.AddCommand(
		newListCmd(opts),
		newCategoryCmd(opts),
		newSiteCmd(opts),
		newTokenCmd(cfg),
	)
	return root
}

// session builds a replica synced with the server.
func session(cmd *cobra.Command, opts *options) (*client.State, error) {
	var clientOpts []client.Option
	if opts.token != "" {
		clientOpts = append(clientOpts, client.WithToken(opts.token))
	}
	state := client.NewState(client.New(opts.baseURL, clientOpts...))
	if err := state.Sync(cmd.Context()); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return state, nil
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories and sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := session(cmd, opts)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY ID\tNAME")
			for _, c := range state.Categories() {
				fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "SITE ID\tNAME\tURL\tCATEGORY")
			for _, s := range state.Sites() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.ID, s.Name, s.URL, state.CategoryName(s.CategoryID))
			}
			return w.Flush()
		},
	}
}

func newCategoryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Short:   "Create, rename or delete categories",
		Aliases: []string{"categories", "cat"},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				state, err := session(cmd, opts)
				if err != nil {
					return err
				}
				c, err := state.CreateCategory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Category created (id %d)\n", c.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename ID NAME",
			Short: "Rename a category",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				state, err := session(cmd, opts)
				if err != nil {
					return err
				}
				if err := state.RenameCategory(cmd.Context(), id, args[1]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Category updated")
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a category that has no sites",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				state, err := session(cmd, opts)
				if err != nil {
					return err
				}
				if err := state.DeleteCategory(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Category deleted")
				return nil
			},
		},
	)
	return cmd
}

func newSiteCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "site",
		Short:   "Create, update or delete sites",
		Aliases: []string{"sites"},
	}

	var in client.SiteInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := session(cmd, opts)
			if err != nil {
				return err
			}
			s, err := state.CreateSite(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Site created (id %d)\n", s.ID)
			return nil
		},
	}
	siteFlags(create, &in)

	var upd client.SiteInput
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a site's name, url and category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			state, err := session(cmd, opts)
			if err != nil {
				return err
			}
			if err := state.UpdateSite(cmd.Context(), id, upd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Site updated")
			return nil
		},
	}
	siteFlags(update, &upd)

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			state, err := session(cmd, opts)
			if err != nil {
				return err
			}
			if err := state.DeleteSite(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Site deleted")
			return nil
		},
	}

	cmd.AddCommand(create, update, del)
	return cmd
}

func siteFlags(cmd *cobra.Command, in *client.SiteInput) {
	cmd.Flags().StringVar(&in.Name, "name", "", "site name")
	cmd.Flags().StringVar(&in.URL, "url", "", "site address")
	cmd.Flags().Int64Var(&in.CategoryID, "category", 0, "category id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("category")
}

func newTokenCmd(cfg config.Config) *cobra.Command {
	var (
		subject string
		scopes  string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			signer, err := authz.NewJWT(cfg.JWTSecret, cfg.JWTIssuer)
			if err != nil {
				return err
			}
			token, err := signer.Sign(subject, strings.Fields(strings.ReplaceAll(scopes, ",", " ")), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "catalogctl", "token subject")
	cmd.Flags().StringVar(&scopes, "scope", authz.ScopeWrite, "comma or space separated scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
