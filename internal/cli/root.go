package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgo/vidgram/internal/config"
	"github.com/forgo/vidgram/internal/model"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context) int {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == config.OutputJSON {
			errObj := map[string]interface{}{
				"error": err.Error(),
			}
			var apiErr *model.APIError
			if errors.As(err, &apiErr) {
				errObj["http_status"] = apiErr.Status
				errObj["code"] = apiErr.Code
			}
			var verr *model.ValidationError
			if errors.As(err, &verr) {
				errObj["fields"] = verr.Errors
			}
			_ = printJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if errors.Is(err, model.ErrUnauthenticated) {
			return 2
		}
		return 1
	}
	return 0
}

// rootOptions are the persistent flag values
type rootOptions struct {
	host     string
	profile  string
	output   string
	pageSize int
	store    string
	logLevel string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "vidgram",
		Short:         "vidgram social video client",
		Long:          "Command-line client for the vidgram social video backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadProfile(opts.profile)
			if err != nil {
				return err
			}

			// Apply precedence: flag > env > profile > default
			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.API.BaseURL = opts.host
			}
			if flags.Changed("output") {
				cfg.Output = opts.output
			}
			if flags.Changed("page-size") {
				cfg.Paging.PageSize = opts.pageSize
			}
			if flags.Changed("store") {
				cfg.Session.Store = opts.store
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = opts.logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// The error printer in Execute reads the resolved format
			_ = cmd.Root().PersistentFlags().Set("output", cfg.Output)

			a.cfg = cfg
			a.out = cmd.OutOrStdout()
			a.logger = newLogger(cmd.ErrOrStderr(), cfg.Log)
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.host, "host", "", "API host URL")
	pf.StringVarP(&opts.profile, "profile", "p", "", "Config profile to use")
	pf.StringVarP(&opts.output, "output", "o", config.OutputTable, "Output format (table, json)")
	pf.IntVar(&opts.pageSize, "page-size", config.DefaultPageSize, "Items per page")
	pf.StringVar(&opts.store, "store", config.StoreFile, "Token store (file, surreal, redis, memory)")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newVersionCmd(a))

	// Account
	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newWhoamiCmd(a))
	rootCmd.AddCommand(newRegisterCmd(a))
	rootCmd.AddCommand(newForgotPasswordCmd(a))
	rootCmd.AddCommand(newResetPasswordCmd(a))

	// Collections and relationships
	rootCmd.AddCommand(newUsersCmd(a))
	rootCmd.AddCommand(newFollowersCmd(a))
	rootCmd.AddCommand(newFollowingCmd(a))
	rootCmd.AddCommand(newFollowCmd(a))
	rootCmd.AddCommand(newRequestsCmd(a))

	// Profile and posts
	rootCmd.AddCommand(newProfileCmd(a))
	rootCmd.AddCommand(newPostsCmd(a))

	return rootCmd
}
