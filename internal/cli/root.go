package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/heroconsole/internal/apiclient"
	"github.com/me/heroconsole/internal/config"
	"github.com/me/heroconsole/internal/logging"
	"github.com/me/heroconsole/internal/session"
)

var (
	flagAPI         string
	flagCredentials string
	flagTimeout     time.Duration
	flagDebug       bool
	flagLogLevel    string
	flagLogFormat   string

	logger   *slog.Logger
	sessions *session.Manager
	client   *apiclient.Client
)

// defaultAPI returns the default API URL, checking HERO_API_URL env var first.
func defaultAPI() string {
	if s := os.Getenv(config.EnvPrefix + "_API_URL"); s != "" {
		return s
	}
	return config.DefaultConsoleConfig().APIURL
}

// NewRootCmd creates the root cobra command for the hero CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hero",
		Short: "Hero Records console client",
		Long:  "hero browses, exports and administers classified hero records through the Hero Records API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.New(logging.Options{
				Level:   flagLogLevel,
				Format:  flagLogFormat,
				Service: "hero",
				Output:  cmd.ErrOrStderr(),
			})

			path := flagCredentials
			if path == "" {
				p, err := session.DefaultCredentialsPath()
				if err != nil {
					return err
				}
				path = p
			}
			sessions = session.NewManager(session.NewFileStore(path), logger)

			errOut := cmd.ErrOrStderr()
			opts := []apiclient.Option{apiclient.WithHTTPClient(&http.Client{Timeout: flagTimeout})}
			// A 401 from login itself means bad credentials, which login reports.
			if cmd.Name() != "login" {
				opts = append(opts, apiclient.WithUnauthorizedHandler(func() {
					fmt.Fprintln(errOut, "Session expired or invalid; run `hero login` to sign in again.")
				}))
			}
			client = apiclient.New(flagAPI, sessions, logger, opts...)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagAPI, "api", defaultAPI(), "Hero Records API URL (or HERO_API_URL env)")
	root.PersistentFlags().StringVar(&flagCredentials, "credentials", "", "Credentials file (default ~/.hero/credentials.json)")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", apiclient.DefaultTimeout, "Per-request API timeout")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newRecordsCmd(),
		newUsersCmd(),
		newUploadCmd(),
		newChartsCmd(),
		newAdminCmd(),
	)

	return root
}

var (
	errNotLoggedIn = errors.New("not logged in; run `hero login` first")
	errNotAdmin    = errors.New("this command requires the Admin role")
)

// requireAccess checks the stored session against access before any API call.
func requireAccess(access session.Access) error {
	switch session.Gate(sessions.Current(), access) {
	case session.RedirectLogin:
		return errNotLoggedIn
	case session.RedirectHome:
		return errNotAdmin
	}
	return nil
}
