package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ballotbox/ballot/internal/core/domain"
	"github.com/ballotbox/ballot/internal/core/ports"
	"github.com/ballotbox/ballot/internal/core/service"
	"github.com/ballotbox/ballot/internal/infrastructure/config"
	"github.com/ballotbox/ballot/internal/infrastructure/credstore"
	"github.com/ballotbox/ballot/internal/infrastructure/httpapi"
	"github.com/ballotbox/ballot/internal/infrastructure/notify"
	"github.com/ballotbox/ballot/internal/xdg"
	"github.com/ballotbox/ballot/pkg/logger"
)

// app is the wired client, built once per invocation before the
// subcommand runs.
type app struct {
	cfg     *config.Client
	log     zerolog.Logger
	store   *credstore.FileStore
	session *service.SessionService
	roster  *service.RosterService
	ballot  *service.BallotService
}

type appKey struct{}

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the ballot CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ballot",
		Short: "Ballot - vote from the terminal",
		Long: `Ballot signs you in to the voting service, shows the candidate
roster, casts your single vote and reports the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path (default "+xdg.ConfigFile()+")")
	flags.String("api-url", "", "base URL of the voting API")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error")
	flags.String("credential-file", "", "where the session is stored (default "+xdg.CredentialFile()+")")
	flags.Duration("http-timeout", 0, "timeout for a single request attempt")
	flags.Int("retries", 0, "retries for idempotent requests that got no response")
	flags.BoolP("quiet", "q", false, "send notices to the log instead of the terminal")

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newRefreshCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newCandidatesCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newVoteCmd())
	cmd.AddCommand(newResultsCmd())
	cmd.AddCommand(newAdminCmd())

	return cmd
}

func newApp(cmd *cobra.Command) (*app, error) {
	_ = godotenv.Load()

	path := configFile
	if path == "" {
		path = xdg.ConfigFile()
	}
	cfg, err := config.LoadClient(cmd.Context(), path, cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Output:  cmd.ErrOrStderr(),
		Service: "ballot",
	})

	credPath := cfg.CredentialFile
	if credPath == "" {
		credPath = xdg.CredentialFile()
	}
	if err := xdg.EnsureDir(filepath.Dir(credPath)); err != nil {
		return nil, err
	}
	store := credstore.NewFileStore(credPath, log)

	var (
		notifier  ports.Notifier  = notify.NewConsole(cmd.OutOrStdout())
		navigator ports.Navigator = notify.NewHints(cmd.OutOrStdout())
	)
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); quiet {
		l := notify.NewLog(log)
		notifier, navigator = l, l
	}

	client := httpapi.NewClient(httpapi.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTPTimeout,
		Retries: cfg.Retries,
	}, store, notifier, navigator, log)

	session := service.NewSessionService(httpapi.NewAuthClient(client), store, notifier, navigator, log)
	client.SetInvalidator(session)
	session.Bootstrap(cmd.Context())

	roster := service.NewRosterService(httpapi.NewCandidateClient(client), log)
	ballot := service.NewBallotService(session, httpapi.NewVoteClient(client), roster, log)

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		session: session,
		roster:  roster,
		ballot:  ballot,
	}, nil
}

func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}

// requireSession fails fast for commands that need a signed-in user.
func (a *app) requireSession() error {
	if !a.session.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}

func (a *app) requireAdmin() error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if !a.session.IsAdmin() {
		return errNotAdmin
	}
	return nil
}

var (
	errNotLoggedIn = errors.New("not logged in; run `ballot login` first")
	errNotAdmin    = errors.New("this command needs an admin account")
)

// execute runs cmd and returns the process exit code. Failures the
// pipeline or the session already reported as a notice are not printed
// twice.
func execute(cmd *cobra.Command) int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !reported(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return 1
}

func reported(err error) bool {
	if _, ok := httpapi.KindOf(err); ok {
		return true
	}
	return errors.Is(err, domain.ErrIncompleteCredential)
}
