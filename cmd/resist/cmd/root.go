// Package cmd implements the resist command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NeboLoop/resist-go-sdk/internal/cmd/output"
	"github.com/NeboLoop/resist-go-sdk/internal/logging"
)

// app carries the configuration shared by every subcommand.
type app struct {
	v          *viper.Viper
	configFile string
	verbose    bool
	logger     zerolog.Logger
}

// Execute runs the CLI and exits non-zero on failure.
func Execute(version, commit string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := NewRootCommand()
	root.Version = fmt.Sprintf("%s (%s)", version, commit)
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "resist",
		Short: "Chat gateway client",
		Long: `resist connects a bot to the chat gateway, prints the events it
receives and sends messages through the REST API.

The bot token is read from --token, RESIST_TOKEN, a .env file or the
token key of .resist.yaml.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is $HOME/.resist.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.String("token", "", "bot token")
	flags.String("api-url", "", "REST API root")
	flags.String("ws-url", "", "gateway URL, overrides the one advertised by the API")
	flags.StringP("output", "o", "text", "output format: text, json or yaml")
	for _, name := range []string{"token", "api-url", "ws-url", "output"} {
		if err := a.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind %s flag: %v", name, err))
		}
	}

	root.AddCommand(
		newListenCommand(a),
		newSendCommand(a),
		newEventsCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".resist")
	}

	loadEnvFiles(".env", ".env.local")

	a.v.SetEnvPrefix("RESIST")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || a.configFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}

	level := logging.ParseLevel(os.Getenv("LOG_LEVEL"))
	if a.verbose {
		level = zerolog.DebugLevel
	}
	if os.Getenv("LOG_FORMAT") == "json" {
		a.logger = logging.New(cmd.ErrOrStderr(), level)
	} else {
		a.logger = logging.NewConsole(level)
	}
	logging.SetDefault(a.logger)
	return nil
}

// loadEnvFiles loads each file that exists; later files do not override
// variables set by earlier ones or by the environment.
func loadEnvFiles(names ...string) {
	for _, name := range names {
		_ = godotenv.Load(name)
	}
}

func (a *app) token() (string, error) {
	token := a.v.GetString("token")
	if token == "" {
		return "", errors.New("no bot token: set --token or RESIST_TOKEN")
	}
	return token, nil
}

func (a *app) formatter() (output.Formatter, error) {
	format, err := output.ParseFormat(a.v.GetString("output"))
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format), nil
}
