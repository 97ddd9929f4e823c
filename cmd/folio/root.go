package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/folio"
)

// cli holds the state shared by every command.
type cli struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg    folio.SiteConfig
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "folio",
		Short: "folio - a content site engine with discussion threads",
		Long: `folio serves posts, pages, authors and categories loaded from markdown
collections, with a comment thread under every post.

Configuration is read from ./config.yaml (or --config) and FOLIO_* environment
variables, e.g. FOLIO_CONTENTDIR or FOLIO_SESSIONSECRET.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initialize(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default is ./config.yaml)")
	pf.StringVar(&c.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&c.logFormat, "log-format", "console", "log format (console or json)")
	pf.String("content", "", "content directory")
	pf.String("db", "", "comment database path")

	root.AddCommand(
		c.serveCmd(),
		c.checkCmd(),
		c.paramsCmd(),
		c.userCmd(),
		versionCmd(),
	)
	return root
}

func (c *cli) initialize(cmd *cobra.Command) error {
	c.logger = newLogger(cmd.ErrOrStderr(), c.logFormat, c.logLevel)

	v := viper.New()
	v.SetDefault("name", "Folio")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("description", "")
	v.SetDefault("addr", ":3000")
	v.SetDefault("contentDir", "content")
	v.SetDefault("homePosts", 5)
	v.SetDefault("commentsURL", "")
	v.SetDefault("commentTimeout", "5s")
	v.SetDefault("databasePath", "data/comments.db")
	v.SetDefault("serveCommentAPI", false)
	v.SetDefault("commentLimit", 5)
	v.SetDefault("commentWindow", "1m")
	v.SetDefault("sessionSecret", "")
	v.SetDefault("cookieSecure", false)

	pf := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("contentDir", pf.Lookup("content")); err != nil {
		return err
	}
	if err := v.BindPFlag("databasePath", pf.Lookup("db")); err != nil {
		return err
	}

	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FOLIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && c.cfgFile == "":
			c.logger.Debug().Msg("no config file found, using defaults and environment")
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("config file %s not found: %w", c.cfgFile, err)
		default:
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		c.logger.Debug().Str("file", v.ConfigFileUsed()).Msg("using config file")
	}

	if err := v.Unmarshal(&c.cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return nil
}

func newLogger(w io.Writer, format, level string) zerolog.Logger {
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
