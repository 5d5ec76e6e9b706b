package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ganelon/exifpipe"
	"github.com/ganelon/exifpipe/piper"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	root := newRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

// app holds state shared by all subcommands once the root command's
// pre-run has loaded configuration.
type app struct {
	cfg    *config
	logger *log.Logger
}

func (a *app) newSession() (*exifpipe.Session, error) {
	return exifpipe.NewSession(exifpipe.Parameters{
		Params: piper.Params{
			Path: a.cfg.ToolPath,
		},
		BlockSize:    a.cfg.BlockSize,
		PollInterval: a.cfg.PollInterval.Duration,
		Logger:       a.logger,
	})
}

func (a *app) closeSession(s *exifpipe.Session) {
	if err := s.Close(); err != nil {
		a.logger.Warn("closing session", "err", err)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	var cfgPath string

	root := &cobra.Command{
		Use:           "exifpipe",
		Short:         "Metadata extraction over a long-lived batch-mode child process",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	root.PersistentFlags().StringVar(
		&cfgPath, "config", "", "path to a TOML config file")
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
		a.logger = newLogger(cfg.LogLevel)
		a.logger.With("command", cmd.Name()).Debug("command invocation")
		return nil
	}
	root.AddCommand(
		newTagsCommand(a),
		newPreviewCommand(a),
		newVersionCommand(a),
		newWatchCommand(a),
	)
	return root
}

func newLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{Level: lvl})
}

func newTagsCommand(a *app) *cobra.Command {
	var tags []string
	cmd := &cobra.Command{
		Use:   "tags FILE...",
		Short: "Print metadata tags as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.newSession()
			if err != nil {
				return err
			}
			defer a.closeSession(sess)
			res, err := sess.Tags(nil, tags, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Raw)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil,
		"tag to read (repeatable); all tags when omitted")
	return cmd
}

func newPreviewCommand(a *app) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Extract the embedded preview image",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			sess, err := a.newSession()
			if err != nil {
				return err
			}
			defer a.closeSession(sess)
			data, err := sess.Preview(args[0])
			if err != nil {
				return err
			}
			if len(data) == 0 {
				return fmt.Errorf("no preview image in %s", args[0])
			}
			if err := os.WriteFile(outPath, data, 0o600); err != nil {
				return fmt.Errorf("writing preview; %w", err)
			}
			a.logger.Info("preview written",
				"file", args[0], "out", outPath, "bytes", len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Report the child tool's version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.newSession()
			if err != nil {
				return err
			}
			defer a.closeSession(sess)
			ver, err := sess.Version()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ver)
			return nil
		},
	}
}
