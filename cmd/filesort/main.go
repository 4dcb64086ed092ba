// Command filesort sorts large line-oriented text files with bounded memory.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := logrus.New()
	err := newApp(logger, os.Stdout).Run(os.Args)
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, exitErr.Error())
		os.Exit(exitErr.ExitCode())
	}
	if err != nil {
		logger.WithError(err).Fatal("filesort failed")
	}
}

func newApp(logger *logrus.Logger, stdout io.Writer) *cli.App {
	return &cli.App{
		Name:      "filesort",
		Usage:     "sort text files larger than memory",
		Writer:    stdout,
		ErrWriter: logger.Out,
		// exit codes are handled by main so tests can run the app
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "one of panic, fatal, error, warn, info, debug, trace",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "text or json",
			},
		},
		Before: func(c *cli.Context) error {
			return configureLogger(logger, c.String("log-level"), c.String("log-format"))
		},
		Commands: []*cli.Command{
			sortCommand(logger),
			checkCommand(logger),
			generateCommand(logger),
		},
	}
}

func configureLogger(logger *logrus.Logger, level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	switch format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}
