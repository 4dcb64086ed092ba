package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/lanrat/filesort"
	"github.com/lanrat/filesort/generate"
)

// orderFlags configure the comparison shared by sort and check.
func orderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "comparison",
			Aliases: []string{"c"},
			Value:   filesort.Ordinal.String(),
			Usage:   "one of " + strings.Join(filesort.ComparisonNames(), ", "),
		},
		&cli.BoolFlag{
			Name:    "descending",
			Aliases: []string{"r"},
			Usage:   "reverse the order",
		},
		&cli.StringFlag{
			Name:  "locale",
			Usage: "BCP 47 tag used by the current-culture comparisons, e.g. en-US",
		},
		&cli.BoolFlag{
			Name:    "unique",
			Aliases: []string{"u"},
			Usage:   "output only the first of a run of equal lines",
		},
	}
}

// configFromFlags builds a filesort.Config from the order flags and, when
// present, the sort flags.
func configFromFlags(c *cli.Context, logger logrus.FieldLogger) (*filesort.Config, error) {
	config := filesort.DefaultConfig()
	config.Logger = logger

	var err error
	if config.Comparison, err = filesort.ParseComparison(c.String("comparison")); err != nil {
		return nil, err
	}
	config.Descending = c.Bool("descending")
	config.Unique = c.Bool("unique")
	if tag := c.String("locale"); tag != "" {
		if config.Locale, err = language.Parse(tag); err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", tag, err)
		}
	}
	if c.IsSet("buffer-size") {
		size, err := humanize.ParseBytes(c.String("buffer-size"))
		if err != nil {
			return nil, fmt.Errorf("invalid buffer size %q: %w", c.String("buffer-size"), err)
		}
		config.BufferSize = int64(size)
	}
	config.TempFilesDir = c.String("temp-dir")
	return config, nil
}

func sortCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:      "sort",
		Usage:     "sort INPUT into OUTPUT, or every INPUT into --output-dir",
		ArgsUsage: "INPUT OUTPUT | --output-dir DIR INPUT...",
		Flags: append(orderFlags(),
			&cli.StringFlag{
				Name:    "buffer-size",
				Aliases: []string{"S"},
				Value:   humanize.IBytes(filesort.DefaultBufferSize),
				Usage:   "memory budget per chunk, between 1MiB and 256MiB",
			},
			&cli.StringFlag{
				Name:    "temp-dir",
				Aliases: []string{"T"},
				Usage:   "directory for scratch workspaces, default is the OS temp dir",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "write each sorted INPUT to DIR under its base name",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   1,
				Usage:   "number of files sorted at the same time with --output-dir",
			},
		),
		Action: func(c *cli.Context) error {
			config, err := configFromFlags(c, logger)
			if err != nil {
				return err
			}
			sorter, err := filesort.New(config)
			if err != nil {
				return err
			}

			jobs, err := sortJobs(c)
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(c.Context)
			g.SetLimit(max(c.Int("jobs"), 1))
			for _, job := range jobs {
				g.Go(func() error {
					// stop starting new files once one has failed
					if err := ctx.Err(); err != nil {
						return nil
					}
					return runSort(sorter, job, logger)
				})
			}
			return g.Wait()
		},
	}
}

type sortJob struct {
	input, output string
}

func sortJobs(c *cli.Context) ([]sortJob, error) {
	args := c.Args().Slice()
	outputDir := c.String("output-dir")
	if outputDir == "" {
		if len(args) != 2 {
			return nil, cli.Exit("sort needs INPUT and OUTPUT, or --output-dir", 2)
		}
		return []sortJob{{input: args[0], output: args[1]}}, nil
	}
	if len(args) == 0 {
		return nil, cli.Exit("sort needs at least one INPUT", 2)
	}
	jobs := make([]sortJob, 0, len(args))
	seen := make(map[string]string, len(args))
	for _, in := range args {
		out := filepath.Join(outputDir, filepath.Base(in))
		if prior, ok := seen[out]; ok {
			return nil, cli.Exit(fmt.Sprintf("%s and %s would both be written to %s", prior, in, out), 2)
		}
		seen[out] = in
		jobs = append(jobs, sortJob{input: in, output: out})
	}
	return jobs, nil
}

func runSort(sorter *filesort.Sorter, job sortJob, logger logrus.FieldLogger) error {
	start := time.Now()
	if err := sorter.Sort(job.input, job.output); err != nil {
		return fmt.Errorf("sort %s: %w", job.input, err)
	}
	entry := logger.WithField("input", job.input).
		WithField("output", job.output).
		WithField("elapsed", time.Since(start).Round(time.Millisecond))
	if info, err := os.Stat(job.output); err == nil {
		entry = entry.WithField("size", humanize.IBytes(uint64(info.Size())))
	}
	entry.Info("sorted")
	return nil
}

func checkCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "check that every FILE is sorted",
		ArgsUsage: "FILE...",
		Flags:     orderFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("check needs at least one FILE", 2)
			}
			config, err := configFromFlags(c, logger)
			if err != nil {
				return err
			}
			sorter, err := filesort.New(config)
			if err != nil {
				return err
			}

			unsorted := 0
			for _, path := range c.Args().Slice() {
				result, err := sorter.Check(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%s: %s\n", path, result)
				if !result.Sorted {
					unsorted++
				}
			}
			if unsorted > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d files not sorted", unsorted, c.NArg()), 1)
			}
			return nil
		},
	}
}

func generateCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "write random lines of three letter words to FILE",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "size",
				Value: "1MiB",
				Usage: "minimum number of bytes to write",
			},
			&cli.IntFlag{
				Name:  "words-per-line",
				Value: generate.DefaultWordsPerLine,
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "random seed, default is the current time",
			},
		},
		Action: func(c *cli.Context) (err error) {
			if c.NArg() != 1 {
				return cli.Exit("generate needs exactly one FILE", 2)
			}
			size, err := humanize.ParseBytes(c.String("size"))
			if err != nil {
				return fmt.Errorf("invalid size %q: %w", c.String("size"), err)
			}
			seed := c.Int64("seed")
			if !c.IsSet("seed") {
				seed = time.Now().UnixNano()
			}

			path := c.Args().First()
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			n, err := generate.Lines(f, int64(size), c.Int("words-per-line"), rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			logger.WithField("path", path).
				WithField("size", humanize.IBytes(uint64(n))).
				WithField("seed", seed).
				Info("generated sample data")
			return nil
		},
	}
}
