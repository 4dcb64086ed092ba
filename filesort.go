// Package filesort sorts line-oriented text files that may not fit in memory.
//
// Inputs smaller than the configured buffer size are sorted in memory.
// Larger inputs are split into chunks of about that many bytes, each chunk is
// sorted and saved to a private scratch directory, and the chunks are then
// merged into the output. The scratch directory is removed before Sort
// returns, whether it succeeded or not.
//
// The sort is stable: lines that compare equal keep their input order.
package filesort

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/lanrat/filesort/tempfile"
)

// Sorter sorts files according to one Config.
// A Sorter may be used by several goroutines at once; each call to Sort
// gets its own comparison state and workspace.
type Sorter struct {
	config Config
	log    logrus.FieldLogger
}

// New validates config and returns a Sorter for it.
// config can be nil to use the defaults, or only set the non-default values desired.
func New(config *Config) (*Sorter, error) {
	c := mergeConfig(config)
	if err := c.validate(); err != nil {
		return nil, err
	}
	if _, err := NewCompareFunc(c.Comparison, c.Descending, c.Locale); err != nil {
		return nil, err
	}
	return &Sorter{config: *c, log: c.Logger}, nil
}

// SortFile sorts the lines of inputPath into outputPath.
// It is the same as calling Sort on New(config).
func SortFile(inputPath, outputPath string, config *Config) error {
	s, err := New(config)
	if err != nil {
		return err
	}
	return s.Sort(inputPath, outputPath)
}

// Sort sorts the lines of inputPath into outputPath, creating the output
// directory if needed and replacing any existing output file. The input is
// never modified, so inputPath and outputPath may name the same file.
//
// Errors match ErrInvalidArgument, ErrNotFound or ErrIO with errors.Is.
func (s *Sorter) Sort(inputPath, outputPath string) error {
	if inputPath == "" {
		return NewConfigError("inputPath", inputPath, "must not be empty")
	}
	if outputPath == "" {
		return NewConfigError("outputPath", outputPath, "must not be empty")
	}
	compare, err := NewCompareFunc(s.config.Comparison, s.config.Descending, s.config.Locale)
	if err != nil {
		return err
	}

	info, err := os.Stat(inputPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("input file %s: %w", inputPath, ErrNotFound)
	} else if err != nil {
		return NewDiskError(err, "stat input", inputPath)
	}
	if info.IsDir() {
		return fmt.Errorf("input file %s is a directory: %w", inputPath, ErrNotFound)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return NewDiskError(err, "create output dir", outputDir)
	}

	log := s.log.WithField("input", inputPath).
		WithField("output", outputPath).
		WithField("size", info.Size()).
		WithField("comparison", s.config.Comparison.String()).
		WithField("descending", s.config.Descending)

	if info.Size() < s.config.BufferSize {
		return s.sortDirect(inputPath, outputPath, compare, log)
	}
	return s.sortExternal(inputPath, outputPath, compare, log)
}

// sortDirect sorts an input that fits in the buffer entirely in memory.
func (s *Sorter) sortDirect(inputPath, outputPath string, compare CompareFunc, log logrus.FieldLogger) error {
	lines, err := readAllLines(inputPath)
	if err != nil {
		return err
	}
	slices.SortStableFunc(lines, compare)

	n, err := s.writeLines(outputPath, lines, compare)
	if err != nil {
		return err
	}
	log.WithField("action", "sort_direct").
		WithField("lines", n).
		Debug("sorted input in memory")
	return nil
}

// sortExternal sorts an input larger than the buffer through a workspace of
// sorted chunks. The workspace is removed on every path.
func (s *Sorter) sortExternal(inputPath, outputPath string, compare CompareFunc, log logrus.FieldLogger) (err error) {
	root := tempfile.GetTempDir(s.config.TempFilesDir)
	if s.config.TempFilesDir != "" && root != s.config.TempFilesDir {
		log.WithField("action", "temp_dir_fallback").
			WithField("temp_dir", s.config.TempFilesDir).
			WithField("fallback", root).
			Warn("temp dir is not a usable directory, using fallback")
	}
	ws, err := tempfile.NewWorkspace(root)
	if err != nil {
		return NewDiskError(err, "create workspace", root)
	}
	log = log.WithField("workspace", ws.Dir())
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			log.WithField("action", "remove_workspace").
				WithError(cerr).
				Error("failed removing workspace")
			err = combineErrors(err, NewDiskError(cerr, "remove workspace", ws.Dir()))
		}
	}()

	chunks, err := s.splitFile(inputPath, ws, compare)
	if err != nil {
		return err
	}
	lines, err := s.mergeChunks(ws, outputPath, compare)
	if err != nil {
		return err
	}

	log.WithField("action", "sort_external").
		WithField("chunks", chunks).
		WithField("lines", lines).
		Debug("sorted input through chunks")
	return nil
}

// splitFile opens inputPath and splits it into sorted chunks.
func (s *Sorter) splitFile(inputPath string, ws *tempfile.Workspace, compare CompareFunc) (n int, err error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return 0, NewDiskError(err, "open input", inputPath)
	}
	defer func() {
		err = combineErrors(err, NewDiskError(f.Close(), "close input", inputPath))
	}()

	n, err = s.splitChunks(f, ws, compare)
	var de *DiskError
	if errors.As(err, &de) && de.Path == "" {
		de.Path = inputPath
	}
	return n, err
}

// writeLines writes sorted lines to outputPath.
func (s *Sorter) writeLines(outputPath string, lines []string, compare CompareFunc) (n int64, err error) {
	out, err := createOutput(outputPath, s.config.Unique, compare)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = combineErrors(err, out.Close())
	}()

	for _, line := range lines {
		if err := out.WriteLine(line); err != nil {
			return out.Lines(), err
		}
	}
	return out.Lines(), out.Commit()
}

// readAllLines loads every line of path into memory.
func readAllLines(path string) (lines []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewDiskError(err, "open input", path)
	}
	defer func() {
		err = combineErrors(err, NewDiskError(f.Close(), "close input", path))
	}()

	reader := newLineReader(f)
	for {
		line, ok, err := readLine(reader)
		if err != nil {
			return nil, NewDiskError(err, "read input", path)
		}
		if !ok {
			return lines, nil
		}
		lines = append(lines, line)
	}
}
