package filesort

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// CheckResult describes the outcome of checking a file for sortedness.
type CheckResult struct {
	// Sorted is true when every line is ordered after the line before it.
	Sorted bool
	// Lines is the number of lines read. When the file is not sorted reading
	// stops at the first out of order line.
	Lines int64
	// Line is the 1-based number of the first out of order line, 0 when sorted.
	Line int64
	// Prior and Current hold the offending pair of lines when not sorted.
	Prior, Current string
}

func (r CheckResult) String() string {
	if r.Sorted {
		return fmt.Sprintf("sorted (%d lines)", r.Lines)
	}
	return fmt.Sprintf("disorder at line %d: %q after %q", r.Line, r.Current, r.Prior)
}

// CheckFile reports whether path is sorted according to config.
// It is the same as calling Check on New(config).
func CheckFile(path string, config *Config) (CheckResult, error) {
	s, err := New(config)
	if err != nil {
		return CheckResult{}, err
	}
	return s.Check(path)
}

// Check streams path once and reports whether its lines are in the order
// Sort would produce. With Config.Unique, equal neighbouring lines also count
// as out of order.
func (s *Sorter) Check(path string) (result CheckResult, err error) {
	if path == "" {
		return result, NewConfigError("path", path, "must not be empty")
	}
	compare, err := NewCompareFunc(s.config.Comparison, s.config.Descending, s.config.Locale)
	if err != nil {
		return result, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return result, fmt.Errorf("input file %s: %w", path, ErrNotFound)
	} else if err != nil {
		return result, NewDiskError(err, "open input", path)
	}
	defer func() {
		err = combineErrors(err, NewDiskError(f.Close(), "close input", path))
	}()

	reader := newLineReader(f)
	var prior string
	for {
		line, ok, err := readLine(reader)
		if err != nil {
			return result, NewDiskError(err, "read input", path)
		}
		if !ok {
			result.Sorted = true
			return result, nil
		}
		result.Lines++
		if result.Lines > 1 {
			c := compare(prior, line)
			if c > 0 || (c == 0 && s.config.Unique) {
				result.Line = result.Lines
				result.Prior, result.Current = prior, line
				return result, nil
			}
		}
		prior = line
	}
}
