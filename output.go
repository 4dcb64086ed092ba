package filesort

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
)

// outputPerm is applied to a new output file. An existing destination keeps
// its permissions.
const outputPerm os.FileMode = 0o644

// outputFile writes sorted lines to a temporary file next to the destination
// and renames it into place on Commit, so a failed sort never leaves a
// partially written output behind.
//
// In unique mode a line equal to the previously written line under compare
// is dropped. This assumes the lines arrive in sorted order, so equal lines
// are consecutive.
type outputFile struct {
	path      string
	perm      os.FileMode
	tmp       *os.File
	bufWriter *bufio.Writer
	unique    bool
	compare   CompareFunc
	prior     string
	priorSet  bool
	lines     int64
	done      bool
}

func createOutput(path string, unique bool, compare CompareFunc) (*outputFile, error) {
	perm := outputPerm
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		perm = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, NewDiskError(err, "create output", path)
	}
	return &outputFile{
		path:      path,
		perm:      perm,
		tmp:       tmp,
		bufWriter: bufio.NewWriterSize(tmp, fileBufferSize),
		unique:    unique,
		compare:   compare,
	}, nil
}

// WriteLine appends s and a line terminator.
func (o *outputFile) WriteLine(s string) error {
	if o.unique {
		if o.priorSet && o.compare(o.prior, s) == 0 {
			return nil
		}
		o.prior, o.priorSet = s, true
	}
	if _, err := o.bufWriter.WriteString(s); err != nil {
		return NewDiskError(err, "write output", o.path)
	}
	if err := o.bufWriter.WriteByte('\n'); err != nil {
		return NewDiskError(err, "write output", o.path)
	}
	o.lines++
	return nil
}

// Lines returns the number of lines written so far.
func (o *outputFile) Lines() int64 {
	return o.lines
}

// Commit flushes the written lines and moves them to the destination path.
func (o *outputFile) Commit() error {
	if o.done {
		return os.ErrClosed
	}
	if err := o.bufWriter.Flush(); err != nil {
		return NewDiskError(err, "flush output", o.path)
	}
	if err := o.tmp.Sync(); err != nil {
		return NewDiskError(err, "sync output", o.path)
	}
	if err := o.tmp.Chmod(o.perm); err != nil {
		return NewDiskError(err, "chmod output", o.path)
	}
	if err := o.tmp.Close(); err != nil {
		return NewDiskError(err, "close output", o.path)
	}
	if err := os.Rename(o.tmp.Name(), o.path); err != nil {
		return NewDiskError(err, "rename output", o.path)
	}
	o.done = true
	return nil
}

// Close discards the output unless it was committed.
// Calls after the first, or after Commit, are no-ops.
func (o *outputFile) Close() error {
	if o.done {
		return nil
	}
	o.done = true
	var result *multierror.Error
	if err := o.tmp.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		result = multierror.Append(result, NewDiskError(err, "close output", o.tmp.Name()))
	}
	if err := os.Remove(o.tmp.Name()); err != nil && !os.IsNotExist(err) {
		result = multierror.Append(result, NewDiskError(err, "remove output", o.tmp.Name()))
	}
	return result.ErrorOrNil()
}
