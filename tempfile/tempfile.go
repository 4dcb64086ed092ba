// Package tempfile implements the scratch workspace of a single sort: a uniquely
// named directory holding sequentially numbered chunk files that are written
// once, read back during the merge and removed together with the directory.
package tempfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

var (
	// file IO buffer size for each file
	fileBufferSize = 1 << 16 // 64k
	// directory name prefix for workspaces put in the temp root
	workspacePrefix = "fsrt-"
)

// Workspace is a scratch directory owned by one sort.
// It is not safe for concurrent use.
type Workspace struct {
	dir    string
	chunks []string
	closed atomic.Bool
}

// NewWorkspace creates a fresh workspace directory under root.
// An empty root selects the directory returned by GetTempDir.
func NewWorkspace(root string) (*Workspace, error) {
	root = GetTempDir(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	dir := filepath.Join(root, workspacePrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, err
	}
	return &Workspace{dir: dir, chunks: make([]string, 0, 10)}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Size returns the number of chunk files created so far.
func (w *Workspace) Size() int {
	return len(w.chunks)
}

// Chunks returns the chunk file paths in creation order.
func (w *Workspace) Chunks() []string {
	return append([]string(nil), w.chunks...)
}

// Create opens the next sequentially numbered chunk file for writing.
// The file is registered with the workspace before it is returned, so
// Close removes it even if writing fails.
func (w *Workspace) Create() (*ChunkWriter, error) {
	if w.closed.Load() {
		return nil, os.ErrClosed
	}
	name := filepath.Join(w.dir, fmt.Sprintf("sorted-%d.tmp", len(w.chunks)+1))
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, err
	}
	w.chunks = append(w.chunks, name)
	return &ChunkWriter{
		file:      f,
		bufWriter: bufio.NewWriterSize(f, fileBufferSize),
	}, nil
}

// Close removes the workspace directory and everything in it.
// Calls after the first are no-ops.
func (w *Workspace) Close() error {
	if w.closed.Swap(true) {
		return nil
	}
	w.chunks = nil
	return os.RemoveAll(w.dir)
}

// ChunkWriter writes the lines of one chunk file.
type ChunkWriter struct {
	file      *os.File
	bufWriter *bufio.Writer
	closed    bool
}

// Name returns the path of the chunk file.
func (c *ChunkWriter) Name() string {
	return c.file.Name()
}

// WriteLine appends s and a line terminator.
func (c *ChunkWriter) WriteLine(s string) error {
	if _, err := c.bufWriter.WriteString(s); err != nil {
		return err
	}
	return c.bufWriter.WriteByte('\n')
}

// Close flushes buffered lines and closes the file.
// Calls after the first are no-ops.
func (c *ChunkWriter) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	var result *multierror.Error
	if err := c.bufWriter.Flush(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.file.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
