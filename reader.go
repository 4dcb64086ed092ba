package filesort

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"sync/atomic"
)

// file IO buffer size for each input and chunk reader
var fileBufferSize = 1 << 16 // 64k

var errReaderExhausted = errors.New("chunk reader exhausted, Peek before Consume")

func newLineReader(r io.Reader) *bufio.Reader {
	return bufio.NewReaderSize(r, fileBufferSize)
}

// readLine returns the next line without its terminator.
// Both "\n" and "\r\n" terminate a line, and a final line without terminator
// is still a line. ok is false once the input is exhausted.
func readLine(r *bufio.Reader) (line string, ok bool, err error) {
	line, err = r.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", false, err
		}
		if line == "" {
			return "", false, nil
		}
	} else {
		line = line[:len(line)-1]
	}
	return strings.TrimSuffix(line, "\r"), true, nil
}

// chunkReader is a single line lookahead reader over one sorted chunk file.
// The current line is only missing once the file has no unread lines left.
type chunkReader struct {
	file    atomic.Pointer[os.File]
	reader  *bufio.Reader
	current string
	more    bool
	// index is the chunk number, used to break ties between readers
	index int
}

// openChunkReader opens the chunk at path and preloads its first line.
func openChunkReader(path string, index int) (*chunkReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewDiskError(err, "open chunk", path)
	}
	r := newChunkReader(f, index)
	r.file.Store(f)
	if err := r.advance(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// newChunkReader wraps src without loading a line; call advance first.
// Only readers created by openChunkReader own a file to close.
func newChunkReader(src io.Reader, index int) *chunkReader {
	return &chunkReader{
		reader: newLineReader(src),
		index:  index,
	}
}

// Peek returns the current line without consuming it.
// ok is false when the chunk is exhausted.
func (r *chunkReader) Peek() (line string, ok bool) {
	return r.current, r.more
}

// Consume returns the current line and advances to the next one.
func (r *chunkReader) Consume() (string, error) {
	if !r.more {
		return "", errReaderExhausted
	}
	line := r.current
	return line, r.advance()
}

func (r *chunkReader) advance() error {
	line, ok, err := readLine(r.reader)
	if err != nil {
		r.current, r.more = "", false
		return NewDiskError(err, "read chunk", r.Name())
	}
	r.current, r.more = line, ok
	return nil
}

// Name returns the chunk file path, or the empty string once closed.
func (r *chunkReader) Name() string {
	if f := r.file.Load(); f != nil {
		return f.Name()
	}
	return ""
}

// Close releases the chunk file. Calls after the first are no-ops.
func (r *chunkReader) Close() error {
	f := r.file.Swap(nil)
	if f == nil {
		return nil
	}
	r.more = false
	return NewDiskError(f.Close(), "close chunk", f.Name())
}
