package filesort

import (
	"cmp"

	"github.com/hashicorp/go-multierror"

	"github.com/lanrat/filesort/queue"
	"github.com/lanrat/filesort/tempfile"
)

// mergeChunks performs a k-way merge of every chunk in ws into outputPath.
//
// The reader holding the smallest current line is kept at the front of a
// priority queue. Equal lines are taken from the lowest numbered chunk first,
// which keeps equal lines in input order since chunks are numbered in input
// order and sorted stably. Every opened reader is closed before returning.
func (s *Sorter) mergeChunks(ws *tempfile.Workspace, outputPath string, compare CompareFunc) (lines int64, err error) {
	chunks := ws.Chunks()
	readers := make([]*chunkReader, 0, len(chunks))
	defer func() {
		var result *multierror.Error
		for _, r := range readers {
			if cerr := r.Close(); cerr != nil {
				result = multierror.Append(result, cerr)
			}
		}
		if cerr := result.ErrorOrNil(); cerr != nil {
			s.log.WithField("action", "merge_close_chunks").
				WithError(cerr).
				Warn("failed closing chunk readers")
			err = combineErrors(err, cerr)
		}
	}()

	for i, path := range chunks {
		r, err := openChunkReader(path, i)
		if err != nil {
			return 0, err
		}
		readers = append(readers, r)
	}
	return s.mergeReaders(readers, outputPath, compare)
}

// mergeReaders writes the lines of every reader to outputPath in order. The
// readers are left open; a failure removes the partially written output.
func (s *Sorter) mergeReaders(readers []*chunkReader, outputPath string, compare CompareFunc) (lines int64, err error) {
	pq := queue.NewPriorityQueue(func(a, b *chunkReader) int {
		if c := compare(a.current, b.current); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})
	for _, r := range readers {
		if _, ok := r.Peek(); ok {
			pq.Push(r)
		}
	}

	out, err := createOutput(outputPath, s.config.Unique, compare)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = combineErrors(err, out.Close())
	}()

	for pq.Len() > 0 {
		r := pq.Peek()
		line, err := r.Consume()
		if err != nil {
			return out.Lines(), err
		}
		if err := out.WriteLine(line); err != nil {
			return out.Lines(), err
		}
		if _, ok := r.Peek(); ok {
			pq.PeekUpdate()
		} else {
			pq.Pop()
		}
	}

	s.log.WithField("action", "merge_chunks").
		WithField("chunks", len(readers)).
		WithField("lines", out.Lines()).
		Debug("merged sorted chunks")
	return out.Lines(), out.Commit()
}
