package filesort

import (
	"io"
	"slices"

	"github.com/lanrat/filesort/tempfile"
)

// splitChunks reads input once and saves it to ws as sorted chunks of roughly
// budget bytes of line content each. It returns the number of chunks saved;
// empty input saves none.
func (s *Sorter) splitChunks(input io.Reader, ws *tempfile.Workspace, compare CompareFunc) (int, error) {
	reader := newLineReader(input)
	budget := s.config.BufferSize

	var batch []string
	var batchBytes int64
	for {
		line, ok, err := readLine(reader)
		if err != nil {
			return ws.Size(), NewDiskError(err, "read input", "")
		}
		if ok {
			batch = append(batch, line)
			// terminators are not counted, the budget is approximate
			batchBytes += int64(len(line))
		}

		if batchBytes >= budget || (!ok && len(batch) > 0) {
			if err := s.saveChunk(ws, batch, compare); err != nil {
				return ws.Size(), err
			}
			clear(batch)
			batch = batch[:0]
			batchBytes = 0
		}

		if !ok {
			return ws.Size(), nil
		}
	}
}

// saveChunk sorts batch in place and writes it as the next chunk of ws.
func (s *Sorter) saveChunk(ws *tempfile.Workspace, batch []string, compare CompareFunc) (err error) {
	slices.SortStableFunc(batch, compare)

	cw, err := ws.Create()
	if err != nil {
		return NewDiskError(err, "create chunk", ws.Dir())
	}
	defer func() {
		if cerr := cw.Close(); cerr != nil {
			err = combineErrors(err, NewDiskError(cerr, "close chunk", cw.Name()))
		}
	}()

	for _, line := range batch {
		if err := cw.WriteLine(line); err != nil {
			return NewDiskError(err, "write chunk", cw.Name())
		}
	}

	s.log.WithField("action", "save_chunk").
		WithField("chunk", cw.Name()).
		WithField("lines", len(batch)).
		Debug("saved sorted chunk")
	return nil
}
