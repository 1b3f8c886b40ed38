package endpoint

import (
	"errors"
	"net/http"
)

// flushThreshold is the number of bytes written between flushes.
var flushThreshold = 1024

// chunkWriter sends a long response to the client as it is rendered, instead of after the handler returns.
type chunkWriter struct {
	rc      *http.ResponseController
	w       http.ResponseWriter
	pending int
}

func newChunkWriter(w http.ResponseWriter) *chunkWriter {
	return &chunkWriter{
		rc: http.NewResponseController(w),
		w:  w,
	}
}

func (c *chunkWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	if err != nil {
		return n, err
	}

	c.pending += n
	if c.pending < flushThreshold {
		return n, nil
	}
	c.pending = 0

	// A writer without flush support just buffers everything.
	if err := c.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return n, err
	}
	return n, nil
}
