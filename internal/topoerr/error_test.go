package topoerr_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/macrat/topodown/internal/topoerr"
)

func TestError(t *testing.T) {
	tests := []struct {
		kind    error
		from    error
		format  string
		args    []interface{}
		message string
	}{
		{
			topoerr.ErrFeedUnavailable,
			io.ErrUnexpectedEOF,
			"failed to fetch %s",
			[]interface{}{"https://example.com/rgsummary/xml"},
			"failed to fetch https://example.com/rgsummary/xml: unexpected EOF",
		},
		{
			topoerr.ErrInvalidDate,
			nil,
			"%q",
			[]interface{}{"yesterday"},
			`"yesterday"`,
		},
		{
			topoerr.ErrInvalidDocument,
			io.EOF,
			"",
			nil,
			"EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			err := topoerr.New(tt.kind, tt.from, tt.format, tt.args...)

			if err.Error() != tt.message {
				t.Errorf("unexpected message: %s", err)
			}

			if !errors.Is(err, tt.kind) {
				t.Errorf("error is %#v but reports as not", tt.kind)
			}

			if tt.from != nil && !errors.Is(err, tt.from) {
				t.Errorf("error is sub error of %#v but reports as not", tt.from)
			}
		})
	}
}

func TestError_wrapped(t *testing.T) {
	err := fmt.Errorf("refresh: %w", topoerr.New(topoerr.ErrFeedUnavailable, io.EOF, "downtimes"))

	if !errors.Is(err, topoerr.ErrFeedUnavailable) {
		t.Errorf("wrapped error lost its kind")
	}
	if errors.Is(err, topoerr.ErrInvalidDocument) {
		t.Errorf("wrapped error reports an unrelated kind")
	}
}
