package endpoint

import (
	"net/http/httptest"
	"strings"
	"testing"
)

type flushRecorder struct {
	*httptest.ResponseRecorder

	flushes []int
}

func (f *flushRecorder) Flush() {
	f.flushes = append(f.flushes, f.Body.Len())
	f.ResponseRecorder.Flush()
}

func TestChunkWriter(t *testing.T) {
	tests := []struct {
		Name    string
		Writes  []int
		Flushes []int
	}{
		{"small", []int{100, 100}, nil},
		{"exact", []int{flushThreshold}, []int{flushThreshold}},
		{"quarters", []int{256, 256, 256, 256, 256, 256, 256, 256, 256, 256}, []int{1024, 2048}},
		{"large", []int{5000, 10}, []int{5000}},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			rec := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}
			w := newChunkWriter(rec)

			total := 0
			for _, n := range tt.Writes {
				if _, err := w.Write([]byte(strings.Repeat("x", n))); err != nil {
					t.Fatalf("failed to write: %s", err)
				}
				total += n
			}

			if len(rec.flushes) != len(tt.Flushes) {
				t.Fatalf("expected flushes at %v but got %v", tt.Flushes, rec.flushes)
			}
			for i := range tt.Flushes {
				if rec.flushes[i] != tt.Flushes[i] {
					t.Errorf("expected flushes at %v but got %v", tt.Flushes, rec.flushes)
					break
				}
			}
			if rec.Body.Len() != total {
				t.Errorf("unexpected body length: %d", rec.Body.Len())
			}
		})
	}
}
