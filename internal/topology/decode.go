// Package topology decodes the documents of the OSG Topology registry.
//
// The registry serves XML. Elements that can repeat are decoded into OneOrMany,
// so that callers always see a plain slice through Items.
// The package also decodes the JSON form that topodown relays, which keeps the single-or-list shape of the XML.
package topology

import (
	"bufio"
	"encoding/xml"
	"errors"
	"io"

	"github.com/goccy/go-json"
	"github.com/macrat/topodown/internal/topoerr"
	"golang.org/x/text/encoding/htmlindex"
)

// MaxDocumentSize is the maximum size of a document in bytes.
var MaxDocumentSize int64 = 64 * 1024 * 1024

var (
	ErrEmptyDocument = errors.New("empty document")
	ErrTooLarge      = errors.New("document too large")
)

// DecodeDowntimes decodes a downtime feed in XML or JSON.
func DecodeDowntimes(r io.Reader) (DowntimesDocument, error) {
	var doc DowntimesDocument
	if err := decode(r, &doc.Downtimes, &doc); err != nil {
		return DowntimesDocument{}, topoerr.New(topoerr.ErrInvalidDocument, err, "downtimes")
	}
	return doc, nil
}

// DecodeResourceSummary decodes a resource group directory in XML or JSON.
func DecodeResourceSummary(r io.Reader) (ResourceSummaryDocument, error) {
	var doc ResourceSummaryDocument
	if err := decode(r, &doc.ResourceSummary, &doc); err != nil {
		return ResourceSummaryDocument{}, topoerr.New(topoerr.ErrInvalidDocument, err, "resource groups")
	}
	return doc, nil
}

// limitReader is io.LimitReader that fails instead of ending silently.
type limitReader struct {
	r    io.Reader
	left int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.left <= 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.left {
		p = p[:l.left]
	}
	n, err := l.r.Read(p)
	l.left -= int64(n)
	return n, err
}

func decode(r io.Reader, xmlRoot, jsonDoc any) error {
	br := bufio.NewReader(&limitReader{r: r, left: MaxDocumentSize})

	first, err := skipSpaces(br)
	if errors.Is(err, io.EOF) {
		return ErrEmptyDocument
	} else if err != nil {
		return err
	}

	if first == '{' {
		return json.NewDecoder(br).Decode(jsonDoc)
	}

	dec := xml.NewDecoder(br)
	dec.Strict = true
	dec.CharsetReader = charsetReader

	return dec.Decode(xmlRoot)
}

// skipSpaces skips leading white spaces and a byte order mark, and returns the next byte without consuming it.
func skipSpaces(br *bufio.Reader) (byte, error) {
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}

	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(input), nil
}
