// Package importer implements CSV bulk import of rooms and timetable entries.
// Imports are row-independent: each row is validated on its own, failures are
// collected per row, and the batch never aborts on a bad row. Rows are
// processed sequentially so every duplicate and conflict check observes the
// rows already inserted earlier in the same batch.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"campus-services-backend/internal/store"
)

// ErrNotAdmin is returned when a caller without the administrator role
// attempts a restricted import. It is checked once, before any row is read.
var ErrNotAdmin = errors.New("administrator role required")

// Importer runs CSV bulk imports against the store.
type Importer struct {
	store   store.Store
	maxRows int
}

// New creates an Importer. maxRows bounds the number of data rows accepted
// per file; zero means no limit.
func New(s store.Store, maxRows int) *Importer {
	return &Importer{store: s, maxRows: maxRows}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// newCSVReader wraps r in a csv.Reader, stripping an optional UTF-8 byte
// order mark. Field-count checking is disabled; row handlers validate the
// columns they need.
func newCSVReader(r io.Reader) *csv.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}
