package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// CSVCodec maps an entity to and from one CSV row.
type CSVCodec[T any] interface {
	// Header returns the column names, in order.
	Header() []string
	// Row renders v as len(Header()) fields.
	Row(v T) []string
	// Parse builds and validates an entity from len(Header()) fields.
	Parse(fields []string) (T, error)
}

// RowError reports a CSV row that was skipped on import.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// WriteCSV writes the header followed by one row per item.
func WriteCSV[T any](w io.Writer, codec CSVCodec[T], items []T) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(codec.Header()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, item := range items {
		if err := cw.Write(codec.Row(item)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows following a header that must equal codec.Header()
// exactly (ErrHeaderMismatch otherwise). Rows with the wrong number of
// fields or that fail to parse are skipped and returned as RowErrors.
func ReadCSV[T any](r io.Reader, codec CSVCodec[T]) ([]T, []*RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: file is empty", types.ErrHeaderMismatch)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	want := codec.Header()
	if !slices.Equal(header, want) {
		return nil, nil, fmt.Errorf("%w: got %s, want %s", types.ErrHeaderMismatch,
			strings.Join(header, ","), strings.Join(want, ","))
	}

	var (
		items   []T
		skipped []*RowError
	)
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped = append(skipped, &RowError{Line: pe.Line, Err: pe.Err})
				continue
			}
			return items, skipped, fmt.Errorf("reading csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(fields) != len(want) {
			skipped = append(skipped, &RowError{
				Line: line,
				Err:  fmt.Errorf("expected %d fields, got %d", len(want), len(fields)),
			})
			continue
		}
		v, err := codec.Parse(fields)
		if err != nil {
			skipped = append(skipped, &RowError{Line: line, Err: err})
			continue
		}
		items = append(items, v)
	}
	return items, skipped, nil
}

// ExportCSV writes items to path, replacing any existing file.
func ExportCSV[T any](path string, codec CSVCodec[T], items []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, codec, items); err != nil {
		f.Close()
		return fmt.Errorf("exporting %s: %w", path, err)
	}
	return f.Close()
}

// ImportCSV reads path with ReadCSV.
func ImportCSV[T any](path string, codec CSVCodec[T]) ([]T, []*RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, codec)
}
