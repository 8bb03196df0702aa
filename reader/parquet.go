package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// maxFiles bounds how many shards a glob pattern may expand to
const maxFiles = 1000

// ctxCheckInterval is how many rows are read between context checks
const ctxCheckInterval = 1024

// Reader reads parquet files and returns rows as maps.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewReader opens the parquet file at path.
//
// Returns an error if the file doesn't exist or is not a valid parquet file.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// ReadAll reads all rows from the parquet file into memory.
//
// Each row is a map from column name to value. Group columns, such as a
// lookup stored as {LookupId, LookupValue}, arrive as nested maps.
func (r *Reader) ReadAll() ([]map[string]interface{}, error) {
	return r.ReadAllContext(context.Background())
}

// ReadAllContext is ReadAll, giving up with ctx's error once ctx is done
func (r *Reader) ReadAllContext(ctx context.Context) ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0, r.pqFile.NumRows())

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	for i := 0; ; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row := make(map[string]interface{})
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// NumRows returns the number of rows recorded in the file metadata
func (r *Reader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// Schema returns the parquet file schema
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Close releases the file handle. It is safe to call Close multiple times.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// isGlob reports whether pattern contains glob wildcards
func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]{}")
}

// ExpandPattern returns the files a list path refers to. A plain path is
// returned as-is; a glob pattern is expanded in lexical order.
func ExpandPattern(pattern string) ([]string, error) {
	if !isGlob(pattern) {
		return []string{pattern}, nil
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}

	return matches, nil
}

// ReadMultipleFiles reads all rows of the files matching pattern.
//
// The pattern can include wildcards:
//   - * matches any sequence of non-separator characters
//   - ? matches any single non-separator character
//   - [range] matches any character in range
//
// A list sharded across files is read shard by shard in lexical file order,
// so row order is stable between runs.
func ReadMultipleFiles(pattern string) ([]map[string]interface{}, error) {
	return ReadMultipleFilesContext(context.Background(), pattern)
}

// ReadMultipleFilesContext is ReadMultipleFiles, stopping between shards and
// during a shard once ctx is done
func ReadMultipleFilesContext(ctx context.Context, pattern string) ([]map[string]interface{}, error) {
	paths, err := ExpandPattern(pattern)
	if err != nil {
		return nil, err
	}

	var allRows []map[string]interface{}
	for _, filePath := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := NewReader(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
		}

		rows, readErr := r.ReadAllContext(ctx)
		closeErr := r.Close()

		// Preserve the first error encountered
		if readErr != nil {
			return nil, fmt.Errorf("failed to read rows from %s: %w", filePath, readErr)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("failed to close %s: %w", filePath, closeErr)
		}

		allRows = append(allRows, rows...)
	}

	return allRows, nil
}
