package ddlinfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/ddlinfer/domain/model"
	"github.com/nao1215/ddlinfer/tabular"
)

// WriteResult writes the raw statement text of result to w.
func WriteResult(w io.Writer, result SQLResult) error {
	if _, err := io.WriteString(w, result.Raw()); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// SaveResult writes result to path, creating parent directories as needed.
// A compression extension (.gz, .xz, .zst) compresses the file accordingly.
func SaveResult(path string, result SQLResult) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	w, flush, err := tabular.NewCompressor(model.CompressionFromPath(path), f)
	if err != nil {
		return err
	}
	if err := WriteResult(w, result); err != nil {
		_ = flush()
		return err
	}
	if err := flush(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}
	return nil
}
