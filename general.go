package ddlinfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/nao1215/ddlinfer/ddl"
	"github.com/nao1215/ddlinfer/domain/model"
	"github.com/nao1215/ddlinfer/tabular"
)

// unknownTypeCandidates are tried in order when detection failed.
var unknownTypeCandidates = []model.ContentType{
	model.ContentTypeJSON,
	model.ContentTypeNDJSON,
	model.ContentTypeYAML,
	model.ContentTypeCSV,
}

// generalBackend materializes the addressed table of any supported format and
// describes it with detailed types. CSV separators are sniffed from the leading
// lines. Nothing is bound to metadata.
type generalBackend struct {
	g      *SchemaGenerator
	logger *zap.Logger
}

func (b *generalBackend) sample(ctx context.Context) (*tabular.Dataset, error) {
	src := b.g.resource.source(b.g.target.TableName)
	src.SniffDelimiter = true

	var (
		ds  *tabular.Dataset
		err error
	)
	if src.Type.IsKnown() {
		ds, err = tabular.Load(ctx, src)
	} else {
		ds, err = b.loadUnknown(ctx, src)
	}
	if err != nil {
		return nil, err
	}
	b.logger.Debug("materialized table",
		zap.Stringer("content_type", b.g.resource.Type),
		zap.String("address", b.g.resource.Address),
		zap.Int("rows", ds.Table.Len()),
		zap.Int("columns", len(ds.Table.Header())))
	return ds, nil
}

// loadUnknown reads the payload once and parses it with the first candidate
// format that yields a table.
func (b *generalBackend) loadUnknown(ctx context.Context, src tabular.Source) (*tabular.Dataset, error) {
	payload, err := readAll(src)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, ct := range unknownTypeCandidates {
		candidate := src
		candidate.Path = ""
		candidate.Data = bytes.NewReader(payload)
		candidate.Type = ct

		ds, err := tabular.Load(ctx, candidate)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ct, err))
			continue
		}
		b.logger.Info("parsed resource of unknown type", zap.Stringer("as", ct))
		return ds, nil
	}
	return nil, fmt.Errorf("%w: no candidate format matched: %w", tabular.ErrUnsupportedFormat, errors.Join(errs...))
}

func readAll(src tabular.Source) ([]byte, error) {
	if src.Data != nil {
		payload, err := io.ReadAll(src.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to read data: %w", err)
		}
		return payload, nil
	}
	payload, err := os.ReadFile(src.Path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return payload, nil
}

func (b *generalBackend) emit(ctx context.Context, ds *tabular.Dataset) (string, error) {
	schema, err := b.g.describe(ds, tabular.DescribeOptions{Detailed: true})
	if err != nil {
		return "", err
	}
	return ddl.Emit(ctx, schema, ddl.EmitOptions{
		Dialect:   b.g.target.Dialect,
		TableName: b.g.target.TableName,
		Verify:    b.g.settings.verify,
	})
}
