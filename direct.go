package ddlinfer

import (
	"context"

	"go.uber.org/zap"

	"github.com/nao1215/ddlinfer/ddl"
	"github.com/nao1215/ddlinfer/tabular"
)

// directBackend reads a bounded prefix of line-oriented text. Columns that
// have no empty value in the sample are declared NOT NULL, and the table is
// bound to the generator metadata.
type directBackend struct {
	g      *SchemaGenerator
	logger *zap.Logger
}

func (b *directBackend) sample(ctx context.Context) (*tabular.Dataset, error) {
	ds, err := tabular.Peek(ctx, b.g.resource.source(b.g.target.TableName), tabular.Limits{
		Bytes: b.g.settings.peekBytes,
		Rows:  b.g.settings.sampleRows,
	})
	if err != nil {
		return nil, err
	}
	b.logger.Debug("sampled resource prefix",
		zap.Int("rows", ds.Table.Len()),
		zap.Int("columns", len(ds.Table.Header())))
	return ds, nil
}

func (b *directBackend) emit(ctx context.Context, ds *tabular.Dataset) (string, error) {
	schema, err := b.g.describe(ds, tabular.DescribeOptions{RequireComplete: true})
	if err != nil {
		return "", err
	}
	return ddl.Emit(ctx, schema, ddl.EmitOptions{
		Dialect:      b.g.target.Dialect,
		TableName:    b.g.target.TableName,
		BindMetadata: true,
		Metadata:     b.g.metadata,
		Verify:       b.g.settings.verify,
	})
}
