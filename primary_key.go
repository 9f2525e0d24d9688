package ddlinfer

import (
	"strings"

	"go.uber.org/zap"

	"github.com/nao1215/ddlinfer/domain/model"
)

// DefaultPrimaryKeySampleRows bounds the rows inspected for uniqueness.
const DefaultPrimaryKeySampleRows = 1000

// DefaultPrimaryKeyNames are the conventional primary key column names.
// "<table>_id" is always checked in addition to these.
var DefaultPrimaryKeyNames = []string{"id", "pk", "primary_key", "key"}

// PrimaryKeyOptions configures primary key inference.
type PrimaryKeyOptions struct {
	// Names are the conventional identifier names, compared case-insensitively.
	Names []string
	// SampleRows is the number of leading rows checked for uniqueness.
	SampleRows int
}

func (o PrimaryKeyOptions) withDefaults() PrimaryKeyOptions {
	if len(o.Names) == 0 {
		o.Names = DefaultPrimaryKeyNames
	}
	if o.SampleRows <= 0 {
		o.SampleRows = DefaultPrimaryKeySampleRows
	}
	return o
}

// PrimaryKeyInferencer guesses a single primary key column from a sample.
//
// Uniqueness is only checked within the sample, so the chosen column may
// contain duplicates further down a large resource.
type PrimaryKeyInferencer struct {
	logger *zap.Logger
	opts   PrimaryKeyOptions
}

// NewPrimaryKeyInferencer creates an inferencer. A nil logger disables logging.
func NewPrimaryKeyInferencer(logger *zap.Logger, opts PrimaryKeyOptions) *PrimaryKeyInferencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrimaryKeyInferencer{logger: logger, opts: opts.withDefaults()}
}

// InferPrimaryKey runs primary key inference without logging.
func InferPrimaryKey(sample *model.Table, ct model.ContentType, address string, opts PrimaryKeyOptions) (string, bool) {
	return NewPrimaryKeyInferencer(nil, opts).Infer(sample, ct, address)
}

// Infer returns the primary key candidate of sample, first match wins:
//  1. the first column named like a conventional identifier or "<table>_id"
//  2. the first column whose sampled values are all non-empty and distinct
//
// An empty sample has no candidate. ct and address are only logged.
func (p *PrimaryKeyInferencer) Infer(sample *model.Table, ct model.ContentType, address string) (string, bool) {
	fields := []zap.Field{zap.Stringer("content_type", ct), zap.String("address", address)}
	if sample.Len() == 0 {
		p.logger.Debug("empty sample, no primary key", fields...)
		return "", false
	}
	sample = sample.Head(p.opts.SampleRows)

	if name, ok := p.byName(sample); ok {
		p.logger.Debug("primary key chosen by name", append(fields, zap.String("column", name))...)
		return name, true
	}
	if name, ok := p.byUniqueness(sample); ok {
		p.logger.Debug("primary key chosen by uniqueness", append(fields, zap.String("column", name))...)
		return name, true
	}
	p.logger.Debug("no primary key candidate", fields...)
	return "", false
}

func (p *PrimaryKeyInferencer) byName(sample *model.Table) (string, bool) {
	candidates := make(map[string]struct{}, len(p.opts.Names)+1)
	for _, name := range p.opts.Names {
		candidates[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	if table := strings.TrimSpace(sample.Name()); table != "" {
		candidates[strings.ToLower(table)+"_id"] = struct{}{}
	}

	for _, column := range sample.Header() {
		if _, ok := candidates[strings.ToLower(strings.TrimSpace(column))]; ok {
			return column, true
		}
	}
	return "", false
}

func (p *PrimaryKeyInferencer) byUniqueness(sample *model.Table) (string, bool) {
	for _, column := range sample.Header() {
		values, _ := sample.Column(column)
		if allPresentAndDistinct(values) {
			return column, true
		}
	}
	return "", false
}

func allPresentAndDistinct(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
		if _, dup := seen[v]; dup {
			return false
		}
		seen[v] = struct{}{}
	}
	return len(values) > 0
}
