package ddlinfer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/nao1215/ddlinfer/config"
	"github.com/nao1215/ddlinfer/ddl"
	"github.com/nao1215/ddlinfer/domain/model"
	"github.com/nao1215/ddlinfer/driver"
	"github.com/nao1215/ddlinfer/tabular"
)

// State is the phase a SchemaGenerator has reached.
type State int

const (
	// StateCreated is the state before configuration
	StateCreated State = iota
	// StateConfigured is the state after a successful configuration
	StateConfigured
	// StateTypeDetected is reached once detection ran, successfully or not
	StateTypeDetected
	// StateBackendSelected is reached once the backend is chosen
	StateBackendSelected
	// StatePrimaryKeyInferred is reached once the primary key is known or known to be absent
	StatePrimaryKeyInferred
	// StateEmitted is the terminal success state
	StateEmitted
	// StateFailed is the terminal failure state
	StateFailed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateConfigured:
		return "configured"
	case StateTypeDetected:
		return "type-detected"
	case StateBackendSelected:
		return "backend-selected"
	case StatePrimaryKeyInferred:
		return "primary-key-inferred"
	case StateEmitted:
		return "emitted"
	default:
		return "failed"
	}
}

// settings are the tunables a generator is built with.
type settings struct {
	dialect         string
	backend         string
	sampleRows      int
	peekBytes       int
	primaryKeyNames []string
	encoding        string
	sanitize        bool
	verify          bool
}

// Option configures a SchemaGenerator.
type Option func(*SchemaGenerator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(g *SchemaGenerator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithBackend requests a backend by name: "direct" ("d") or "general" ("g").
func WithBackend(name string) Option {
	return func(g *SchemaGenerator) {
		g.settings.backend = name
	}
}

// WithConfig applies a loaded configuration. Values set on the target and the
// resource take precedence.
func WithConfig(cfg *config.Config) Option {
	return func(g *SchemaGenerator) {
		if cfg == nil {
			return
		}
		g.settings.dialect = cfg.Dialect
		if cfg.Backend != "" {
			g.settings.backend = cfg.Backend
		}
		g.settings.sampleRows = cfg.SampleRows
		g.settings.peekBytes = cfg.PeekBytes
		g.settings.primaryKeyNames = cfg.PrimaryKeyNames
		g.settings.encoding = cfg.Encoding
		g.settings.sanitize = cfg.SanitizeTableName
		g.settings.verify = cfg.Verify
	}
}

// WithSanitizedTableName rewrites table names derived from the path into plain identifiers.
func WithSanitizedTableName() Option {
	return func(g *SchemaGenerator) {
		g.settings.sanitize = true
	}
}

// WithVerification replays sqlite DDL against an in-memory database before returning it.
func WithVerification() Option {
	return func(g *SchemaGenerator) {
		g.settings.verify = true
	}
}

// WithMetadata binds the tables emitted by the direct backend to md.
func WithMetadata(md *ddl.Metadata) Option {
	return func(g *SchemaGenerator) {
		if md != nil {
			g.metadata = md
		}
	}
}

// SchemaGenerator turns one Resource and one SQLTarget into one SQLResult.
// A generator is single use: after Generate returns, further calls fail with
// ErrGeneratorState. Resource and target are updated in place with the detected
// content type, the derived table name and the inferred primary key.
type SchemaGenerator struct {
	resource *Resource
	target   *SQLTarget
	logger   *zap.Logger
	settings settings
	metadata *ddl.Metadata

	state     State
	requested Backend
	selected  Backend
	fallback  bool
}

// NewSchemaGenerator creates a generator and configures it: the dialect is
// checked, the requested backend resolved and the table name derived from the path.
func NewSchemaGenerator(resource *Resource, target *SQLTarget, opts ...Option) (*SchemaGenerator, error) {
	if resource == nil || target == nil {
		return nil, fmt.Errorf("%w: resource and target are required", ErrConfiguration)
	}
	g := &SchemaGenerator{
		resource: resource,
		target:   target,
		logger:   zap.NewNop(),
		metadata: ddl.NewMetadata(),
		state:    StateCreated,
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.configure(); err != nil {
		g.state = StateFailed
		return nil, err
	}
	g.state = StateConfigured
	return g, nil
}

// Generate runs a fresh generator with copies of resource and target.
func Generate(ctx context.Context, resource Resource, target SQLTarget, opts ...Option) (SQLResult, error) {
	g, err := NewSchemaGenerator(&resource, &target, opts...)
	if err != nil {
		return SQLResult{}, err
	}
	return g.Generate(ctx)
}

// configure validates the inputs and fills in defaults. It performs no I/O.
func (g *SchemaGenerator) configure() error {
	if strings.TrimSpace(g.target.Dialect) == "" {
		g.target.Dialect = g.settings.dialect
	}
	if g.resource.Encoding == "" {
		g.resource.Encoding = g.settings.encoding
	}

	v := newValidator()
	if err := v.validateTarget(g.target); err != nil {
		return err
	}
	requested, err := ParseBackend(g.settings.backend)
	if err != nil {
		return err
	}
	g.requested = requested
	if err := v.validateResource(g.resource); err != nil {
		return err
	}

	if g.target.TableName == "" && g.resource.hasPath() && g.resource.Path != StdinPath {
		name := model.TableNameFromPath(g.resource.Path)
		if g.settings.sanitize {
			name = model.SanitizeTableName(name)
		}
		g.target.TableName = name
	}
	return nil
}

// State returns the phase the generator has reached.
func (g *SchemaGenerator) State() State {
	return g.state
}

// SelectedBackend returns the backend chosen by Generate.
func (g *SchemaGenerator) SelectedBackend() Backend {
	return g.selected
}

// Fallback reports whether detection failed and the general backend was forced.
func (g *SchemaGenerator) Fallback() bool {
	return g.fallback
}

// Metadata returns the catalog the direct backend binds tables to.
func (g *SchemaGenerator) Metadata() *ddl.Metadata {
	return g.metadata
}

// Generate detects the content type, selects a backend, infers the primary key
// when none was given and emits the CREATE TABLE statement.
func (g *SchemaGenerator) Generate(ctx context.Context) (SQLResult, error) {
	if g.state != StateConfigured {
		return SQLResult{}, fmt.Errorf("%w: generator is %s", ErrGeneratorState, g.state)
	}
	result, err := g.generate(ctx)
	if err != nil {
		g.state = StateFailed
		return SQLResult{}, err
	}
	g.state = StateEmitted
	return result, nil
}

func (g *SchemaGenerator) generate(ctx context.Context) (SQLResult, error) {
	logger := g.logger.With(zap.String("resource", driver.SanitizeForLog(describeResource(g.resource))))

	if _, err := NewContentTypeDetector(logger).Detect(g.resource); err != nil {
		if !errors.Is(err, ErrUnknownContentType) {
			return SQLResult{}, err
		}
		g.fallback = true
		logger.Info("content type could not be detected, using the general backend")
	}
	g.state = StateTypeDetected

	g.selected = SelectBackend(g.resource.Type, g.fallback, g.requested)
	g.state = StateBackendSelected
	logger.Debug("backend selected",
		zap.Stringer("backend", g.selected),
		zap.Stringer("content_type", g.resource.Type),
		zap.Bool("fallback", g.fallback))

	backend := g.backend(logger)
	ds, err := backend.sample(ctx)
	if err != nil {
		return SQLResult{}, g.wrap("read", err)
	}

	if g.target.PrimaryKey == nil {
		inferencer := NewPrimaryKeyInferencer(logger, PrimaryKeyOptions{
			Names:      g.settings.primaryKeyNames,
			SampleRows: g.settings.sampleRows,
		})
		if name, ok := inferencer.Infer(ds.Table, g.resource.Type, g.resource.Address); ok {
			g.target.PrimaryKey = &name
		}
	}
	g.state = StatePrimaryKeyInferred

	if strings.TrimSpace(g.target.TableName) == "" {
		return SQLResult{}, fmt.Errorf("%w: %w", ErrConfiguration, ddl.ErrMissingTableName)
	}
	raw, err := backend.emit(ctx, ds)
	if err != nil {
		return SQLResult{}, g.wrap("emit", err)
	}
	return NewSQLResult(raw), nil
}

// wrap adds generator context to a collaborator error. Unreadable files are
// reported as unresolvable resources.
func (g *SchemaGenerator) wrap(operation string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) || errors.Is(err, tabular.ErrNoSource) {
		err = fmt.Errorf("%w: %w", ErrUnresolvableResource, err)
	}
	return NewErrorContext(operation, g.resource.Path).
		WithTable(g.target.TableName).
		WithDetails(g.selected.String() + " backend").
		Error(err)
}

// strategy is the part of a backend that differs between direct and general.
type strategy interface {
	// sample reads the rows used for primary key inference and schema description.
	sample(ctx context.Context) (*tabular.Dataset, error)
	// emit describes ds and renders the DDL.
	emit(ctx context.Context, ds *tabular.Dataset) (string, error)
}

func (g *SchemaGenerator) backend(logger *zap.Logger) strategy {
	if g.selected == BackendGeneral {
		return &generalBackend{g: g, logger: logger.Named("general")}
	}
	return &directBackend{g: g, logger: logger.Named("direct")}
}

// describe builds the schema of ds and applies the target primary key.
func (g *SchemaGenerator) describe(ds *tabular.Dataset, opts tabular.DescribeOptions) (*model.Schema, error) {
	schema := tabular.Describe(ds, opts)
	if pk := g.target.PrimaryKey; pk != nil {
		if err := schema.SetPrimaryKey(*pk); err != nil {
			return nil, err
		}
	}
	return schema, nil
}
