package ddlinfer

import (
	"fmt"
	"strings"

	"github.com/nao1215/ddlinfer/tabular"
)

// validator handles validation logic for SchemaGenerator configuration
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validateTarget checks the fields of a target that must be known before any I/O
func (v *validator) validateTarget(target *SQLTarget) error {
	if strings.TrimSpace(target.Dialect) == "" {
		return fmt.Errorf("%w: dialect is required", ErrConfiguration)
	}
	if target.PrimaryKey != nil && strings.TrimSpace(*target.PrimaryKey) == "" {
		return fmt.Errorf("%w: primary key must not be blank", ErrConfiguration)
	}
	return nil
}

// validateResource checks that a resource has something to read
func (v *validator) validateResource(resource *Resource) error {
	if !resource.resolvable() {
		return fmt.Errorf("%w: either a path or data must be provided", ErrUnresolvableResource)
	}
	if resource.Data == nil && resource.Path == StdinPath {
		return fmt.Errorf("%w: %q requires data read from standard input", ErrUnresolvableResource, StdinPath)
	}
	if resource.Encoding != "" && !tabular.ValidEncoding(resource.Encoding) {
		return fmt.Errorf("%w: unknown encoding %q", ErrConfiguration, resource.Encoding)
	}
	return nil
}
