package ddlinfer

import (
	"fmt"
	"strings"

	"github.com/nao1215/ddlinfer/domain/model"
)

// Backend is one of the two inference strategies.
type Backend int

const (
	// BackendDirect samples a bounded prefix of line-oriented text and infers basic types from it
	BackendDirect Backend = iota
	// BackendGeneral materializes the addressed table of any supported format
	BackendGeneral
)

// String returns the backend name
func (b Backend) String() string {
	switch b {
	case BackendGeneral:
		return "general"
	default:
		return "direct"
	}
}

// ParseBackend resolves a backend name. The empty name is the default, direct.
// "d" and "g" are short aliases; "ddlgen", "frictionless" and "fl" are accepted
// for compatibility with older configurations.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "direct", "d", "ddlgen":
		return BackendDirect, nil
	case "general", "g", "frictionless", "fl":
		return BackendGeneral, nil
	default:
		return BackendDirect, fmt.Errorf("%w: %q", ErrUnsupportedBackend, name)
	}
}

// RequiresGeneral reports whether ct can only be read by the general backend:
// workbooks, columnar containers and structured documents.
func RequiresGeneral(ct model.ContentType) bool {
	switch ct {
	case model.ContentTypeODS, model.ContentTypeXLSX, model.ContentTypeParquet,
		model.ContentTypeJSON, model.ContentTypeYAML, model.ContentTypeHTML:
		return true
	default:
		return false
	}
}

// SelectBackend chooses the backend for a detection outcome and an explicit request.
// The first matching rule wins:
//  1. detection failed: general
//  2. general was requested: general
//  3. the detected type requires general: general
//  4. otherwise: direct
func SelectBackend(detected model.ContentType, detectionFailed bool, requested Backend) Backend {
	switch {
	case detectionFailed:
		return BackendGeneral
	case requested == BackendGeneral:
		return BackendGeneral
	case RequiresGeneral(detected):
		return BackendGeneral
	default:
		return BackendDirect
	}
}
