package resource

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance.
var validate = validator.New()

// Kind is the modality a resource serves.
type Kind string

const (
	KindText   Kind = "text"
	KindVision Kind = "vision"
)

// Entry describes one registered resource.
type Entry struct {
	// Name is the symbolic name nodes refer to.
	Name string `json:"name" yaml:"name" validate:"required"`
	// Path locates the artefact on disk or in a model hub.
	Path string `json:"path" yaml:"path" validate:"required"`
	// SizeClass feeds the strategy policy, e.g. "small" or "large".
	SizeClass string `json:"size_class,omitempty" yaml:"size_class,omitempty"`
	// Backend selects the Loader in a Backends multiplexer. Empty means the
	// multiplexer's default.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
	// Kind is the modality. Empty means text.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty" validate:"omitempty,oneof=text vision"`
}

// IsVision reports whether the entry serves images.
func (e Entry) IsVision() bool {
	return e.Kind == KindVision
}

// Registry is the validated, immutable set of resources.
type Registry struct {
	order   []string
	entries map[string]Entry
}

// NewRegistry validates entries and builds a registry. It fails on the first
// invalid or duplicate entry.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{entries: make(map[string]Entry, len(entries))}
	for i, e := range entries {
		if err := validate.Struct(e); err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.Name, formatValidationError(err))
		}
		if _, dup := r.entries[e.Name]; dup {
			return nil, fmt.Errorf("duplicate resource name %q", e.Name)
		}
		if e.Kind == "" {
			e.Kind = KindText
		}
		r.entries[e.Name] = e
		r.order = append(r.order, e.Name)
	}
	return r, nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the registered names in file order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.order)
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, e := range validationErrs {
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", e.Field())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %q", e.Field(), e.Param(), e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
		}
	}
	return err
}
