package options

import (
	"fmt"
	"sort"
	"sync"

	"github.com/toyz/entrait/internal/models"
)

// Registry manages the option schemas for each item kind
type Registry interface {
	// Register a schema for an item kind
	Register(kind models.ItemKind, schema Schema) error

	// GetSchema retrieves the schema for an item kind
	GetSchema(kind models.ItemKind) (Schema, error)

	// ListKinds returns all registered item kinds
	ListKinds() []models.ItemKind

	// IsRegistered checks if an item kind has a schema
	IsRegistered(kind models.ItemKind) bool
}

type registry struct {
	mu      sync.RWMutex
	schemas map[models.ItemKind]Schema
}

// NewRegistry creates an empty schema registry
func NewRegistry() Registry {
	return &registry{
		schemas: make(map[models.ItemKind]Schema),
	}
}

var (
	defaultRegistry     Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry holding the built-in schemas
func DefaultRegistry() Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, schema := range []Schema{FnSchema(), ModSchema(), TraitSchema()} {
			if err := defaultRegistry.Register(schema.Kind, schema); err != nil {
				panic(fmt.Sprintf("failed to register built-in schema %s: %v", schema.Kind, err))
			}
		}
	})
	return defaultRegistry
}

func (r *registry) Register(kind models.ItemKind, schema Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema.Kind != kind {
		return fmt.Errorf("schema kind %s does not match item kind %s", schema.Kind, kind)
	}
	if _, exists := r.schemas[kind]; exists {
		return fmt.Errorf("item kind %s is already registered", kind)
	}
	if err := validateSchema(schema); err != nil {
		return fmt.Errorf("invalid schema for %s: %w", kind, err)
	}

	r.schemas[kind] = schema
	return nil
}

func (r *registry) GetSchema(kind models.ItemKind) (Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[kind]
	if !exists {
		return Schema{}, fmt.Errorf("item kind %s is not registered", kind)
	}
	return schema, nil
}

func (r *registry) ListKinds() []models.ItemKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]models.ItemKind, 0, len(r.schemas))
	for kind := range r.schemas {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func (r *registry) IsRegistered(kind models.ItemKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[kind]
	return exists
}

func validateSchema(schema Schema) error {
	for name, spec := range schema.Parameters {
		if name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		if spec.Kind < FlagParam || spec.Kind > ChoiceParam {
			return fmt.Errorf("invalid parameter kind for %s: %d", name, spec.Kind)
		}
		if spec.Kind == ChoiceParam && len(spec.Choices) == 0 {
			return fmt.Errorf("choice parameter %s has no choices", name)
		}
		if spec.Apply == nil {
			return fmt.Errorf("parameter %s does not apply to any option", name)
		}
	}
	return nil
}
