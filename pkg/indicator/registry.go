package indicator

import (
	"fmt"
	"sync"

	"github.com/quantpulse/indicator-engine/internal/models"
)

// Registry manages indicator calculators by name.
type Registry struct {
	mu          sync.RWMutex
	order       []string
	calculators map[string]Calculator
}

// NewRegistry creates a new indicator registry
func NewRegistry() *Registry {
	return &Registry{
		calculators: make(map[string]Calculator),
	}
}

// Register registers a calculator with the registry. Registration order is
// preserved for deterministic iteration.
func (r *Registry) Register(calc Calculator) error {
	if calc == nil {
		return fmt.Errorf("calculator cannot be nil")
	}

	name := calc.Name()
	if name == "" {
		return fmt.Errorf("calculator name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.calculators[name]; exists {
		return fmt.Errorf("%w: %q", models.ErrDuplicateIndicator, name)
	}

	r.calculators[name] = calc
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a calculator by name
func (r *Registry) Get(name string) (Calculator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	calc, exists := r.calculators[name]
	if !exists {
		return nil, fmt.Errorf("calculator %q not found", name)
	}
	return calc, nil
}

// Names returns all registered calculator names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// All returns the registered calculators in registration order
func (r *Registry) All() []Calculator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	calcs := make([]Calculator, 0, len(r.order))
	for _, name := range r.order {
		calcs = append(calcs, r.calculators[name])
	}
	return calcs
}

// Len returns the number of registered calculators
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.calculators)
}
