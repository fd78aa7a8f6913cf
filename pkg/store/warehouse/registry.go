package warehouse

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
)

var ErrUnknownDriver = errors.New("unknown warehouse driver")

// Factory opens a store for a profile of its driver.
type Factory func(ctx context.Context, profile domain.Profile) (Store, error)

// Registry maps warehouse drivers to store factories
type Registry interface {
	// Register adds a factory for driver
	Register(driver domain.Driver, factory Factory) error
	// Open creates a store for the profile's driver
	Open(ctx context.Context, profile domain.Profile) (Store, error)
	// Drivers lists the registered drivers, sorted
	Drivers() []domain.Driver
}

type registry struct {
	mu        sync.RWMutex
	factories map[domain.Driver]Factory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[domain.Driver]Factory),
	}
}

func (r *registry) Register(driver domain.Driver, factory Factory) error {
	if driver == "" {
		return fmt.Errorf("driver name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[driver]; exists {
		return fmt.Errorf("driver %q is already registered", driver)
	}

	r.factories[driver] = factory
	return nil
}

func (r *registry) Open(ctx context.Context, profile domain.Profile) (Store, error) {
	r.mu.RLock()
	factory, exists := r.factories[profile.Driver]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("profile %s: %w %q", profile.Name, ErrUnknownDriver, profile.Driver)
	}

	return factory(ctx, profile)
}

func (r *registry) Drivers() []domain.Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drivers := make([]domain.Driver, 0, len(r.factories))
	for driver := range r.factories {
		drivers = append(drivers, driver)
	}
	sort.Slice(drivers, func(i, j int) bool { return drivers[i] < drivers[j] })
	return drivers
}
