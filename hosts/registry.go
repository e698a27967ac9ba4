package hosts

import (
	"fmt"

	"github.com/brettbedarf/hostfs"
	"github.com/brettbedarf/hostfs/config"
	"github.com/puzpuzpuz/xsync/v4"
)

// Provider builds a host from the runtime configuration.
type Provider interface {
	NewHost(cfg *config.Config) (hostfs.Host, error)
}

// ProviderFunc adapts a plain function to [Provider].
type ProviderFunc func(cfg *config.Config) (hostfs.Host, error)

func (f ProviderFunc) NewHost(cfg *config.Config) (hostfs.Host, error) {
	return f(cfg)
}

// Registry maps host type names to providers.
type Registry struct {
	providers *xsync.Map[string, Provider]
}

func NewRegistry() *Registry {
	return &Registry{providers: xsync.NewMap[string, Provider]()}
}

// Register ties a provider to a host type. The first registration of a type
// wins; later ones are ignored.
func (r *Registry) Register(hostType string, p Provider) {
	r.providers.LoadOrStore(hostType, p)
}

// GetProvider returns the provider registered for hostType.
func (r *Registry) GetProvider(hostType string) (Provider, error) {
	p, ok := r.providers.Load(hostType)
	if !ok {
		return nil, fmt.Errorf("no host provider for %q", hostType)
	}
	return p, nil
}

// Types returns the registered host types in no particular order.
func (r *Registry) Types() []string {
	types := make([]string, 0, r.providers.Size())
	r.providers.Range(func(k string, _ Provider) bool {
		types = append(types, k)
		return true
	})
	return types
}

// NewHost builds the host named by cfg.HostType.
func (r *Registry) NewHost(cfg *config.Config) (hostfs.Host, error) {
	p, err := r.GetProvider(cfg.HostType)
	if err != nil {
		return nil, err
	}
	return p.NewHost(cfg)
}
