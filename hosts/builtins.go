package hosts

import (
	"github.com/brettbedarf/hostfs"
	"github.com/brettbedarf/hostfs/config"
)

// RegisterBuiltins registers all built-in hosts on r, or only the listed
// types when any are given. Unknown names are ignored.
func RegisterBuiltins(r *Registry, types ...string) {
	if len(types) == 0 {
		types = []string{BillyOSType, BillyMemType, AferoOSType, AferoMemType}
	}

	for _, t := range types {
		switch t {
		case BillyOSType:
			r.Register(t, ProviderFunc(func(cfg *config.Config) (hostfs.Host, error) {
				return NewBillyOS(cfg.HostDir), nil
			}))
		case BillyMemType:
			r.Register(t, ProviderFunc(func(*config.Config) (hostfs.Host, error) {
				return NewBillyMem(), nil
			}))
		case AferoOSType:
			r.Register(t, ProviderFunc(func(cfg *config.Config) (hostfs.Host, error) {
				return NewAferoOS(cfg.HostDir), nil
			}))
		case AferoMemType:
			r.Register(t, ProviderFunc(func(*config.Config) (hostfs.Host, error) {
				return NewAferoMem(), nil
			}))
		}
	}
}
