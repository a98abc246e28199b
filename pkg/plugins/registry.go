// Package plugins is the registry of compiled-in plugin
// implementations. A plugin ships as two halves: a source file whose
// manifest is registered in the catalog, and a Factory linked into the
// binary under the same name. Registration of the manifest never
// executes anything; the factory only runs at activation time, against
// a handle whose capability level was already decided.
package plugins

import (
	"context"
	"fmt"
	"sync"

	"github.com/telehive/telehive/pkg/manifest"
	"github.com/telehive/telehive/pkg/modcache"
	"github.com/telehive/telehive/pkg/protocol"
	"github.com/telehive/telehive/pkg/store"
)

// Factory builds a running plugin instance for one account. The client
// handle is raw or restricted depending on the account's trust flag;
// the factory cannot tell and must not care.
type Factory func(ctx context.Context, client protocol.Client, config map[string]any) (modcache.Instance, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a plugin implementation available under name. It
// panics on a duplicate name, like database/sql driver registration.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[name]; dup {
		panic(fmt.Sprintf("plugins: Register called twice for %q", name))
	}
	factories[name] = factory
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	factory, ok := factories[name]
	return factory, ok
}

// Names lists the registered plugin names.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}

// Loader resolves modules against the registry. It satisfies the
// runner's loader contract.
type Loader struct{}

func (Loader) Load(ctx context.Context, mod store.ActiveModule, client protocol.Client, _ *manifest.Manifest) (modcache.Instance, error) {
	factory, ok := Lookup(mod.Name)
	if !ok {
		return nil, fmt.Errorf("module %q is registered in the catalog but not linked into this binary", mod.Name)
	}
	return factory(ctx, client, mod.Config)
}
