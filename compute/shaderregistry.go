package compute

import (
	"sync"

	"github.com/kannanvijayan/renfrew-river/shady"
)

// ShaderModule is one compiled, named program held by a ShaderRegistry
// (spec.md §4.3: "named compile-once modules, pipelines per
// entrypoint"). The software device has no real shader compiler to
// invoke, so "compiling" a module is recording its already-assembled
// bitcode under a stable name the task dispatchers can look up on
// every dispatch instead of being handed raw bitcode by value.
type ShaderModule struct {
	Name    string
	Bitcode []shady.Instruction
}

// ShaderRegistry is the device-owned registry of named shader modules.
// Grounded on the teacher's symbol table pattern in parser/symbols.go
// (a name-to-definition map built once and consulted by many
// downstream consumers instead of threading the definition through
// every call site).
type ShaderRegistry struct {
	mu      sync.Mutex
	modules map[string]*ShaderModule
}

func newShaderRegistry() *ShaderRegistry {
	return &ShaderRegistry{modules: make(map[string]*ShaderModule)}
}

// Register compiles bitcode under name, replacing any module
// previously registered under the same name (e.g. a ruleset
// re-activated after its programs were edited), and returns the
// registered module.
func (r *ShaderRegistry) Register(name string, bitcode []shady.Instruction) *ShaderModule {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := &ShaderModule{Name: name, Bitcode: bitcode}
	r.modules[name] = m
	return m
}

// Lookup returns the module registered under name, if any.
func (r *ShaderRegistry) Lookup(name string) (*ShaderModule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[name]
	return m, ok
}

// Names returns every currently registered module name, in no
// particular order.
func (r *ShaderRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.modules))
	for name := range r.modules {
		out = append(out, name)
	}
	return out
}
