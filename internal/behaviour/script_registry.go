package behaviour

import "sort"

// ScriptConstructor builds a fresh component instance.
type ScriptConstructor func() Component

var scriptRegistry = make(map[string]ScriptConstructor)

// RegisterScript makes a component constructible by name. Registering the
// same name twice replaces the constructor.
func RegisterScript(name string, constructor ScriptConstructor) {
	scriptRegistry[name] = constructor
}

// AvailableScripts returns the registered names in sorted order.
func AvailableScripts() []string {
	names := make([]string, 0, len(scriptRegistry))
	for name := range scriptRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateScript returns a new component for name, or nil if unknown.
func CreateScript(name string) Component {
	if constructor, exists := scriptRegistry[name]; exists {
		return constructor()
	}
	return nil
}
