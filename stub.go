package wheelext

// MakeStubTargets declares one source-less target per module name.
//
// Each target is named "<prefix>.<name>". Order is preserved, so feeding the
// output of DiscoverModules yields a deterministic target set.
func MakeStubTargets(names []string, prefix string) []Target {
	targets := make([]Target, 0, len(names))
	for _, name := range names {
		qualified := name
		if prefix != "" {
			qualified = prefix + "." + name
		}
		targets = append(targets, Target{Name: qualified, Sources: []string{}})
	}
	return targets
}
