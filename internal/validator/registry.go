package validator

// Registry holds rules in registration order. Evaluation order is the order
// violations are reported in.
type Registry struct {
	rules []Rule
	keys  map[string]int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{keys: make(map[string]int)}
}

// Register adds a rule. Registering an existing key replaces the rule in place.
func (r *Registry) Register(rule Rule) {
	if idx, ok := r.keys[rule.RuleKey()]; ok {
		r.rules[idx] = rule
		return
	}
	r.keys[rule.RuleKey()] = len(r.rules)
	r.rules = append(r.rules, rule)
}

// Get returns the rule for a given key, or nil if not found.
func (r *Registry) Get(key string) Rule {
	idx, ok := r.keys[key]
	if !ok {
		return nil
	}
	return r.rules[idx]
}

// All returns all registered rules in order.
func (r *Registry) All() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}
