package models

// Options is the resolved configuration for one annotated item: the
// #[entrait(...)] arguments layered over the project configuration.
type Options struct {
	// TraitVis is the visibility written before the trait name, e.g. `pub`
	TraitVis string
	// TraitIdent is the trait name; derived from the fn name when empty
	TraitIdent string

	NoDeps        bool
	Debug         bool
	AsyncStrategy AsyncStrategy
	// FutureSend adds `Send` to generated futures; `?Send` turns it off
	FutureSend bool

	Export  bool
	Unimock bool
	Mockall bool
	// MockAPI is the unimock mock API identifier
	MockAPI string
	// UnimockLegacy selects the pre 0.5 `mod=` keyword for MockAPI
	UnimockLegacy bool

	Delegation DelegationKind

	// CratePath is the path the generated code uses for entrait itself
	CratePath string
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		AsyncStrategy: AsyncNone,
		FutureSend:    true,
		CratePath:     "::entrait",
	}
}

// MockingEnabled reports whether any mock attribute will be generated
func (o Options) MockingEnabled() bool {
	return o.Unimock || o.Mockall
}
