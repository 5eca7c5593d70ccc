package models

import (
	"fmt"
	"strings"
)

// AsyncStrategy selects how async trait methods are declared
type AsyncStrategy int

const (
	// AsyncNone keeps native `async fn` in the trait
	AsyncNone AsyncStrategy = iota
	// AsyncBoxFuture delegates to #[async_trait]
	AsyncBoxFuture
	// AsyncAssociatedFuture declares a generic associated future type per method
	AsyncAssociatedFuture
)

// String returns the configuration spelling of the strategy
func (s AsyncStrategy) String() string {
	switch s {
	case AsyncNone:
		return "none"
	case AsyncBoxFuture:
		return "box_future"
	case AsyncAssociatedFuture:
		return "associated_future"
	default:
		return "unknown"
	}
}

// ParseAsyncStrategy parses the configuration spelling of a strategy
func ParseAsyncStrategy(s string) (AsyncStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AsyncNone, nil
	case "box_future", "box-future":
		return AsyncBoxFuture, nil
	case "associated_future", "associated-future":
		return AsyncAssociatedFuture, nil
	}
	return AsyncNone, fmt.Errorf("unknown async strategy '%s' (expected none, box_future or associated_future)", s)
}

// DelegationKind selects how a trait-mode impl reaches the implementation
type DelegationKind int

const (
	// DelegateNone requires the wrapped type to implement the trait itself
	DelegateNone DelegationKind = iota
	// DelegateByRef goes through AsRef<dyn Trait>
	DelegateByRef
	// DelegateByBorrow goes through Borrow<dyn Trait>
	DelegateByBorrow
)

func (d DelegationKind) String() string {
	switch d {
	case DelegateNone:
		return "none"
	case DelegateByRef:
		return "ref"
	case DelegateByBorrow:
		return "borrow"
	default:
		return "unknown"
	}
}

// DepsKind discriminates the Deps variants
type DepsKind int

const (
	DepsKindGeneric DepsKind = iota
	DepsKindConcrete
	DepsKindNone
)

func (k DepsKind) String() string {
	switch k {
	case DepsKindGeneric:
		return "generic"
	case DepsKindConcrete:
		return "concrete"
	case DepsKindNone:
		return "none"
	default:
		return "unknown"
	}
}

// ReceiverGeneration records what the converter did to the first input
type ReceiverGeneration int

const (
	// ReceiverInsert prepended a synthesized `&self`
	ReceiverInsert ReceiverGeneration = iota
	// ReceiverRewrite replaced the dependency parameter with a self receiver
	ReceiverRewrite
)

func (r ReceiverGeneration) String() string {
	if r == ReceiverInsert {
		return "insert"
	}
	return "rewrite"
}

// LifetimeSourceKind is where a lifetime first appeared in a signature
type LifetimeSourceKind int

const (
	SourceReceiver LifetimeSourceKind = iota
	SourceParam
	SourceOutput
)

func (k LifetimeSourceKind) String() string {
	switch k {
	case SourceReceiver:
		return "receiver"
	case SourceParam:
		return "param"
	case SourceOutput:
		return "output"
	default:
		return "unknown"
	}
}

// ItemKind is the kind of Rust item an #[entrait] attribute sits on
type ItemKind int

const (
	ItemKindFn ItemKind = iota
	ItemKindMod
	ItemKindTrait
)

func (k ItemKind) String() string {
	switch k {
	case ItemKindFn:
		return "fn"
	case ItemKindMod:
		return "mod"
	case ItemKindTrait:
		return "trait"
	default:
		return "unknown"
	}
}
