package models

import "strings"

// CrateIdents are the fully qualified paths generated code refers to.
// They are resolved once from the configured entrait path.
type CrateIdents struct {
	Entrait    string
	Core       string
	Impl       string
	Unimock    string
	AsyncTrait string
	Mockall    string
}

// NewCrateIdents builds the table rooted at the given entrait path
func NewCrateIdents(entraitPath string) CrateIdents {
	root := strings.TrimSuffix(strings.TrimSpace(entraitPath), "::")
	if root == "" {
		root = "::entrait"
	}
	return CrateIdents{
		Entrait:    root,
		Core:       "::core",
		Impl:       root + "::Impl",
		Unimock:    root + "::__unimock",
		AsyncTrait: root + "::__async_trait::async_trait",
		Mockall:    "::mockall",
	}
}

// Future is the path of the core Future trait
func (c CrateIdents) Future() string {
	return c.Core + "::future::Future"
}
