package generator

import (
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/syntax"
)

// CodeGenerator expands #[entrait] items into traits and delegating impls
type CodeGenerator interface {
	Expand(src string, item syntax.Item, base models.Options) (*Expansion, error)
}
