package generator

import (
	"strings"

	"github.com/toyz/entrait/internal/models"
)

// mockAttrs returns the unimock and mockall attributes for a trait
func (g *Generator) mockAttrs(opts models.Options, crate models.CrateIdents, unmocked []string) []string {
	var attrs []string
	if opts.Unimock {
		args := []string{"prefix=" + crate.Unimock}
		if opts.MockAPI != "" {
			if opts.UnimockLegacy {
				args = append(args, "mod="+g.utils.ToSnakeCase(opts.MockAPI))
			} else {
				args = append(args, "api="+opts.MockAPI)
			}
		}
		if len(unmocked) > 0 {
			args = append(args, "unmocked=["+strings.Join(unmocked, ", ")+"]")
		}
		attrs = append(attrs, mockAttr(opts, crate.Unimock+"::unimock("+strings.Join(args, ", ")+")"))
	}
	if opts.Mockall {
		attrs = append(attrs, mockAttr(opts, crate.Mockall+"::automock"))
	}
	return attrs
}

// mockAttr limits a mock attribute to test builds unless mocks are exported
func mockAttr(opts models.Options, attr string) string {
	if opts.Export {
		return "#[" + attr + "]"
	}
	return "#[cfg_attr(test, " + attr + ")]"
}

// asyncTraitAttr returns the async_trait attribute for box futures, or ""
func asyncTraitAttr(opts models.Options, crate models.CrateIdents, async bool) string {
	if !async || opts.AsyncStrategy != models.AsyncBoxFuture {
		return ""
	}
	if !opts.FutureSend {
		return "#[" + crate.AsyncTrait + "(?Send)]"
	}
	return "#[" + crate.AsyncTrait + "]"
}
