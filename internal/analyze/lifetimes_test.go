package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/entrait/internal/models"
)

func TestExpandLifetimes(t *testing.T) {
	tests := []struct {
		name        string
		sig         string
		expected    string
		names       []string
		synthesized []string
	}{
		{
			name:        "receiver wins over several elided inputs",
			sig:         "fn f(&self, x: &u8) -> &u8",
			expected:    "fn f(&'entrait0 self, x: &'entrait1 u8) -> &'entrait0 u8",
			names:       []string{"'entrait0", "'entrait1"},
			synthesized: []string{"'entrait0", "'entrait1"},
		},
		{
			name:        "single elided input",
			sig:         "fn f(x: &u8) -> &u8",
			expected:    "fn f(x: &'entrait0 u8) -> &'entrait0 u8",
			names:       []string{"'entrait0"},
			synthesized: []string{"'entrait0"},
		},
		{
			name:        "ambiguous output",
			sig:         "fn f(x: &u8, y: &u8) -> &u8",
			expected:    "fn f(x: &'entrait0 u8, y: &'entrait1 u8) -> &'entrait_broken u8",
			names:       []string{"'entrait0", "'entrait1", BrokenLifetime},
			synthesized: []string{"'entrait0", "'entrait1"},
		},
		{
			name:        "anonymous lifetimes and static",
			sig:         "fn f(x: Foo<'_>, y: &'static str, g: impl Fn(&u8) -> &u8) -> Bar<'_>",
			expected:    "fn f(x: Foo<'entrait0>, y: &'static str, g: impl Fn(&u8) -> &u8) -> Bar<'entrait0>",
			names:       []string{"'entrait0"},
			synthesized: []string{"'entrait0"},
		},
		{
			name:        "user lifetimes",
			sig:         "fn f<'a>(x: &'a u8, y: &u8) -> &'a u8",
			expected:    "fn f<'a>(x: &'a u8, y: &'entrait0 u8) -> &'a u8",
			names:       []string{"'a", "'entrait0"},
			synthesized: []string{"'entrait0"},
		},
		{
			name:        "higher ranked lifetimes are not recorded",
			sig:         "fn f(x: &dyn for<'b> Tr<'b>)",
			expected:    "fn f(x: &'entrait0 dyn for<'b> Tr<'b>)",
			names:       []string{"'entrait0"},
			synthesized: []string{"'entrait0"},
		},
		{
			name:        "bare fn types are skipped",
			sig:         "fn f(cb: fn(&u8) -> &u8) -> u8",
			expected:    "fn f(cb: fn(&u8) -> &u8) -> u8",
			names:       []string{},
			synthesized: nil,
		},
		{
			name:        "nested references",
			sig:         "fn f(x: &Vec<&str>, y: (&u8, Box<dyn Tr + '_>))",
			expected:    "fn f(x: &'entrait0 Vec<&'entrait1 str>, y: (&'entrait2 u8, Box<dyn Tr + 'entrait3>))",
			names:       []string{"'entrait0", "'entrait1", "'entrait2", "'entrait3"},
			synthesized: []string{"'entrait0", "'entrait1", "'entrait2", "'entrait3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := mustSig(t, tt.sig)
			expansion := ExpandLifetimes(sig)
			assert.Equal(t, tt.expected, sig.String())
			assert.Equal(t, tt.names, expansion.Names())
			assert.Equal(t, tt.synthesized, expansion.Synthesized)
		})
	}
}

func TestExpandLifetimesSources(t *testing.T) {
	sig := mustSig(t, "fn f<'a>(&self, x: &'a u8, y: &u8) -> Foo<'b>")
	expansion := ExpandLifetimes(sig)

	assert.Equal(t, []models.EntraitLifetime{
		{Name: "'entrait0", Source: models.LifetimeSource{Kind: models.SourceReceiver}},
		{Name: "'a", Source: models.LifetimeSource{Kind: models.SourceParam, Index: 1}, UserProvided: true},
		{Name: "'entrait1", Source: models.LifetimeSource{Kind: models.SourceParam, Index: 2}},
		{Name: "'b", Source: models.LifetimeSource{Kind: models.SourceOutput}, UserProvided: true},
	}, expansion.Lifetimes)
	assert.Equal(t, []string{"'entrait0"}, expansion.ReceiverLifetimes())
}

func TestExpandLifetimesExplicitReceiver(t *testing.T) {
	sig := mustSig(t, "fn f(self: &Self) -> &u8")
	expansion := ExpandLifetimes(sig)

	assert.Equal(t, "fn f(self: &'entrait0 Self) -> &'entrait0 u8", sig.String())
	assert.Equal(t, []string{"'entrait0"}, expansion.ReceiverLifetimes())
}
