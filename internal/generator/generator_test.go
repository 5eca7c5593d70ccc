package generator

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/parser"
	"github.com/toyz/entrait/internal/syntax"
)

// expandAll expands every annotated top-level item of src
func expandAll(t *testing.T, src string, base models.Options) ([]*Expansion, error) {
	t.Helper()
	file, err := parser.ParseFile("input.rs", src)
	require.NoError(t, err)

	gen := NewGenerator()
	var out []*Expansion
	for _, item := range file.Items {
		if !IsAnnotated(item) {
			continue
		}
		exp, err := gen.Expand(src, item, base)
		if err != nil {
			return out, err
		}
		out = append(out, exp)
	}
	return out, nil
}

func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			archive, err := txtar.ParseFile(file)
			require.NoError(t, err)

			sections := make(map[string]string)
			for _, f := range archive.Files {
				sections[f.Name] = string(f.Data)
			}
			src, ok := sections["input.rs"]
			require.True(t, ok, "archive has no input.rs")

			expansions, err := expandAll(t, src, models.DefaultOptions())
			if want, ok := sections["error"]; ok {
				require.Error(t, err)
				assert.Contains(t, err.Error(), strings.TrimSpace(want))
				return
			}
			require.NoError(t, err)

			var codes []string
			for _, exp := range expansions {
				codes = append(codes, exp.Code())
			}
			got := strings.TrimSpace(strings.Join(codes, "\n\n"))
			want := strings.TrimSpace(sections["output.rs"])
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("expansion mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpandReportsKindAndTrait(t *testing.T) {
	src := "#[entrait(Foo)]\nfn foo(deps: &impl Bar) {}\n\n#[entrait]\ntrait Baz {\n    fn baz(&self);\n}\n"
	expansions, err := expandAll(t, src, models.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, expansions, 2)

	assert.Equal(t, models.ItemKindFn, expansions[0].Kind)
	assert.Equal(t, "Foo", expansions[0].TraitIdent)
	assert.Equal(t, models.ItemKindTrait, expansions[1].Kind)
	assert.Equal(t, "Baz", expansions[1].TraitIdent)
}

func TestTraitNameDefaultsToCamelCase(t *testing.T) {
	src := "#[entrait(no_deps)]\nfn get_user_name() -> String { todo!() }\n"
	expansions, err := expandAll(t, src, models.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, expansions, 1)
	assert.Equal(t, "GetUserName", expansions[0].TraitIdent)
	assert.Contains(t, expansions[0].Generated, "trait GetUserName {")
	assert.Contains(t, expansions[0].Generated, "get_user_name()")
}

func TestModuleAssociatedFutureNames(t *testing.T) {
	src := `#[entrait(pub Api, associated_future)]
mod api {
    pub async fn get_one(deps: &impl Db) -> u8 { 1 }
    pub async fn get_two(deps: &impl Db) -> u8 { 2 }
}
`
	expansions, err := expandAll(t, src, models.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, expansions, 1)

	generated := expansions[0].Generated
	assert.Contains(t, generated, "type GetOneFut<'entrait0>:")
	assert.Contains(t, generated, "type GetTwoFut<'entrait0>:")
	assert.Contains(t, generated, "-> Self::GetOneFut<'entrait0>;")
	assert.Contains(t, generated, "api::get_two(self)\n")
}

func TestStaticWrapperBound(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "associated future with generic deps",
			src:      "#[entrait(Load, associated_future)]\nasync fn load(deps: &impl Db) -> u8 { 1 }\n",
			expected: "impl<EntraitT: Sync + 'static> Load for",
		},
		{
			name:     "associated future without deps",
			src:      "#[entrait(Load, no_deps, associated_future)]\nasync fn load() -> u8 { 1 }\n",
			expected: "impl<EntraitT: Sync> Load for",
		},
		{
			name:     "associated future on a sync fn",
			src:      "#[entrait(Load, associated_future)]\nfn load(deps: &impl Db) -> u8 { 1 }\n",
			expected: "impl<EntraitT: Sync> Load for",
		},
		{
			name:     "box future",
			src:      "#[entrait(Load, box_future)]\nasync fn load(deps: &impl Db) -> u8 { 1 }\n",
			expected: "impl<EntraitT: Sync> Load for",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expansions, err := expandAll(t, tt.src, models.DefaultOptions())
			require.NoError(t, err)
			require.Len(t, expansions, 1)
			assert.Contains(t, expansions[0].Generated, tt.expected)
		})
	}
}

func TestMockAttributes(t *testing.T) {
	gen := NewGenerator()
	crate := models.NewCrateIdents("::entrait")

	tests := []struct {
		name     string
		opts     func(o *models.Options)
		unmocked []string
		expected []string
	}{
		{
			name:     "none",
			opts:     func(o *models.Options) {},
			expected: nil,
		},
		{
			name:     "unimock with unmocked",
			opts:     func(o *models.Options) { o.Unimock = true },
			unmocked: []string{"foo"},
			expected: []string{"#[cfg_attr(test, ::entrait::__unimock::unimock(prefix=::entrait::__unimock, unmocked=[foo]))]"},
		},
		{
			name: "legacy mock module",
			opts: func(o *models.Options) {
				o.Unimock = true
				o.UnimockLegacy = true
				o.MockAPI = "FooMock"
			},
			expected: []string{"#[cfg_attr(test, ::entrait::__unimock::unimock(prefix=::entrait::__unimock, mod=foo_mock))]"},
		},
		{
			name: "exported mockall and unimock",
			opts: func(o *models.Options) {
				o.Unimock = true
				o.Mockall = true
				o.Export = true
			},
			expected: []string{
				"#[::entrait::__unimock::unimock(prefix=::entrait::__unimock)]",
				"#[::mockall::automock]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := models.DefaultOptions()
			tt.opts(&opts)
			assert.Equal(t, tt.expected, gen.mockAttrs(opts, crate, tt.unmocked))
		})
	}
}

func TestAsyncTraitAttr(t *testing.T) {
	crate := models.NewCrateIdents("::my_entrait::")
	opts := models.DefaultOptions()

	assert.Equal(t, "", asyncTraitAttr(opts, crate, true))

	opts.AsyncStrategy = models.AsyncBoxFuture
	assert.Equal(t, "", asyncTraitAttr(opts, crate, false))
	assert.Equal(t, "#[::my_entrait::__async_trait::async_trait]", asyncTraitAttr(opts, crate, true))

	opts.FutureSend = false
	assert.Equal(t, "#[::my_entrait::__async_trait::async_trait(?Send)]", asyncTraitAttr(opts, crate, true))
}

func TestCratePathIsConfigurable(t *testing.T) {
	base := models.DefaultOptions()
	base.CratePath = "crate::entrait"
	expansions, err := expandAll(t, "#[entrait(Foo)]\nfn foo(deps: &impl Bar) {}\n", base)
	require.NoError(t, err)
	require.Len(t, expansions, 1)
	assert.Contains(t, expansions[0].Generated, "for crate::entrait::Impl<EntraitT> where crate::entrait::Impl<EntraitT>: Bar")
}

func TestExpandErrorKeepsOptions(t *testing.T) {
	src := "#[entrait(Foo, debug)]\nfn foo() {}\n"
	file, err := parser.ParseFile("input.rs", src)
	require.NoError(t, err)

	exp, err := NewGenerator().Expand(src, file.Items[0], models.DefaultOptions())
	require.Error(t, err)
	require.NotNil(t, exp)
	assert.True(t, exp.Options.Debug)
	assert.Equal(t, "fn foo() {}", exp.Source)
	assert.Equal(t, "fn foo() {}", exp.Code())

	entraitErr, ok := err.(errors.EntraitError)
	require.True(t, ok)
	assert.Equal(t, errors.ShapeErrorCode, entraitErr.ErrorCode())
}

func TestExpandRejects(t *testing.T) {
	gen := NewGenerator()

	t.Run("item without attribute", func(t *testing.T) {
		src := "fn foo() {}"
		item, err := parser.ParseItem(src)
		require.NoError(t, err)
		assert.False(t, IsAnnotated(item))
		_, err = gen.Expand(src, item, models.DefaultOptions())
		require.Error(t, err)
	})

	t.Run("unsupported item", func(t *testing.T) {
		src := "#[entrait]\nstruct S;"
		item, err := parser.ParseItem(src)
		require.NoError(t, err)
		_, err = gen.Expand(src, item, models.DefaultOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported item kind")
	})

	t.Run("invalid option", func(t *testing.T) {
		src := "#[entrait(Foo, nonsense)]\nfn foo(deps: &impl Bar) {}"
		item, err := parser.ParseItem(src)
		require.NoError(t, err)
		exp, err := gen.Expand(src, item, models.DefaultOptions())
		require.Error(t, err)
		assert.Nil(t, exp)
	})

	t.Run("mutable trait receiver", func(t *testing.T) {
		src := "#[entrait]\ntrait T {\n    fn f(&mut self);\n}"
		item, err := parser.ParseItem(src)
		require.NoError(t, err)
		_, err = gen.Expand(src, item, models.DefaultOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported receiver `&mut self`")
	})

	t.Run("generic associated type", func(t *testing.T) {
		src := "#[entrait]\ntrait T {\n    type X<'a> where Self: 'a;\n}"
		item, err := parser.ParseItem(src)
		require.NoError(t, err)
		_, err = gen.Expand(src, item, models.DefaultOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "associated type `X` is not a plain declaration")
	})

	t.Run("associated const", func(t *testing.T) {
		src := "#[entrait]\ntrait T {\n    const N: usize;\n}"
		item, err := parser.ParseItem(src)
		require.NoError(t, err)
		_, err = gen.Expand(src, item, models.DefaultOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported item kind in trait `T`: const N: usize;")
	})

	t.Run("associated type through dyn", func(t *testing.T) {
		src := "#[entrait(delegate_by = Borrow)]\ntrait T {\n    type X;\n}"
		item, err := parser.ParseItem(src)
		require.NoError(t, err)
		_, err = gen.Expand(src, item, models.DefaultOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be delegated through a trait object")
	})
}

func TestStripAttribute(t *testing.T) {
	src := "    /// docs\n    #[entrait(Foo)]\n    fn foo() {}"
	item, err := parser.ParseItem(strings.TrimLeft(src, " "))
	require.NoError(t, err)
	fn := item.(*syntax.ItemFn)
	text := stripAttribute(strings.TrimLeft(src, " "), fn.Span, fn.Attrs[1])
	assert.Equal(t, "/// docs\n    fn foo() {}", text)
}
