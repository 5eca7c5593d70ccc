package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/syntax"
)

func TestParseSignatureRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"generic dependency", "fn foo<A: Bar + Baz>(app: &A) -> u32"},
		{"async impl trait", "async fn bar(deps: &impl Baz) -> i32"},
		{
			"lifetimes consts and bindings",
			"fn f<'a, T, const N: usize>(x: &'a mut [T; N], y: Option<Vec<Vec<u8>>>) -> impl Iterator<Item = &'a T> + 'a where T: Clone",
		},
		{"receiver and tuple pattern", "fn g(&self, (a, b): (u8, u16)) -> <T as Tr>::Out"},
		{"wildcard and tuple struct", "fn h(_: T, T(arg0): T)"},
		{"fn types", "fn k(f: impl Fn(&str) -> bool, g: fn(u8) -> u8, p: *const u8)"},
		{"abi", `unsafe extern "C" fn raw(x: u8)`},
		{"struct pattern", "fn s(Foo { a, b: ref mut c, .. }: Foo)"},
		{"mut receiver", "fn d(&mut self) -> &mut Self"},
		{"explicit receiver", "fn e<'a>(self: Box<Self>, x: &'a u8) -> &'a u8"},
		{"tuples and never", "fn t(x: (u8,), y: ()) -> !"},
		{"higher ranked", "fn q(x: ::std::string::String, y: &(dyn for<'a> Fn(&'a u8) + Send))"},
		{"where lifetimes", "fn w<'a, 'b: 'a, T: ?Sized>(x: &'a T, y: &'b str) where 'a: 'b, T: Send + 'static"},
		{"turbofish const arg", "fn c(x: Foo<3, { N + 1 }>, y: Bar::<u8>)"},
		{"ref pattern", "fn r(&(a, b): &(u8, u8), [x, ..]: [u8; 4])"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := ParseSignature(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.input, sig.String())

			// rendering is stable
			again, err := ParseSignature(sig.String())
			require.NoError(t, err)
			assert.Equal(t, sig.String(), again.String())
		})
	}
}

func TestParseSignatureShape(t *testing.T) {
	sig, err := ParseSignature("async fn foo<'a, A: Bar, const N: usize>(deps: &'a A, x: u8) -> u32 where A: Baz { x as u32 }")
	require.NoError(t, err)

	assert.Equal(t, "foo", sig.Ident)
	assert.True(t, sig.Asyncness)
	assert.Nil(t, sig.Receiver())
	require.Len(t, sig.Generics.Params, 3)
	assert.IsType(t, &syntax.LifetimeParam{}, sig.Generics.Params[0])
	assert.IsType(t, &syntax.TypeParam{}, sig.Generics.Params[1])
	assert.IsType(t, &syntax.ConstParam{}, sig.Generics.Params[2])
	require.Len(t, sig.Generics.Predicates(), 1)

	args := sig.TypedArgs()
	require.Len(t, args, 2)
	ref, ok := args[0].Ty.(*syntax.RefType)
	require.True(t, ok)
	assert.Equal(t, "'a", ref.Lifetime)
	assert.False(t, ref.Mut)
	assert.Equal(t, "A", ref.Elem.String())
	assert.Equal(t, 1, sig.Pos.Line)
}

func TestParseReceivers(t *testing.T) {
	tests := []struct {
		input      string
		reference  bool
		lifetime   string
		mut        bool
		mutBinding bool
		explicit   string
	}{
		{input: "fn f(self)"},
		{input: "fn f(mut self)", mutBinding: true},
		{input: "fn f(&self)", reference: true},
		{input: "fn f(&mut self)", reference: true, mut: true},
		{input: "fn f(&'a self)", reference: true, lifetime: "'a"},
		{input: "fn f(&'a mut self)", reference: true, lifetime: "'a", mut: true},
		{input: "fn f(self: Arc<Self>)", explicit: "Arc<Self>"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sig, err := ParseSignature(tt.input)
			require.NoError(t, err)
			recv := sig.Receiver()
			require.NotNil(t, recv)
			assert.Equal(t, tt.reference, recv.Reference)
			assert.Equal(t, tt.lifetime, recv.Lifetime)
			assert.Equal(t, tt.mut, recv.Mut)
			assert.Equal(t, tt.mutBinding, recv.MutBinding)
			if tt.explicit == "" {
				assert.Nil(t, recv.Explicit)
			} else {
				require.NotNil(t, recv.Explicit)
				assert.Equal(t, tt.explicit, recv.Explicit.String())
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"&'a mut T", &syntax.RefType{}},
		{"*mut u8", &syntax.PtrType{}},
		{"(T)", &syntax.ParenType{}},
		{"(A, B)", &syntax.TupleType{}},
		{"()", &syntax.TupleType{}},
		{"[u8]", &syntax.SliceType{}},
		{"[u8; 4]", &syntax.ArrayType{}},
		{"impl A + B", &syntax.ImplTraitType{}},
		{"dyn A", &syntax.TraitObjectType{}},
		{"!", &syntax.NeverType{}},
		{"_", &syntax.InferType{}},
		{"fn(u8) -> u8", &syntax.BareFnType{}},
		{"<T as Tr>::X", &syntax.PathType{}},
		{"std::vec::Vec<T>", &syntax.PathType{}},
		{"ty!(u8)", &syntax.VerbatimType{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ty, err := ParseType(tt.input)
			require.NoError(t, err)
			assert.IsType(t, tt.expected, ty)
			assert.Equal(t, tt.input, ty.String())
		})
	}
}

func TestParseTypeQualifiedSelf(t *testing.T) {
	ty, err := ParseType("<T as Tr>::X")
	require.NoError(t, err)
	pt := ty.(*syntax.PathType)
	require.NotNil(t, pt.QSelf)
	assert.Equal(t, "T", pt.QSelf.Type.String())
	require.NotNil(t, pt.QSelf.As)
	assert.Equal(t, "Tr", pt.QSelf.As.String())
	assert.Equal(t, "X", pt.Path.Ident())
}

func TestParsePathArgumentsAreNilWhenAbsent(t *testing.T) {
	ty, err := ParseType("a::b")
	require.NoError(t, err)
	pt := ty.(*syntax.PathType)
	for _, seg := range pt.Path.Segments {
		assert.Nil(t, seg.Arguments)
	}

	ty, err = ParseType("T")
	require.NoError(t, err)
	assert.True(t, ty.(*syntax.PathType).Path.IsIdent())
}

const sampleFile = `use std::fmt;

#[entrait(pub Foo, no_deps)]
/// docs
pub async fn foo(x: u8) -> u8 { x }

struct S { a: u8 }

#[entrait(pub Bar)]
mod bar {
    pub fn a(deps: &impl X) {}
    fn b() {}
}

#[entrait]
pub trait Baz<T>: Send where T: Clone {
    type Out;
    fn baz(&self, t: T) -> Self::Out;
}
`

func TestParseFile(t *testing.T) {
	file, err := ParseFile("lib.rs", sampleFile)
	require.NoError(t, err)
	require.Len(t, file.Items, 5)

	use, ok := file.Items[0].(*syntax.ItemOther)
	require.True(t, ok)
	assert.Equal(t, "use std::fmt;", use.Text)

	fn, ok := file.Items[1].(*syntax.ItemFn)
	require.True(t, ok)
	assert.Equal(t, "pub", fn.Vis)
	assert.True(t, fn.Sig.Asyncness)
	assert.Equal(t, "{ x }", fn.Body)
	require.Len(t, fn.Attrs, 2)
	assert.Equal(t, "doc", fn.Attrs[1].Path)
	assert.Equal(t, "/// docs", fn.Attrs[1].Text)
	assert.Equal(t, "entrait", fn.Attrs[0].Path)
	assert.Equal(t, "pub Foo, no_deps", fn.Attrs[0].Tokens)
	assert.Equal(t, "#[entrait(pub Foo, no_deps)]", fn.Attrs[0].Text)
	text := file.Text(fn.Span)
	assert.True(t, strings.HasPrefix(text, "#[entrait("))
	assert.True(t, strings.HasSuffix(text, "{ x }"))

	_, ok = file.Items[2].(*syntax.ItemOther)
	assert.True(t, ok)

	mod, ok := file.Items[3].(*syntax.ItemMod)
	require.True(t, ok)
	assert.Equal(t, "bar", mod.Ident)
	require.Len(t, mod.Items, 2)
	assert.Equal(t, "pub", mod.Items[0].(*syntax.ItemFn).Vis)
	assert.Equal(t, "", mod.Items[1].(*syntax.ItemFn).Vis)

	tr, ok := file.Items[4].(*syntax.ItemTrait)
	require.True(t, ok)
	assert.Equal(t, "Baz", tr.Ident)
	assert.Equal(t, "pub", tr.Vis)
	require.Len(t, tr.Generics.Params, 1)
	assert.Equal(t, "Send", syntax.JoinBounds(tr.Supertraits))
	require.Len(t, tr.Generics.Predicates(), 1)
	require.Len(t, tr.Items, 2)
	out := tr.Items[0].(*syntax.TraitItemType)
	assert.Equal(t, "type Out;", out.Text)
	assert.Equal(t, "Out", out.Ident)
	assert.True(t, out.IsPlain())
	method := tr.Items[1].(*syntax.TraitItemFn)
	assert.NotNil(t, method.Sig.Receiver())
	assert.Equal(t, "", tr.Attrs[0].Tokens)
	assert.Equal(t, '{', rune(sampleFile[tr.BodyStart]))
}

func TestParseFileLiteralsDoNotConfuseDelimiters(t *testing.T) {
	src := "fn c(x: u8) -> char { let _ = '{'; 'a' }\n" +
		"fn r() -> &'static str { r#\"}\"# }\n" +
		"fn s() -> &'static str { \"}\" }\n" +
		"fn l<'a>(x: &'a str) -> &'a str { x }\n"

	file, err := ParseFile("lit.rs", src)
	require.NoError(t, err)
	require.Len(t, file.Items, 4)
	assert.Equal(t, "{ let _ = '{'; 'a' }", file.Items[0].(*syntax.ItemFn).Body)
	assert.Equal(t, "{ r#\"}\"# }", file.Items[1].(*syntax.ItemFn).Body)
	assert.Equal(t, "l", file.Items[3].(*syntax.ItemFn).Sig.Ident)
}

func TestParseFileSkipsUnmodelledItems(t *testing.T) {
	src := `#![allow(dead_code)]
impl<T> Foo for Bar<T> where T: Clone { fn x(&self) {} }
const X: [u8; 2] = [1, 2];
macro_rules! m { () => {} }
extern "C" { fn ext(); }
pub(crate) const fn konst() -> u8 { 1 }
`
	file, err := ParseFile("skip.rs", src)
	require.NoError(t, err)
	require.Len(t, file.Items, 6)
	for i := 0; i < 5; i++ {
		assert.IsType(t, &syntax.ItemOther{}, file.Items[i], "item %d", i)
	}
	fn := file.Items[5].(*syntax.ItemFn)
	assert.Equal(t, "pub(crate)", fn.Vis)
	assert.True(t, fn.Sig.Constness)
}

func TestParseDocComments(t *testing.T) {
	src := "//! crate docs\n" +
		"/// Outer\n" +
		"//// not a doc\n" +
		"/** Block */\n" +
		"#[entrait(Foo)]\n" +
		"fn foo(deps: &impl X) {}\n"

	file, err := ParseFile("docs.rs", src)
	require.NoError(t, err)
	require.Len(t, file.Items, 2)
	assert.Equal(t, "//! crate docs", file.Items[0].(*syntax.ItemOther).Text)

	fn := file.Items[1].(*syntax.ItemFn)
	require.Len(t, fn.Attrs, 3)
	assert.Equal(t, "/// Outer", fn.Attrs[0].Text)
	assert.Equal(t, "/** Block */", fn.Attrs[1].Text)
	assert.Equal(t, "doc", fn.Attrs[1].Name())
	assert.Equal(t, "entrait", fn.Attrs[2].Name())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		parse func() error
	}{
		{"missing fn name", func() error { _, err := ParseSignature("fn (x: u8)"); return err }},
		{"unclosed params", func() error { _, err := ParseSignature("fn f(x: u8"); return err }},
		{"missing type", func() error { _, err := ParseSignature("fn f(x)"); return err }},
		{"stray brace", func() error { _, err := ParseFile("x.rs", "}"); return err }},
		{"unclosed mod", func() error { _, err := ParseFile("x.rs", "mod m { fn f() {}"); return err }},
		{"trailing tokens", func() error { _, err := ParseType("u8 u16"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse()
			require.Error(t, err)
			ee, ok := errors.AsEntraitError(err)
			require.True(t, ok)
			assert.Equal(t, errors.SyntaxErrorCode, ee.ErrorCode())
		})
	}
}
