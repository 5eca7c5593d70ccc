package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/models"
)

func convert(t *testing.T, src string, opts models.Options) models.EntraitSignature {
	t.Helper()
	sig := mustSig(t, src)
	deps, err := ClassifyDeps(sig, opts, models.NewGenericsAccumulator())
	require.NoError(t, err)
	out, err := ConvertSignature(sig, deps, opts)
	require.NoError(t, err)
	return out
}

func TestConvertReceiver(t *testing.T) {
	noDeps := models.DefaultOptions()
	noDeps.NoDeps = true

	tests := []struct {
		name     string
		sig      string
		opts     models.Options
		expected string
		receiver models.ReceiverGeneration
	}{
		{"generic dependency", "fn foo<A: Bar + Baz>(app: &A) -> u32", models.DefaultOptions(), "fn foo(&self) -> u32", models.ReceiverRewrite},
		{"keeps lifetime and mut", "fn foo<'a>(deps: &'a mut impl X, y: u8)", models.DefaultOptions(), "fn foo<'a>(&'a mut self, y: u8)", models.ReceiverRewrite},
		{"by value dependency", "fn foo(deps: impl X)", models.DefaultOptions(), "fn foo(&self)", models.ReceiverRewrite},
		{"concrete dependency", "fn foo(app: &App, x: &str) -> bool", models.DefaultOptions(), "fn foo(&self, x: &str) -> bool", models.ReceiverRewrite},
		{"no deps", "fn f(x: u8)", noDeps, "fn f(&self, x: u8)", models.ReceiverInsert},
		{"no deps without params", "fn f() -> u8", noDeps, "fn f(&self) -> u8", models.ReceiverInsert},
		{"trait generics leave the method", "fn foo<D: X, T: Clone>(d: &D, t: T) where D: Y, T: Send", models.DefaultOptions(), "fn foo(&self, t: T)", models.ReceiverRewrite},
		{"lifetime predicates stay", "fn f<'a, D, T>(d: &D, t: &'a T) where T: 'a, D: X, T: Clone", models.DefaultOptions(), "fn f<'a>(&self, t: &'a T) where T: 'a", models.ReceiverRewrite},
		{"inline lifetime bounds stay", "fn f<'a, T: 'a + Clone>(d: &impl X, t: &'a T)", models.DefaultOptions(), "fn f<'a>(&self, t: &'a T) where T: 'a", models.ReceiverRewrite},
		{"inline bound with lifetime argument", "fn f<'a, T: Into<&'a str>>(d: &impl X, t: T)", models.DefaultOptions(), "fn f<'a>(&self, t: T) where T: Into<&'a str>", models.ReceiverRewrite},
		{"async is kept without associated future", "async fn f(d: &impl X) -> u8", models.DefaultOptions(), "async fn f(&self) -> u8", models.ReceiverRewrite},
		{"mut binding stripped", "fn f(d: &impl X, mut n: u8)", models.DefaultOptions(), "fn f(&self, n: u8)", models.ReceiverRewrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := convert(t, tt.sig, tt.opts)
			assert.Equal(t, tt.expected, out.Sig.String())
			assert.Equal(t, tt.receiver, out.Receiver)
			assert.Nil(t, out.AssociatedFut)
		})
	}
}

func TestConvertDoesNotMutateSource(t *testing.T) {
	sig := mustSig(t, "async fn foo<D: X>(d: &D, (a, b): (u8, u8)) -> &u8")
	before := sig.String()

	opts := models.DefaultOptions()
	opts.AsyncStrategy = models.AsyncAssociatedFuture
	deps, err := ClassifyDeps(sig, opts, models.NewGenericsAccumulator())
	require.NoError(t, err)
	_, err = ConvertSignature(sig, deps, opts)
	require.NoError(t, err)

	assert.Equal(t, before, sig.String())
}

func TestConvertZeroParamsWithDependency(t *testing.T) {
	sig := mustSig(t, "fn f()")
	deps := &models.DepsGeneric{}

	_, err := ConvertSignature(sig, deps, models.DefaultOptions())
	require.Error(t, err)
	ee, ok := errors.AsEntraitError(err)
	require.True(t, ok)
	assert.Equal(t, errors.InternalErrorCode, ee.ErrorCode())

	opts := models.DefaultOptions()
	opts.AsyncStrategy = models.AsyncAssociatedFuture
	out, err := ConvertSignature(sig, deps, opts)
	require.NoError(t, err)
	assert.Equal(t, models.ReceiverInsert, out.Receiver)
	assert.Equal(t, "fn f(&self)", out.Sig.String())
}

func TestConvertAssociatedFuture(t *testing.T) {
	opts := models.DefaultOptions()
	opts.AsyncStrategy = models.AsyncAssociatedFuture

	out := convert(t, "async fn bar(deps: &impl Baz) -> i32", opts)

	assert.Equal(t, "fn bar<'entrait0>(&'entrait0 self) -> Self::Fut<'entrait0>", out.Sig.String())
	require.NotNil(t, out.AssociatedFut)
	assert.Equal(t, "Fut", out.AssociatedFut.Ident)
	assert.Equal(t,
		"type Fut<'entrait0>: ::core::future::Future<Output = i32> + Send where Self: 'entrait0;",
		out.AssociatedFut.Decl)
	assert.Equal(t,
		"type Fut<'entrait0> = impl ::core::future::Future<Output = i32> + Send where Self: 'entrait0;",
		out.AssociatedFut.Impl)
	assert.Equal(t, []models.EntraitLifetime{
		{Name: "'entrait0", Source: models.LifetimeSource{Kind: models.SourceReceiver}},
	}, out.Lifetimes)
}

func TestConvertAssociatedFutureWithoutSend(t *testing.T) {
	opts := models.DefaultOptions()
	opts.AsyncStrategy = models.AsyncAssociatedFuture
	opts.FutureSend = false

	out := convert(t, "async fn f(deps: &impl X)", opts)
	require.NotNil(t, out.AssociatedFut)
	assert.Equal(t,
		"type Fut<'entrait0>: ::core::future::Future<Output = ()> where Self: 'entrait0;",
		out.AssociatedFut.Decl)
}

func TestConvertAssociatedFutureLifetimes(t *testing.T) {
	opts := models.DefaultOptions()
	opts.AsyncStrategy = models.AsyncAssociatedFuture

	out := convert(t, "async fn f<'a>(deps: &impl X, s: &'a str, t: &u8) -> &str", opts)

	assert.Equal(t,
		"fn f<'a, 'entrait0, 'entrait1>(&'entrait0 self, s: &'a str, t: &'entrait1 u8) -> Self::Fut<'entrait0, 'a, 'entrait1>",
		out.Sig.String())
	require.NotNil(t, out.AssociatedFut)
	assert.Equal(t, []string{"'entrait0", "'a", "'entrait1"}, out.AssociatedFut.Lifetimes)
	assert.Equal(t, "&'entrait0 str", out.AssociatedFut.Output.String())
	assert.Equal(t, []models.EntraitLifetime{
		{Name: "'entrait0", Source: models.LifetimeSource{Kind: models.SourceReceiver}},
		{Name: "'a", Source: models.LifetimeSource{Kind: models.SourceParam, Index: 1}, UserProvided: true},
		{Name: "'entrait1", Source: models.LifetimeSource{Kind: models.SourceParam, Index: 2}},
	}, out.Lifetimes)
}

func TestConvertAssociatedFutureCustomIdent(t *testing.T) {
	opts := models.DefaultOptions()
	opts.AsyncStrategy = models.AsyncAssociatedFuture

	sig := mustSig(t, "async fn get_user(deps: &impl Repo, id: u32) -> User")
	deps, err := ClassifyDeps(sig, opts, models.NewGenericsAccumulator())
	require.NoError(t, err)
	out, err := ConvertSignatureWithFut(sig, deps, opts, "GetUserFut")
	require.NoError(t, err)

	assert.Equal(t, "fn get_user<'entrait0>(&'entrait0 self, id: u32) -> Self::GetUserFut<'entrait0>", out.Sig.String())
	assert.Contains(t, out.AssociatedFut.Decl, "type GetUserFut<'entrait0>:")
}

func TestConvertAssociatedFutureIgnoresSyncFns(t *testing.T) {
	opts := models.DefaultOptions()
	opts.AsyncStrategy = models.AsyncAssociatedFuture

	out := convert(t, "fn f(deps: &impl X) -> u8", opts)
	assert.Nil(t, out.AssociatedFut)
	assert.Empty(t, out.Lifetimes)
	assert.Equal(t, "fn f(&self) -> u8", out.Sig.String())
}
