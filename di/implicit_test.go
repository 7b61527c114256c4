package di_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/sghaida/odic/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

//
// -----------------------------------------------------------------------------
// Matching
// -----------------------------------------------------------------------------

func TestImplicit_AllInstancesProvided(t *testing.T) {
	t.Parallel()

	a, b, cc := &A{}, &B{}, &C{}
	c, err := di.Implicit(basicRegistry()).Make([]any{a, b, cc})
	require.NoError(t, err)

	assertBasicTypes(t, c)
	assert.Same(t, a, c.MustGet("a"))
	assert.Same(t, b, c.MustGet("b"))
	assert.Same(t, cc, c.MustGet("c"))
}

func TestImplicit_OrderOfInputsDoesNotMatter(t *testing.T) {
	t.Parallel()

	a, b, cc := &A{}, &B{}, &C{}
	c, err := di.Implicit(basicRegistry()).Make(di.Positional{cc, b, a})
	require.NoError(t, err)

	assert.Same(t, a, c.MustGet("a"))
	assert.Same(t, b, c.MustGet("b"))
	assert.Same(t, cc, c.MustGet("c"))
}

func TestImplicit_OnlyOneInstanceProvided(t *testing.T) {
	t.Parallel()

	a := &A{ID: 5}
	c, err := di.Implicit(basicRegistry()).Make(a)
	require.NoError(t, err)

	assertBasicTypes(t, c)
	assert.Same(t, a, c.MustGet("a"))
}

func TestImplicit_NoInstancesProvided(t *testing.T) {
	t.Parallel()

	c, err := di.Implicit(basicRegistry()).Make(nil)
	require.NoError(t, err)
	assertBasicTypes(t, c)
}

func TestImplicit_SubclassInstance(t *testing.T) {
	t.Parallel()

	a, cc := &A{}, &C{}
	c, err := di.Implicit(pairRegistry()).Make([]any{a, cc})
	require.NoError(t, err)

	assert.Same(t, a, c.MustGet("a"))
	assert.Same(t, cc, c.MustGet("b"))
}

func TestImplicit_ExactMatchWinsOverAssignable(t *testing.T) {
	t.Parallel()

	// *C is assignable to Buzzer, declared first, but "exact" declares *C.
	reg := di.NewRegistry().
		Declare("iface", di.TypeOf[Buzzer]()).
		Declare("exact", di.TypeOf[*C]())

	cc := &C{}
	c, err := di.Implicit(reg).Make(cc)
	require.NoError(t, err)

	assert.Same(t, cc, c.MustGet("exact"))
	assert.False(t, c.Exists("iface"))
}

func TestImplicit_TieBreakFollowsDeclarationOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		registry *di.MapRegistry
		want     string
	}{
		{
			name: "buzzer declared first",
			registry: di.NewRegistry().
				Declare("buzzer", di.TypeOf[Buzzer]()).
				Declare("hummer", di.TypeOf[Hummer]()),
			want: "buzzer",
		},
		{
			name: "hummer declared first",
			registry: di.NewRegistry().
				Declare("hummer", di.TypeOf[Hummer]()).
				Declare("buzzer", di.TypeOf[Buzzer]()),
			want: "hummer",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b := &B{}
			c, err := di.Implicit(tc.registry).Make(b)
			require.NoError(t, err)

			assert.Equal(t, []string{tc.want}, c.Names())
			assert.Same(t, b, c.MustGet(tc.want))
		})
	}
}

func TestImplicit_SameTypeDeclaredTwiceMatchesLaterSlot(t *testing.T) {
	t.Parallel()

	reg := di.NewRegistry().
		Declare("primary", di.TypeOf[*A]()).
		Declare("replica", di.TypeOf[*A]())

	a := &A{}
	c, err := di.Implicit(reg).Make(a)
	require.NoError(t, err)

	assert.Same(t, a, c.MustGet("replica"))
	assert.False(t, c.Exists("primary"))
}

func TestImplicit_ExpectedCallableTypes(t *testing.T) {
	t.Parallel()

	reg := di.NewRegistry().
		Declare("a", di.TypeOf[*A]()).
		Declare("b", di.Callable)

	c, err := di.Implicit(reg).Make([]any{
		func() *A { return &A{ID: 1} },
		strings.ToUpper,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, di.MustGetAs[*A](c, "a").ID)

	fn, ok := c.MustGet("b").(func(string) string)
	require.True(t, ok)
	assert.Equal(t, "X", fn("x"))
}

func TestImplicit_FuncTypeExactMatch(t *testing.T) {
	t.Parallel()

	type formatter func(string) string

	reg := di.NewRegistry().
		Declare("any", di.Callable).
		Declare("format", di.TypeOf[formatter]())

	var f formatter = strings.TrimSpace
	c, err := di.Implicit(reg).Make([]any{f, strings.ToLower})
	require.NoError(t, err)

	assert.IsType(t, formatter(nil), c.MustGet("format"))
	assert.IsType(t, strings.ToLower, c.MustGet("any"))
}

func TestImplicit_ProducerInvokedOnceBeforeMatching(t *testing.T) {
	t.Parallel()

	calls := 0
	producer := func() Buzzer { calls++; return &C{} }

	c, err := di.Implicit(pairRegistry()).Make([]any{producer})
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	first := c.MustGet("b")
	second := c.MustGet("b")
	assert.Same(t, first, second)
	assert.IsType(t, &C{}, first)
	assert.Equal(t, 1, calls)
}

func TestImplicit_NamedInputsUseValuesOnly(t *testing.T) {
	t.Parallel()

	a, b := &A{}, &B{}
	c, err := di.Implicit(pairRegistry()).Make(di.Named{"whatever": b, "ignored": a})
	require.NoError(t, err)

	assert.Same(t, a, c.MustGet("a"))
	assert.Same(t, b, c.MustGet("b"))
}

func TestImplicit_TypedSliceInput(t *testing.T) {
	t.Parallel()

	c, err := di.Implicit(pairRegistry()).Make([]Buzzer{&B{}})
	require.NoError(t, err)
	assert.IsType(t, &B{}, c.MustGet("b"))
}

//
// -----------------------------------------------------------------------------
// Failures
// -----------------------------------------------------------------------------

func TestImplicit_Unresolved(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		registry *di.MapRegistry
		inputs   any
		wantPos  int
		wantType string
	}{
		{
			name:     "unsupported scalar",
			registry: di.NewRegistry().Declare("a", di.TypeOf[*A]()),
			inputs:   []any{&A{}, 10},
			wantPos:  1,
			wantType: "int",
		},
		{
			name:     "unexpected instance",
			registry: pairRegistry(),
			inputs:   []any{&A{}, &D{}},
			wantPos:  1,
			wantType: "*di_test.D",
		},
		{
			name:     "func without callable slot",
			registry: pairRegistry(),
			inputs:   []any{strings.ToUpper},
			wantPos:  0,
			wantType: "func(string) string",
		},
		{
			name:     "nil value",
			registry: pairRegistry(),
			inputs:   []any{nil},
			wantPos:  0,
			wantType: "<nil>",
		},
		{
			name:     "producer result matches nothing",
			registry: pairRegistry(),
			inputs:   []any{func() *D { return &D{} }},
			wantPos:  0,
			wantType: "*di_test.D",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := di.Implicit(tc.registry).Make(tc.inputs)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, di.ErrInvalidDependency)
			assert.Contains(t, err.Error(), "could not resolve dependency")

			var unresolved di.UnresolvedDependencyError
			require.True(t, errors.As(err, &unresolved))
			assert.Equal(t, tc.wantPos, unresolved.Position)
			assert.Equal(t, tc.wantType, unresolved.GotType)
		})
	}
}

func TestImplicit_UnresolvedAbortsBeforeDefaults(t *testing.T) {
	t.Parallel()

	calls := 0
	reg := pairRegistry().Default("b", func() Buzzer { calls++; return &B{} })

	_, err := di.Implicit(reg).Make([]any{&D{}})
	require.Error(t, err)
	assert.Equal(t, 0, calls)
}

func TestImplicit_ProducerFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := di.Implicit(pairRegistry()).Make([]any{
		func() (*A, error) { return nil, boom },
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, di.ErrProducer)
	assert.ErrorIs(t, err, boom)
}

//
// -----------------------------------------------------------------------------
// Duplicates
// -----------------------------------------------------------------------------

func TestImplicit_DuplicateMatchLastWriterWins(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	def := di.Implicit(pairRegistry(), di.WithLogger(zap.New(core)), di.WithName("pair"))

	first, second := &A{ID: 1}, &A{ID: 2}
	c, err := def.Make([]any{first, second})
	require.NoError(t, err)

	assert.Same(t, second, c.MustGet("a"))
	assert.Equal(t, 1, c.Len())

	entries := logs.FilterMessage("dependency replaced by a later input").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "pair", fields["container"])
	assert.Equal(t, "a", fields["slot"])
	assert.EqualValues(t, 1, fields["position"])
}
