package di_test

import (
	"reflect"
	"testing"

	"github.com/sghaida/odic/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// NewRegistry / Declare
// -----------------------------------------------------------------------------

// TestNewRegistry_Empty verifies NewRegistry starts without slots or defaults.
func TestNewRegistry_Empty(t *testing.T) {
	t.Parallel()

	r := di.NewRegistry()
	require.NotNil(t, r)
	assert.Empty(t, r.Slots())
	assert.Empty(t, r.Defaults())
	assert.Equal(t, 0, r.Len())
}

// TestDeclare_ChainsAndKeepsOrder verifies Declare returns the same registry and preserves insertion order.
func TestDeclare_ChainsAndKeepsOrder(t *testing.T) {
	t.Parallel()

	r := di.NewRegistry()
	ret := r.Declare("z", di.TypeOf[*A]()).Declare("a", di.Callable).Declare("m", di.Deferred)
	require.Same(t, r, ret)

	assert.Equal(t, []di.Slot{
		{Name: "z", Type: di.TypeOf[*A]()},
		{Name: "a", Type: di.Callable},
		{Name: "m", Type: di.Deferred},
	}, r.Slots())
}

// TestDeclare_RedeclareKeepsPosition verifies redeclaring a name replaces the type in place.
func TestDeclare_RedeclareKeepsPosition(t *testing.T) {
	t.Parallel()

	r := di.NewRegistry().
		Declare("a", di.TypeOf[*A]()).
		Declare("b", di.TypeOf[Buzzer]()).
		Declare("a", di.TypeOf[*C]())

	slots := r.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, "a", slots[0].Name)
	assert.Equal(t, di.TypeOf[*C](), slots[0].Type)

	got, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "*di_test.C", got.String())
}

// TestDeclare_EmptyNamePanics verifies empty slot names are rejected.
func TestDeclare_EmptyNamePanics(t *testing.T) {
	t.Parallel()

	require.PanicsWithError(t, "di: empty slot name", func() {
		di.NewRegistry().Declare("", di.Callable)
	})
	require.PanicsWithError(t, "di: empty slot name", func() {
		di.NewRegistry().Default("", &A{})
	})
}

//
// -----------------------------------------------------------------------------
// Lookup
// -----------------------------------------------------------------------------

// TestLookup_Missing verifies Lookup returns the zero Type for unknown names.
func TestLookup_Missing(t *testing.T) {
	t.Parallel()

	got, ok := di.NewRegistry().Lookup("missing")
	assert.False(t, ok)
	assert.True(t, got.IsZero())
}

//
// -----------------------------------------------------------------------------
// Default
// -----------------------------------------------------------------------------

// TestDefault_Normalizes verifies Default accepts instances, types and producers.
func TestDefault_Normalizes(t *testing.T) {
	t.Parallel()

	a := &A{}
	r := di.NewRegistry().
		Default("instance", a).
		Default("type", di.TypeOf[*A]()).
		Default("reflect", reflect.TypeFor[*B]()).
		Default("producer", func() *C { return &C{} }).
		Default("explicit", di.Instance(42))

	defaults := r.Defaults()
	assert.Equal(t, "instance(*di_test.A)", defaults["instance"].String())
	assert.Equal(t, "construct(*di_test.A)", defaults["type"].String())
	assert.Equal(t, "construct(*di_test.B)", defaults["reflect"].String())
	assert.Equal(t, "produce(func() *di_test.C)", defaults["producer"].String())
	assert.Equal(t, "instance(int)", defaults["explicit"].String())
	assert.Equal(t, "none", di.Default{}.String())
	assert.True(t, di.Default{}.IsZero())
}

// TestProduce_RejectsNonProducers verifies Produce panics for funcs that take arguments.
func TestProduce_RejectsNonProducers(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { _ = di.Produce(func(int) *A { return nil }) })
	assert.Panics(t, func() { _ = di.Produce(&A{}) })
	assert.NotPanics(t, func() { _ = di.Produce(func() (*A, error) { return nil, nil }) })
}

// TestSlotsAndDefaults_ReturnCopies verifies callers cannot mutate the registry through returned values.
func TestSlotsAndDefaults_ReturnCopies(t *testing.T) {
	t.Parallel()

	r := basicRegistry()

	slots := r.Slots()
	slots[0].Name = "mutated"

	defaults := r.Defaults()
	delete(defaults, "a")

	assert.Equal(t, "a", r.Slots()[0].Name)
	_, ok := r.Defaults()["a"]
	assert.True(t, ok)
}

// staticRegistry is a hand-written Registry, the shape generated code uses.
type staticRegistry struct{}

func (staticRegistry) Slots() []di.Slot {
	return []di.Slot{{Name: "a", Type: di.TypeOf[*A]()}}
}

func (staticRegistry) Defaults() map[string]di.Default {
	return map[string]di.Default{"a": di.ConstructOf[*A]()}
}

// TestCustomRegistry verifies any Registry implementation can back a Definition.
func TestCustomRegistry(t *testing.T) {
	t.Parallel()

	c, err := di.Implicit(staticRegistry{}).Make(nil)
	require.NoError(t, err)
	assert.IsType(t, &A{}, c.MustGet("a"))
}
