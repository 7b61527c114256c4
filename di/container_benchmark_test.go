package di_test

import (
	"testing"

	"github.com/sghaida/odic/di"
)

/*
   Benchmarks
*/

func BenchmarkExplicitMake_AllProvided(b *testing.B) {
	def := di.Explicit(basicRegistry())
	inputs := di.Named{"a": &A{}, "b": &B{}, "c": &C{}}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = def.Make(inputs)
	}
}

func BenchmarkExplicitMake_Defaults(b *testing.B) {
	def := di.Explicit(basicRegistry())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = def.Make(nil)
	}
}

func BenchmarkImplicitMake_ExactAndAssignable(b *testing.B) {
	def := di.Implicit(basicRegistry())
	inputs := di.Positional{&C{}, &B{}, &A{}}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = def.Make(inputs)
	}
}

func BenchmarkGet_Materialized(b *testing.B) {
	c := di.Explicit(basicRegistry()).MustMake(nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get("a")
	}
}

func BenchmarkGetAs_Deferred(b *testing.B) {
	reg := di.NewRegistry().
		Declare("lazy", di.Deferred).
		Default("lazy", func() *A { return &A{} })
	c := di.Explicit(reg).MustMake(nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = di.GetAs[*A](c, "lazy")
	}
}
