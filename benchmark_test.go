package simpledi_test

import (
	"testing"

	"github.com/junioryono/simpledi"
	"github.com/junioryono/simpledi/internal/testutil"
)

func BenchmarkResolve_Singleton(b *testing.B) {
	c := simpledi.New()
	_ = simpledi.RegisterAs[testutil.TestLogger, *testutil.TestLoggerImpl](c, simpledi.Singleton)
	_ = c.Provide(testutil.NewTestLoggerImpl)
	_, _ = simpledi.Resolve[testutil.TestLogger](c)

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		_, _ = simpledi.Resolve[testutil.TestLogger](c)
	}
}

func BenchmarkResolve_Transient(b *testing.B) {
	c := simpledi.New()
	_ = simpledi.RegisterAs[testutil.TestDatabase, *testutil.TestDatabaseImpl](c, simpledi.Transient)
	_ = c.Provide(testutil.NewTestDatabase)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = simpledi.Resolve[testutil.TestDatabase](c)
	}
}

func BenchmarkResolve_WithDependencies(b *testing.B) {
	c := simpledi.New()
	_ = c.AddModules(testutil.BasicModule)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = simpledi.Resolve[*testutil.TestServiceWithDeps](c)
	}
}

func BenchmarkResolve_Parallel(b *testing.B) {
	c := simpledi.New()
	_ = c.AddModules(testutil.BasicModule)

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = simpledi.Resolve[*testutil.TestServiceWithDeps](c)
		}
	})
}
