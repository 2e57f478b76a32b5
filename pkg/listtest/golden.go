package listtest

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/go-drift/listkit/pkg/diff"
)

// AssertGolden renders ops in script form and compares the result with
// testdata/golden/<name>.golden, relative to the calling test's package.
//
// Regenerate golden files with:
//
//	go test ./... -update
func AssertGolden[K comparable](t *testing.T, name string, ops []diff.Op[K]) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(diff.Script(ops)))
}
