package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExclusionSet(t *testing.T) {
	set := NewExclusionSet("vendor", "src/generated/", "docs/*.py", "./tests/fixture.py", "")

	tests := []struct {
		path string
		want bool
	}{
		{path: "vendor/lib.py", want: true},
		{path: "vendor/deep/nested/x.py", want: true},
		{path: "vendorized/x.py", want: false},
		{path: "src/generated/api.py", want: true},
		{path: "src/app.py", want: false},
		{path: "docs/conf.py", want: true},
		{path: "tests/fixture.py", want: true},
		{path: `tests\fixture.py`, want: true},
		{path: "tests/other.py", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Excludes(tt.path))
		})
	}

	assert.Equal(t, 4, set.Len())
	set.Remove("vendor")
	assert.False(t, set.Excludes("vendor/lib.py"))

	var empty *ExclusionSet
	assert.False(t, empty.Excludes("anything"))
}
