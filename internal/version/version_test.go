package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	tests := []struct {
		commit string
		want   string
	}{
		{"unknown", "1.2.3"},
		{"", "1.2.3"},
		{"abc", "1.2.3-abc"},
		{"0123456789abcdef", "1.2.3-0123456"},
	}
	for _, tt := range tests {
		b := BuildInfo{Version: "1.2.3", GitCommit: tt.commit}
		assert.Equal(t, tt.want, b.Short())
	}
}

func TestDescribe(t *testing.T) {
	out := Describe("pegplot")
	assert.True(t, strings.HasPrefix(out, "pegplot version "+Version))
	assert.Contains(t, out, "\nGo: ")
	assert.Contains(t, out, "\nPlatform: ")
	assert.NotContains(t, out, "Built:")
}
