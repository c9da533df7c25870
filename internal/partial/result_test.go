package partial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name      string
		succeeded int
		errors    map[string][]string
		want      Outcome
	}{
		{"all succeeded", 2, nil, FullSuccess},
		{"empty entity", 0, map[string][]string{}, FullSuccess},
		{"some failed", 1, map[string][]string{"b": {"missing price"}}, PartialSuccess},
		{"all failed", 0, map[string][]string{"a": {"missing price"}}, NoSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Of("product", []string{"a"}, tt.succeeded, tt.errors)
			assert.Equal(t, tt.want, r.Outcome)
			assert.Equal(t, "product", r.ID)
			assert.Equal(t, tt.want != NoSuccess, r.Value != nil)
			assert.Equal(t, tt.want != NoSuccess, r.IsSuccess())
		})
	}
}

func TestMap(t *testing.T) {
	r := Partial("p", 2, map[string][]string{"x": {"boom"}})
	mapped := Map(r, func(v int) string { return "n" + string(rune('0'+v)) })

	require.NotNil(t, mapped.Value)
	assert.Equal(t, "n2", *mapped.Value)
	assert.Equal(t, PartialSuccess, mapped.Outcome)
	assert.Equal(t, []string{"boom"}, mapped.Errors["x"])

	none := Map(None[int]("p", map[string][]string{"x": {"boom"}}), func(v int) string { return "unused" })
	assert.Nil(t, none.Value)
}

func TestMergeErrorsAndFailedIDs(t *testing.T) {
	merged := MergeErrors(
		map[string][]string{"b": {"one"}, "a": {"two"}},
		map[string][]string{"b": {"three"}},
	)

	assert.Equal(t, []string{"one", "three"}, merged["b"])
	assert.Equal(t, []string{"a", "b"}, None[int]("p", merged).FailedIDs())
}
