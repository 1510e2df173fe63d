package findings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriticalityOrdering(t *testing.T) {
	ordered := []Criticality{Unmapped, Info, Low, Medium, High, Critical}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, int(ordered[i-1]), int(ordered[i]))
	}
	assert.Equal(t, UnmappedLabel, Unmapped.String())
	assert.Equal(t, "HIGH", High.String())
}

func TestCriticalityUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Criticality
		wantErr bool
	}{
		{name: "label", input: `"MEDIUM"`, want: Medium},
		{name: "unmapped label", input: `"DID NOT MATCH - INFO LOW MEDIUM HIGH CRITICAL"`, want: Unmapped},
		{name: "legacy rank", input: `5`, want: Critical},
		{name: "rank out of range", input: `9`, wantErr: true},
		{name: "unknown label", input: `"SEVERE"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Criticality
			err := json.Unmarshal([]byte(tt.input), &c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestFindingJSONShape(t *testing.T) {
	f := Finding{
		ID:          3,
		Pattern:     Pattern{ID: "foo", Description: "bar", Criticality: High, MatchText: "abc", Language: "semgrep"},
		FilePath:    "src/x.py",
		LineNumber:  1,
		SnippetText: "abc",
		Status:      StatusUnprocessed,
		Selected:    true,
	}

	data, err := json.Marshal(f)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, float64(3), raw["matchId"])
	assert.Equal(t, "src/x.py", raw["path"])
	assert.Equal(t, "abc", raw["lineContent"])
	assert.Equal(t, "unprocessed", raw["status"])
	assert.NotContains(t, raw, "Selected")
	assert.NotContains(t, raw, "comment")

	pattern := raw["pattern"].(map[string]interface{})
	assert.Equal(t, "HIGH", pattern["criticality"])
	assert.Equal(t, "abc", pattern["pattern"])
	assert.Equal(t, "semgrep", pattern["lang"])
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("falsePositive")
	require.NoError(t, err)
	assert.Equal(t, StatusFalsePositive, s)

	_, err = ParseStatus("done")
	assert.Error(t, err)
}
