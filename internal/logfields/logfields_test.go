package logfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attrStr string
	}{
		{"Path", KeyPath, "/docs/index.md", Path("/docs/index.md").Value.String()},
		{"Root", KeyRoot, "docs", Root("docs").Value.String()},
		{"Target", KeyTarget, "api.md", Target("api.md").Value.String()},
		{"Verdict", KeyVerdict, "broken", Verdict("broken").Value.String()},
		{"RunID", KeyRunID, "abc", RunID("abc").Value.String()},
		{"URL", KeyURL, "https://example.com", URL("https://example.com").Value.String()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.attrVal, tc.attrStr)
		})
	}
}

func TestErrorHelper(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
