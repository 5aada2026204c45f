package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFormatter_Registered(t *testing.T) {
	for _, name := range []string{"text", "json", "markdown"} {
		f, err := GetFormatter(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.Name())
	}
}

func TestGetFormatter_Unknown(t *testing.T) {
	_, err := GetFormatter("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format: "xml"`)
	assert.Contains(t, err.Error(), "json, markdown, text")
}

func TestNames_Sorted(t *testing.T) {
	names := Names()
	assert.Subset(t, names, []string{"json", "markdown", "text"})
	assert.IsNonDecreasing(t, names)
}
