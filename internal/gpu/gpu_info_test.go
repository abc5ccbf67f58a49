package gpu

import (
	"encoding/json"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoMemoryGB(t *testing.T) {
	info := Info{MemorySize: lo.ToPtr(uint64(48 * 1024 * 1024 * 1024))}

	gb, ok := info.MemoryGB()
	assert.True(t, ok)
	assert.Equal(t, 48.0, gb)

	_, ok = Info{}.MemoryGB()
	assert.False(t, ok)
}

func TestInfoJSONOmitsAbsentFields(t *testing.T) {
	data, err := json.Marshal(Unknown())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Equal(t, UnknownName, fields["name"])
	assert.Contains(t, fields, "timestamp")
	assert.Len(t, fields, 2)
}
