package scenario

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_DescribesFile(t *testing.T) {
	data, err := json.Marshal(Schema())
	require.NoError(t, err)

	out := string(data)
	for _, want := range []string{"simcore scenario", "vehicles", "maxAngularSpeed", "cellSize", "helicopter", "nuclear", "dismiss"} {
		assert.Contains(t, out, want)
	}
}

func TestWriteSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema", "scenario.schema.json")
	require.NoError(t, WriteSchema(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NoFileExists(t, path+".tmp")
}
