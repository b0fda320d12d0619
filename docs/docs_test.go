package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed struct {
		Swagger string                    `json:"swagger"`
		Info    map[string]any            `json:"info"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "2.0", parsed.Swagger)
	assert.Equal(t, "RiConnect local API", parsed.Info["title"])
	assert.Contains(t, parsed.Paths, "/events/{eventID}/photo")
	assert.Contains(t, parsed.Paths["/filters"], "put")
	assert.Contains(t, parsed.Paths["/filters"], "patch")
}
