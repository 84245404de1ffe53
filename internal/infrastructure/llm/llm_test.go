package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmchain/soiladvisor/pkg/errors"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, `{"a":1}`, Sanitize("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, Sanitize(`Here is the output: {"a":1}`))
	assert.Equal(t, `{"a":1}`, Sanitize("  {\"a\":1}  \n"))
}

func TestParseObject_Direct(t *testing.T) {
	obj, err := ParseObject(`{"soil_profile": {"pH": {"category": "Neutral"}}}`)
	require.NoError(t, err)
	assert.Contains(t, obj, "soil_profile")
}

func TestParseObject_Fenced(t *testing.T) {
	obj, err := ParseObject("```json\n{\"version\": \"farmchain-ai-v1.0\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "farmchain-ai-v1.0", obj["version"])
}

func TestParseObject_EmbeddedInProse(t *testing.T) {
	obj, err := ParseObject(`Sure! The classification is {"soil_profile": {}} as requested.`)
	require.NoError(t, err)
	assert.Contains(t, obj, "soil_profile")
}

func TestParseObject_Malformed(t *testing.T) {
	_, err := ParseObject("the soil looks fine to me")
	assert.True(t, errors.IsCode(err, errors.CodeLLMMalformedJSON))

	_, err = ParseObject("")
	assert.True(t, errors.IsCode(err, errors.CodeLLMMalformedJSON))

	_, err = ParseObject(`{"unterminated": `)
	assert.True(t, errors.IsCode(err, errors.CodeLLMMalformedJSON))
}
