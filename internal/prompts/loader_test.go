package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_AssistPrompts(t *testing.T) {
	for _, key := range []string{KeySummary, KeyBullets, KeyRewrite, KeySkills, KeyTailor, KeyExtract} {
		prompt, err := Get(AssistFile, key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, prompt, key)
	}
}

func TestGet_Errors(t *testing.T) {
	_, err := Get("nonexistent.json", KeySummary)
	assert.ErrorContains(t, err, "read prompt file")

	_, err = Get(AssistFile, "nonexistent-key")
	assert.ErrorContains(t, err, "not found")
}

func TestRender(t *testing.T) {
	prompt, err := Render(AssistFile, KeyBullets, map[string]string{"Role": "Data Engineer", "Company": "Acme"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Role: Data Engineer")
	assert.NotContains(t, prompt, "{{")

	_, err = Render(AssistFile, KeyBullets, map[string]string{"Role": "Data Engineer"})
	assert.ErrorContains(t, err, `"Company"`)

	_, err = Render(AssistFile, "nope", nil)
	assert.ErrorContains(t, err, "not found")
}

func TestRender_ValuesAreNotExpanded(t *testing.T) {
	prompt, err := Render(AssistFile, KeyRewrite, map[string]string{
		"Role": "SRE",
		"Text": "{{.Role}} and {{ template }}",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Role}} and {{ template }}")
}

func TestList(t *testing.T) {
	keys, err := List(AssistFile)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyExtract, KeyBullets, KeySummary, KeyRewrite, KeySkills, KeyTailor}, keys)

	_, err = List("missing.json")
	assert.Error(t, err)
}

func TestLoad_Cached(t *testing.T) {
	first, err := load(AssistFile)
	require.NoError(t, err)
	second, err := load(AssistFile)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
