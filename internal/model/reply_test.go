package model

import (
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"inline fence", "```{\"a\":1}```", `{"a":1}`},
		{"whitespace", "  \n{\"a\":1}\n ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestParseJSON(t *testing.T) {
	res, err := ParseJSON("```json\n{\"feature_index\": 2, \"confidence\": 0.9}\n```")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Get("feature_index").Int())
	assert.InDelta(t, 0.9, res.Get("confidence").Float(), 1e-9)

	_, err = ParseJSON("I think it is the calendar")
	assert.Error(t, err)

	_, err = ParseJSON("   ")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestLoadTemplateFallback(t *testing.T) {
	tpl, err := LoadTemplate("greet", "", "Hello {{.Name}}")
	require.NoError(t, err)
	out, err := Execute(tpl, map[string]string{"Name": "Alfred"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Alfred", out)
}

func TestLoadTemplateMissingFile(t *testing.T) {
	_, err := LoadTemplate("x", "/does/not/exist.tmpl", "")
	assert.Error(t, err)
}

func TestExecuteError(t *testing.T) {
	tpl := template.Must(template.New("bad").Option("missingkey=error").Parse("{{.Missing}}"))
	_, err := Execute(tpl, map[string]string{})
	assert.Error(t, err)
}
