package page

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate(t *testing.T) {
	var g Templator
	html, err := g.Template(context.Background(), Params{
		Image:   "https://kittens.example.com/img/abc",
		Model:   "dall-e-3",
		Prompt:  "A <watercolor> kitten",
		Expires: "2026-10-19T12:00:00Z",
	})
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, `src="https://kittens.example.com/img/abc"`)
	assert.Contains(t, body, "dall-e-3")
	assert.Contains(t, body, "A &lt;watercolor&gt; kitten")
	assert.NotContains(t, body, "<watercolor>")
}
