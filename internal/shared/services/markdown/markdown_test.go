package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML_RendersTables(t *testing.T) {
	svc := NewService()

	out, err := svc.ToHTML("| Nye | Lukkede |\n|-----|---------|\n| 12 | 9 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>12</td>")
}

func TestToHTML_Sanitizes(t *testing.T) {
	svc := NewService()

	out, err := svc.ToHTML("Hello <script>alert(1)</script> **team**")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<strong>team</strong>")
}

func TestToDocument(t *testing.T) {
	svc := NewService()

	doc, err := svc.ToDocument("Uge 3 <2025>", "# Overskrift")
	require.NoError(t, err)
	assert.Contains(t, doc, "<title>Uge 3 &lt;2025&gt;</title>")
	assert.Contains(t, doc, "<h1>Overskrift</h1>")
	assert.Contains(t, doc, "<!DOCTYPE html>")
}
