package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNpsInvite_Spanish(t *testing.T) {
	m, err := RenderNpsInvite("es", NpsInvite{CompanyName: "Minera Norte", Name: "Ana", URL: "http://x/nps/abc"})
	require.NoError(t, err)

	assert.Equal(t, "Minera Norte | Encuesta breve (3 clics) - NPS", m.Subject)
	assert.True(t, strings.HasPrefix(m.Text, "Hola Ana,"))
	assert.Contains(t, m.Text, "Responde aquí: http://x/nps/abc")
	assert.Contains(t, m.HTML, `<a href="http://x/nps/abc">Responder encuesta</a>`)
}

func TestRenderNpsInvite_EnglishDefaultsName(t *testing.T) {
	m, err := RenderNpsInvite("en", NpsInvite{CompanyName: "Acme", URL: "http://x/nps/t"})
	require.NoError(t, err)

	assert.Equal(t, "Acme | Short survey (3 clicks) - NPS", m.Subject)
	assert.True(t, strings.HasPrefix(m.Text, "Hi Hello,"))
}

func TestRenderNpsInvite_UnknownLocaleFallsBackToSpanish(t *testing.T) {
	m, err := RenderNpsInvite("pt", NpsInvite{CompanyName: "Acme", Name: "Rui", URL: "u"})
	require.NoError(t, err)
	assert.Contains(t, m.Text, "Hola Rui")
}

func TestRenderNpsInvite_EscapesHTML(t *testing.T) {
	m, err := RenderNpsInvite("es", NpsInvite{Name: "<b>Eve</b>", URL: "http://x/nps/t"})
	require.NoError(t, err)

	assert.Contains(t, m.HTML, "&lt;b&gt;Eve&lt;/b&gt;")
	assert.Contains(t, m.Text, "<b>Eve</b>")
}
