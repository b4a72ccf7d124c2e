package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeDescriptionPlainText(t *testing.T) {
	cleaner := NewDescriptionCleaner()

	out, err := cleaner.SanitizeDescription("We are hiring   a Go engineer.\n\n\n\nApply now.")
	require.NoError(t, err)
	assert.Equal(t, "We are hiring a Go engineer.\n\nApply now.", out)
}

func TestSanitizeDescriptionStripsMarkupAndChrome(t *testing.T) {
	cleaner := NewDescriptionCleaner()

	html := `<html><head><title>Job</title><script>track()</script></head>
<body>
<nav>Home | Jobs | About</nav>
<main>
<h1>Senior Go Engineer</h1>
<p>Build and operate backend services for our hiring platform. You will own APIs end to end.</p>
</main>
<footer>Copyright</footer>
</body></html>`

	out, err := cleaner.SanitizeDescription(html)
	require.NoError(t, err)
	assert.Contains(t, out, "Senior Go Engineer")
	assert.Contains(t, out, "backend services")
	assert.NotContains(t, out, "track()")
	assert.NotContains(t, out, "Home | Jobs")
	assert.NotContains(t, out, "Copyright")
}

func TestEstimateTokens(t *testing.T) {
	cleaner := NewDescriptionCleaner()
	assert.Equal(t, 10, cleaner.EstimateTokens("0123456789012345678901234567890123456789"))
}
