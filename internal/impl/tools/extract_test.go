package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractText(t *testing.T) {
	page := `<html>
<head><title>Ignored</title><script>var x = "<p>not text</p>";</script></head>
<body>
  <header><p>Site header</p></header>
  <nav><p>Menu</p></nav>
  <article>
    <h1>Go 1.24 released</h1>
    <p>The   release adds
      generic type aliases.</p>
  </article>
  <div><p>Advertisement Buy now</p></div>
  <section>More <b>details</b> here.</section>
  <footer><p>Copyright</p></footer>
</body>
</html>`

	text := ExtractText(page)

	assert.Contains(t, text, "Go 1.24 released")
	assert.Contains(t, text, "The release adds generic type aliases.")
	assert.Contains(t, text, "Buy now")
	assert.Contains(t, text, "More details here.")
	assert.NotContains(t, text, "Advertisement")
	assert.NotContains(t, text, "Site header")
	assert.NotContains(t, text, "Menu")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "not text")
	assert.NotContains(t, text, "Ignored")
}

func TestExtractText_Capped(t *testing.T) {
	page := "<p>" + strings.Repeat("word ", 5000) + "</p>"

	text := ExtractText(page)

	assert.LessOrEqual(t, len(text), maxPageText)
	assert.True(t, strings.HasPrefix(text, "word word"))
}

func TestExtractText_NoBlocks(t *testing.T) {
	assert.Equal(t, "", ExtractText("<div>only a div</div>"))
}

func TestCleanContent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  a \n\n b\t c ", "a b c"},
		{"Sponsored Content great article", "great article"},
		{"before [ad] after", "before after"},
		{"Click here to advertise with us", "with us"},
		{"promoted   content: sponsored by Acme", ": Acme"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanContent(tt.in), tt.in)
	}
}
