package extract_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognitive-shield/sentinel/internal/infrastructure/extract"
)

const page = `<!DOCTYPE html>
<html><head><title> Breaking news </title><style>body{color:red}</style></head>
<body>
  <script>var hidden = "do not read";</script>
  <h1>Shocking   outrage</h1>
  <p>Either you agree
     or you are wrong.</p>
  <img src="/img/a.png"><img src="https://cdn.example.org/b.jpg">
  <img src="/img/a.png"><img src="data:image/png;base64,AAAA"><img>
  <noscript>enable js</noscript>
</body></html>`

func TestFromHTML_TextAndImages(t *testing.T) {
	base, _ := url.Parse("https://news.example.com/story/1")
	p, err := extract.FromHTML(strings.NewReader(page), base)
	require.NoError(t, err)

	assert.Equal(t, "Breaking news", p.Title)
	assert.Equal(t, "Shocking outrage Either you agree or you are wrong.", p.Text)
	assert.Equal(t, []string{"https://news.example.com/img/a.png", "https://cdn.example.org/b.jpg"}, p.Images)
}

func TestFromHTML_RelativeImagesDroppedWithoutBase(t *testing.T) {
	p, err := extract.FromHTML(strings.NewReader(`<p>hi</p><img src="/x.png">`), nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", p.Text)
	assert.Empty(t, p.Images)
}
