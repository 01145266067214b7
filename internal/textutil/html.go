package textutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// block elements end a line in the rendered description
var blockElements = "p, div, h1, h2, h3, h4, h5, h6, ul, ol, li, section, article, header, footer, tr"

// HTMLToText renders a description fragment as plain text, one paragraph or
// list item per line. List items are bulleted.
func HTMLToText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		li.PrependHtml("• ")
	})
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = CleanText(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
