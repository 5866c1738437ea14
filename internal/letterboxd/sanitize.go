package letterboxd

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Sanitize turns an HTML fragment into plain text: tags dropped, entities
// decoded, whitespace runs collapsed to a single space and the result trimmed.
func Sanitize(fragment string) string {
	if fragment == "" {
		return ""
	}
	text := fragment
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err == nil {
		text = doc.Text()
	}
	return strings.Join(strings.Fields(text), " ")
}
