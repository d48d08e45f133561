package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"sync"
	"unicode"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func Parse(raw string) (*html.Node, error) {
	return html.Parse(strings.NewReader(raw))
}

// GetText returns the text content of a node with all tags stripped,
// whitespace is left untouched.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var whitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText is GetText with every run of whitespace collapsed into a
// single space, non-printable characters removed and the ends trimmed.
func CleanText(node *html.Node) string {
	text := GetText(node)
	text = whitespace.ReplaceAllString(text, " ")
	text = removeNonPrintable(text)
	return strings.TrimSpace(text)
}

// Select runs a css selector against the tree under root, this is
// only needed for selectors that a Query can't express (pseudo-classes
// and combinators).
func Select(root *html.Node, selector string) *goquery.Selection {
	return goquery.NewDocumentFromNode(root).Find(selector)
}

var converter = sync.OnceValue(func() *md.Converter {
	return md.NewConverter("", true, nil)
})

// Markdown converts the contents of node (not the node itself) to markdown.
func Markdown(node *html.Node) (string, error) {
	inner, err := goquery.NewDocumentFromNode(node).Html()
	if err != nil {
		return "", err
	}
	return converter().ConvertString(inner)
}
