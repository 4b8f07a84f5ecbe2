package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

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

// GetOwnText is GetText minus the text of any descendant element whose
// tag is in the exclude set. Useful when a paragraph carries trailing
// inline markers that should not count as its display text.
func GetOwnText(node *html.Node, exclude map[string]bool) string {
	var buffer bytes.Buffer
	getOwnTextRecursive(node, exclude, &buffer)
	return buffer.String()
}

func getOwnTextRecursive(node *html.Node, exclude map[string]bool, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode && exclude[node.Data] {
		return
	}
	child := node.FirstChild
	for child != nil {
		getOwnTextRecursive(child, exclude, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText strips non-printable runes, trims surrounding whitespace
// and collapses runs of inner whitespace into single spaces. Scraped
// headings tend to carry stray newlines and nbsp artifacts.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	s = innerWhitespace.ReplaceAllString(s, " ")
	return s
}
