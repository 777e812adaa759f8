package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
)

// unwantedTags are elements removed wholesale before content extraction
var unwantedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"noscript": true,
	"template": true,
	"svg":      true,
	"object":   true,
	"embed":    true,
	"header":   true,
	"footer":   true,
	"nav":      true,
	"aside":    true,
	"form":     true,
}

// unwantedClasses mark boilerplate containers: ads, navigation chrome,
// social widgets
var unwantedClasses = map[string]bool{
	"advertisement": true,
	"ad":            true,
	"banner":        true,
	"sidebar":       true,
	"menu":          true,
	"comments":      true,
	"related":       true,
	"share":         true,
	"social":        true,
}

var unwantedIDs = map[string]bool{
	"cookie-notice": true,
}

// pruneUnwanted removes boilerplate subtrees from the DOM in place
func pruneUnwanted(n *html.Node) {
	var c *html.Node
	for child := n.FirstChild; child != nil; child = c {
		c = child.NextSibling
		if isUnwanted(child) {
			n.RemoveChild(child)
			continue
		}
		pruneUnwanted(child)
	}
}

func isUnwanted(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if unwantedTags[n.Data] {
		return true
	}
	for _, attr := range n.Attr {
		switch attr.Key {
		case "class":
			for _, class := range strings.Fields(attr.Val) {
				if unwantedClasses[strings.ToLower(class)] {
					return true
				}
			}
		case "id":
			if unwantedIDs[strings.ToLower(attr.Val)] {
				return true
			}
		}
	}
	return false
}

// mainContent narrows the DOM to the page's primary content container,
// trying selectors in preference order and falling back to body, then the
// whole tree.
func mainContent(root *html.Node) *html.Node {
	selectors := []func(*html.Node) bool{
		func(n *html.Node) bool { return n.Data == "main" },
		func(n *html.Node) bool { return n.Data == "article" },
		func(n *html.Node) bool { return hasID(n, "content") },
		func(n *html.Node) bool { return hasClass(n, "content") },
		func(n *html.Node) bool { return n.Data == "body" },
	}

	for _, match := range selectors {
		if found := findNode(root, match); found != nil {
			return found
		}
	}
	return root
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func hasID(n *html.Node, id string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "id" && attr.Val == id {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
