package blog

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

// renderDocument converts a rich-text document tree into HTML. Unknown node
// types render their children so new CMS features degrade gracefully instead
// of failing the whole post.
func renderDocument(raw json.RawMessage, assets map[string]asset) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var root richNode
	if err := json.Unmarshal(raw, &root); err != nil {
		return "", fmt.Errorf("malformed rich-text document: %w", err)
	}
	var b strings.Builder
	renderNode(&b, root, assets)
	return b.String(), nil
}

type richNode struct {
	NodeType string     `json:"nodeType"`
	Value    string     `json:"value"`
	Marks    []richMark `json:"marks"`
	Content  []richNode `json:"content"`
	Data     richData   `json:"data"`
}

type richMark struct {
	Type string `json:"type"`
}

type richData struct {
	URI    string     `json:"uri"`
	Target *assetLink `json:"target"`
}

func renderNode(b *strings.Builder, node richNode, assets map[string]asset) {
	switch node.NodeType {
	case "text":
		renderText(b, node)
	case "paragraph":
		wrap(b, "p", node, assets)
	case "heading-1":
		wrap(b, "h1", node, assets)
	case "heading-2":
		wrap(b, "h2", node, assets)
	case "heading-3":
		wrap(b, "h3", node, assets)
	case "heading-4":
		wrap(b, "h4", node, assets)
	case "heading-5":
		wrap(b, "h5", node, assets)
	case "heading-6":
		wrap(b, "h6", node, assets)
	case "unordered-list":
		wrap(b, "ul", node, assets)
	case "ordered-list":
		wrap(b, "ol", node, assets)
	case "list-item":
		wrap(b, "li", node, assets)
	case "blockquote":
		wrap(b, "blockquote", node, assets)
	case "hr":
		b.WriteString("<hr/>")
	case "hyperlink":
		b.WriteString(`<a href="` + html.EscapeString(node.Data.URI) + `">`)
		renderChildren(b, node, assets)
		b.WriteString("</a>")
	case "embedded-asset-block":
		renderAsset(b, node, assets)
	default:
		renderChildren(b, node, assets)
	}
}

func renderChildren(b *strings.Builder, node richNode, assets map[string]asset) {
	for _, child := range node.Content {
		renderNode(b, child, assets)
	}
}

func wrap(b *strings.Builder, tag string, node richNode, assets map[string]asset) {
	b.WriteString("<" + tag + ">")
	renderChildren(b, node, assets)
	b.WriteString("</" + tag + ">")
}

func renderText(b *strings.Builder, node richNode) {
	open, close := markTags(node.Marks)
	b.WriteString(open)
	b.WriteString(html.EscapeString(node.Value))
	b.WriteString(close)
}

func markTags(marks []richMark) (string, string) {
	var open, close string
	for _, mark := range marks {
		var tag string
		switch mark.Type {
		case "bold":
			tag = "strong"
		case "italic":
			tag = "em"
		case "underline":
			tag = "u"
		case "code":
			tag = "code"
		default:
			continue
		}
		open += "<" + tag + ">"
		close = "</" + tag + ">" + close
	}
	return open, close
}

func renderAsset(b *strings.Builder, node richNode, assets map[string]asset) {
	if node.Data.Target == nil {
		return
	}
	a, ok := assets[node.Data.Target.Sys.ID]
	if !ok || a.Fields.File.URL == "" {
		return
	}
	src := html.EscapeString(toHTTPS(a.Fields.File.URL))
	alt := html.EscapeString(a.Fields.Title)
	b.WriteString(`<img src="` + src + `" alt="` + alt + `"/>`)
}
