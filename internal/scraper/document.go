package scraper

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const productLinkPrefix = "/ref/"

// walk 深度优先遍历元素节点
func walk(n *html.Node, visit func(*html.Node)) {
	if n == nil {
		return
	}
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
	}
	return buf.String()
}

// ProductLinks 收集 href 以 /ref/ 开头的链接，去掉锚点、补全为绝对地址并去重，最多 limit 条
func ProductLinks(doc *html.Node, base *url.URL, limit int) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	walk(doc, func(n *html.Node) {
		if limit > 0 && len(out) >= limit {
			return
		}
		if n.DataAtom != atom.A {
			return
		}
		href := attr(n, "href")
		if !strings.HasPrefix(href, productLinkPrefix) {
			return
		}
		if idx := strings.Index(href, "#"); idx >= 0 {
			href = href[:idx]
		}
		if href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		full := ref.String()
		if base != nil {
			full = base.ResolveReference(ref).String()
		}
		if _, ok := seen[full]; ok {
			return
		}
		seen[full] = struct{}{}
		out = append(out, full)
	})
	return out
}

// ProductBlocks 提取页面内所有 JSON-LD 中 @type 为 Product 的对象
// 支持顶层对象、对象数组以及 @graph 列表，无法解析的脚本跳过
func ProductBlocks(doc *html.Node) []map[string]interface{} {
	found := make([]map[string]interface{}, 0)
	walk(doc, func(n *html.Node) {
		if n.DataAtom != atom.Script || !strings.EqualFold(strings.TrimSpace(attr(n, "type")), "application/ld+json") {
			return
		}
		raw := strings.TrimSpace(textContent(n))
		if raw == "" {
			return
		}
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		var data interface{}
		if err := dec.Decode(&data); err != nil {
			return
		}
		found = append(found, productsIn(data)...)
	})
	return found
}

func productsIn(data interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0)
	switch v := data.(type) {
	case map[string]interface{}:
		if isProduct(v) {
			out = append(out, v)
		}
		if graph, ok := v["@graph"].([]interface{}); ok {
			for _, item := range graph {
				if obj, ok := item.(map[string]interface{}); ok && isProduct(obj) {
					out = append(out, obj)
				}
			}
		}
	case []interface{}:
		for _, item := range v {
			if obj, ok := item.(map[string]interface{}); ok && isProduct(obj) {
				out = append(out, obj)
			}
		}
	}
	return out
}

func isProduct(obj map[string]interface{}) bool {
	t, _ := obj["@type"].(string)
	return t == "Product"
}
