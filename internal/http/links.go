package http

import (
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// DirectLink rewrites share links that render a preview page into links that
// return the file itself. Dropbox links get dl=1; other locators are
// returned trimmed but otherwise unchanged.
func DirectLink(locator string) string {
	locator = strings.TrimSpace(locator)
	u, err := url.Parse(locator)
	if err != nil || u.Host == "" {
		return locator
	}

	host := strings.ToLower(u.Hostname())
	if host == "dropbox.com" || strings.HasSuffix(host, ".dropbox.com") {
		q := u.Query()
		q.Del("raw")
		q.Set("dl", "1")
		u.RawQuery = q.Encode()
		return u.String()
	}
	return locator
}

var pageExtensions = map[string]bool{
	"":      true,
	".html": true,
	".htm":  true,
	".php":  true,
	".asp":  true,
	".aspx": true,
	".jsp":  true,
}

// FindAssetLink returns the first link in an HTML document that points at a
// file. An og:image meta tag wins over anchors and images; otherwise the
// first qualifying a[href] or img[src] in document order is used. Relative
// links are resolved against base. An empty string means nothing was found.
func FindAssetLink(r io.Reader, base *url.URL) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var ogImage, first string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if ogImage == "" && strings.EqualFold(attr(n, "property"), "og:image") {
					ogImage = resolveAsset(base, attr(n, "content"))
				}
			case "a":
				if first == "" {
					first = resolveAsset(base, attr(n, "href"))
				}
			case "img":
				if first == "" {
					first = resolveAsset(base, attr(n, "src"))
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if ogImage != "" {
		return ogImage, nil
	}
	return first, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// resolveAsset resolves ref against base and returns it when it names a
// file over http(s).
func resolveAsset(base *url.URL, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "#") {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if pageExtensions[strings.ToLower(path.Ext(u.Path))] {
		return ""
	}
	return u.String()
}
