package http

import (
	"net/url"
	"strings"
	"testing"
)

func TestDirectLink(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.dropbox.com/sh/abc/def?dl=0", "https://www.dropbox.com/sh/abc/def?dl=1"},
		{"https://www.dropbox.com/s/abc/cover.jpg?raw=1", "https://www.dropbox.com/s/abc/cover.jpg?dl=1"},
		{"  https://dropbox.com/s/x  ", "https://dropbox.com/s/x?dl=1"},
		{"https://example.com/a.jpg?dl=0", "https://example.com/a.jpg?dl=0"},
		{"not a url", "not a url"},
	}

	for _, tt := range tests {
		if got := DirectLink(tt.in); got != tt.want {
			t.Errorf("DirectLink(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindAssetLink(t *testing.T) {
	base, _ := url.Parse("https://host.example/share/page")

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "og image wins",
			doc:  `<html><head><meta property="og:image" content="https://cdn.example/og.jpg"></head><body><a href="/x.png">x</a></body></html>`,
			want: "https://cdn.example/og.jpg",
		},
		{
			name: "first file link",
			doc:  `<body><a href="#top">top</a><a href="help.html">help</a><img src="img/cover.png"><a href="/z.jpg">z</a></body>`,
			want: "https://host.example/share/img/cover.png",
		},
		{
			name: "ignores non http",
			doc:  `<body><a href="mailto:a@b.c">mail</a><a href="javascript:void(0)">js</a></body>`,
			want: "",
		},
		{
			name: "nothing",
			doc:  `<p>empty</p>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindAssetLink(strings.NewReader(tt.doc), base)
			if err != nil {
				t.Fatalf("FindAssetLink() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FindAssetLink() = %q, want %q", got, tt.want)
			}
		})
	}
}
