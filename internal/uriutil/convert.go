// Package uriutil converts between file paths and the file:// URIs LSP
// clients send.
package uriutil

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrNotFileURI is returned for URIs with a scheme other than file.
var ErrNotFileURI = errors.New("not a file URI")

// PathToURI converts a file system path to a file:// URI. Relative paths
// are made absolute first. Windows drive paths gain a leading slash
// (C:\a -> file:///C:/a) and UNC paths keep their host
// (\\server\share -> file://server/share).
func PathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)

	u := url.URL{Scheme: "file"}
	if rest, ok := strings.CutPrefix(p, "//"); ok {
		host, tail, _ := strings.Cut(rest, "/")
		u.Host = host
		u.Path = "/" + tail
	} else {
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		u.Path = p
	}
	return u.String()
}

// URIToPath converts a file:// URI to a file system path, percent-decoding
// it and using the OS separator.
func URIToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", ErrNotFileURI
	}

	p := u.Path
	if u.Host != "" && u.Host != "localhost" {
		p = "//" + u.Host + p
	} else if hasDrive(p) {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}

// hasDrive reports whether p looks like /C:/...
func hasDrive(p string) bool {
	return len(p) >= 3 && p[0] == '/' && p[2] == ':' &&
		('a' <= p[1] && p[1] <= 'z' || 'A' <= p[1] && p[1] <= 'Z')
}
