package assets

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Resolver supplies image bytes for the bare relative paths and URLs
// found in markup image references. It is the lookup table that binds
// markup targets back to assets when emitting a package.
type Resolver interface {
	Resolve(target string) (Asset, error)
}

// MapResolver resolves targets against an in-memory set keyed by
// filename. Extracted package assets plug straight in.
type MapResolver map[string]Asset

// Resolve implements Resolver. Both the full target and its base
// filename are tried, so "images/chart.png" matches a "chart.png" key.
func (m MapResolver) Resolve(target string) (Asset, error) {
	if a, ok := m[target]; ok {
		return a, nil
	}
	if a, ok := m[path.Base(target)]; ok {
		return a, nil
	}
	return Asset{}, fmt.Errorf("no asset for target %s", target)
}

// DirResolver resolves relative targets against a base directory on
// disk, the way image links in a markdown file resolve next to it.
type DirResolver struct {
	Dir string
}

// Resolve implements Resolver.
func (d DirResolver) Resolve(target string) (Asset, error) {
	p := target
	if !filepath.IsAbs(p) {
		p = filepath.Join(d.Dir, filepath.FromSlash(target))
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return Asset{}, fmt.Errorf("reading %s: %w", p, err)
	}
	name := path.Base(target)
	return Asset{Filename: name, Data: data, ContentType: Detect(data, name)}, nil
}

// FetchResolver resolves http(s) targets through a Fetcher.
type FetchResolver struct {
	Fetcher Fetcher
}

// Resolve implements Resolver.
func (f FetchResolver) Resolve(target string) (Asset, error) {
	data, err := f.Fetcher.Fetch(target)
	if err != nil {
		return Asset{}, err
	}
	name := path.Base(target)
	if u, err := url.Parse(target); err == nil {
		name = path.Base(u.Path)
	}
	if name == "" || name == "." || name == "/" {
		name = "image"
	}
	if path.Ext(name) == "" {
		name += ExtensionForType(Detect(data, ""))
	}
	return Asset{Filename: name, Data: data, ContentType: Detect(data, name)}, nil
}

// CompositeResolver routes remote targets to a FetchResolver and
// everything else to a local resolver.
type CompositeResolver struct {
	Local  Resolver
	Remote Resolver
}

// Resolve implements Resolver.
func (c CompositeResolver) Resolve(target string) (Asset, error) {
	if isRemote(target) {
		if c.Remote == nil {
			return Asset{}, fmt.Errorf("%w: no fetcher configured for %s", ErrNetwork, target)
		}
		return c.Remote.Resolve(target)
	}
	if c.Local == nil {
		return Asset{}, fmt.Errorf("no local resolver for target %s", target)
	}
	return c.Local.Resolve(target)
}

func isRemote(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// NewDefaultResolver resolves local targets relative to dir and
// remote targets through fetcher. A nil fetcher disables remote
// resolution.
func NewDefaultResolver(dir string, fetcher Fetcher) Resolver {
	c := CompositeResolver{Local: DirResolver{Dir: dir}}
	if fetcher != nil {
		c.Remote = FetchResolver{Fetcher: fetcher}
	}
	return c
}
