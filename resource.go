package microservices

// ResourceInfo is free-form descriptive text about a resource: a
// name and, per HTTP method, a human readable description. It never
// affects dispatch; the documentation view is its only consumer.
type ResourceInfo struct {
	Name    string            `json:"name,omitempty"`
	Methods map[string]string `json:"methods,omitempty"`
}

type urlKind int

const (
	urlNone urlKind = iota
	urlDerived
	urlExplicit
	urlComputed
)

// CanonicalURL says whether and how a resource exposes a canonical
// URL in the documentation view. The zero value exposes none. Use
// DerivedURL to expose the path template the route was registered
// with, ExplicitURL for a fixed string, or ComputedURL for a value
// produced at render time.
type CanonicalURL struct {
	kind     urlKind
	explicit string
	compute  func() string
}

func DerivedURL() CanonicalURL {
	return CanonicalURL{kind: urlDerived}
}

func ExplicitURL(url string) CanonicalURL {
	return CanonicalURL{kind: urlExplicit, explicit: url}
}

func ComputedURL(f func() string) CanonicalURL {
	return CanonicalURL{kind: urlComputed, compute: f}
}

// Resolve returns the canonical URL for a resource registered at
// path, and whether one should be exposed at all.
func (t CanonicalURL) Resolve(path string) (string, bool) {
	switch t.kind {
	case urlDerived:
		return path, true
	case urlExplicit:
		return t.explicit, true
	case urlComputed:
		return t.compute(), true
	}
	return "", false
}

// Resource is documentation metadata attached to a route at
// registration time. Immutable after that: the router keeps the
// pointer but never writes through it.
//
// Params holds example values for URL parameters, keyed by parameter
// name, again purely for the documentation view.
type Resource struct {
	Info   ResourceInfo
	URL    CanonicalURL
	Params map[string]string
}
