package metrics

// Attribute keys attached to instruments. Path values are route templates, never raw URLs.
const (
	AttrMethod   = "method"
	AttrPath     = "path"
	AttrStatus   = "status"
	AttrProvider = "provider"
	AttrSlug     = "slug"
)
