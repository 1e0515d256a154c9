package heads

// Parser converts the source page into a Store.
type Parser interface {
	// Parse walks the first wikitable of the page and returns the states
	// found in it. A page without such a table yields an empty store and no
	// error.
	//
	// A structurally inconsistent table stops the walk with an EMALFORMED
	// error. The store is still returned and holds the states committed
	// before the offending row.
	Parse(html string) (*Store, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}
