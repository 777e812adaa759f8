package marklab

import "github.com/marklab/marklab/fetch"

// convertOptions holds conversion configuration
type convertOptions struct {
	baseURL      string
	selectMain   bool
	prune        bool
	collectLinks bool
	chunkSize    int
	chunkOverlap int
	fetchConfig  fetch.Config
	client       *fetch.Client
}

// defaultConvertOptions returns the default conversion options
func defaultConvertOptions() convertOptions {
	return convertOptions{
		selectMain:   true,
		prune:        true,
		collectLinks: true,
		chunkSize:    1000,
		chunkOverlap: 200,
		fetchConfig:  fetch.DefaultConfig(),
	}
}

// BaseURL sets the URL used to resolve relative links and images. FromURL
// sets this automatically; use it with FromHTML or FromFile.
func (c *Converter) BaseURL(url string) *Converter {
	c.options.baseURL = url
	return c
}

// KeepBoilerplate disables removal of scripts, navigation, and ad containers
func (c *Converter) KeepBoilerplate() *Converter {
	c.options.prune = false
	return c
}

// FullPage extracts from the whole body instead of narrowing to the main
// content container
func (c *Converter) FullPage() *Converter {
	c.options.selectMain = false
	return c
}

// SkipLinks disables hyperlink collection
func (c *Converter) SkipLinks() *Converter {
	c.options.collectLinks = false
	return c
}

// ChunkOptions sets the chunk size and overlap (in characters) used by
// Chunks. Invalid combinations surface as an error from Chunks.
func (c *Converter) ChunkOptions(size, overlap int) *Converter {
	c.options.chunkSize = size
	c.options.chunkOverlap = overlap
	return c
}

// FetchConfig replaces the network configuration used when the source is a
// URL
func (c *Converter) FetchConfig(config fetch.Config) *Converter {
	c.options.fetchConfig = config
	return c
}

// Client uses an existing fetch client (for example one with an attached
// cache) instead of constructing one from the fetch configuration
func (c *Converter) Client(client *fetch.Client) *Converter {
	c.options.client = client
	return c
}
