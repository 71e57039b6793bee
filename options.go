package tablecsv

// config bundles the parameters every read needs plus the collaborators
// that aren't part of ParserParameters: currently just the Downloader used
// to fetch URL sources. Grounded on the teacher's own options pattern
// (simdcsv.go's functional Option type over its internal config struct).
type config struct {
	params     ParserParameters
	downloader Downloader
}

// Option adjusts a read's configuration. Read takes ParserParameters plus
// a variadic list of Options; ReadCSV and ReadTSV take only Options, layered
// over their own default ParserParameters. Options exist so that collaborators with no natural home in
// ParserParameters — a custom Downloader being the only one so far — don't
// have to be threaded through every signature in the package.
type Option func(*config)

// WithQuote overrides ParserParameters.Quote.
func WithQuote(q byte) Option {
	return func(c *config) { c.params.Quote = q }
}

// WithTrim overrides ParserParameters.Trim.
func WithTrim(trim bool) Option {
	return func(c *config) { c.params.Trim = trim }
}

// WithSkip overrides ParserParameters.Skip.
func WithSkip(n int) Option {
	return func(c *config) { c.params.Skip = n }
}

// WithHeader supplies explicit column names, bypassing header-row parsing.
func WithHeader(names ...string) Option {
	return func(c *config) { c.params.ColNames = append([]string(nil), names...) }
}

// WithChunkSize overrides ParserParameters.ChunkSize.
func WithChunkSize(n int) Option {
	return func(c *config) { c.params.ChunkSize = n }
}

// WithDownloader substitutes the default net/http-backed Downloader used to
// fetch URL sources, e.g. to add auth headers or retries.
func WithDownloader(d Downloader) Option {
	return func(c *config) { c.downloader = d }
}

// newOptions applies opts over base. ChunkSize is left exactly as given:
// per ParserParameters' doc, zero means "read everything into one buffer",
// not "use the package default" — callers that want chunked reads with the
// default size use defaultChunkSize or WithChunkSize explicitly (ReadCSV
// and ReadTSV do the former).
func newOptions(base ParserParameters, opts []Option) config {
	cfg := config{params: base, downloader: defaultDownloader}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
