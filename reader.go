package tablecsv

import "context"

// ReadCSV reads a comma-delimited source. It is a thin convenience wrapper
// over Read, fixing Delim to ',' and defaulting Quote to '"', Trim to
// true, and ChunkSize to defaultChunkSize (1 MiB) — all still overridable
// via Option or WithChunkSize(0) for an unchunked, whole-buffer read.
func ReadCSV(ctx context.Context, src Source, opts ...Option) (*Frame, error) {
	return Read(ctx, src, defaultEntryPointParams(','), opts...)
}

// ReadTSV reads a tab-delimited source, otherwise identical to ReadCSV.
func ReadTSV(ctx context.Context, src Source, opts ...Option) (*Frame, error) {
	return Read(ctx, src, defaultEntryPointParams('\t'), opts...)
}

// defaultEntryPointParams builds the ParserParameters ReadCSV/ReadTSV start
// from, per spec.md §6's documented defaults for the delim-fixed entry
// points (quot '"', trim true, chunksize 1 MiB).
func defaultEntryPointParams(delim byte) ParserParameters {
	return ParserParameters{
		Delim:     delim,
		Quote:     '"',
		Trim:      true,
		ChunkSize: defaultChunkSize,
	}
}
