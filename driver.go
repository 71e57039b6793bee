package tablecsv

import (
	"bufio"
	"context"
	"io"
)

// driver owns the buffered source and token matrix for the lifetime of a
// single read, and orchestrates header parsing, the chunk loop, type
// inference, and the date/datetime post-pass (spec.md §4.8). It is the
// single-threaded replacement for the teacher's goroutine-based
// readAllStreaming/stage1Streaming/stage2Streaming pipeline — see
// DESIGN.md for why that pipeline wasn't reusable as-is.
type driver struct {
	params ParserParameters
	src    *bufferedSource

	lineNo int
}

// Read runs a full read to completion: decompression framing, skip,
// header, chunked tokenize/infer/fill loop, and the date/datetime
// post-pass. It returns a *Frame or the first error encountered; there is
// no partial output on error (spec.md §7).
func Read(ctx context.Context, s Source, params ParserParameters, opts ...Option) (*Frame, error) {
	cfg := newOptions(params, opts)
	if err := cfg.params.validate(); err != nil {
		return nil, err
	}

	raw, closer, err := acquire(ctx, s, cfg.downloader)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer.Close()
	}

	br := bufio.NewReader(raw)
	decompressed, err := detectCompression(br)
	if err != nil {
		return nil, err
	}

	d := &driver{
		params: cfg.params,
		lineNo: 1,
	}

	if cfg.params.ChunkSize == 0 {
		all, err := io.ReadAll(decompressed)
		if err != nil {
			return nil, err
		}
		d.src = newBufferedSource(eofReader{}, len(all)+1)
		d.src.buf = append(d.src.buf[:0], all...)
		d.src.buf = d.src.buf[:cap(d.src.buf)]
		d.src.end = len(all)
		d.src.atEOF = true
	} else {
		d.src = newBufferedSource(decompressed, cfg.params.ChunkSize)
	}

	return d.run()
}

// eofReader always reports EOF; used as the (unused) upstream of a fully
// buffered, chunksize=0 read.
type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

func (d *driver) run() (*Frame, error) {
	skipped, err := d.src.skiplines(d.params.Skip)
	if err != nil {
		return nil, err
	}
	d.lineNo += skipped

	var names []string
	if d.params.ColNames != nil {
		names = append([]string(nil), d.params.ColNames...)
	} else {
		names, err = d.readHeader()
		if err != nil {
			return nil, err
		}
	}

	ncols := len(names)
	if ncols == 0 {
		return nil, errNoColumnNames
	}

	firstRowCols, err := d.probeFirstRowWidth(ncols)
	if err != nil {
		return nil, err
	}
	if firstRowCols == ncols+1 {
		names = append([]string{"UNNAMED_0"}, names...)
		ncols++
	}

	chunkRows := d.estimateChunkRows()

	frame := &Frame{names: names}
	var cols []*column
	var cls []classification

	rt := &recordTokenizer{params: d.params}
	tokens := newTokenMatrix(ncols, chunkRows)

	for !d.src.eof() {
		mem, lastnl, err := d.src.bufferLines()
		if err != nil {
			return nil, err
		}
		if lastnl < 0 {
			break // genuinely empty remainder
		}

		n, consumed, err := d.tokenizeChunk(rt, mem, lastnl, tokens, chunkRows)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			d.src.grow()
			continue
		}

		chunkCls := aggregateChunk(tokens, n)

		if cols == nil {
			cols = make([]*column, ncols)
			cls = make([]classification, ncols)
			for c := 0; c < ncols; c++ {
				cls[c] = chunkCls[c]
				typ := decideType(chunkCls[c])
				col := newColumn(typ, chunkCls[c].sawMissing())
				cols[c] = col
			}
		} else {
			for c := 0; c < ncols; c++ {
				cls[c] = cls[c].fold(uint8(chunkCls[c]))
				if !admits(cls[c], cols[c].typ) {
					return nil, &TypeGuessError{Column: names[c], Msg: "a later chunk is incompatible with the type inferred from the first chunk"}
				}
				if chunkCls[c].sawMissing() && !cols[c].nullable {
					cols[c].makeNullable()
				}
			}
		}

		for c := 0; c < ncols; c++ {
			if err := fillColumn(cols[c], mem, tokens, c, n, d.params.Quote); err != nil {
				return nil, err
			}
		}
		// Advance only after the fill: advance may compact the buffer
		// that mem and the tokens point into.
		d.src.advance(consumed)

		d.lineNo += n
	}

	if cols == nil {
		// Header-only input: zero-row string columns (spec.md §8 scenario 4).
		cols = make([]*column, ncols)
		for c := range cols {
			cols[c] = newColumn(typeString, false)
		}
	}

	frame.cols = cols
	runDateTimePostPass(frame)
	return frame, nil
}

// readHeader runs the header scanner over the first record and returns
// the (not yet renamed-for-empties) column names.
func (d *driver) readHeader() ([]string, error) {
	mem, lastnl, err := d.src.bufferLines()
	if err != nil {
		return nil, err
	}
	if lastnl < 0 {
		return nil, errNoColumnNames
	}
	newPos, htoks, err := scanHeader(mem, 0, lastnl, d.params)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(htoks))
	for i, t := range htoks {
		raw := mem[t.start : t.start+t.length]
		if t.hasEscape {
			names[i] = qstring(raw, d.params.Quote)
		} else {
			names[i] = string(raw)
		}
	}
	d.src.advance(newPos)
	return renameEmptyHeaders(names), nil
}

// probeFirstRowWidth peeks the first data record with a token matrix
// dimensioned ncols+1, to detect the "row names without header"
// convention (spec.md §4.8 step 4) without disturbing the driver's real
// position: on a mismatch we simply note the width and let the main loop
// retokenize the same bytes with the (possibly widened) column count.
func (d *driver) probeFirstRowWidth(ncols int) (int, error) {
	mem, lastnl, err := d.src.bufferLines()
	if err != nil {
		return ncols, err
	}
	if lastnl < 0 {
		return ncols, nil // no data rows at all
	}
	probe := newTokenMatrix(ncols+1, 1)
	rt := &recordTokenizer{params: d.params, allowExt: true}
	for {
		_, n, needMore, err := rt.tokenizeRecord(mem, 0, lastnl, 0, probe, d.lineNo)
		if needMore {
			d.src.grow()
			mem, lastnl, err = d.src.bufferLines()
			if err != nil {
				return ncols, err
			}
			continue
		}
		if err != nil {
			return ncols, err
		}
		return n, nil
	}
}

// estimateChunkRows counts LF bytes in the currently buffered window
// (falling back to CR count if there are no LFs) to size the token
// matrix, clamped to at least 5 rows per spec.md §4.8 step 5.
func (d *driver) estimateChunkRows() int {
	mem := d.src.mem()
	lf, cr := 0, 0
	for _, b := range mem {
		if b == byteLF {
			lf++
		} else if b == byteCR {
			cr++
		}
	}
	n := lf
	if n == 0 {
		n = cr
	}
	if n < 5 {
		n = 5
	}
	return n
}

// tokenizeChunk tokenizes up to tokens.nrows records (the matrix is first
// grown to at least wantRows) starting at the front of mem. It returns how
// many rows it filled and the offset just past them; it does not advance
// the buffered source. When a quoted field runs past lastnl it returns 0
// rows, and the caller grows the buffer and retries.
func (d *driver) tokenizeChunk(rt *recordTokenizer, mem []byte, lastnl int, tokens *tokenMatrix, wantRows int) (int, int, error) {
	tokens.growRows(wantRows)

	pos := 0
	row := 0
	for row < tokens.nrows && pos <= lastnl {
		newPos, ncolsSeen, needMore, err := rt.tokenizeRecord(mem, pos, lastnl, row, tokens, d.lineNo+row)
		if needMore {
			return 0, 0, nil // ask the caller to grow the buffer and retry
		}
		if err != nil {
			return 0, 0, err
		}
		// tokenizeRecord's emit only rejects a row for having too many
		// fields (the allowExt/growCols exception is reserved for the
		// first-row probe); a short row never errors on its own, so the
		// column-count check against the header has to happen here.
		if ncolsSeen != tokens.ncols {
			return 0, 0, &StructuralError{Line: d.lineNo + row, Want: tokens.ncols, Got: ncolsSeen}
		}
		pos = newPos
		row++
	}

	return row, pos, nil
}
