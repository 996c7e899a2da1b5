// grid/ascii.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package grid

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Reader and writer for the ESRI ASCII grid interchange format: a short
// header (ncols, nrows, xllcorner, yllcorner, cellsize, and an optional
// nodata_value) followed by nrows*ncols whitespace-separated cell values,
// north row first.

const defaultNoData = -9999

// ReadASCII parses an ASCII grid into a float32 raster.
func ReadASCII(r io.Reader) (*Raster[float32], error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return sc.Text(), nil
	}

	var g Geometry
	noData := float32(defaultNoData)
	seen := make(map[string]bool)

	// Header: keyword/value pairs until the first bare number.
	var pending string
	for {
		tok, err := next()
		if err != nil {
			return nil, err
		}
		if _, err := strconv.ParseFloat(tok, 64); err == nil {
			pending = tok
			break
		}

		val, err := next()
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid header value %q", tok, val)
		}

		key := strings.ToLower(tok)
		seen[key] = true
		switch key {
		case "ncols":
			g.Width = int(v)
		case "nrows":
			g.Height = int(v)
		case "xllcorner":
			g.Origin[0] = v
		case "yllcorner":
			g.Origin[1] = v
		case "cellsize":
			g.CellSize = v
		case "nodata_value":
			noData = float32(v)
		default:
			return nil, fmt.Errorf("unexpected header keyword %q", tok)
		}
	}

	for _, req := range []string{"ncols", "nrows", "xllcorner", "yllcorner", "cellsize"} {
		if !seen[req] {
			return nil, fmt.Errorf("missing required header keyword %q", req)
		}
	}
	if g.Width <= 0 || g.Height <= 0 || g.CellSize <= 0 {
		return nil, fmt.Errorf("degenerate grid header: %s", g)
	}

	raster := New[float32](g, noData)
	for i := range raster.Values {
		tok := pending
		if i > 0 {
			var err error
			if tok, err = next(); err != nil {
				return nil, fmt.Errorf("cell %d of %d: %w", i, g.NumCells(), err)
			}
		}
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return nil, fmt.Errorf("cell %d: invalid value %q", i, tok)
		}
		raster.Values[i] = float32(v)
	}

	return raster, nil
}

// WriteASCII writes the raster in ASCII grid format.
func WriteASCII(w io.Writer, r *Raster[float32]) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\n", r.Width)
	fmt.Fprintf(bw, "nrows %d\n", r.Height)
	fmt.Fprintf(bw, "xllcorner %g\n", r.Origin[0])
	fmt.Fprintf(bw, "yllcorner %g\n", r.Origin[1])
	fmt.Fprintf(bw, "cellsize %g\n", r.CellSize)
	fmt.Fprintf(bw, "nodata_value %g\n", r.NoData)

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if x > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%g", r.At(x, y))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
