package img

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unicode/utf8"

	"pixhide/cryptography"
	"pixhide/stegano/frame"
	"pixhide/stegano/util"
)

/*
 * EmbeddingConfig is passed with every call; the engine itself keeps no
 * state between calls.
 */
type EmbeddingConfig struct {
	BitsPerChannel int
	Password       string           // empty means no encryption
	KDF            cryptography.KDF // only used when embedding with a password
	Workers        int              // 0 means runtime.NumCPU()
}

func (c EmbeddingConfig) Validate() error {
	if c.BitsPerChannel < MinBitsPerChannel || c.BitsPerChannel > MaxBitsPerChannel {
		return fmt.Errorf("%w: bits per channel must be in [%d, %d], got %d",
			util.ErrConfig, MinBitsPerChannel, MaxBitsPerChannel, c.BitsPerChannel)
	}
	if !c.KDF.Valid() {
		return fmt.Errorf("%w: unknown key derivation function %d", util.ErrConfig, c.KDF)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %d", util.ErrConfig, c.Workers)
	}
	return nil
}

func (c EmbeddingConfig) workers(rows int) int {
	n := c.Workers
	if n == 0 {
		n = runtime.NumCPU()
	}
	return max(min(n, rows), 1)
}

// Embed hides text in a copy of grid. Nothing is written unless every
// check passed, and grid itself is never modified.
func Embed(grid *PixelGrid, cfg EmbeddingConfig, text string) (*PixelGrid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", util.ErrValidation)
	}
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: message is not valid UTF-8", util.ErrValidation)
	}

	data, err := frame.Build(text, cfg.Password, cfg.KDF)
	if err != nil {
		return nil, err
	}
	limit := Capacity(grid, cfg.BitsPerChannel)
	if len(data) > limit {
		return nil, &util.CapacityError{Need: len(data), Max: limit}
	}

	out := grid.Clone()
	writeBits(out, util.Pack(data), cfg)
	return out, nil
}

// Extract reads the hidden text back. A grid without a message gives
// util.ErrNotFound, a damaged message or a wrong password
// util.ErrIntegrity.
func Extract(grid *PixelGrid, cfg EmbeddingConfig) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if err := grid.Validate(); err != nil {
		return "", err
	}
	bits := readBits(grid, cfg)
	head, ok := util.Unpack(bits)
	if !ok {
		return "", fmt.Errorf("%w: no terminator", util.ErrNotFound)
	}
	return parseFrames(head, bits, cfg.Password)
}

/*
 * head ends at the first terminator, which is where nearly every frame
 * ends. a frame that holds two zero bytes itself (a NUL in the text, the
 * salt, the ciphertext) ends later, so when head does not verify the
 * parser scans the whole stream. the key derived for head is reused.
 */
func parseFrames(head []byte, bits []uint8, password string) (string, error) {
	p := frame.NewParser(password)
	text, err := p.Parse(head)
	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, frame.ErrPasswordRequired):
		return "", err
	case !errors.Is(err, util.ErrIntegrity) && !errors.Is(err, util.ErrNotFound):
		return "", err
	}
	return p.Scan(util.BytesFromBits(bits))
}

// bits carried by one full row
func rowBits(grid *PixelGrid, k int) int {
	return grid.Width * Channels * k
}

func writeBits(grid *PixelGrid, bits []uint8, cfg EmbeddingConfig) {
	k := cfg.BitsPerChannel
	perRow := rowBits(grid, k)
	rows := min((len(bits)+perRow-1)/perRow, grid.Height)

	forRows(rows, cfg.workers(rows), func(y int) {
		// rows start at fixed offsets, so they do not depend on each other
		off := y * perRow
		row := grid.Row(y)
		for x := range row {
			p := &row[x]
			off = embedChannel(&p.R, bits, off, k)
			off = embedChannel(&p.G, bits, off, k)
			off = embedChannel(&p.B, bits, off, k)
		}
	})
}

// channels past the end of the stream stay as they are
func embedChannel(c *uint8, bits []uint8, off, k int) int {
	if off >= len(bits) {
		return off
	}
	*c = SetBits(*c, bits[off:min(off+k, len(bits))], k)
	return off + k
}

func readBits(grid *PixelGrid, cfg EmbeddingConfig) []uint8 {
	k := cfg.BitsPerChannel
	perRow := rowBits(grid, k)
	bits := make([]uint8, perRow*grid.Height)

	forRows(grid.Height, cfg.workers(grid.Height), func(y int) {
		dst := bits[y*perRow : (y+1)*perRow]
		for x, p := range grid.Row(y) {
			base := x * Channels * k
			putBits(dst[base:], p.R, k)
			putBits(dst[base+k:], p.G, k)
			putBits(dst[base+2*k:], p.B, k)
		}
	})
	return bits
}

// forRows runs fn for rows [0, rows) split into contiguous blocks, one
// block per worker.
func forRows(rows, workers int, fn func(y int)) {
	if rows <= 0 {
		return
	}
	if workers <= 1 {
		for y := 0; y < rows; y++ {
			fn(y)
		}
		return
	}

	perWorker := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < rows; y0 += perWorker {
		y1 := min(y0+perWorker, rows)
		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				fn(y)
			}
		}(y0, y1)
	}
	wg.Wait()
}
