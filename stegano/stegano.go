/*
Package stegano connects image files to the embedding engine: it loads a
cover, hides or reveals a message and writes the result.
*/
package stegano

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"pixhide/stegano/frame"
	"pixhide/stegano/img"
	"pixhide/util"
)

type HideResult struct {
	Output     string
	Format     img.Format
	FrameBytes int // frame length without the terminator
	Capacity   int
}

type CapacityReport struct {
	Width          int
	Height         int
	BitsPerChannel int
	Bytes          int // frame bytes the image can carry
	PlainText      int // longest text in bytes without a password
	Chars          int // rough character count, two bytes per character
	EncryptedText  int // longest text in bytes with a password
}

// OutputFormat classifies a destination path. Only lossless formats
// are accepted because anything else destroys the hidden bits.
func OutputFormat(path string) (img.Format, error) {
	format := img.FormatFromExt(path)
	if !format.Lossless() {
		return format, fmt.Errorf("%w: %s (use .png or .bmp)", img.ErrUnsupportedFormat, path)
	}
	return format, nil
}

// OutputPath picks where a stego image goes. Without dst the result is
// written next to src, and a dst without extension gets the fallback one.
func OutputPath(src, dst string, fallback img.Format) string {
	if dst == "" {
		dst = util.OutputFilename(src)
		if fallback == img.PNG || fallback == img.UnknownFormat {
			return dst
		}
		return dst[:len(dst)-len(filepath.Ext(dst))] + "." + fallback.String()
	}
	if filepath.Ext(dst) == "" {
		if fallback == img.UnknownFormat {
			fallback = img.PNG
		}
		return dst + "." + fallback.String()
	}
	return dst
}

func nopIfNil(logger *util.Logger) *util.Logger {
	if logger == nil {
		return util.NewNopLogger()
	}
	return logger
}

// HideInFile embeds text into the image at src and saves the result to
// dst. Nothing is written unless embedding succeeded.
func HideInFile(src, dst, text string, cfg img.EmbeddingConfig, logger *util.Logger) (HideResult, error) {
	logger = nopIfNil(logger)
	res := HideResult{Output: dst}

	format, err := OutputFormat(dst)
	if err != nil {
		return res, err
	}
	res.Format = format

	cover, err := img.Load(src)
	if err != nil {
		return res, err
	}
	res.Capacity = img.Capacity(cover, cfg.BitsPerChannel)
	res.FrameBytes = frame.Len(len(text), cfg.Password != "")
	logger.LogInfo("cover loaded",
		zap.String("file", src),
		zap.Int("width", cover.Width),
		zap.Int("height", cover.Height),
		zap.Int("capacity", res.Capacity))

	stego, err := img.Embed(cover, cfg, text)
	if err != nil {
		return res, err
	}
	if err := img.Save(dst, stego); err != nil {
		return res, err
	}

	logger.LogInfo("message hidden",
		zap.String("file", dst),
		zap.Int("frame_bytes", res.FrameBytes),
		zap.Int("bits_per_channel", cfg.BitsPerChannel),
		zap.Bool("encrypted", cfg.Password != ""))
	if float64(res.FrameBytes) > 0.9*float64(res.Capacity) {
		logger.LogWarning("image is almost full, changes may be easier to spot",
			zap.Int("frame_bytes", res.FrameBytes),
			zap.Int("capacity", res.Capacity))
	}
	return res, nil
}

// RevealFromFile reads the message hidden in the image at path.
func RevealFromFile(path string, cfg img.EmbeddingConfig, logger *util.Logger) (string, error) {
	logger = nopIfNil(logger)

	grid, err := img.Load(path)
	if err != nil {
		return "", err
	}
	text, err := img.Extract(grid, cfg)
	if err != nil {
		return "", err
	}
	logger.LogInfo("message revealed",
		zap.String("file", path),
		zap.Int("bytes", len(text)),
		zap.Int("bits_per_channel", cfg.BitsPerChannel))
	return text, nil
}

// CapacityOfFile reports how much text the image at path can carry.
func CapacityOfFile(path string, k int) (CapacityReport, error) {
	if err := (img.EmbeddingConfig{BitsPerChannel: k}).Validate(); err != nil {
		return CapacityReport{}, err
	}
	grid, err := img.Load(path)
	if err != nil {
		return CapacityReport{}, err
	}
	return CapacityReport{
		Width:          grid.Width,
		Height:         grid.Height,
		BitsPerChannel: k,
		Bytes:          img.Capacity(grid, k),
		PlainText:      img.MaxTextBytes(grid.Width, grid.Height, k, false),
		Chars:          img.MaxChars(grid.Width, grid.Height, k),
		EncryptedText:  img.MaxTextBytes(grid.Width, grid.Height, k, true),
	}, nil
}

