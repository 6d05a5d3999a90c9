package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/peterbourgon/ff/v3"

	"pixhide/config"
	"pixhide/stegano"
	"pixhide/stegano/frame"
	"pixhide/stegano/img"
	stutil "pixhide/stegano/util"
	"pixhide/util"
)

const EnvPrefix = "PIXHIDE"

func main() {

	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		help()
		return
	}

	configFile, err := config.DefaultPath()
	if err != nil {
		fatal("Failed to get home directory:", err)
	}

	// the only command which must be handled before loading configuration
	if os.Args[1] == "initconf" {
		if err = initConf(configFile, os.Args[2:]); err != nil {
			fatal("Failed to write configuration:", err)
		}
		return
	}

	conf, err := config.LoadOrDefault(configFile)
	if err != nil {
		fatal("Failed to load configuration:", err)
	}
	logger, err := newLogger(conf, filepath.Dir(configFile))
	if err != nil {
		fatal("Failed to open log:", err)
	}
	defer logger.Close()

	args := os.Args[2:]
	switch os.Args[1] {
	case "hide":
		err = hide(conf, logger, args)
	case "reveal":
		err = reveal(conf, logger, args)
	case "capacity":
		err = capacity(conf, args)
	case "cover":
		err = cover(args)
	default:
		help()
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.LogError(err)
		logger.Close()
		fatal(describe(err))
	}
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet("pixhide "+name, flag.ContinueOnError)
}

func parse(fs *flag.FlagSet, args []string) error {
	return ff.Parse(fs, args, ff.WithEnvVarPrefix(EnvPrefix))
}

func hide(conf *config.FullConfig, logger *util.Logger, args []string) error {
	fs := newFlagSet("hide")
	var (
		in       = fs.String("in", "", "cover image (png, bmp, gif, jpeg)")
		out      = fs.String("out", "", "output image, png or bmp (default <in>_hidden.png)")
		message  = fs.String("message", "", "text to hide, - reads stdin")
		bits     = fs.Int("bits", conf.Steganography.BitsPerChannel, "bits per channel, 1..4")
		password = fs.String("password", "", "encrypt the message with this password")
		ask      = fs.Bool("ask", false, "prompt for the password")
		kdf      = fs.String("kdf", conf.Steganography.KDF, "key derivation: pbkdf2 or argon2id")
	)
	if err := parse(fs, args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("%w: -in is required", stutil.ErrValidation)
	}

	text, err := readMessage(*message)
	if err != nil {
		return err
	}
	pass, err := getPassword(*password, *ask, true)
	if err != nil {
		return err
	}

	conf.Steganography.BitsPerChannel = *bits
	conf.Steganography.KDF = *kdf
	cfg, err := conf.Embedding(pass)
	if err != nil {
		return err
	}

	dst := stegano.OutputPath(*in, *out, img.FormatFromExt("."+conf.Steganography.OutputFormat))
	start := time.Now()
	res, err := stegano.HideInFile(*in, dst, stutil.FixUnicode(text), cfg, logger)
	if err != nil {
		return err
	}
	fmt.Printf("hidden in %s: %s of %s used (%d bits per channel, %s) in %s\n",
		res.Output,
		humanize.Bytes(uint64(res.FrameBytes)),
		humanize.Bytes(uint64(res.Capacity)),
		cfg.BitsPerChannel,
		mode(cfg),
		time.Since(start).Round(time.Millisecond))
	return nil
}

func reveal(conf *config.FullConfig, logger *util.Logger, args []string) error {
	fs := newFlagSet("reveal")
	var (
		in       = fs.String("in", "", "stego image")
		bits     = fs.Int("bits", conf.Steganography.BitsPerChannel, "bits per channel used when hiding")
		password = fs.String("password", "", "password used when hiding")
		ask      = fs.Bool("ask", false, "prompt for the password")
	)
	if err := parse(fs, args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("%w: -in is required", stutil.ErrValidation)
	}
	pass, err := getPassword(*password, *ask, false)
	if err != nil {
		return err
	}

	conf.Steganography.BitsPerChannel = *bits
	cfg, err := conf.Embedding(pass)
	if err != nil {
		return err
	}
	text, err := stegano.RevealFromFile(*in, cfg, logger)
	if errors.Is(err, frame.ErrPasswordRequired) && pass == "" && !*ask {
		// give the user a chance instead of failing straight away
		if pass, err = getPassword("", true, false); err != nil {
			return err
		}
		cfg.Password = pass
		text, err = stegano.RevealFromFile(*in, cfg, logger)
	}
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func capacity(conf *config.FullConfig, args []string) error {
	fs := newFlagSet("capacity")
	var (
		in   = fs.String("in", "", "cover image")
		bits = fs.Int("bits", 0, "bits per channel, 0 lists all of them")
	)
	if err := parse(fs, args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("%w: -in is required", stutil.ErrValidation)
	}

	from, to := img.MinBitsPerChannel, img.MaxBitsPerChannel
	if *bits != 0 {
		from, to = *bits, *bits
	}
	for k := from; k <= to; k++ {
		report, err := stegano.CapacityOfFile(*in, k)
		if err != nil {
			return err
		}
		if k == from {
			fmt.Printf("%s: %dx%d pixels\n", *in, report.Width, report.Height)
		}
		fmt.Printf("  %d bit(s) per channel: %s, up to %s bytes of text, about %s characters (%s bytes with a password)\n",
			k,
			humanize.Bytes(uint64(report.Bytes)),
			humanize.Comma(int64(report.PlainText)),
			humanize.Comma(int64(report.Chars)),
			humanize.Comma(int64(report.EncryptedText)))
	}
	return nil
}

func cover(args []string) error {
	fs := newFlagSet("cover")
	var (
		out    = fs.String("out", "cover.png", "output image, png or bmp")
		width  = fs.Int("width", 100, "width in pixels")
		height = fs.Int("height", 100, "height in pixels")
		clr    = fs.String("color", "random", "#rrggbb, or random for noise")
		seed   = fs.Int64("seed", 0, "noise seed, 0 picks a random one")
	)
	if err := parse(fs, args); err != nil {
		return err
	}
	if *width <= 0 || *height <= 0 {
		return fmt.Errorf("%w: invalid size %dx%d", stutil.ErrValidation, *width, *height)
	}

	var grid *img.PixelGrid
	if strings.EqualFold(*clr, "random") {
		if *seed == 0 {
			*seed = util.RandSeed()
		}
		grid = img.NewNoiseGrid(*width, *height, *seed)
	} else {
		p, err := img.ParseColor(*clr)
		if err != nil {
			return err
		}
		grid = img.NewSolidGrid(*width, *height, p)
	}
	if err := img.Save(*out, grid); err != nil {
		return err
	}
	fmt.Printf("cover written to %s, %s at 1 bit per channel\n",
		*out, humanize.Bytes(uint64(img.Capacity(grid, 1))))
	return nil
}

func initConf(configFile string, args []string) error {
	fs := newFlagSet("initconf")
	force := fs.Bool("force", false, "overwrite an existing configuration")
	if err := parse(fs, args); err != nil {
		return err
	}
	if _, err := os.Stat(configFile); err == nil && !*force {
		return fmt.Errorf("%s already exists, use -force to overwrite it", configFile)
	}
	if err := config.SaveConfig(configFile, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Println("configuration written to", configFile)
	return nil
}

func newLogger(conf *config.FullConfig, dir string) (*util.Logger, error) {
	li := conf.Logger
	if li.Filename != "" && !filepath.IsAbs(li.Filename) {
		li.Filename = filepath.Join(dir, li.Filename)
	}
	return util.NewLogger(&li)
}

func readMessage(message string) (string, error) {
	if message != "-" {
		if message == "" {
			return "", fmt.Errorf("%w: -message is required", stutil.ErrValidation)
		}
		return message, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

func getPassword(password string, ask, confirm bool) (string, error) {
	if !ask {
		return password, nil
	}
	pass, err := util.GetPasswd("Password: ")
	if err != nil {
		return "", err
	}
	if confirm {
		again, err := util.GetPasswd("Repeat password: ")
		if err != nil {
			return "", err
		}
		if string(again) != string(pass) {
			return "", fmt.Errorf("%w: passwords do not match", stutil.ErrValidation)
		}
	}
	return string(pass), nil
}

func mode(cfg img.EmbeddingConfig) string {
	if cfg.Password == "" {
		return "plain"
	}
	return "encrypted, " + cfg.KDF.String()
}

// describe adds a hint for the errors a user can do something about.
func describe(err error) string {
	var capErr *stutil.CapacityError
	switch {
	case errors.As(err, &capErr):
		return fmt.Sprintf("%v\ntry a larger image or more bits per channel (-bits)", err)
	case errors.Is(err, stutil.ErrIntegrity):
		return fmt.Sprintf("%v\nwrong password, wrong -bits or a damaged image", err)
	case errors.Is(err, stutil.ErrNotFound):
		return fmt.Sprintf("%v\nthe image holds no message at this bits per channel", err)
	}
	return err.Error()
}

func fatal(args ...any) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func help() {
	line := `Usage: pixhide <command> [arguments]

The following commands are supported:
	hide		hide a message in an image
	reveal		read a hidden message
	capacity	show how much text an image can carry
	cover		generate a cover image
	initconf	write the default configuration to ~/.pixhide/config.yaml

Every flag can also be set as an environment variable, e.g. PIXHIDE_BITS=2.
Run pixhide <command> -h for the flags of a command.
`

	fmt.Printf("%s", line)
}
