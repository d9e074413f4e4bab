package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/cristianadrielbraun/qrlogo/internal/compositor"
	"github.com/cristianadrielbraun/qrlogo/internal/config"
	"github.com/cristianadrielbraun/qrlogo/internal/export"
	"github.com/cristianadrielbraun/qrlogo/internal/logger"
	"github.com/cristianadrielbraun/qrlogo/internal/pipeline"
	"github.com/cristianadrielbraun/qrlogo/internal/qr"
	"github.com/mdp/qrterminal/v3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateOptions struct {
	text     string
	color    string
	logo     string
	out      string
	size     int
	shape    string
	level    string
	encoder  string
	terminal bool
	verbose  bool
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a QR code to an image file",
		Example: `  qrlogo generate --text https://example.com --logo logo.svg
  qrlogo generate --text hello --color "#000000" --shape circle --out hello.png --terminal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.text, "text", "t", "", "text or URL to encode")
	f.StringVarP(&opts.color, "color", "c", "", "module color as #rrggbb (default from QR_DEFAULT_COLOR)")
	f.StringVarP(&opts.logo, "logo", "l", "", "logo image to place in the center")
	f.StringVarP(&opts.out, "out", "o", "", `output file, .png or .jpg (default "QR code <brand>.png")`)
	f.IntVar(&opts.size, "size", 0, "edge length in pixels (default from QR_SIZE)")
	f.StringVar(&opts.shape, "shape", string(qr.ShapeSquare), "module shape: square, circle, liquid, chain, hstripe, vstripe")
	f.StringVar(&opts.level, "level", "", "error correction level L, M, Q or H (default from QR_LEVEL)")
	f.StringVar(&opts.encoder, "encoder", "", "QR encoder, yeqown or skip2 (default from QR_ENCODER)")
	f.BoolVar(&opts.terminal, "terminal", false, "also print the code to the terminal")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline details")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOptions) error {
	if opts.text == "" {
		return apperror.ErrEmptyPayload
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if opts.size > 0 {
		cfg.QRSize = opts.size
	}
	if opts.level != "" {
		cfg.Level = strings.ToUpper(opts.level)
	}
	if opts.encoder != "" {
		cfg.Encoder = strings.ToLower(opts.encoder)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := zap.NewNop()
	if opts.verbose {
		if log, err = logger.New("debug", false); err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
	}

	gen, err := pipeline.FromConfig(cfg, log)
	if err != nil {
		return err
	}

	var logo *compositor.Logo
	if opts.logo != "" {
		data, err := os.ReadFile(opts.logo)
		if err != nil {
			return apperror.Wrap(apperror.ErrImageDecode, errors.Wrapf(err, "read %s", opts.logo))
		}
		if logo, err = compositor.DecodeLogo(data); err != nil {
			return err
		}
	}

	shape := qr.Shape(strings.ToLower(opts.shape))
	if !shape.Valid() {
		return errors.Errorf("unknown shape %q", opts.shape)
	}
	req := qr.Request{
		Text:  opts.text,
		Color: qr.ParseHexColorOr(opts.color, qr.ParseHexColorOr(cfg.DefaultColor, qr.DefaultColor)),
		Shape: shape,
	}
	img, err := gen.Generate(cmd.Context(), req, logo)
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = export.Filename(cfg.Brand, export.PNG)
	}
	format := export.ParseFormat(strings.TrimPrefix(filepath.Ext(out), "."))
	data, err := export.Encode(img, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", out)
	}

	w := cmd.OutOrStdout()
	if opts.terminal {
		printTerminal(w, opts.text, qr.Level(cfg.Level))
	}
	fmt.Fprintf(w, "wrote %s (%dx%d)\n", out, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

// printTerminal draws text as half blocks at the closest level qrterminal offers.
func printTerminal(w io.Writer, text string, l qr.Level) {
	switch l {
	case qr.LevelLow:
		qrterminal.GenerateHalfBlock(text, qrterminal.L, w)
	case qr.LevelMedium:
		qrterminal.GenerateHalfBlock(text, qrterminal.M, w)
	default:
		qrterminal.GenerateHalfBlock(text, qrterminal.H, w)
	}
}
