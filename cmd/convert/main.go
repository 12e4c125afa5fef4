package main

// Convert a local resume without running the server:
//   go run ./cmd/convert ./cv.png --out ./out

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"resume-converter/internal/conversions"
	"resume-converter/internal/ocr"
	"resume-converter/internal/ocr/tesseract"
	"resume-converter/internal/shared/config"
	localstore "resume-converter/internal/shared/storage/object/local"
	"resume-converter/internal/spool"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "convert failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		outDir string
		langs  string
		docx   bool
	)
	cmd := &cobra.Command{
		Use:          "convert <file>",
		Short:        "OCR a resume image or PDF and optionally write a .docx.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("out") {
				cfg.OutputDir = outDir
			}
			if cmd.Flags().Changed("lang") {
				cfg.OCRLanguages = langs
			}
			if cmd.Flags().Changed("docx") {
				cfg.DocxEnabled = docx
			}
			svc, err := newService(cfg, tesseract.New())
			if err != nil {
				return err
			}
			return run(cmd.Context(), svc, args[0], cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&outDir, "out", config.DefaultOutputDir, "directory for generated documents")
	cmd.Flags().StringVar(&langs, "lang", config.DefaultOCRLanguages, "tesseract languages, '+' separated")
	cmd.Flags().BoolVar(&docx, "docx", true, "write a .docx next to printing the text")
	return cmd
}

func newService(cfg config.Config, engine ocr.Engine) (*conversions.Service, error) {
	svc := &conversions.Service{
		Spool:       spool.New(cfg.TempDir),
		OCR:         ocr.NewAdapter(engine, cfg.Languages()),
		DocxEnabled: cfg.DocxEnabled,
	}
	if cfg.DocxEnabled {
		store, err := localstore.New(cfg.OutputDir)
		if err != nil {
			return nil, err
		}
		svc.Store = store
	}
	return svc, nil
}

func run(ctx context.Context, svc *conversions.Service, path string, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := svc.Convert(ctx, conversions.Upload{
		FileName:     filepath.Base(path),
		DeclaredType: mt.String(),
	}, f)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, res.Text)
	if res.DocxFile != "" {
		if store, ok := svc.Store.(*localstore.Store); ok {
			out := filepath.Join(store.Dir(), res.DocxFile)
			size := "?"
			if info, err := os.Stat(out); err == nil {
				size = humanize.Bytes(uint64(info.Size()))
			}
			fmt.Fprintf(stdout, "OK: wrote %s (%s)\n", out, size)
		}
	}
	return nil
}
