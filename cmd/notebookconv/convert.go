package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/csheth/notebookconv/internal/delivery"
	"github.com/csheth/notebookconv/internal/intake"
	"github.com/csheth/notebookconv/internal/session"
)

var convertCmd = &cobra.Command{
	Use:   "convert <notebook.ipynb>",
	Short: "Convert one notebook without the interactive UI",
	Long: `Convert wakes the service, uploads the notebook and saves the result into
the output directory. It follows the same rules as the interactive UI: only
.ipynb files are accepted and an existing output file is never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Bool("quiet", false, "hide the upload progress bar")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	quiet, _ := cmd.Flags().GetBool("quiet")
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	client := newClient(cfg)

	s := session.New()
	s.SetFormat(cfg.OutputFormat())

	files, err := intake.Candidates(args)
	if err != nil {
		return err
	}
	if !s.AcceptDrop(files) {
		return errors.New(s.State().ErrorMessage)
	}

	s.BeginProbe()
	fmt.Fprintf(errOut, "Waking up %s…\n", client.BaseURL())
	probe := session.Probe(cmd.Context(), client, time.Now(), time.Now)
	s.FinishProbe(probe)
	if probe.Err != nil {
		return fmt.Errorf("service unavailable: %w", probe.Err)
	}
	fmt.Fprintln(errOut, session.Present(s.State()).BackendLabel)

	req, ok := s.BeginConvert()
	if !ok {
		return errors.New("conversion could not start")
	}
	var conv session.Converter = client
	if !quiet {
		conv = progressConverter{next: client, size: req.File.Size, out: errOut}
	}
	res := session.Convert(cmd.Context(), conv, delivery.DiskHost{Dir: cfg.OutputDir}, req)
	s.FinishConvert(res)
	if res.Err != nil {
		return errors.New(s.State().ErrorMessage)
	}

	p := session.Present(s.State())
	fmt.Fprintln(errOut, p.Banner.Text)
	fmt.Fprintf(out, "%s (%s)\n", res.Path, res.Summary)
	return nil
}

// progressConverter draws upload progress while the request body is read.
type progressConverter struct {
	next session.Converter
	size int64
	out  io.Writer
}

func (p progressConverter) Convert(ctx context.Context, format, filename string, body io.Reader) ([]byte, error) {
	bar := progressbar.NewOptions64(p.size,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Uploading "+filename),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	reader := progressbar.NewReader(body, bar)
	data, err := p.next.Convert(ctx, format, filename, &reader)
	_ = bar.Finish()
	return data, err
}
