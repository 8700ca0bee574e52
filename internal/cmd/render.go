package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	renderOrder string
	renderOut   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the delivery note of an order to a file",
	Long: `Render the delivery note (Lieferschein) PDF of one order without starting
the server. Without APP_PUBLIC_URL the logo is read from DOCUMENT_LOGO_FILE.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderOrder, "order", "", "Order id")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "Output file (default lieferschein_<id>.pdf)")
	_ = renderCmd.MarkFlagRequired("order")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, log := loadConfig()

	if cfg.App.PublicURL == "" && cfg.Document.LogoFile != "" {
		abs, err := filepath.Abs(cfg.Document.LogoFile)
		if err != nil {
			return fmt.Errorf("failed to resolve logo file: %w", err)
		}
		cfg.Document.LogoPath = "file://" + filepath.ToSlash(abs)
	}

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	doc, err := a.deliveryNotes.Generate(ctx, renderOrder, cfg.App.PublicURL)
	if err != nil {
		return err
	}

	out := renderOut
	if out == "" {
		out = doc.FileName
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	n, err := doc.Body.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(out)
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	log.Info().Int64("order_id", doc.OrderID).Str("file", out).Int64("bytes", n).Msg("delivery note written")
	return nil
}
