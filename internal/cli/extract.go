package cli

import (
	"fmt"

	"github.com/ppiankov/boycotts/internal/model"
	"github.com/ppiankov/boycotts/internal/pipeline"
	"github.com/spf13/cobra"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file.html>",
	Short: "Extract boycotts from a saved copy of the page",
	Long: `Extract runs the same flatten, extract and write steps as scrape over a
page saved to disk. Nothing is fetched.

Example:
  boycotts extract boycotts.html
  boycotts extract boycotts.html --url https://web.archive.org/... --out-dir ./data`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&sourceURL, "url", model.DefaultSourceURL, "URL recorded in the archive envelope")
	addOutputFlags(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	result, _, err := pipeline.NewPipeline(cfg).RunFile(args[0], cfg.Source.URL)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	pipeline.RenderSample(out, result.Archive.Boycotts, cfg.Output.SampleSize)
	_, _ = fmt.Fprintln(out, "\nExtraction complete!")
	return nil
}
