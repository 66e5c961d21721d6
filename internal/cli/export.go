package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/formdeck/formdeck/pkg/cache"
	"github.com/formdeck/formdeck/pkg/export"
	"github.com/formdeck/formdeck/pkg/form"
	"github.com/formdeck/formdeck/pkg/observability"
)

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formatStr string
		output    string
		fromFile  string
	)

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a document as HTML, DOT, or SVG",
		Long: `Export renders a stored document (or a JSON file given with --file)
into a deliverable artifact. Artifacts are cached by document content,
so re-exporting an unchanged document is free.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			format, err := export.ParseFormat(formatStr)
			if err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			var doc *form.Document
			switch {
			case fromFile != "":
				doc, err = form.ReadFile(fromFile)
				if err != nil {
					return err
				}
			case len(args) == 1:
				st, serr := c.newStore(cmd, cfg)
				if serr != nil {
					return serr
				}
				defer st.Close()
				doc, err = st.Get(ctx, args[0])
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("give a document id or --file")
			}

			ar := c.newCache(cmd, cfg)
			defer ar.Close()
			keyer := cache.NewDefaultKeyer()

			// Content-hash key: edits invalidate, identical exports hit.
			raw, err := form.Marshal(doc)
			if err != nil {
				return err
			}
			key := keyer.ExportKey(cache.Hash(raw), cache.ExportKeyOpts{Format: string(format)})

			data, hit, err := ar.Get(ctx, key)
			if err != nil {
				logger.Debug("cache read failed", "err", err)
			}
			if hit {
				observability.Cache().OnCacheHit(ctx, "export")
			} else {
				observability.Cache().OnCacheMiss(ctx, "export")
				prog := newProgress(logger)
				data, err = export.Export(doc, format)
				if err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Rendered %s", format))
				if err := ar.Set(ctx, key, data, cfg.Cache.TTL()); err != nil {
					printWarning("could not cache artifact: %v", err)
				} else {
					observability.Cache().OnCacheSet(ctx, "export", len(data))
				}
			}

			path := output
			if path == "" {
				path = defaultExportPath(doc, format)
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			printSuccess("Exported %s", StyleHighlight.Render(doc.Title))
			printFile(path)
			printStats(doc.Body.Count(), hit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatStr, "format", "f", "html", "output format (html, dot, svg)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <id>.<format>)")
	cmd.Flags().StringVar(&fromFile, "file", "", "export a JSON document file instead of a stored one")
	return cmd
}

func defaultExportPath(doc *form.Document, format export.Format) string {
	base := doc.ID
	if base == "" {
		base = strings.ToLower(strings.ReplaceAll(doc.Title, " ", "-"))
	}
	if base == "" {
		base = "form"
	}
	return base + "." + string(format)
}
