package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xa0627-sys/momoshop-watch/catalog"
	"github.com/xa0627-sys/momoshop-watch/config"
	"github.com/xa0627-sys/momoshop-watch/internal/textutil"
	"github.com/xa0627-sys/momoshop-watch/output"
	"github.com/xa0627-sys/momoshop-watch/product"
)

const (
	filterOutputTable = "table"
	filterOutputJSON  = "json"

	exportModeProducts   = "products"
	exportModeCategories = "categories"

	titleColumnWidth = 40
	specColumnWidth  = 30
)

var (
	filterCategory string
	filterSource   string
	filterKeyword  string
	filterLimit    int
	filterOutput   string

	filterExportPath   string
	filterExportFormat string
	filterExportMode   string
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Load the catalog and print the products matching category, source, and keyword.",
	Long: `Load every configured source, then print the products visible under the given
criteria. All criteria combine with AND; "all" (or an empty value) disables the
category and source criteria. The keyword matches case-insensitively against
title, spec, and price.

Filtering does not journal the load. With --export the visible products (or a
per-category count with --export-mode categories) are also written to a CSV or
Excel file; the format follows --export-format or the file extension.`,
	Example: `
  # Every projector
  momoshop-watch filter --category 投影機

  # Shopee products mentioning bluetooth, as JSON
  momoshop-watch filter --source shopee --keyword 藍牙 --output json

  # Export all watches to Excel
  momoshop-watch filter --category 手錶 --export ./watches.xlsx

  # Export product counts per category and source
  momoshop-watch filter --export ./categories.csv --export-mode categories
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat := strings.ToLower(strings.TrimSpace(filterOutput))
		if outputFormat != filterOutputTable && outputFormat != filterOutputJSON {
			return fmt.Errorf("unsupported output %q (supported: table, json)", filterOutput)
		}
		if filterLimit < 0 {
			return fmt.Errorf("--limit must be >= 0")
		}
		exportMode := strings.ToLower(strings.TrimSpace(filterExportMode))
		if exportMode != exportModeProducts && exportMode != exportModeCategories {
			return fmt.Errorf("unsupported export mode %q (supported: products, categories)", filterExportMode)
		}

		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		loader, err := buildLoader(cfg)
		if err != nil {
			return err
		}

		holder := catalog.NewHolder()
		if _, err := reloadCatalog(cmd.Context(), holder, loader, nil); err != nil {
			return err
		}

		selector := catalog.NewSelector(filterCategory, filterSource, filterKeyword)
		visible := holder.Current().Filter(selector)
		total := len(visible)
		if strings.TrimSpace(filterExportPath) != "" {
			if err := exportVisible(filterExportPath, filterExportFormat, exportMode, holder.Current(), visible); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d products to %s\n", total, filterExportPath)
		}
		if filterLimit > 0 && len(visible) > filterLimit {
			visible = visible[:filterLimit]
		}

		if outputFormat == filterOutputJSON {
			return writeFilterJSON(cmd.OutOrStdout(), visible)
		}
		writeFilterTable(cmd.OutOrStdout(), visible)
		fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d matching products (%d loaded).\n", len(visible), total, holder.Current().Len())
		return nil
	},
}

func exportVisible(path, format, mode string, store *catalog.Store, visible []product.Record) error {
	if mode == exportModeCategories {
		sources := make([]string, 0, len(store.Declared()))
		for _, source := range store.Declared() {
			sources = append(sources, source.ID)
		}
		return output.WriteCategorySummaries(path, format, sources, output.BuildCategorySummaries(visible))
	}

	writer, err := output.WriterForFormat(output.FormatForPath(format, path))
	if err != nil {
		return err
	}
	return writer.Write(path, visible)
}

func writeFilterTable(w io.Writer, records []product.Record) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tCATEGORY\tPRICE\tTITLE\tSPEC")
	for _, item := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			item.Source,
			item.Category,
			item.Price,
			textutil.Truncate(item.Title, titleColumnWidth),
			textutil.Truncate(textutil.SummarizeSpec(item.Spec), specColumnWidth),
		)
	}
	_ = tw.Flush()
}

func writeFilterJSON(w io.Writer, records []product.Record) error {
	if records == nil {
		records = []product.Record{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(records)
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringVar(&filterCategory, "category", catalog.All, "Category to show, or \"all\"")
	filterCmd.Flags().StringVar(&filterSource, "source", catalog.All, "Source id to show, or \"all\"")
	filterCmd.Flags().StringVar(&filterKeyword, "keyword", "", "Case-insensitive keyword matched against title, spec, and price")
	filterCmd.Flags().IntVar(&filterLimit, "limit", 0, "Maximum number of products to print (0 = no limit)")
	filterCmd.Flags().StringVarP(&filterOutput, "output", "o", filterOutputTable, "Output format: table or json")
	filterCmd.Flags().StringVar(&filterExportPath, "export", "", "Also write the visible products to this CSV/Excel file")
	filterCmd.Flags().StringVar(&filterExportFormat, "export-format", "", "Export format: csv or excel (default: inferred from --export extension)")
	filterCmd.Flags().StringVar(&filterExportMode, "export-mode", exportModeProducts, "Export mode: products or categories")
}
