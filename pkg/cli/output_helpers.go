package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lakeload/internal/domain"
)

// getOutputFormat returns the effective output format from the root command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	if output != "" && output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a tab-aligned writer. Callers must Flush.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printProvisionTable(w io.Writer, results []domain.ProvisionResult) {
	tw := newTable(w)
	fmt.Fprintln(tw, "KIND\tRESOURCE\tSTATUS\tDETAIL")
	for _, r := range results {
		detail := r.Error
		if r.AlreadyExists {
			detail = "already exists"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Kind, r.Resource, r.Status, detail)
	}
	_ = tw.Flush()
}

func printUploadTable(w io.Writer, results []domain.UploadResult) {
	tw := newTable(w)
	fmt.Fprintln(tw, "LOCAL\tREMOTE\tBYTES\tVERIFIED\tSTATUS\tDETAIL")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\t%s\n",
			r.LocalPath, r.RemotePath, r.Bytes, r.Verified, r.Status, r.Error)
	}
	_ = tw.Flush()
}

func printStatementTable(w io.Writer, results []domain.StatementResult) {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tSTATUS\tDURATION\tSTATEMENT\tDETAIL")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.Index, r.Status, r.Duration.Round(0), firstLine(r.SQL), r.Error)
	}
	_ = tw.Flush()
}

func printReport(w io.Writer, report *domain.Report) {
	fmt.Fprintf(w, "Run %s: %s (%d warnings)\n",
		report.RunID, report.Outcome, report.WarningCount())
	if len(report.Provision) > 0 {
		fmt.Fprintln(w, "\nProvisioning:")
		printProvisionTable(w, report.Provision)
	}
	fmt.Fprintln(w, "\nUploads:")
	if len(report.Uploads) == 0 {
		fmt.Fprintln(w, "  (no files matched)")
	} else {
		printUploadTable(w, report.Uploads)
	}
	if report.DDLSkipped {
		fmt.Fprintln(w, "\nDDL: skipped (no files uploaded)")
	} else {
		fmt.Fprintln(w, "\nDDL:")
		printStatementTable(w, report.Statements)
	}
}

// firstLine truncates a statement for table display.
func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i] + " ..."
		}
		if i > 60 {
			return s[:i] + "..."
		}
	}
	return s
}
