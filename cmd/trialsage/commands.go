package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	mcpadapter "github.com/kirillkom/trialsage/internal/adapters/mcp"
	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/infrastructure/report/xlsx"
	"github.com/kirillkom/trialsage/internal/observability/metrics"
)

func preprocessCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preprocess",
		Short: "Convert raw PDF protocols to text files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}

			result, err := app.PreprocessUC.Preprocess(cmd.Context())
			if err != nil {
				return err
			}
			for _, skip := range result.Skipped {
				app.Logger.Warn("preprocess_skipped", "file", skip.File, "reason", skip.Reason)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted %d file(s) into %s, skipped %d\n",
				len(result.Converted), app.Config.ProcessedTextDir, len(result.Skipped))
			return nil
		},
	}
}

func summarizeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <file>",
		Short: "Summarize one protocol (.txt or .pdf) and print the JSON summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd, true)
			if err != nil {
				return err
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read protocol: %w", err)
			}
			result, err := app.SummarizeUC.SummarizeDocument(cmd.Context(), domain.SourceDocument{
				Name:    filepath.Base(args[0]),
				Content: content,
			})
			return writeSummary(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, err)
		},
	}
}

// writeSummary prints the formatted summary. A reply that is not valid JSON is
// printed as is after a warning, matching what a human reviewer needs to
// debug the prompt.
func writeSummary(out, errOut io.Writer, result *domain.SummaryResult, err error) error {
	if err == nil {
		_, werr := fmt.Fprintln(out, result.Formatted)
		return werr
	}
	if raw, ok := domain.RawOutput(err); ok {
		fmt.Fprintln(errOut, "Warning: the model reply is not valid JSON. Raw output follows.")
		_, werr := fmt.Fprintln(out, raw)
		return werr
	}
	return err
}

func evaluateCmd(opts *rootOptions) *cobra.Command {
	var metricsPort string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Summarize every gold-standard document and score it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.app(cmd, true)
			if err != nil {
				return err
			}

			port := metricsPort
			if port == "" {
				port = app.Config.EvalMetricsPort
			}
			if port != "" {
				server := &http.Server{
					Addr:              net.JoinHostPort("", port),
					Handler:           metrics.Handler(app.Registry),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						app.Logger.Error("metrics_server_failed", "error", err)
					}
				}()
				defer server.Close()
				app.Logger.Info("metrics_listening", "addr", server.Addr)
			}

			report, err := app.EvaluateUC.Evaluate(cmd.Context())
			if errors.Is(err, domain.ErrNoDocumentsScored) {
				fmt.Fprintf(cmd.ErrOrStderr(), "No documents were successfully scored (%d found).\n", report.DocumentsTotal)
				return err
			}
			if err != nil {
				return err
			}
			return writeReportSummary(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&metricsPort, "metrics-port", "", "serve Prometheus metrics on this port while evaluating")
	return cmd
}

func writeReportSummary(out io.Writer, report *domain.EvaluationReport) error {
	fmt.Fprintf(out, "Scored %d of %d document(s).\n", report.DocumentsScored, report.DocumentsTotal)
	encoded, err := json.MarshalIndent(report.AverageScores, "", "  ")
	if err != nil {
		return fmt.Errorf("encode averages: %w", err)
	}
	fmt.Fprintln(out, "Average scores:")
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}

func reportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Work with persisted evaluation reports",
	}

	var name string
	xlsxCmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Convert the JSON evaluation report into an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			report, err := app.Reports.ReadReport(cmd.Context())
			if err != nil {
				return err
			}
			if err := xlsx.New(app.Results, name).WriteReport(cmd.Context(), report); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Join(app.Results.BasePath(), name))
			return nil
		},
	}
	xlsxCmd.Flags().StringVar(&name, "name", xlsx.DefaultName, "workbook file name inside the results directory")

	cmd.AddCommand(xlsxCmd)
	return cmd
}

func mcpCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve summarize and score tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.app(cmd, true)
			if err != nil {
				return err
			}
			return mcpadapter.NewServer(app.SummarizeUC, version).Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "trialsage %s\n", version)
		},
	}
}
