package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/chapas/internal/core/domain"
	"github.com/custodia-labs/chapas/internal/logger"
)

var (
	historyOutput string
	clearYes      bool
	exportFormat  string
	exportOut     string
)

// isInteractive reports whether stdin is a terminal. Tests replace it.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved calculations",
	Long: `List, inspect, export and clear the calculation history.

Records are listed newest first.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved calculations",
	Args:    cobra.NoArgs,
	RunE:    runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one saved calculation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved calculation",
	Long: `Delete the whole history. Asks for confirmation unless --yes is given.
Without a terminal, --yes is required.`,
	Args: cobra.NoArgs,
	RunE: runHistoryClear,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the history to a file",
	Long: `Export every saved calculation as JSON, an Excel workbook or a PDF report.

  chapas history export --format xlsx --out obra.xlsx
  chapas history export --format json --out -`,
	Args: cobra.NoArgs,
	RunE: runHistoryExport,
}

var historyWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the newest record whenever the history changes",
	Long: `Follow the history for changes made by other processes, such as the TUI
or the MCP server. Requires the file storage backend.`,
	Args: cobra.NoArgs,
	RunE: runHistoryWatch,
}

func init() {
	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		c.Flags().StringVarP(&historyOutput, "output", "o", outputText, "output format: text, json or yaml")
	}
	historyShowCmd.Flags().StringVarP(&historyOutput, "output", "o", outputText, "output format: text, json or yaml")
	historyClearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
	historyExportCmd.Flags().StringVar(&exportFormat, "format", string(domain.ExportFormatJSON), "json, xlsx or pdf")
	historyExportCmd.Flags().StringVar(&exportOut, "out", "", "output file, - for stdout (default chapas-historico.<format>)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyWatchCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	records := historyService.List(cmd.Context())

	if historyOutput != outputText {
		out := make([]calcOutput, 0, len(records))
		for _, rec := range records {
			out = append(out, recordOutput(rec))
		}
		return writeStructured(cmd.OutOrStdout(), historyOutput, out)
	}

	if len(records) == 0 {
		cmd.Println("No saved calculations.")
		return nil
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Data", "Cálculo", "Total")
	for _, rec := range records {
		tbl.Row(
			strconv.FormatInt(rec.ID, 10),
			rec.CreatedAt().Format(dateLayout),
			rec.Title(),
			rec.DisplayTotal(),
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: record id must be a number, got %q", domain.ErrInvalidInput, args[0])
	}

	rec, err := historyService.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("record %d: %w", id, err)
	}

	if historyOutput != outputText {
		return writeStructured(cmd.OutOrStdout(), historyOutput, recordOutput(rec))
	}
	writeRecord(cmd.OutOrStdout(), rec)
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	if !clearYes {
		if !isInteractive() {
			return errors.New("refusing to clear history without --yes when not running in a terminal")
		}
		n := len(historyService.List(cmd.Context()))
		cmd.Printf("Delete %d saved calculation(s)? [y/N]: ", n)
		if !confirmed(readLine(bufio.NewReader(cmd.InOrStdin()))) {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := historyService.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	cmd.Println("History cleared.")
	return nil
}

func runHistoryExport(cmd *cobra.Command, _ []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}

	format := domain.ExportFormat(strings.ToLower(exportFormat))
	logger.Section("Export " + format.String())
	data, err := exportService.Export(cmd.Context(), format, nil)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if exportOut == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	path := exportOut
	if path == "" {
		path = "chapas-historico" + format.Extension()
	}
	logger.Debug("Writing %d bytes to %s", len(data), path)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	cmd.Printf("Exported history to %s\n", path)
	return nil
}

func runHistoryWatch(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	ctx := cmd.Context()
	changes, err := historyService.Watch(ctx)
	if errors.Is(err, domain.ErrWatchUnsupported) {
		return fmt.Errorf("%w; set storage.backend to file to follow changes", err)
	}
	if err != nil {
		return fmt.Errorf("failed to watch history: %w", err)
	}

	cmd.Println("Watching history, press Ctrl+C to stop.")
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			records := historyService.List(ctx)
			if len(records) == 0 {
				cmd.Println("History is empty.")
				continue
			}
			newest := records[0]
			cmd.Printf("%s  %s  %s  (%d saved)\n",
				newest.CreatedAt().Format(dateLayout), newest.Title(), newest.DisplayTotal(), len(records))
		}
	}
}

func confirmed(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "sim":
		return true
	default:
		return false
	}
}
