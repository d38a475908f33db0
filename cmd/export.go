package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"cardscan/internal/config"
	"cardscan/internal/logger"
	"cardscan/internal/store"
	"cardscan/pkg/models"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the contact table to an XLSX workbook",
	Long: `Read the contact CSV table and write it as an Excel workbook, preserving
the header and row order.`,
	Example: `  # Export to the default workbook name
  cardscan export

  # Export to a custom path
  cardscan export --out ~/contacts.xlsx`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("out", "o", "contacts.xlsx", "Output XLSX file path")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	outPath, _ := cmd.Flags().GetString("out")

	// Export only touches the local table, so it does not require the
	// completion credential the full configuration validates.
	contactStore, err := store.NewContactStore(config.ContactsPath())
	if err != nil {
		return fmt.Errorf("failed to open contact store: %w", err)
	}

	records, err := contactStore.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read contact table: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close workbook")
		}
	}()

	const sheet = "Contacts"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := writeRow(f, sheet, 1, models.CSVHeader()); err != nil {
		return err
	}
	for i, record := range records {
		if err := writeRow(f, sheet, i+2, record.CSVRow()); err != nil {
			return err
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	log.Info().
		Str("out", outPath).
		Int("rows", len(records)).
		Msg("Exported contact table")
	fmt.Printf("Exported %d contacts to %s\n", len(records), outPath)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
