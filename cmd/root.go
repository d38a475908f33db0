package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cardscan/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "cardscan",
	Short: "cardscan - extract structured contact data from business-card photos",
	Long: `cardscan turns a photograph of a business card into a structured
contact record: it runs OCR on the image, asks a Mistral completion model to
extract the contact fields from the recognized text, and appends the result
to a CSV contact table.

Run 'cardscan serve' to host the HTTP extraction API, or
'cardscan extract <image>' to process a single file from the command line.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to cardscan!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
