package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cardscan/internal/config"
	"cardscan/internal/extract"
	"cardscan/internal/imaging"
	"cardscan/internal/logger"
	"cardscan/internal/pipeline"
	"cardscan/pkg/models"
)

var extractCmd = &cobra.Command{
	Use:   "extract [image-file]",
	Short: "Extract contact data from a business-card image",
	Long: `Run the extraction pipeline on a local PNG or JPEG file: OCR the card,
extract the contact fields through the configured Mistral model, and append
the record to the contact CSV table.

Required environment variables:
  MISTRAL_API_KEY - credential for the Mistral completion endpoint.`,
	Example: `  # Extract and save a card
  cardscan extract card.jpg

  # Print the result as JSON without saving
  cardscan extract card.png --json --no-save

  # Allow more time for a slow completion endpoint
  cardscan extract card.jpg --timeout 120`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Bool("json", false, "Output the result as JSON")
	extractCmd.Flags().Bool("no-save", false, "Skip appending the record to the contact table")
	extractCmd.Flags().Int("timeout", 90, "Overall processing timeout in seconds")
}

// discardStore satisfies the pipeline's store dependency when --no-save is set.
type discardStore struct{}

func (discardStore) Append(models.ContactRecord) error { return nil }

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract-cmd")

	jsonOutput, _ := cmd.Flags().GetBool("json")
	noSave, _ := cmd.Flags().GetBool("no-save")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	imagePath := args[0]

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Configuration is invalid")
		return err
	}

	imageBytes, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image file: %w", err)
	}
	if _, _, err := imaging.Decode(imageBytes); err != nil {
		return fmt.Errorf("not a usable PNG or JPEG image: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	p, err := buildCLIPipeline(ctx, cfg, noSave)
	if err != nil {
		return err
	}

	log.Info().Str("file", imagePath).Bool("save", !noSave).Msg("Starting extraction")

	result, err := p.Run(ctx, imageBytes)
	if err != nil {
		log.Error().Err(err).Msg("Extraction failed")
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println("OCR text:")
	fmt.Println(result.OCRText)
	fmt.Println()
	fmt.Printf("Name:    %s\n", result.Contact.Name)
	fmt.Printf("Title:   %s\n", result.Contact.Title)
	fmt.Printf("Company: %s\n", result.Contact.Company)
	fmt.Printf("Email:   %s\n", result.Contact.Email)
	fmt.Printf("Phone:   %s\n", result.Contact.Phone)
	fmt.Printf("Website: %s\n", result.Contact.Website)
	fmt.Printf("Address: %s\n", result.Contact.Address)
	if !noSave {
		fmt.Printf("\nSaved to %s\n", cfg.ContactsCSVPath)
	}
	return nil
}

// buildCLIPipeline mirrors buildPipeline but can swap the store for a no-op
// when the user asked not to persist.
func buildCLIPipeline(ctx context.Context, cfg *config.Config, noSave bool) (*pipeline.Pipeline, error) {
	if !noSave {
		return buildPipeline(ctx, cfg)
	}

	ocrService, err := buildOCRService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR service: %w", err)
	}

	extractor, err := extract.NewService(cfg.MistralAPIKey, cfg.MistralBaseURL, extract.Config{
		Model:       cfg.MistralModel,
		Temperature: cfg.MistralTemperature,
		ParseMode:   cfg.ParseMode,
		MaxRetries:  cfg.MistralMaxRetries,
		Timeout:     time.Duration(cfg.MistralTimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction service: %w", err)
	}

	ocrTimeout := time.Duration(cfg.OCRTimeoutSecs) * time.Second
	return pipeline.New(ocrService, extractor, discardStore{}, ocrTimeout), nil
}
