package extract

import (
	"strings"

	"github.com/sashabaranov/go-openai"

	"cardscan/pkg/models"
)

// systemPrompt establishes the assistant's role. Fixed so that identical OCR
// text always produces an identical request.
const systemPrompt = "You are a helpful assistant that extracts structured contact data from unstructured text."

// BuildUserPrompt renders the field-extraction instruction with the OCR text
// embedded in a quoted block. Pure and deterministic: no I/O, no clock, no
// randomness.
func BuildUserPrompt(ocrText string) string {
	var b strings.Builder

	b.WriteString("Extract the following fields from this business card:\n")
	b.WriteString("- Name\n")
	b.WriteString("- Job Title\n")
	b.WriteString("- Company\n")
	b.WriteString("- Email\n")
	b.WriteString("- Phone\n")
	b.WriteString("- Website\n")
	b.WriteString("- Address\n\n")

	b.WriteString("Return only the structured data as a JSON object with exactly these lowercase keys: ")
	b.WriteString(strings.Join(models.ContactFieldNames, ", "))
	b.WriteString(".\n")
	b.WriteString("Use null for any field not present on the card. ")
	b.WriteString("Do not include any explanation, markdown fences, or text outside the JSON object.\n\n")

	b.WriteString("OCR Extracted Text:\n")
	b.WriteString(`"""` + "\n")
	b.WriteString(neutralizeDelimiters(ocrText))
	b.WriteString("\n" + `"""`)

	return b.String()
}

// BuildMessages assembles the two-message completion prompt.
func BuildMessages(ocrText string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: BuildUserPrompt(ocrText),
		},
	}
}

// neutralizeDelimiters keeps untrusted OCR text from closing the quoted
// block early. OCR output legitimately contains quotes and braces; only the
// exact triple-quote delimiter needs rewriting.
func neutralizeDelimiters(s string) string {
	return strings.ReplaceAll(s, `"""`, `'''`)
}
