package models

// ContactRecord is the structured contact information extracted from a
// single business card. Every field is optional: cards routinely omit some
// of them, and the extractor substitutes an empty string for anything the
// card (or the model) did not provide.
type ContactRecord struct {
	Name    string `json:"name"`    // Person's full name
	Title   string `json:"title"`   // Job title
	Company string `json:"company"` // Company or organization name
	Email   string `json:"email"`   // Email address
	Phone   string `json:"phone"`   // Phone number as printed on the card
	Website string `json:"website"` // Website or domain
	Address string `json:"address"` // Postal address
}

// ContactFieldNames lists the seven record fields in canonical column order.
// The CSV header, the extraction prompt, and the validation schema all
// derive from this list so they cannot drift apart.
var ContactFieldNames = []string{"name", "title", "company", "email", "phone", "website", "address"}

// CSVHeader returns the fixed header row of the contact table.
func CSVHeader() []string {
	header := make([]string, len(ContactFieldNames))
	copy(header, ContactFieldNames)
	return header
}

// CSVRow returns the record's values in canonical column order.
func (c ContactRecord) CSVRow() []string {
	return []string{c.Name, c.Title, c.Company, c.Email, c.Phone, c.Website, c.Address}
}

// FromMap builds a ContactRecord from a decoded JSON object, taking only the
// seven known keys. Missing keys and null values become empty strings;
// unknown keys are dropped.
func FromMap(m map[string]any) ContactRecord {
	return ContactRecord{
		Name:    getString(m, "name"),
		Title:   getString(m, "title"),
		Company: getString(m, "company"),
		Email:   getString(m, "email"),
		Phone:   getString(m, "phone"),
		Website: getString(m, "website"),
		Address: getString(m, "address"),
	}
}

// getString safely extracts a string value from a decoded JSON object.
func getString(m map[string]any, key string) string {
	if value, exists := m[key]; exists && value != nil {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return ""
}
