package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromMap(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want ContactRecord
	}{
		{
			name: "all seven fields",
			in: map[string]any{
				"name": "Jane Doe", "title": "CEO", "company": "Acme",
				"email": "jane@acme.com", "phone": "555-1234",
				"website": "acme.com", "address": "1 Main St",
			},
			want: ContactRecord{
				Name: "Jane Doe", Title: "CEO", Company: "Acme",
				Email: "jane@acme.com", Phone: "555-1234",
				Website: "acme.com", Address: "1 Main St",
			},
		},
		{
			name: "missing fields default to empty",
			in:   map[string]any{"name": "Jane Doe"},
			want: ContactRecord{Name: "Jane Doe"},
		},
		{
			name: "null values become empty",
			in:   map[string]any{"name": "Jane Doe", "email": nil},
			want: ContactRecord{Name: "Jane Doe"},
		},
		{
			name: "unknown keys are dropped",
			in:   map[string]any{"name": "Jane Doe", "fax": "555-9999", "notes": "met at conf"},
			want: ContactRecord{Name: "Jane Doe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromMap(tt.in))
		})
	}
}

func TestCSVRowMatchesHeaderOrder(t *testing.T) {
	record := ContactRecord{
		Name: "n", Title: "t", Company: "c",
		Email: "e", Phone: "p", Website: "w", Address: "a",
	}

	assert.Equal(t, []string{"name", "title", "company", "email", "phone", "website", "address"}, CSVHeader())
	assert.Equal(t, []string{"n", "t", "c", "e", "p", "w", "a"}, record.CSVRow())
	assert.Len(t, record.CSVRow(), len(CSVHeader()))
}
