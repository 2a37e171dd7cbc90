package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferType(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    ItemType
	}{
		{"email", "Subject: quarterly EMAIL digest", TypeEmail},
		{"whatsapp", "forwarded WhatsApp message", TypeWhatsApp},
		{"social", "draft social post", TypeSocial},
		{"file drop", "incoming file_drop payload", TypeFileDrop},
		{"no match", "plain meeting notes", TypeUnknown},
		{"empty", "", TypeUnknown},
		// Priority is fixed: email wins over any later token.
		{"email beats social", "social media email blast", TypeEmail},
		{"whatsapp beats file_drop", "file_drop via whatsapp", TypeWhatsApp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferType([]byte(tt.content)))
		})
	}
}

func TestParseType(t *testing.T) {
	assert.Equal(t, TypeEmail, ParseType("EMAIL"))
	assert.Equal(t, TypeUnknown, ParseType("mystery"))
}
