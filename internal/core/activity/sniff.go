package activity

import (
	"bytes"
	"strings"
)

// ItemType is a coarse display tag sniffed from item content. It is a
// presentation hint, not a correctness-bearing classification.
type ItemType string

const (
	TypeEmail    ItemType = "email"
	TypeWhatsApp ItemType = "whatsapp"
	TypeSocial   ItemType = "social"
	TypeFileDrop ItemType = "file_drop"
	TypeUnknown  ItemType = "unknown"
)

// sniffOrder fixes the probe priority; the first matching token wins.
var sniffOrder = []struct {
	token string
	t     ItemType
}{
	{"email", TypeEmail},
	{"whatsapp", TypeWhatsApp},
	{"social", TypeSocial},
	{"file_drop", TypeFileDrop},
}

// InferType tags content by case-insensitive substring search over the
// fixed token list.
func InferType(content []byte) ItemType {
	lowered := bytes.ToLower(content)
	for _, probe := range sniffOrder {
		if bytes.Contains(lowered, []byte(probe.token)) {
			return probe.t
		}
	}
	return TypeUnknown
}

// ParseType resolves an ItemType from its string value, defaulting to
// TypeUnknown.
func ParseType(s string) ItemType {
	switch ItemType(strings.ToLower(s)) {
	case TypeEmail, TypeWhatsApp, TypeSocial, TypeFileDrop:
		return ItemType(strings.ToLower(s))
	default:
		return TypeUnknown
	}
}
