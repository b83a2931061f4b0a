package decoding

import (
	"strings"

	"github.com/google/uuid"

	"HostFacts/pkg/failure"
)

// DecodeMachineID parses /etc/machine-id (32 hex digits) or a DMI
// product_uuid (canonical 36-character form).
func DecodeMachineID(text string) (uuid.UUID, error) {
	v := strings.TrimSpace(text)
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, failure.Malformed("machine-id", v, err)
	}
	return id, nil
}
