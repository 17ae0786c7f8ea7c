package identity

import (
	"fmt"
	"strings"

	"brc-agent/internal/application/port/output"

	"github.com/google/uuid"
)

var _ output.IdentityGenerator = (*Generator)(nil)

const Prefix = "brc"

// Generator issues agent IDs from UUIDv7: a millisecond timestamp followed
// by random bits, so IDs are unique without coordination and sort by
// creation time.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate agent id: %w", err)
	}
	return Prefix + strings.ReplaceAll(id.String(), "-", ""), nil
}
