package archetype

import (
	"fmt"
	"strings"

	"github.com/deckwatch/deckwatch/internal/storage/models"
)

// Diagnostic warning thresholds.
const lowConfidenceFloor = 0.5

// ValidatePlacement inspects a resolved placement and returns human-readable
// warnings for suspicious outcomes. It is observability only: it never
// raises, never mutates, and returns an empty list for anything it cannot
// interpret, including nil input. All applicable warnings are returned
// together.
func ValidatePlacement(p *models.Placement) []string {
	if p == nil {
		return nil
	}

	spritesPresent := len(p.RawArchetypeSprites) > 0 || len(p.SpriteURLs) > 0
	warnings := make([]string, 0, 3)

	if spritesPresent && strings.TrimSpace(p.Archetype) == Unknown {
		warnings = append(warnings,
			fmt.Sprintf("placement %s/%d: sprites present but archetype is %s",
				p.TournamentID, p.Placement, Unknown))
	}

	if p.Confidence < lowConfidenceFloor {
		warnings = append(warnings,
			fmt.Sprintf("placement %s/%d: low confidence %.2f",
				p.TournamentID, p.Placement, p.Confidence))
	}

	if spritesPresent && p.DetectionMethod == MethodTextLabel.String() {
		warnings = append(warnings,
			fmt.Sprintf("placement %s/%d: resolved via %s despite sprites being present",
				p.TournamentID, p.Placement, MethodTextLabel))
	}

	return warnings
}
