package archetype

import (
	"strings"
	"testing"

	"github.com/deckwatch/deckwatch/internal/storage/models"
)

func TestValidatePlacement(t *testing.T) {
	tests := []struct {
		name      string
		placement *models.Placement
		wantCount int
		wantParts []string
	}{
		{
			name:      "nil input fails open",
			placement: nil,
			wantCount: 0,
		},
		{
			name:      "unresolved zero-value placement flags low confidence only",
			placement: &models.Placement{Archetype: "Rogue"},
			wantCount: 1,
			wantParts: []string{"low confidence"},
		},
		{
			name: "clean sprite resolution has no warnings",
			placement: &models.Placement{
				SpriteURLs:          []string{"a/cinderace.png"},
				RawArchetypeSprites: []string{"a/cinderace.png"},
				Archetype:           "Cinderace ex",
				DetectionMethod:     MethodSpriteLookup.String(),
				Confidence:          0.95,
			},
			wantCount: 0,
		},
		{
			name: "sprites with Unknown archetype",
			placement: &models.Placement{
				RawArchetypeSprites: []string{"a/mystery.png"},
				Archetype:           Unknown,
				DetectionMethod:     MethodTextLabel.String(),
				Confidence:          0.10,
			},
			wantCount: 3,
			wantParts: []string{"sprites present", "low confidence", "despite sprites"},
		},
		{
			name: "text label despite sprites at fair confidence",
			placement: &models.Placement{
				RawArchetypeSprites: []string{"a/mystery.png"},
				Archetype:           "Charizard ex",
				DetectionMethod:     MethodTextLabel.String(),
				Confidence:          0.50,
			},
			wantCount: 1,
			wantParts: []string{"despite sprites"},
		},
		{
			name: "boundary confidence 0.5 is not flagged",
			placement: &models.Placement{
				Archetype:       "Charizard ex",
				DetectionMethod: MethodTextLabel.String(),
				Confidence:      0.50,
			},
			wantCount: 0,
		},
		{
			name: "confidence just under the floor is flagged",
			placement: &models.Placement{
				Archetype:       "Charizard ex",
				DetectionMethod: MethodSignatureCard.String(),
				Confidence:      0.49,
			},
			wantCount: 1,
			wantParts: []string{"low confidence"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePlacement(tt.placement)
			if len(got) != tt.wantCount {
				t.Fatalf("ValidatePlacement() = %v (%d warnings), want %d", got, len(got), tt.wantCount)
			}
			for _, part := range tt.wantParts {
				found := false
				for _, w := range got {
					if strings.Contains(w, part) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("warnings %v missing expected fragment %q", got, part)
				}
			}
		})
	}
}

func TestValidatePlacement_NeverMutates(t *testing.T) {
	p := &models.Placement{
		RawArchetypeSprites: []string{"a/mystery.png"},
		Archetype:           Unknown,
		DetectionMethod:     MethodTextLabel.String(),
		Confidence:          0.10,
	}
	before := *p
	_ = ValidatePlacement(p)
	if p.Archetype != before.Archetype || p.Confidence != before.Confidence || p.DetectionMethod != before.DetectionMethod {
		t.Error("ValidatePlacement mutated its input")
	}
}
