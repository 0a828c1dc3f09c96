package signature

import (
	"testing"
)

func testIndex() *Index {
	ix := NewIndex()
	ix.Add("sv3-125", "Charizard ex")
	ix.Add("sv3-5", "Charizard ex")
	ix.Add("sv2-86", "Chien-Pao ex")
	ix.Add("sv2-60", "Chien-Pao ex")
	ix.Add("sv4-78", "Gardevoir ex")
	return ix
}

func TestDetector_Detect(t *testing.T) {
	d := NewDetector(testIndex())

	tests := []struct {
		name string
		deck []Entry
		want string
	}{
		{
			name: "single signature card",
			deck: []Entry{{CardID: "sv3-125", Quantity: 2}},
			want: "Charizard ex",
		},
		{
			name: "empty decklist is rogue",
			deck: nil,
			want: Rogue,
		},
		{
			name: "no signature matches is rogue",
			deck: []Entry{{CardID: "sv1-1", Quantity: 4}, {CardID: "sv1-2", Quantity: 4}},
			want: Rogue,
		},
		{
			name: "higher aggregate quantity wins",
			deck: []Entry{
				{CardID: "sv3-125", Quantity: 2},
				{CardID: "sv2-86", Quantity: 3},
				{CardID: "sv2-60", Quantity: 1},
			},
			want: "Chien-Pao ex",
		},
		{
			name: "quantities aggregate across cards of one archetype",
			deck: []Entry{
				{CardID: "sv3-125", Quantity: 2},
				{CardID: "sv3-5", Quantity: 2},
				{CardID: "sv2-86", Quantity: 3},
			},
			want: "Charizard ex",
		},
		{
			name: "zero and negative quantities default to one",
			deck: []Entry{
				{CardID: "sv3-125", Quantity: 0},
				{CardID: "sv2-86", Quantity: -4},
				{CardID: "sv3-5", Quantity: 1},
			},
			want: "Charizard ex",
		},
		{
			name: "entries without ids are skipped",
			deck: []Entry{
				{CardID: "", Name: "Basic Fire Energy", Quantity: 10},
				{CardID: "sv4-78", Quantity: 2},
			},
			want: "Gardevoir ex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Detect(tt.deck); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetector_TieBreaksByIndexOrder(t *testing.T) {
	// Charizard ex registered before Chien-Pao ex; equal quantities must
	// resolve to the earlier registration, every time.
	d := NewDetector(testIndex())
	deck := []Entry{
		{CardID: "sv2-86", Quantity: 3},
		{CardID: "sv3-125", Quantity: 3},
	}

	for i := 0; i < 50; i++ {
		if got := d.Detect(deck); got != "Charizard ex" {
			t.Fatalf("run %d: Detect() = %q, want Charizard ex (index order tie-break)", i, got)
		}
	}
}

func TestDetector_DetectWithConfidence(t *testing.T) {
	d := NewDetector(testIndex())
	deck := []Entry{
		{CardID: "sv3-125", Quantity: 3},
		{CardID: "sv3-5", Quantity: 1},
		{CardID: "sv2-86", Quantity: 2},
	}

	got, votes := d.DetectWithConfidence(deck)
	if got != "Charizard ex" {
		t.Errorf("archetype = %q, want Charizard ex", got)
	}
	if votes["Charizard ex"] != 4 {
		t.Errorf("votes[Charizard ex] = %d, want 4", votes["Charizard ex"])
	}
	if votes["Chien-Pao ex"] != 2 {
		t.Errorf("votes[Chien-Pao ex] = %d, want 2", votes["Chien-Pao ex"])
	}
}

func TestDetector_TranslatesBeforeLookup(t *testing.T) {
	jpToEN := map[string]string{"sv3J-100": "sv3-125"}
	d := NewDetector(testIndex(), WithTranslator(func(id string) string {
		if en, ok := jpToEN[id]; ok {
			return en
		}
		return id
	}))

	deck := []Entry{
		{CardID: "sv3J-100", Quantity: 2}, // JP spelling of a Charizard signature
		{CardID: "sv9J-1", Quantity: 4},   // unmapped, passes through, no match
	}
	if got := d.Detect(deck); got != "Charizard ex" {
		t.Errorf("Detect() = %q, want Charizard ex via JP translation", got)
	}
}

func TestDetector_DetectFromExisting(t *testing.T) {
	d := NewDetector(testIndex(), WithLabelNormalizer(func(s string) string {
		if s == "zard" {
			return "Charizard ex"
		}
		return s
	}))

	tests := []struct {
		name     string
		deck     []Entry
		existing string
		want     string
	}{
		{
			name:     "detection wins over label",
			deck:     []Entry{{CardID: "sv4-78", Quantity: 2}},
			existing: "zard",
			want:     "Gardevoir ex",
		},
		{
			name:     "falls back to normalized label",
			deck:     []Entry{{CardID: "sv1-1", Quantity: 4}},
			existing: "zard",
			want:     "Charizard ex",
		},
		{
			name:     "empty label and no detection is rogue",
			deck:     nil,
			existing: "",
			want:     Rogue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.DetectFromExisting(tt.deck, tt.existing); got != tt.want {
				t.Errorf("DetectFromExisting() = %q, want %q", got, tt.want)
			}
		})
	}
}
