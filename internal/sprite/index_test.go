package sprite

import "testing"

func TestTokenFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "plain png",
			url:  "https://cdn.example.net/pokemon/chien-pao.png",
			want: "chien-pao",
		},
		{
			name: "query string stripped",
			url:  "https://cdn.example.net/pokemon/baxcalibur.png?v=3",
			want: "baxcalibur",
		},
		{
			name: "uppercase normalized",
			url:  "https://cdn.example.net/sprites/Charizard.PNG",
			want: "charizard",
		},
		{
			name: "no extension",
			url:  "https://cdn.example.net/sprites/pidgeot",
			want: "pidgeot",
		},
		{
			name: "empty url",
			url:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenFromURL(tt.url); got != tt.want {
				t.Errorf("TokenFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func testIndex() *Index {
	ix := NewIndex()
	ix.AddCombo([]string{"chien-pao", "baxcalibur"}, "Chien-Pao ex", 0.95)
	ix.AddCombo([]string{"charizard", "pidgeot"}, "Charizard ex", 0.95)
	ix.AddCombo([]string{"cinderace"}, "Cinderace ex", 0.95)
	ix.AddName("chien-pao", "Chien-Pao")
	ix.AddName("baxcalibur", "Baxcalibur")
	ix.AddName("iron-thorns", "Iron Thorns")
	return ix
}

func TestIndex_Lookup(t *testing.T) {
	ix := testIndex()

	m, ok := ix.Lookup([]string{
		"https://cdn.example.net/pokemon/chien-pao.png",
		"https://cdn.example.net/pokemon/baxcalibur.png",
	})
	if !ok {
		t.Fatal("expected combo match")
	}
	if m.Archetype != "Chien-Pao ex" {
		t.Errorf("Archetype = %q, want Chien-Pao ex", m.Archetype)
	}
	if m.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95", m.Confidence)
	}
}

func TestIndex_LookupIsOrderInsensitive(t *testing.T) {
	ix := testIndex()

	forward, ok1 := ix.Lookup([]string{"a/chien-pao.png", "a/baxcalibur.png"})
	reversed, ok2 := ix.Lookup([]string{"a/baxcalibur.png", "a/chien-pao.png"})
	if !ok1 || !ok2 {
		t.Fatal("both orderings must match")
	}
	if forward != reversed {
		t.Errorf("order changed the match: %+v vs %+v", forward, reversed)
	}
}

func TestIndex_LookupMisses(t *testing.T) {
	ix := testIndex()

	if _, ok := ix.Lookup([]string{"a/unheard-of.png"}); ok {
		t.Error("unknown combo must not match")
	}
	if _, ok := ix.Lookup(nil); ok {
		t.Error("no sprites must not match")
	}
	// A known combo plus an extra sprite is a different combination.
	if _, ok := ix.Lookup([]string{"a/chien-pao.png", "a/baxcalibur.png", "a/bibarel.png"}); ok {
		t.Error("superset of a known combo must not match")
	}
}

func TestIndex_DeriveName(t *testing.T) {
	ix := testIndex()

	tests := []struct {
		name   string
		urls   []string
		want   string
		wantOK bool
	}{
		{
			name:   "all sprites recognized, sprite order preserved",
			urls:   []string{"a/baxcalibur.png", "a/chien-pao.png"},
			want:   "Baxcalibur Chien-Pao",
			wantOK: true,
		},
		{
			name:   "partially recognized drops the unknown sprite",
			urls:   []string{"a/iron-thorns.png", "a/never-seen.png"},
			want:   "Iron Thorns",
			wantOK: true,
		},
		{
			name:   "nothing recognized fails",
			urls:   []string{"a/never-seen.png"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ix.DeriveName(tt.urls)
			if ok != tt.wantOK {
				t.Fatalf("DeriveName() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("DeriveName() = %q, want %q", got, tt.want)
			}
		})
	}
}
