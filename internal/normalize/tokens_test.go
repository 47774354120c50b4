package normalize

import (
	"reflect"
	"testing"
)

func TestPieces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "multi-word legal suffix with ampersand",
			input: "Enno Roggemann GmbH & Co. KG",
			want:  []string{"enno", "roggemann", "gmbh", "&", "co", "kg"},
		},
		{
			name:  "dotted abbreviation collapses",
			input: "s.r.o.",
			want:  []string{"sro"},
		},
		{
			name:  "trailing period dropped",
			input: "Tresata pvt ltd.",
			want:  []string{"tresata", "pvt", "ltd"},
		},
		{
			name:  "and becomes ampersand",
			input: "Smith AND Sons",
			want:  []string{"smith", "&", "sons"},
		},
		{
			name:  "ampersand inside a word is kept",
			input: "A&B",
			want:  []string{"a&b"},
		},
		{
			name:  "comma splits",
			input: "Co.,Ltd",
			want:  []string{"co", "ltd"},
		},
		{
			name:  "apostrophe dropped",
			input: "O'Brien",
			want:  []string{"obrien"},
		},
		{
			name:  "punctuation only",
			input: " - , ",
			want:  []string{},
		},
		{
			name:  "empty",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Norms(Pieces(tt.input))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Pieces(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPiecesOffsets(t *testing.T) {
	input := "Enno Roggemann GmbH & Co. KG"
	pieces := Pieces(input)
	if len(pieces) != 6 {
		t.Fatalf("expected 6 pieces, got %d", len(pieces))
	}

	wantStarts := []int{0, 5, 15, 20, 22, 26}
	for i, p := range pieces {
		if p.Start != wantStarts[i] {
			t.Errorf("piece %d (%q) start = %d, want %d", i, p.Norm, p.Start, wantStarts[i])
		}
	}
	if got := input[pieces[2].Start:]; got != "GmbH & Co. KG" {
		t.Errorf("slice from third piece = %q", got)
	}

	p := Pieces("s.r.o.")
	if p[0].Start != 0 || p[0].End != 5 {
		t.Errorf("s.r.o. offsets = [%d,%d), want [0,5)", p[0].Start, p[0].End)
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Visit France", []string{"visit", "france"}},
		{"(475) 216-2114", []string{"475", "216", "2114"}},
		{"GmbH & Co. KG", []string{"gmbh", "co", "kg"}},
		{"Zürich_AG", []string{"zürich_ag"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Words(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Words(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFields(t *testing.T) {
	spans := Fields("  Acme   Ltd. ")
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Text != "Acme" || spans[0].Start != 2 || spans[0].End != 6 {
		t.Errorf("unexpected first span %+v", spans[0])
	}
	if spans[1].Text != "Ltd." || spans[1].Start != 9 {
		t.Errorf("unexpected second span %+v", spans[1])
	}
}

func TestNormalizeToken(t *testing.T) {
	tests := map[string]string{
		"Co.,":   "co",
		"AND":    "&",
		"GmbH.":  "gmbh",
		"(Pvt)":  "pvt",
		"a/b":    "a b",
		"---":    "",
		"S.A.S.": "sas",
	}
	for in, want := range tests {
		if got := NormalizeToken(in); got != want {
			t.Errorf("NormalizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTrimName(t *testing.T) {
	tests := map[string]string{
		"Acme, ":       "Acme",
		"Acme Corp. ,": "Acme Corp",
		"  ":           "",
		"Tresata ":     "Tresata",
	}
	for in, want := range tests {
		if got := TrimName(in); got != want {
			t.Errorf("TrimName(%q) = %q, want %q", in, got, want)
		}
	}
}
