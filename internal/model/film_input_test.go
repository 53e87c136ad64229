package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestSplitActors(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Alice, Bob ,, Carol", []string{"Alice", "Bob", "Carol"}},
		{"", nil},
		{" , ,", nil},
		{"Solo", []string{"Solo"}},
	}
	for _, tt := range tests {
		got := SplitActors(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitActors(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAuthorRows_OnlyFilmmaker(t *testing.T) {
	in := FilmInput{Authors: &AuthorsInput{Filmmaker: strp("Agnès Varda"), FilmmakerComment: strp("dir.")}}

	rows := in.AuthorRows()
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Role != AuthorFilmmaker || rows[0].Name != "Agnès Varda" {
		t.Errorf("unexpected row %+v", rows[0])
	}
	if rows[0].Comment == nil || *rows[0].Comment != "dir." {
		t.Errorf("comment not carried: %+v", rows[0].Comment)
	}
}

func TestAuthorRows_OrderAndBlank(t *testing.T) {
	in := FilmInput{Authors: &AuthorsInput{
		ExecutiveProducer: strp("Pat"),
		Screenwriter:      strp("Sam"),
		Filmmaker:         strp("   "),
	}}
	rows := in.AuthorRows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Role != AuthorScreenwriter || rows[1].Role != AuthorExecutiveProducer {
		t.Errorf("unexpected order: %+v", rows)
	}
	if (&FilmInput{}).AuthorRows() != nil {
		t.Error("absent authors section should yield no rows")
	}
}

func TestOptionalSingletons(t *testing.T) {
	in := FilmInput{
		Equipment: &EquipmentInput{Description: strp("16mm")},
		Documents: &DocumentInput{DocumentType: strp("Script")},
	}
	if in.EquipmentRow() != nil {
		t.Error("equipment without a name should be skipped")
	}
	if in.DocumentRow() == nil {
		t.Error("document with a type should be kept")
	}
	inst := in.InstitutionalRow()
	if inst.ProductionCompany != nil {
		t.Error("absent institutional info should produce an all-null row")
	}
}

func TestScreeningRows_DropsUndated(t *testing.T) {
	in := FilmInput{Screenings: []ScreeningInput{
		{ScreeningDate: strp("1971-05-02"), ScreeningCity: strp("Cannes")},
		{ScreeningCity: strp("Nowhere")},
		{ScreeningDate: strp(" ")},
	}}
	rows := in.ScreeningRows()
	if len(rows) != 1 || *rows[0].ScreeningCity != "Cannes" {
		t.Errorf("unexpected screenings %+v", rows)
	}
}

func TestProductionDetailsEmpty(t *testing.T) {
	var nilSection *ProductionDetailsInput
	if !nilSection.Empty() {
		t.Error("nil section should be empty")
	}
	if !(&ProductionDetailsInput{}).Empty() {
		t.Error("zero section should be empty")
	}
	if (&ProductionDetailsInput{ShootingCity: strp("Lagos")}).Empty() {
		t.Error("section with a field should not be empty")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		in     FilmInput
		fields []string
	}{
		{"valid", FilmInput{Title: strp(" Touki Bouki "), ReleaseYear: intp(1973), Runtime: intp(85)}, nil},
		{"missing title", FilmInput{}, []string{"title"}},
		{"blank title", FilmInput{Title: strp("  ")}, []string{"title"}},
		{"long title", FilmInput{Title: strp(strings.Repeat("x", 256))}, []string{"title"}},
		{"bad year", FilmInput{Title: strp("T"), ReleaseYear: intp(1700)}, []string{"release_year"}},
		{"negative runtime", FilmInput{Title: strp("T"), Runtime: intp(-1)}, []string{"runtime"}},
		{"bad date", FilmInput{Title: strp("T"), Screenings: []ScreeningInput{{ScreeningDate: strp("02/05/1971")}}},
			[]string{"screenings[0].screening_date"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want *ValidationError, got %v", err)
			}
			for _, f := range tt.fields {
				if _, ok := verr.Fields[f]; !ok {
					t.Errorf("missing field %q in %v", f, verr.Fields)
				}
			}
		})
	}
}

func TestValidate_TrimsTitle(t *testing.T) {
	in := FilmInput{Title: strp("  La Noire de...  ")}
	if err := in.Validate(); err != nil {
		t.Fatal(err)
	}
	if *in.Title != "La Noire de..." {
		t.Errorf("title = %q", *in.Title)
	}
}

func TestFilmInput_DecodesReferencePayload(t *testing.T) {
	body := `{
		"title": "Xala",
		"release_year": 1975,
		"authors": {"filmmaker": "Ousmane Sembène"},
		"productionTeam": [{"department": "Camera"}, {}],
		"actors": "Thierno Leye, Myriam Niang",
		"screenings": [{"screening_date": "1975-10-01", "screening_city": "Dakar"}]
	}`
	var in FilmInput
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatal(err)
	}
	if err := in.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(in.ProductionTeam) != 2 {
		t.Errorf("team members = %d, want 2", len(in.ProductionTeam))
	}
	if got := in.ActorNames(); len(got) != 2 {
		t.Errorf("actors = %q", got)
	}
	if len(in.AuthorRows()) != 1 {
		t.Errorf("authors = %+v", in.AuthorRows())
	}
}

func TestCitation(t *testing.T) {
	at := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	got := Citation("Xala", "EAC Lab Database.", "https://example.org/films", at)
	want := `"Xala". EAC Lab Database. Accessed 07-03-2026. https://example.org/films`
	if got != want {
		t.Errorf("Citation = %q, want %q", got, want)
	}
}
