package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Author roles accepted by film_authors.role.
const (
	AuthorScreenwriter      = "Screenwriter"
	AuthorFilmmaker         = "Filmmaker"
	AuthorExecutiveProducer = "Executive Producer"
)

// DateLayout is the wire and storage format of screening dates.
const DateLayout = "2006-01-02"

// FilmInput is the document accepted by create and update. Every child
// section is optional; what gets stored for each one is decided by the
// accessor methods below so that create and update share one policy.
type FilmInput struct {
	Title          *string `json:"title"`
	ReleaseYear    *int    `json:"release_year"`
	Runtime        *int    `json:"runtime"`
	Synopsis       *string `json:"synopsis"`
	AVAnnotateLink *string `json:"av_annotate_link"`

	ProductionDetails *ProductionDetailsInput `json:"productionDetails"`
	Authors           *AuthorsInput           `json:"authors"`
	ProductionTeam    []TeamMemberInput       `json:"productionTeam"`
	Actors            *string                 `json:"actors"`
	Equipment         *EquipmentInput         `json:"equipment"`
	Documents         *DocumentInput          `json:"documents"`
	InstitutionalInfo *InstitutionalInfoInput `json:"institutionalInfo"`
	Screenings        []ScreeningInput        `json:"screenings"`
}

type ProductionDetailsInput struct {
	ProductionTimeframe  *string `json:"production_timeframe"`
	ShootingCity         *string `json:"shooting_city"`
	ShootingCountry      *string `json:"shooting_country"`
	PostProductionStudio *string `json:"post_production_studio"`
	ProductionComments   *string `json:"production_comments"`
}

// Empty reports whether no field of the section was supplied.
func (p *ProductionDetailsInput) Empty() bool {
	return p == nil || (p.ProductionTimeframe == nil && p.ShootingCity == nil &&
		p.ShootingCountry == nil && p.PostProductionStudio == nil && p.ProductionComments == nil)
}

// AuthorsInput names at most one person per fixed role.
type AuthorsInput struct {
	Screenwriter             *string `json:"screenwriter"`
	ScreenwriterComment      *string `json:"screenwriter_comment"`
	Filmmaker                *string `json:"filmmaker"`
	FilmmakerComment         *string `json:"filmmaker_comment"`
	ExecutiveProducer        *string `json:"executive_producer"`
	ExecutiveProducerComment *string `json:"executive_producer_comment"`
}

type TeamMemberInput struct {
	Department *string `json:"department"`
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	Comment    *string `json:"comment"`
}

type EquipmentInput struct {
	EquipmentName *string `json:"equipment_name"`
	Description   *string `json:"description"`
	Comment       *string `json:"comment"`
}

type DocumentInput struct {
	DocumentType *string `json:"document_type"`
	FileURL      *string `json:"file_url"`
	Comment      *string `json:"comment"`
}

type InstitutionalInfoInput struct {
	ProductionCompany    *string `json:"production_company"`
	FundingCompany       *string `json:"funding_company"`
	FundingComment       *string `json:"funding_comment"`
	Source               *string `json:"source"`
	InstitutionalCity    *string `json:"institutional_city"`
	InstitutionalCountry *string `json:"institutional_country"`
}

type ScreeningInput struct {
	ScreeningDate    *string `json:"screening_date"`
	ScreeningCity    *string `json:"screening_city"`
	ScreeningCountry *string `json:"screening_country"`
	Organizers       *string `json:"organizers"`
	Format           *string `json:"format"`
	Audience         *string `json:"audience"`
	FilmRights       *string `json:"film_rights"`
	Comment          *string `json:"comment"`
	Source           *string `json:"source"`
}

// AuthorRows returns one author per role whose name is present, in the order
// Screenwriter, Filmmaker, Executive Producer. Roles without a name produce
// nothing.
func (in *FilmInput) AuthorRows() []Author {
	a := in.Authors
	if a == nil {
		return nil
	}
	var out []Author
	add := func(role string, name, comment *string) {
		if n := trimmed(name); n != "" {
			out = append(out, Author{Role: role, Name: n, Comment: comment})
		}
	}
	add(AuthorScreenwriter, a.Screenwriter, a.ScreenwriterComment)
	add(AuthorFilmmaker, a.Filmmaker, a.FilmmakerComment)
	add(AuthorExecutiveProducer, a.ExecutiveProducer, a.ExecutiveProducerComment)
	return out
}

// ActorNames splits the comma separated actor list, trims each token and
// drops empty ones.
func (in *FilmInput) ActorNames() []string {
	if in.Actors == nil {
		return nil
	}
	return SplitActors(*in.Actors)
}

// SplitActors parses "Alice, Bob ,, Carol" into [Alice Bob Carol].
func SplitActors(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		if nm := strings.TrimSpace(tok); nm != "" {
			out = append(out, nm)
		}
	}
	return out
}

// EquipmentRow returns the equipment section when its name is present.
func (in *FilmInput) EquipmentRow() *EquipmentInput {
	if in.Equipment == nil || trimmed(in.Equipment.EquipmentName) == "" {
		return nil
	}
	return in.Equipment
}

// DocumentRow returns the document section when its type is present.
func (in *FilmInput) DocumentRow() *DocumentInput {
	if in.Documents == nil || trimmed(in.Documents.DocumentType) == "" {
		return nil
	}
	return in.Documents
}

// InstitutionalRow always yields a row; absent attributes stay nil.
func (in *FilmInput) InstitutionalRow() InstitutionalInfoInput {
	if in.InstitutionalInfo == nil {
		return InstitutionalInfoInput{}
	}
	return *in.InstitutionalInfo
}

// ScreeningRows keeps the screenings that carry a date.
func (in *FilmInput) ScreeningRows() []ScreeningInput {
	var out []ScreeningInput
	for _, s := range in.Screenings {
		if trimmed(s.ScreeningDate) != "" {
			out = append(out, s)
		}
	}
	return out
}

// ValidationError maps offending fields to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Validate checks the document before it reaches storage. Title is trimmed
// in place.
func (in *FilmInput) Validate() error {
	fields := map[string]string{}

	title := trimmed(in.Title)
	switch {
	case title == "":
		fields["title"] = "is required"
	case len(title) > 255:
		fields["title"] = "must be at most 255 characters"
	default:
		in.Title = &title
	}
	if in.ReleaseYear != nil && (*in.ReleaseYear < 1870 || *in.ReleaseYear > 2100) {
		fields["release_year"] = "must be between 1870 and 2100"
	}
	if in.Runtime != nil && *in.Runtime < 0 {
		fields["runtime"] = "must not be negative"
	}
	for i, s := range in.Screenings {
		d := trimmed(s.ScreeningDate)
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			fields[fmt.Sprintf("screenings[%d].screening_date", i)] = "must be YYYY-MM-DD"
			continue
		}
		in.Screenings[i].ScreeningDate = &d
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
