// Package model holds the film aggregate as it is exchanged with clients:
// the typed input document accepted on writes and the read shapes returned
// by the repository.
package model

import "time"

// Film mirrors a live row of the `films` table.
type Film struct {
	ID             uint64    `json:"film_id"`
	Title          string    `json:"title"`
	ReleaseYear    *int      `json:"release_year"`
	Runtime        *int      `json:"runtime"`
	Synopsis       *string   `json:"synopsis"`
	AVAnnotateLink *string   `json:"av_annotate_link"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FilmSummary is the public listing shape.
type FilmSummary struct {
	ID    uint64 `json:"film_id"`
	Title string `json:"title"`
}

type ProductionDetails struct {
	ProductionTimeframe  *string `json:"production_timeframe"`
	ShootingCity         *string `json:"shooting_city"`
	ShootingCountry      *string `json:"shooting_country"`
	PostProductionStudio *string `json:"post_production_studio"`
	ProductionComments   *string `json:"production_comments"`
}

type Author struct {
	Role    string  `json:"role"`
	Name    string  `json:"name"`
	Comment *string `json:"comment"`
}

type TeamMember struct {
	Department *string `json:"department"`
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	Comment    *string `json:"comment"`
}

type Actor struct {
	ActorName     string  `json:"actor_name"`
	CharacterName *string `json:"character_name"`
	Comment       *string `json:"comment"`
}

type Equipment struct {
	EquipmentName string  `json:"equipment_name"`
	Description   *string `json:"description"`
	Comment       *string `json:"comment"`
}

type Document struct {
	DocumentType string  `json:"document_type"`
	FileURL      *string `json:"file_url"`
	Comment      *string `json:"comment"`
}

type InstitutionalInfo struct {
	ProductionCompany    *string `json:"production_company"`
	FundingCompany       *string `json:"funding_company"`
	FundingComment       *string `json:"funding_comment"`
	Source               *string `json:"source"`
	InstitutionalCity    *string `json:"institutional_city"`
	InstitutionalCountry *string `json:"institutional_country"`
}

// Screening dates are rendered as YYYY-MM-DD.
type Screening struct {
	ScreeningDate    string  `json:"screening_date"`
	ScreeningCity    *string `json:"screening_city"`
	ScreeningCountry *string `json:"screening_country"`
	Organizers       *string `json:"organizers"`
	Format           *string `json:"format"`
	Audience         *string `json:"audience"`
	FilmRights       *string `json:"film_rights"`
	Comment          *string `json:"comment"`
	Source           *string `json:"source"`
}

// FilmAggregate is the full read of one live film. ProductionDetails and
// InstitutionalInfo are nil when the film has no live row for them; the
// slices are never nil.
type FilmAggregate struct {
	Film              Film               `json:"film"`
	ProductionDetails *ProductionDetails `json:"productionDetails"`
	Authors           []Author           `json:"authors"`
	ProductionTeam    []TeamMember       `json:"productionTeam"`
	Actors            []Actor            `json:"actors"`
	Equipment         []Equipment        `json:"equipment"`
	Documents         []Document         `json:"documents"`
	InstitutionalInfo *InstitutionalInfo `json:"institutionalInfo"`
	Screenings        []Screening        `json:"screenings"`
}

// NewFilmAggregate returns an aggregate for f with empty child sets.
func NewFilmAggregate(f Film) *FilmAggregate {
	return &FilmAggregate{
		Film:           f,
		Authors:        []Author{},
		ProductionTeam: []TeamMember{},
		Actors:         []Actor{},
		Equipment:      []Equipment{},
		Documents:      []Document{},
		Screenings:     []Screening{},
	}
}

// FilmDigest is one row of the pre-aggregated listing: the film, its single
// valued sections flattened in, and every set pre-joined. Reference carries
// the citation string.
type FilmDigest struct {
	Film
	ProductionDetails *ProductionDetails `json:"productionDetails"`
	InstitutionalInfo *InstitutionalInfo `json:"institutionalInfo"`
	Authors           []Author           `json:"authors"`
	Team              []TeamMember       `json:"team"`
	Actors            []Actor            `json:"actors"`
	Equipment         []Equipment        `json:"equipment"`
	Documents         []Document         `json:"documents"`
	Screenings        []Screening        `json:"screenings"`
	Reference         string             `json:"reference"`
}
