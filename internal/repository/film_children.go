package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/film-archive-api/internal/model"
)

// childSet binds a dependent table to the function that writes its rows for
// one film input.
type childSet struct {
	table  string
	insert func(ctx context.Context, tx *sql.Tx, filmID uint64, in *model.FilmInput) error
}

// childSets is the fixed order in which dependent tables are written,
// replaced and soft-deleted.
var childSets = []childSet{
	{"film_production_details", insertProductionDetails},
	{"film_authors", insertAuthors},
	{"film_production_team", insertProductionTeam},
	{"film_actors", insertActors},
	{"film_equipment", insertEquipment},
	{"film_documents", insertDocuments},
	{"film_institutional_info", insertInstitutionalInfo},
	{"film_screenings", insertScreenings},
}

func insertProductionDetails(ctx context.Context, tx *sql.Tx, filmID uint64, in *model.FilmInput) error {
	p := in.ProductionDetails
	if p.Empty() {
		return nil
	}
	return insertRows(ctx, tx, "film_production_details",
		[]string{"film_id", "production_timeframe", "shooting_city", "shooting_country", "post_production_studio", "production_comments"},
		[][]any{{filmID, p.ProductionTimeframe, p.ShootingCity, p.ShootingCountry, p.PostProductionStudio, p.ProductionComments}})
}

func insertAuthors(ctx context.Context, tx *sql.Tx, filmID uint64, in *model.FilmInput) error {
	var rows [][]any
	for _, a := range in.AuthorRows() {
		rows = append(rows, []any{filmID, a.Role, a.Name, a.Comment})
	}
	return insertRows(ctx, tx, "film_authors", []string{"film_id", "role", "name", "comment"}, rows)
}

// insertProductionTeam stores every submitted member, even one with no
// attributes.
func insertProductionTeam(ctx context.Context, tx *sql.Tx, filmID uint64, in *model.FilmInput) error {
	var rows [][]any
	for _, m := range in.ProductionTeam {
		rows = append(rows, []any{filmID, m.Department, m.Name, m.Role, m.Comment})
	}
	return insertRows(ctx, tx, "film_production_team", []string{"film_id", "department", "name", "role", "comment"}, rows)
}

func insertActors(ctx context.Context, tx *sql.Tx, filmID uint64, in *model.FilmInput) error {
	var rows [][]any
	for _, name := range in.ActorNames() {
		rows = append(rows, []any{filmID, name})
	}
	return insertRows(ctx, tx, "film_actors", []string{"film_id", "actor_name"}, rows)
}

func insertEquipment(ctx context.Context, tx *sql.Tx, filmID uint64, in *model.FilmInput) error {
	e := in.EquipmentRow()
	if e == nil {
		return nil
	}
	return insertRows(ctx, tx, "film_equipment", []string{"film_id", "equipment_name", "description", "comment"},
		[][]any{{filmID, strings.TrimSpace(*e.EquipmentName), e.Description, e.Comment}})
}

func insertDocuments(ctx context.Context, tx *sql.Tx, filmID uint64, in *model.FilmInput) error {
	d := in.DocumentRow()
	if d == nil {
		return nil
	}
	return insertRows(ctx, tx, "film_documents", []string{"film_id", "document_type", "file_url", "comment"},
		[][]any{{filmID, strings.TrimSpace(*d.DocumentType), d.FileURL, d.Comment}})
}

// insertInstitutionalInfo always writes a row, all-null when the section is
// absent.
func insertInstitutionalInfo(ctx context.Context, tx *sql.Tx, filmID uint64, in *model.FilmInput) error {
	i := in.InstitutionalRow()
	return insertRows(ctx, tx, "film_institutional_info",
		[]string{"film_id", "production_company", "funding_company", "funding_comment", "source", "institutional_city", "institutional_country"},
		[][]any{{filmID, i.ProductionCompany, i.FundingCompany, i.FundingComment, i.Source, i.InstitutionalCity, i.InstitutionalCountry}})
}

func insertScreenings(ctx context.Context, tx *sql.Tx, filmID uint64, in *model.FilmInput) error {
	var rows [][]any
	for _, s := range in.ScreeningRows() {
		rows = append(rows, []any{filmID, *s.ScreeningDate, s.ScreeningCity, s.ScreeningCountry,
			s.Organizers, s.Format, s.Audience, s.FilmRights, s.Comment, s.Source})
	}
	return insertRows(ctx, tx, "film_screenings",
		[]string{"film_id", "screening_date", "screening_city", "screening_country", "organizers", "format", "audience", "film_rights", "comment", "source"},
		rows)
}

// insertRows writes rows into table with one multi-row INSERT. No rows is a
// no-op.
func insertRows(ctx context.Context, tx *sql.Tx, table string, cols []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	group := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES ")
	args := make([]any, 0, len(rows)*len(cols))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(group)
		args = append(args, row...)
	}
	_, err := tx.ExecContext(ctx, b.String(), args...)
	return err
}
