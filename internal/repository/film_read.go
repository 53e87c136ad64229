package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/film-archive-api/internal/model"
)

const filmColumns = `f.film_id, f.title, f.release_year, f.runtime, f.synopsis, f.av_annotate_link, f.created_at, f.updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// filmScan holds the nullable destinations for filmColumns.
type filmScan struct {
	f        model.Film
	year     sql.NullInt64
	runtime  sql.NullInt64
	synopsis sql.NullString
	link     sql.NullString
}

func (s *filmScan) dest() []any {
	return []any{&s.f.ID, &s.f.Title, &s.year, &s.runtime, &s.synopsis, &s.link, &s.f.CreatedAt, &s.f.UpdatedAt}
}

func (s *filmScan) film() model.Film {
	s.f.ReleaseYear = intPtr(s.year)
	s.f.Runtime = intPtr(s.runtime)
	s.f.Synopsis = strPtr(s.synopsis)
	s.f.AVAnnotateLink = strPtr(s.link)
	return s.f
}

// GetFull returns the live film with every live child row, read inside one
// read-only transaction so all sets come from the same snapshot.
// ErrFilmNotFound is returned when the film is absent or soft-deleted.
func (r *FilmRepo) GetFull(ctx context.Context, id uint64) (*model.FilmAggregate, error) {
	var agg *model.FilmAggregate
	err := r.withTx(ctx, &sql.TxOptions{ReadOnly: true}, func(tx *sql.Tx) error {
		var fs filmScan
		err := tx.QueryRowContext(ctx,
			`SELECT `+filmColumns+` FROM films f WHERE f.film_id = ? AND f.deleted_at IS NULL`, id).Scan(fs.dest()...)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFilmNotFound
		}
		if err != nil {
			return fmt.Errorf("get film: %w", err)
		}
		agg = model.NewFilmAggregate(fs.film())

		if agg.ProductionDetails, err = readProductionDetails(ctx, tx, id); err != nil {
			return err
		}
		for _, read := range []func(context.Context, *sql.Tx, uint64, *model.FilmAggregate) error{
			readAuthors, readProductionTeam, readActors, readEquipment, readDocuments,
		} {
			if err := read(ctx, tx, id, agg); err != nil {
				return err
			}
		}
		if agg.InstitutionalInfo, err = readInstitutionalInfo(ctx, tx, id); err != nil {
			return err
		}
		return readScreenings(ctx, tx, id, agg)
	})
	if err != nil {
		return nil, err
	}
	return agg, nil
}

func readProductionDetails(ctx context.Context, tx *sql.Tx, id uint64) (*model.ProductionDetails, error) {
	var tf, city, country, studio, comments sql.NullString
	err := tx.QueryRowContext(ctx,
		`SELECT production_timeframe, shooting_city, shooting_country, post_production_studio, production_comments
		 FROM film_production_details WHERE film_id = ? AND deleted_at IS NULL
		 ORDER BY production_detail_id LIMIT 1`, id).Scan(&tf, &city, &country, &studio, &comments)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("production details: %w", err)
	}
	return &model.ProductionDetails{
		ProductionTimeframe:  strPtr(tf),
		ShootingCity:         strPtr(city),
		ShootingCountry:      strPtr(country),
		PostProductionStudio: strPtr(studio),
		ProductionComments:   strPtr(comments),
	}, nil
}

func readInstitutionalInfo(ctx context.Context, tx *sql.Tx, id uint64) (*model.InstitutionalInfo, error) {
	var company, funding, fundingComment, source, city, country sql.NullString
	err := tx.QueryRowContext(ctx,
		`SELECT production_company, funding_company, funding_comment, source, institutional_city, institutional_country
		 FROM film_institutional_info WHERE film_id = ? AND deleted_at IS NULL
		 ORDER BY institutional_info_id LIMIT 1`, id).Scan(&company, &funding, &fundingComment, &source, &city, &country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("institutional info: %w", err)
	}
	return &model.InstitutionalInfo{
		ProductionCompany:    strPtr(company),
		FundingCompany:       strPtr(funding),
		FundingComment:       strPtr(fundingComment),
		Source:               strPtr(source),
		InstitutionalCity:    strPtr(city),
		InstitutionalCountry: strPtr(country),
	}, nil
}

// eachRow runs q and hands every row to scan.
func eachRow(ctx context.Context, tx *sql.Tx, what, q string, id uint64, scan func(rowScanner) error) error {
	rows, err := tx.QueryContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

func readAuthors(ctx context.Context, tx *sql.Tx, id uint64, agg *model.FilmAggregate) error {
	return eachRow(ctx, tx, "authors",
		`SELECT role, name, comment FROM film_authors WHERE film_id = ? AND deleted_at IS NULL ORDER BY author_id`, id,
		func(s rowScanner) error {
			var a model.Author
			var comment sql.NullString
			if err := s.Scan(&a.Role, &a.Name, &comment); err != nil {
				return err
			}
			a.Comment = strPtr(comment)
			agg.Authors = append(agg.Authors, a)
			return nil
		})
}

func readProductionTeam(ctx context.Context, tx *sql.Tx, id uint64, agg *model.FilmAggregate) error {
	return eachRow(ctx, tx, "production team",
		`SELECT department, name, role, comment FROM film_production_team WHERE film_id = ? AND deleted_at IS NULL ORDER BY team_member_id`, id,
		func(s rowScanner) error {
			var dept, name, role, comment sql.NullString
			if err := s.Scan(&dept, &name, &role, &comment); err != nil {
				return err
			}
			agg.ProductionTeam = append(agg.ProductionTeam, model.TeamMember{
				Department: strPtr(dept), Name: strPtr(name), Role: strPtr(role), Comment: strPtr(comment),
			})
			return nil
		})
}

func readActors(ctx context.Context, tx *sql.Tx, id uint64, agg *model.FilmAggregate) error {
	return eachRow(ctx, tx, "actors",
		`SELECT actor_name, character_name, comment FROM film_actors WHERE film_id = ? AND deleted_at IS NULL ORDER BY actor_id`, id,
		func(s rowScanner) error {
			var a model.Actor
			var character, comment sql.NullString
			if err := s.Scan(&a.ActorName, &character, &comment); err != nil {
				return err
			}
			a.CharacterName, a.Comment = strPtr(character), strPtr(comment)
			agg.Actors = append(agg.Actors, a)
			return nil
		})
}

func readEquipment(ctx context.Context, tx *sql.Tx, id uint64, agg *model.FilmAggregate) error {
	return eachRow(ctx, tx, "equipment",
		`SELECT equipment_name, description, comment FROM film_equipment WHERE film_id = ? AND deleted_at IS NULL ORDER BY equipment_id`, id,
		func(s rowScanner) error {
			var e model.Equipment
			var desc, comment sql.NullString
			if err := s.Scan(&e.EquipmentName, &desc, &comment); err != nil {
				return err
			}
			e.Description, e.Comment = strPtr(desc), strPtr(comment)
			agg.Equipment = append(agg.Equipment, e)
			return nil
		})
}

func readDocuments(ctx context.Context, tx *sql.Tx, id uint64, agg *model.FilmAggregate) error {
	return eachRow(ctx, tx, "documents",
		`SELECT document_type, file_url, comment FROM film_documents WHERE film_id = ? AND deleted_at IS NULL ORDER BY document_id`, id,
		func(s rowScanner) error {
			var d model.Document
			var url, comment sql.NullString
			if err := s.Scan(&d.DocumentType, &url, &comment); err != nil {
				return err
			}
			d.FileURL, d.Comment = strPtr(url), strPtr(comment)
			agg.Documents = append(agg.Documents, d)
			return nil
		})
}

func readScreenings(ctx context.Context, tx *sql.Tx, id uint64, agg *model.FilmAggregate) error {
	return eachRow(ctx, tx, "screenings",
		`SELECT DATE_FORMAT(screening_date, '%Y-%m-%d'), screening_city, screening_country, organizers, format,
		        audience, film_rights, comment, source
		 FROM film_screenings WHERE film_id = ? AND deleted_at IS NULL ORDER BY screening_id`, id,
		func(s rowScanner) error {
			var sc model.Screening
			var city, country, organizers, format, audience, rights, comment, source sql.NullString
			if err := s.Scan(&sc.ScreeningDate, &city, &country, &organizers, &format, &audience, &rights, &comment, &source); err != nil {
				return err
			}
			sc.ScreeningCity, sc.ScreeningCountry = strPtr(city), strPtr(country)
			sc.Organizers, sc.Format, sc.Audience = strPtr(organizers), strPtr(format), strPtr(audience)
			sc.FilmRights, sc.Comment, sc.Source = strPtr(rights), strPtr(comment), strPtr(source)
			agg.Screenings = append(agg.Screenings, sc)
			return nil
		})
}

// ListPublic returns id and title of every live film.
func (r *FilmRepo) ListPublic(ctx context.Context) ([]model.FilmSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT film_id, title FROM films WHERE deleted_at IS NULL ORDER BY film_id`)
	if err != nil {
		return nil, fmt.Errorf("list public films: %w", err)
	}
	defer rows.Close()

	out := []model.FilmSummary{}
	for rows.Next() {
		var s model.FilmSummary
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListLive returns the film rows of all live films.
func (r *FilmRepo) ListLive(ctx context.Context) ([]model.Film, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+filmColumns+` FROM films f WHERE f.deleted_at IS NULL ORDER BY f.film_id`)
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	defer rows.Close()

	out := []model.Film{}
	for rows.Next() {
		var fs filmScan
		if err := rows.Scan(fs.dest()...); err != nil {
			return nil, err
		}
		out = append(out, fs.film())
	}
	return out, rows.Err()
}

// aggregatedQuery pre-joins the single valued sections and folds every
// one-to-many set into a JSON array, one row per live film.
const aggregatedQuery = `
SELECT ` + filmColumns + `,
       pd.production_detail_id, pd.production_timeframe, pd.shooting_city, pd.shooting_country,
       pd.post_production_studio, pd.production_comments,
       ii.institutional_info_id, ii.production_company, ii.funding_company, ii.funding_comment,
       ii.source, ii.institutional_city, ii.institutional_country,
       (SELECT JSON_ARRAYAGG(JSON_OBJECT('role', a.role, 'name', a.name, 'comment', a.comment))
          FROM film_authors a WHERE a.film_id = f.film_id AND a.deleted_at IS NULL),
       (SELECT JSON_ARRAYAGG(JSON_OBJECT('department', t.department, 'name', t.name, 'role', t.role, 'comment', t.comment))
          FROM film_production_team t WHERE t.film_id = f.film_id AND t.deleted_at IS NULL),
       (SELECT JSON_ARRAYAGG(JSON_OBJECT('actor_name', ac.actor_name, 'character_name', ac.character_name, 'comment', ac.comment))
          FROM film_actors ac WHERE ac.film_id = f.film_id AND ac.deleted_at IS NULL),
       (SELECT JSON_ARRAYAGG(JSON_OBJECT('equipment_name', e.equipment_name, 'description', e.description, 'comment', e.comment))
          FROM film_equipment e WHERE e.film_id = f.film_id AND e.deleted_at IS NULL),
       (SELECT JSON_ARRAYAGG(JSON_OBJECT('document_type', d.document_type, 'file_url', d.file_url, 'comment', d.comment))
          FROM film_documents d WHERE d.film_id = f.film_id AND d.deleted_at IS NULL),
       (SELECT JSON_ARRAYAGG(JSON_OBJECT('screening_date', DATE_FORMAT(s.screening_date, '%Y-%m-%d'),
                 'screening_city', s.screening_city, 'screening_country', s.screening_country,
                 'organizers', s.organizers, 'format', s.format, 'audience', s.audience,
                 'film_rights', s.film_rights, 'comment', s.comment, 'source', s.source))
          FROM film_screenings s WHERE s.film_id = f.film_id AND s.deleted_at IS NULL)
FROM films f
LEFT JOIN film_production_details pd ON pd.film_id = f.film_id AND pd.deleted_at IS NULL
LEFT JOIN film_institutional_info ii ON ii.film_id = f.film_id AND ii.deleted_at IS NULL
WHERE f.deleted_at IS NULL
ORDER BY f.film_id`

// ListAggregated returns every live film with its sections pre-joined in a
// single query. Reference is left empty for the caller to fill.
func (r *FilmRepo) ListAggregated(ctx context.Context) ([]model.FilmDigest, error) {
	rows, err := r.db.QueryContext(ctx, aggregatedQuery)
	if err != nil {
		return nil, fmt.Errorf("list aggregated films: %w", err)
	}
	defer rows.Close()

	out := []model.FilmDigest{}
	for rows.Next() {
		d, err := scanDigest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDigest(s rowScanner) (model.FilmDigest, error) {
	var (
		fs                                    filmScan
		pdID, iiID                            sql.NullInt64
		tf, city, country, studio, pdComments sql.NullString
		company, funding, fundingComment      sql.NullString
		source, iCity, iCountry               sql.NullString
		authors, team, actors                 []byte
		equipment, documents, screenings      []byte
	)
	dest := append(fs.dest(),
		&pdID, &tf, &city, &country, &studio, &pdComments,
		&iiID, &company, &funding, &fundingComment, &source, &iCity, &iCountry,
		&authors, &team, &actors, &equipment, &documents, &screenings)
	if err := s.Scan(dest...); err != nil {
		return model.FilmDigest{}, err
	}

	d := model.FilmDigest{Film: fs.film()}
	if pdID.Valid {
		d.ProductionDetails = &model.ProductionDetails{
			ProductionTimeframe:  strPtr(tf),
			ShootingCity:         strPtr(city),
			ShootingCountry:      strPtr(country),
			PostProductionStudio: strPtr(studio),
			ProductionComments:   strPtr(pdComments),
		}
	}
	if iiID.Valid {
		d.InstitutionalInfo = &model.InstitutionalInfo{
			ProductionCompany:    strPtr(company),
			FundingCompany:       strPtr(funding),
			FundingComment:       strPtr(fundingComment),
			Source:               strPtr(source),
			InstitutionalCity:    strPtr(iCity),
			InstitutionalCountry: strPtr(iCountry),
		}
	}

	var err error
	if d.Authors, err = decodeSet[model.Author](authors); err != nil {
		return d, fmt.Errorf("film %d authors: %w", d.ID, err)
	}
	if d.Team, err = decodeSet[model.TeamMember](team); err != nil {
		return d, fmt.Errorf("film %d team: %w", d.ID, err)
	}
	if d.Actors, err = decodeSet[model.Actor](actors); err != nil {
		return d, fmt.Errorf("film %d actors: %w", d.ID, err)
	}
	if d.Equipment, err = decodeSet[model.Equipment](equipment); err != nil {
		return d, fmt.Errorf("film %d equipment: %w", d.ID, err)
	}
	if d.Documents, err = decodeSet[model.Document](documents); err != nil {
		return d, fmt.Errorf("film %d documents: %w", d.ID, err)
	}
	if d.Screenings, err = decodeSet[model.Screening](screenings); err != nil {
		return d, fmt.Errorf("film %d screenings: %w", d.ID, err)
	}
	return d, nil
}

// decodeSet unmarshals a JSON_ARRAYAGG column. NULL (no rows) becomes an
// empty slice.
func decodeSet[T any](raw []byte) ([]T, error) {
	out := []T{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}
