package vesselrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/vesselrepo"
)

// Repo is a Postgres implementation of vesselrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectColumns = `
	id,
	slug,
	name,
	manufacturer,
	model,
	variant,
	year,
	price::text,
	currency,
	length_meters::text,
	beam_meters,
	draft_meters,
	guests,
	cabins,
	crew,
	max_speed_knots,
	cruising_speed_knots,
	range_nm,
	fuel_capacity_l,
	water_capacity_l,
	status,
	is_visible,
	is_adventure_yacht,
	featured,
	sort_order,
	availability,
	availability_date,
	description,
	short_description,
	images,
	specs,
	created_at,
	updated_at
`

func (r *Repo) ListVisible(ctx context.Context, f vesselrepo.Filter) ([]vesselrepo.Vessel, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	where, args := filterClause(f)
	return r.query(ctx, `SELECT `+selectColumns+` FROM vessels WHERE `+where+` ORDER BY slug ASC`, args...)
}

func (r *Repo) ListVisibleAdventureYachts(ctx context.Context) ([]vesselrepo.Vessel, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	return r.query(ctx, `
		SELECT `+selectColumns+`
		FROM vessels
		WHERE is_visible AND is_adventure_yacht
		ORDER BY
			COALESCE(sort_order, 0) ASC,
			availability_date ASC NULLS LAST,
			slug ASC
	`)
}

func (r *Repo) GetVisibleBySlug(ctx context.Context, slug domain.VesselSlug) (vesselrepo.Vessel, error) {
	if r.pool == nil {
		return vesselrepo.Vessel{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM vessels WHERE slug = $1 AND is_visible`, string(slug))
	v, err := scanVessel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vesselrepo.Vessel{}, vesselrepo.ErrNotFound
		}
		return vesselrepo.Vessel{}, err
	}
	return v, nil
}

func (r *Repo) ListVisibleManufacturers(ctx context.Context) ([]string, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT manufacturer
		FROM vessels
		WHERE is_visible
		ORDER BY manufacturer ASC
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *Repo) Upsert(ctx context.Context, v vesselrepo.Vessel) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	if v.Slug == "" {
		return vesselrepo.ErrSlugRequired
	}
	id, err := uuid.Parse(string(v.ID))
	if err != nil {
		return fmt.Errorf("invalid vessel id: %w", err)
	}
	images, err := json.Marshal(imagesOrEmpty(v.Images))
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}
	specs, err := json.Marshal(v.Specs)
	if err != nil {
		return fmt.Errorf("encode specs: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO vessels (
			id, slug, name, manufacturer, model, variant, year,
			price, currency, length_meters, beam_meters, draft_meters,
			guests, cabins, crew,
			max_speed_knots, cruising_speed_knots, range_nm, fuel_capacity_l, water_capacity_l,
			status, is_visible, is_adventure_yacht, featured, sort_order,
			availability, availability_date, description, short_description,
			images, specs, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8::text::numeric, $9, $10::text::numeric, $11, $12,
			$13, $14, $15,
			$16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25,
			$26, $27, $28, $29,
			$30, $31, $32, $33
		)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			manufacturer = EXCLUDED.manufacturer,
			model = EXCLUDED.model,
			variant = EXCLUDED.variant,
			year = EXCLUDED.year,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			length_meters = EXCLUDED.length_meters,
			beam_meters = EXCLUDED.beam_meters,
			draft_meters = EXCLUDED.draft_meters,
			guests = EXCLUDED.guests,
			cabins = EXCLUDED.cabins,
			crew = EXCLUDED.crew,
			max_speed_knots = EXCLUDED.max_speed_knots,
			cruising_speed_knots = EXCLUDED.cruising_speed_knots,
			range_nm = EXCLUDED.range_nm,
			fuel_capacity_l = EXCLUDED.fuel_capacity_l,
			water_capacity_l = EXCLUDED.water_capacity_l,
			status = EXCLUDED.status,
			is_visible = EXCLUDED.is_visible,
			is_adventure_yacht = EXCLUDED.is_adventure_yacht,
			featured = EXCLUDED.featured,
			sort_order = EXCLUDED.sort_order,
			availability = EXCLUDED.availability,
			availability_date = EXCLUDED.availability_date,
			description = EXCLUDED.description,
			short_description = EXCLUDED.short_description,
			images = EXCLUDED.images,
			specs = EXCLUDED.specs,
			updated_at = EXCLUDED.updated_at
	`,
		id, string(v.Slug), v.Name, v.Manufacturer, v.Model, v.Variant, v.Year,
		v.Price, currencyOrDefault(v.Currency), v.LengthMeters, v.BeamMeters, v.DraftMeters,
		v.Guests, v.Cabins, v.Crew,
		v.MaxSpeedKnots, v.CruisingSpeedKnots, v.RangeNM, v.FuelCapacityL, v.WaterCapacityL,
		string(v.Status), v.IsVisible, v.IsAdventureYacht, v.Featured, v.SortOrder,
		v.Availability, datePtr(v.AvailabilityDate), v.Description, v.ShortDescription,
		images, specs, v.CreatedAt.UTC(), v.UpdatedAt.UTC(),
	)
	return err
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]vesselrepo.Vessel, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vesselrepo.Vessel, 0)
	for rows.Next() {
		v, err := scanVessel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// filterClause builds the WHERE clause for f. Absent filters add no clause.
func filterClause(f vesselrepo.Filter) (string, []any) {
	clauses := []string{"is_visible"}
	args := make([]any, 0, 5)
	add := func(expr string, v any) {
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf(expr, len(args)))
	}
	if f.Manufacturer != nil {
		add("manufacturer = $%d", *f.Manufacturer)
	}
	if f.MinPrice != nil {
		add("price >= $%d::text::numeric", numericArg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		add("price <= $%d::text::numeric", numericArg(*f.MaxPrice))
	}
	if f.MinLength != nil {
		add("length_meters >= $%d::text::numeric", numericArg(*f.MinLength))
	}
	if f.MaxLength != nil {
		add("length_meters <= $%d::text::numeric", numericArg(*f.MaxLength))
	}
	return strings.Join(clauses, " AND "), args
}

func numericArg(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func scanVessel(row pgx.Row) (vesselrepo.Vessel, error) {
	var (
		v         vesselrepo.Vessel
		id        uuid.UUID
		slug      string
		status    string
		availDate pgtype.Date
		images    []byte
		specs     []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(
		&id,
		&slug,
		&v.Name,
		&v.Manufacturer,
		&v.Model,
		&v.Variant,
		&v.Year,
		&v.Price,
		&v.Currency,
		&v.LengthMeters,
		&v.BeamMeters,
		&v.DraftMeters,
		&v.Guests,
		&v.Cabins,
		&v.Crew,
		&v.MaxSpeedKnots,
		&v.CruisingSpeedKnots,
		&v.RangeNM,
		&v.FuelCapacityL,
		&v.WaterCapacityL,
		&status,
		&v.IsVisible,
		&v.IsAdventureYacht,
		&v.Featured,
		&v.SortOrder,
		&v.Availability,
		&availDate,
		&v.Description,
		&v.ShortDescription,
		&images,
		&specs,
		&createdAt,
		&updatedAt,
	); err != nil {
		return vesselrepo.Vessel{}, err
	}
	v.ID = domain.VesselID(id.String())
	v.Slug = domain.VesselSlug(slug)
	v.Status = domain.VesselStatus(status)
	v.AvailabilityDate = dateToTimePtr(availDate)
	v.CreatedAt = createdAt.UTC()
	v.UpdatedAt = updatedAt.UTC()
	if len(images) > 0 {
		if err := json.Unmarshal(images, &v.Images); err != nil {
			return vesselrepo.Vessel{}, fmt.Errorf("vessel %s: images: %w", slug, err)
		}
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &v.Specs); err != nil {
			return vesselrepo.Vessel{}, fmt.Errorf("vessel %s: %w", slug, err)
		}
	}
	return v, nil
}

// --- helpers ---

func datePtr(t *time.Time) pgtype.Date {
	var d pgtype.Date
	if t == nil {
		return d
	}
	tt := t.UTC()
	d.Time = time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
	d.Valid = true
	return d
}

func dateToTimePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}

func imagesOrEmpty(imgs []domain.GalleryImage) []domain.GalleryImage {
	if imgs == nil {
		return []domain.GalleryImage{}
	}
	return imgs
}

func currencyOrDefault(c string) string {
	if c == "" {
		return "USD"
	}
	return c
}
