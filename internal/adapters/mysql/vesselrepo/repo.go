package vesselrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/vesselrepo"
)

// Repo is a MySQL implementation of vesselrepo.Repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Columns is the select list shared by every read; DECIMAL columns are read as text.
var Columns = []string{
	"id", "slug", "name", "manufacturer", "model", "variant", "year",
	"price", "currency", "length_meters", "beam_meters", "draft_meters",
	"guests", "cabins", "crew",
	"max_speed_knots", "cruising_speed_knots", "range_nm", "fuel_capacity_l", "water_capacity_l",
	"status", "is_visible", "is_adventure_yacht", "featured", "sort_order",
	"availability", "availability_date", "description", "short_description",
	"images", "specs", "created_at", "updated_at",
}

func selectList() string {
	cols := make([]string, len(Columns))
	for i, c := range Columns {
		switch c {
		case "price", "length_meters":
			cols[i] = "CAST(" + c + " AS CHAR) AS " + c
		default:
			cols[i] = c
		}
	}
	return strings.Join(cols, ", ")
}

func (r *Repo) ListVisible(ctx context.Context, f vesselrepo.Filter) ([]vesselrepo.Vessel, error) {
	if r.db == nil {
		return nil, errors.New("nil mysql db")
	}
	where, args := filterClause(f)
	return r.query(ctx, "SELECT "+selectList()+" FROM vessels WHERE "+where+" ORDER BY slug ASC", args...)
}

func (r *Repo) ListVisibleAdventureYachts(ctx context.Context) ([]vesselrepo.Vessel, error) {
	if r.db == nil {
		return nil, errors.New("nil mysql db")
	}
	return r.query(ctx, "SELECT "+selectList()+` FROM vessels
		WHERE is_visible = TRUE AND is_adventure_yacht = TRUE
		ORDER BY COALESCE(sort_order, 0) ASC, availability_date IS NULL ASC, availability_date ASC, slug ASC`)
}

func (r *Repo) GetVisibleBySlug(ctx context.Context, slug domain.VesselSlug) (vesselrepo.Vessel, error) {
	if r.db == nil {
		return vesselrepo.Vessel{}, errors.New("nil mysql db")
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+selectList()+" FROM vessels WHERE slug = ? AND is_visible = TRUE", string(slug))
	v, err := scanVessel(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vesselrepo.Vessel{}, vesselrepo.ErrNotFound
		}
		return vesselrepo.Vessel{}, err
	}
	return v, nil
}

func (r *Repo) ListVisibleManufacturers(ctx context.Context) ([]string, error) {
	if r.db == nil {
		return nil, errors.New("nil mysql db")
	}
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT manufacturer FROM vessels WHERE is_visible = TRUE ORDER BY manufacturer ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) Upsert(ctx context.Context, v vesselrepo.Vessel) error {
	if r.db == nil {
		return errors.New("nil mysql db")
	}
	if v.Slug == "" {
		return vesselrepo.ErrSlugRequired
	}
	images := v.Images
	if images == nil {
		images = []domain.GalleryImage{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}
	specsJSON, err := json.Marshal(v.Specs)
	if err != nil {
		return fmt.Errorf("encode specs: %w", err)
	}
	currency := v.Currency
	if currency == "" {
		currency = "USD"
	}
	var availDate any
	if v.AvailabilityDate != nil {
		availDate = v.AvailabilityDate.UTC().Format("2006-01-02")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(Columns)), ", ")
	updates := make([]string, 0, len(Columns))
	for _, c := range Columns {
		if c == "id" || c == "slug" || c == "created_at" {
			continue
		}
		updates = append(updates, c+" = VALUES("+c+")")
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO vessels ("+strings.Join(Columns, ", ")+") VALUES ("+placeholders+") ON DUPLICATE KEY UPDATE "+strings.Join(updates, ", "),
		string(v.ID), string(v.Slug), v.Name, v.Manufacturer, v.Model, v.Variant, v.Year,
		v.Price, currency, v.LengthMeters, v.BeamMeters, v.DraftMeters,
		v.Guests, v.Cabins, v.Crew,
		v.MaxSpeedKnots, v.CruisingSpeedKnots, v.RangeNM, v.FuelCapacityL, v.WaterCapacityL,
		string(v.Status), v.IsVisible, v.IsAdventureYacht, v.Featured, v.SortOrder,
		v.Availability, availDate, v.Description, v.ShortDescription,
		imagesJSON, specsJSON, v.CreatedAt.UTC(), v.UpdatedAt.UTC(),
	)
	return err
}

func (r *Repo) query(ctx context.Context, q string, args ...any) ([]vesselrepo.Vessel, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
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

func filterClause(f vesselrepo.Filter) (string, []any) {
	clauses := []string{"is_visible = TRUE"}
	args := make([]any, 0, 5)
	if f.Manufacturer != nil {
		clauses = append(clauses, "manufacturer = ?")
		args = append(args, *f.Manufacturer)
	}
	bound := func(expr string, v *float64) {
		if v != nil {
			clauses = append(clauses, expr)
			args = append(args, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	bound("price >= CAST(? AS DECIMAL(14,2))", f.MinPrice)
	bound("price <= CAST(? AS DECIMAL(14,2))", f.MaxPrice)
	bound("length_meters >= CAST(? AS DECIMAL(7,2))", f.MinLength)
	bound("length_meters <= CAST(? AS DECIMAL(7,2))", f.MaxLength)
	return strings.Join(clauses, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVessel(s scanner) (vesselrepo.Vessel, error) {
	var (
		v         vesselrepo.Vessel
		id        string
		slug      string
		variant   sql.NullString
		beam      sql.NullFloat64
		draft     sql.NullFloat64
		maxSpeed  sql.NullFloat64
		cruise    sql.NullFloat64
		rangeNM   sql.NullInt64
		fuel      sql.NullInt64
		water     sql.NullInt64
		status    string
		sortOrder sql.NullInt64
		avail     sql.NullString
		availDate sql.NullTime
		desc      sql.NullString
		shortDesc sql.NullString
		images    []byte
		specs     []byte
	)
	if err := s.Scan(
		&id, &slug, &v.Name, &v.Manufacturer, &v.Model, &variant, &v.Year,
		&v.Price, &v.Currency, &v.LengthMeters, &beam, &draft,
		&v.Guests, &v.Cabins, &v.Crew,
		&maxSpeed, &cruise, &rangeNM, &fuel, &water,
		&status, &v.IsVisible, &v.IsAdventureYacht, &v.Featured, &sortOrder,
		&avail, &availDate, &desc, &shortDesc,
		&images, &specs, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return vesselrepo.Vessel{}, err
	}
	v.ID = domain.VesselID(id)
	v.Slug = domain.VesselSlug(slug)
	v.Status = domain.VesselStatus(status)
	v.Variant = nullString(variant)
	v.BeamMeters = nullFloat(beam)
	v.DraftMeters = nullFloat(draft)
	v.MaxSpeedKnots = nullFloat(maxSpeed)
	v.CruisingSpeedKnots = nullFloat(cruise)
	v.RangeNM = nullInt(rangeNM)
	v.FuelCapacityL = nullInt(fuel)
	v.WaterCapacityL = nullInt(water)
	v.SortOrder = nullInt(sortOrder)
	v.Availability = nullString(avail)
	v.Description = nullString(desc)
	v.ShortDescription = nullString(shortDesc)
	if availDate.Valid {
		t := time.Date(availDate.Time.Year(), availDate.Time.Month(), availDate.Time.Day(), 0, 0, 0, 0, time.UTC)
		v.AvailabilityDate = &t
	}
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
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

func nullString(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
