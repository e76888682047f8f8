package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// SqlitePlaceSearch serves the seeded suggested-places catalog through
// the PlaceSearch port, so local runs work without the external place
// backend.
type SqlitePlaceSearch struct{ DB *sql.DB }

func NewSqlitePlaceSearch(db *sql.DB) *SqlitePlaceSearch {
	return &SqlitePlaceSearch{DB: db}
}

func scanPlace(scan func(dest ...any) error) (ports.Place, error) {
	var (
		p          ports.Place
		lat, lng   sql.NullFloat64
		categories string
	)
	if err := scan(&p.ID, &p.Name, &p.Address, &lat, &lng, &categories, &p.Rating, &p.ImageURL); err != nil {
		return ports.Place{}, err
	}
	if lat.Valid && lng.Valid {
		p.Coordinates = domain.NormalizeCoordinates([]float64{lat.Float64, lng.Float64})
	}
	if categories != "" {
		p.Categories = strings.Split(categories, ",")
	}
	return p, nil
}

// Search matches the catalog by destination, ordered by rating.
func (s *SqlitePlaceSearch) Search(ctx context.Context, query string, near *domain.Coordinates, limit int) ([]ports.Place, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite place search: DB is nil")
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 10
	}

	q := `
	SELECT place_id, name, address, lat, lng, categories, rating, image_url
	FROM suggested_places
	WHERE destination = ? OR name LIKE ?
	ORDER BY rating DESC
	LIMIT ?;
	`
	rows, err := s.DB.QueryContext(ctx, q, query, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search places: query suggested_places table: %w", err)
	}
	defer rows.Close()

	out := make([]ports.Place, 0, limit)
	for rows.Next() {
		p, err := scanPlace(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("search places: scan row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search places: row iteration: %w", err)
	}

	return out, nil
}

// Details returns one catalog entry by place id.
func (s *SqlitePlaceSearch) Details(ctx context.Context, placeID string) (ports.Place, error) {
	if s.DB == nil {
		return ports.Place{}, errors.New("sqlite place search: DB is nil")
	}
	if strings.TrimSpace(placeID) == "" {
		return ports.Place{}, fmt.Errorf("%w: place id is empty", domain.ErrInvalidInput)
	}

	q := `
	SELECT place_id, name, address, lat, lng, categories, rating, image_url
	FROM suggested_places
	WHERE place_id = ?;
	`
	p, err := scanPlace(s.DB.QueryRowContext(ctx, q, placeID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Place{}, fmt.Errorf("%w: place %q", domain.ErrNotFound, placeID)
	}
	if err != nil {
		return ports.Place{}, fmt.Errorf("place details: query place_id=%q: %w", placeID, err)
	}

	return p, nil
}
