package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/errors"
)

// ProfileService owns player profile records. The matching engine consumes
// it read-only through the ProfileReader interface; the HTTP layer uses the
// full service for profile CRUD.
type ProfileService struct {
	db *database.DB
}

func NewProfileService(db *database.DB) *ProfileService {
	return &ProfileService{db: db}
}

const profileColumns = `id, email, display_name, bio, avatar_url, latitude, longitude, city, country, preferences, created_at, updated_at`

func scanProfile(row interface{ Scan(...interface{}) error }) (*UserProfile, error) {
	p := &UserProfile{}
	err := row.Scan(
		&p.ID, &p.Email, &p.DisplayName, &p.Bio, &p.AvatarURL,
		&p.Latitude, &p.Longitude, &p.City, &p.Country,
		&p.Preferences, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AllProfileIDsExcluding returns every profile identifier except userID.
// Ordered by creation time then id, so the result is deterministic for a
// fixed snapshot.
func (s *ProfileService) AllProfileIDsExcluding(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT id FROM users WHERE id != $1 ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.NewStoreUnavailableError("all_profile_ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.NewStoreUnavailableError("all_profile_ids", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailableError("all_profile_ids", err)
	}

	return ids, nil
}

// GetProfile returns a profile or a not-found error.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user_id", "user_id is required")
	}

	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`

	p, err := scanProfile(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("user").WithMetadata("user_id", userID)
		}
		return nil, errors.NewStoreUnavailableError("get_profile", err)
	}
	return p, nil
}

// CreateProfile inserts a new profile.
func (s *ProfileService) CreateProfile(ctx context.Context, email, displayName string) (*UserProfile, error) {
	if email == "" {
		return nil, errors.NewValidationError("email", "email is required")
	}
	if displayName == "" {
		return nil, errors.NewValidationError("display_name", "display_name is required")
	}

	now := time.Now().UTC()
	profile := &UserProfile{
		ID:          uuid.New().String(),
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO users (id, email, display_name, preferences, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`

	if _, err := s.db.ExecContext(ctx, query,
		profile.ID, profile.Email, profile.DisplayName, profile.Preferences, now); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, errors.NewConflictError("email is already registered").
				WithMetadata("email", email)
		}
		return nil, errors.NewStoreUnavailableError("create_profile", err)
	}
	return profile, nil
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left
// untouched.
type ProfileUpdate struct {
	DisplayName *string               `json:"display_name"`
	Bio         *string               `json:"bio"`
	AvatarURL   *string               `json:"avatar_url"`
	Latitude    *float64              `json:"latitude"`
	Longitude   *float64              `json:"longitude"`
	City        *string               `json:"city"`
	Country     *string               `json:"country"`
	Preferences *database.Preferences `json:"preferences"`
}

// UpdateProfile applies a partial update and returns the updated profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*UserProfile, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user_id", "user_id is required")
	}

	set := ""
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", column, len(args))
	}

	if update.DisplayName != nil {
		add("display_name", *update.DisplayName)
	}
	if update.Bio != nil {
		add("bio", *update.Bio)
	}
	if update.AvatarURL != nil {
		add("avatar_url", *update.AvatarURL)
	}
	if update.Latitude != nil {
		add("latitude", *update.Latitude)
	}
	if update.Longitude != nil {
		add("longitude", *update.Longitude)
	}
	if update.City != nil {
		add("city", *update.City)
	}
	if update.Country != nil {
		add("country", *update.Country)
	}
	if update.Preferences != nil {
		add("preferences", *update.Preferences)
	}

	if set == "" {
		return s.GetProfile(ctx, userID)
	}

	add("updated_at", time.Now().UTC())
	args = append(args, userID)

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING `+profileColumns,
		set, len(args),
	)

	p, err := scanProfile(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("user").WithMetadata("user_id", userID)
		}
		return nil, errors.NewStoreUnavailableError("update_profile", err)
	}
	return p, nil
}

// SearchFilters narrows SearchProfiles results.
type SearchFilters struct {
	DisplayName string `json:"display_name"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Limit       int    `json:"limit"`
}

// SearchProfiles returns profiles matching the filters.
func (s *ProfileService) SearchProfiles(ctx context.Context, filters SearchFilters) ([]*UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE 1=1`
	args := []interface{}{}

	if filters.DisplayName != "" {
		args = append(args, "%"+filters.DisplayName+"%")
		query += fmt.Sprintf(" AND display_name ILIKE $%d", len(args))
	}
	if filters.City != "" {
		args = append(args, filters.City)
		query += fmt.Sprintf(" AND city = $%d", len(args))
	}
	if filters.Country != "" {
		args = append(args, filters.Country)
		query += fmt.Sprintf(" AND country = $%d", len(args))
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at, id LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreUnavailableError("search_profiles", err)
	}
	defer rows.Close()

	var profiles []*UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, errors.NewStoreUnavailableError("search_profiles", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailableError("search_profiles", err)
	}

	return profiles, nil
}
