package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// ListWithInterests returns every subscribed user holding at least one policy
// interest. Profiles without interests cannot match anything and are filtered
// at the storage layer.
func (r *ProfileRepository) ListWithInterests(ctx context.Context) ([]domain.InterestProfile, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, contact_ref, policy_interests
FROM profiles
WHERE jsonb_array_length(policy_interests) > 0
ORDER BY user_id
`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	out := make([]domain.InterestProfile, 0)
	for rows.Next() {
		var profile domain.InterestProfile
		var interestsRaw []byte
		if err := rows.Scan(&profile.UserID, &profile.ContactRef, &interestsRaw); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		if err := json.Unmarshal(interestsRaw, &profile.PolicyInterests); err != nil {
			return nil, fmt.Errorf("unmarshal policy interests for %s: %w", profile.UserID, err)
		}
		out = append(out, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return out, nil
}
