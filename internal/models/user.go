package models

import "time"

// UserProfile is the application-side record extending a bare auth provider
// identity. SupabaseUID is the join key to the provider identity and is
// immutable once set.
type UserProfile struct {
	ID              int64     `json:"id"`
	SupabaseUID     string    `json:"supabase_uid"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name"`
	Branch          string    `json:"branch"`
	Year            int       `json:"year"`
	Points          int       `json:"points"`
	Bio             string    `json:"bio"`
	Skills          string    `json:"skills"`
	LinkedinURL     string    `json:"linkedin_url"`
	GithubURL       string    `json:"github_url"`
	PlacementStatus string    `json:"placement_status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewUserProfile holds the fields accepted on profile creation.
type NewUserProfile struct {
	SupabaseUID string `json:"supabase_uid"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Branch      string `json:"branch"`
	Year        int    `json:"year"`
	Points      int    `json:"points"`
}

// UserProfilePatch carries a partial profile update. Nil fields are left
// untouched. SupabaseUID is deliberately absent: it is immutable.
type UserProfilePatch struct {
	FullName        *string `json:"full_name,omitempty"`
	Branch          *string `json:"branch,omitempty"`
	Year            *int    `json:"year,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	Skills          *string `json:"skills,omitempty"`
	LinkedinURL     *string `json:"linkedin_url,omitempty"`
	GithubURL       *string `json:"github_url,omitempty"`
	PlacementStatus *string `json:"placement_status,omitempty"`
}
