package models

import (
	"strings"
	"time"
)

type Branch struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Subject is a study area. Common subjects (Aptitude, Coding) are visible
// across all branches; branch subjects are scoped to one.
type Subject struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Branch      string    `json:"branch"`
	Description string    `json:"description"`
	IsCommon    bool      `json:"is_common"`
	PostsCount  int       `json:"posts_count"`
	CreatedAt   time.Time `json:"created_at"`

	// Temporary marks a client-synthesized placeholder for a subject that has
	// no persisted record yet. It must never be used as a foreign key target.
	Temporary bool `json:"-"`
}

// NewTemporarySubject builds a placeholder subject for display when no
// matching persisted subject exists.
func NewTemporarySubject(name, branch string) Subject {
	return Subject{
		Name:      name,
		Branch:    branch,
		Temporary: true,
	}
}

// NewSubject holds the fields accepted on subject creation.
type NewSubject struct {
	Name        string `json:"name"`
	Branch      string `json:"branch,omitempty"`
	Description string `json:"description,omitempty"`
	IsCommon    bool   `json:"is_common"`
}

// Persisted reports whether the subject is backed by a server record.
func (s Subject) Persisted() bool {
	return !s.Temporary && s.ID > 0
}

// PreferBranchSubjects resolves display priority when a branch-specific
// subject and a common subject share a name: the branch-specific one wins.
// Relative order of the survivors is preserved.
func PreferBranchSubjects(subjects []Subject) []Subject {
	branchNames := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		if !s.IsCommon {
			branchNames[strings.ToLower(s.Name)] = struct{}{}
		}
	}

	out := make([]Subject, 0, len(subjects))
	for _, s := range subjects {
		if s.IsCommon {
			if _, shadowed := branchNames[strings.ToLower(s.Name)]; shadowed {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}
