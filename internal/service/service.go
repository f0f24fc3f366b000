// Package service holds the portal's business rules: contribution points,
// vote arithmetic, ownership checks and leaderboard caching. Repositories
// stay dumb; everything a handler should not decide lives here.
package service

import "errors"

// Contribution point awards. Post votes additionally move the author's
// balance by one point per net vote, floored at zero.
const (
	postCreatePoints       = 5
	experienceCreatePoints = 10
	experienceUpvotePoints = 2
)

// ErrForbidden marks an action attempted on a record the actor does not own.
var ErrForbidden = errors.New("not allowed to modify this record")
