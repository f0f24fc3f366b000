package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"placementhub/internal/models"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrVoteNotFound = errors.New("vote not found")
)

// PostFilter narrows the post listing. ViewerID, when set, resolves the
// viewer's own vote on each returned post.
type PostFilter struct {
	SubjectID int64
	PostedBy  int64
	Search    string
	ViewerID  int64
	Limit     int
	Offset    int
}

const postColumns = `
	p.id, p.subject_id, s.name, p.posted_by, u.full_name, u.supabase_uid,
	p.post_type, p.topic, p.notes_link, p.video_link, p.focus_points,
	p.upvotes, p.downvotes, p.upvotes - p.downvotes AS net_score,
	pv.vote, p.created_at, p.updated_at
`

const postJoins = `
	FROM posts p
	JOIN subjects s ON s.id = p.subject_id
	JOIN user_profiles u ON u.id = p.posted_by
	LEFT JOIN post_votes pv ON pv.post_id = p.id AND pv.user_id = $1
`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row pgx.Row) (models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID, &p.Subject, &p.SubjectName, &p.PostedBy, &p.PostedByName, &p.PostedByUID,
		&p.PostType, &p.Topic, &p.NotesLink, &p.VideoLink, &p.FocusPoints,
		&p.Upvotes, &p.Downvotes, &p.NetScore,
		&p.UserVote, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, ErrPostNotFound
		}
		return models.Post{}, err
	}
	return p, nil
}

// List returns a page of posts plus the total matching count.
func (r *PostRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, int, error) {
	args := []any{filter.ViewerID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	var conds []string
	if filter.SubjectID > 0 {
		conds = append(conds, "p.subject_id = "+arg(filter.SubjectID))
	}
	if filter.PostedBy > 0 {
		conds = append(conds, "p.posted_by = "+arg(filter.PostedBy))
	}
	if filter.Search != "" {
		ph := arg("%" + filter.Search + "%")
		conds = append(conds, "(p.topic ILIKE "+ph+" OR p.focus_points ILIKE "+ph+")")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	countQuery := "SELECT COUNT(*)" + postJoins + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT" + postColumns + postJoins + where +
		" ORDER BY p.created_at DESC, p.id DESC" +
		" LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := make([]models.Post, 0, filter.Limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

func (r *PostRepository) Get(ctx context.Context, id, viewerID int64) (models.Post, error) {
	query := "SELECT" + postColumns + postJoins + " WHERE p.id = $2"
	return scanPost(r.pool.QueryRow(ctx, query, viewerID, id))
}

func (r *PostRepository) Create(ctx context.Context, post models.NewPost) (models.Post, error) {
	const query = `
		INSERT INTO posts (subject_id, posted_by, post_type, topic, notes_link, video_link, focus_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		post.Subject, post.PostedBy, post.PostType,
		post.Topic, post.NotesLink, post.VideoLink, post.FocusPoints,
	).Scan(&id)
	if err != nil {
		return models.Post{}, err
	}
	return r.Get(ctx, id, post.PostedBy)
}

func (r *PostRepository) Patch(ctx context.Context, id, viewerID int64, patch models.PostPatch) (models.Post, error) {
	const query = `
		UPDATE posts SET
			post_type    = COALESCE($2, post_type),
			topic        = COALESCE($3, topic),
			notes_link   = COALESCE($4, notes_link),
			video_link   = COALESCE($5, video_link),
			focus_points = COALESCE($6, focus_points),
			updated_at   = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id,
		patch.PostType, patch.Topic, patch.NotesLink, patch.VideoLink, patch.FocusPoints)
	if err != nil {
		return models.Post{}, err
	}
	if cmd.RowsAffected() == 0 {
		return models.Post{}, ErrPostNotFound
	}
	return r.Get(ctx, id, viewerID)
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Vote helpers below take a Querier so the vote service can run them inside
// one transaction with the author's points adjustment.

// GetForUpdate locks the post row and returns its author and counts.
func (r *PostRepository) GetForUpdate(ctx context.Context, q Querier, id int64) (authorID int64, upvotes, downvotes int, err error) {
	const query = `SELECT posted_by, upvotes, downvotes FROM posts WHERE id = $1 FOR UPDATE`
	err = q.QueryRow(ctx, query, id).Scan(&authorID, &upvotes, &downvotes)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrPostNotFound
	}
	return authorID, upvotes, downvotes, err
}

// GetVote returns the viewer's existing vote on a post, or ErrVoteNotFound.
func (r *PostRepository) GetVote(ctx context.Context, q Querier, postID, userID int64) (int, error) {
	var vote int
	err := q.QueryRow(ctx, `SELECT vote FROM post_votes WHERE post_id = $1 AND user_id = $2`, postID, userID).Scan(&vote)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrVoteNotFound
	}
	return vote, err
}

func (r *PostRepository) UpsertVote(ctx context.Context, q Querier, postID, userID int64, vote int) error {
	const query = `
		INSERT INTO post_votes (post_id, user_id, vote)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, post_id) DO UPDATE SET vote = EXCLUDED.vote
	`
	_, err := q.Exec(ctx, query, postID, userID, vote)
	return err
}

func (r *PostRepository) DeleteVote(ctx context.Context, q Querier, postID, userID int64) error {
	_, err := q.Exec(ctx, `DELETE FROM post_votes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	return err
}

// AdjustCounts applies deltas to a post's cached vote tallies and returns the
// new values.
func (r *PostRepository) AdjustCounts(ctx context.Context, q Querier, postID int64, dUp, dDown int) (upvotes, downvotes int, err error) {
	const query = `
		UPDATE posts
		SET upvotes = upvotes + $2, downvotes = downvotes + $3, updated_at = NOW()
		WHERE id = $1
		RETURNING upvotes, downvotes
	`
	err = q.QueryRow(ctx, query, postID, dUp, dDown).Scan(&upvotes, &downvotes)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrPostNotFound
	}
	return upvotes, downvotes, err
}
