package models

import "time"

type PostType string

const (
	PostTypeQuestion PostType = "question"
	PostTypeNotes    PostType = "notes"
	PostTypeTip      PostType = "tip"
	PostTypeResource PostType = "resource"
)

// Vote values accepted by the post vote endpoint. Zero removes an existing
// vote.
const (
	VoteUp     = 1
	VoteDown   = -1
	VoteRemove = 0
)

type Post struct {
	ID           int64     `json:"id"`
	Subject      int64     `json:"subject"`
	SubjectName  string    `json:"subject_name"`
	PostedBy     int64     `json:"posted_by"`
	PostedByName string    `json:"posted_by_name"`
	PostedByUID  string    `json:"posted_by_uid"`
	PostType     PostType  `json:"post_type"`
	Topic        string    `json:"topic"`
	NotesLink    string    `json:"notes_link"`
	VideoLink    string    `json:"video_link"`
	FocusPoints  string    `json:"focus_points"`
	Upvotes      int       `json:"upvotes"`
	Downvotes    int       `json:"downvotes"`
	NetScore     int       `json:"net_score"`
	UserVote     *int      `json:"user_vote"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPost holds the mutable fields accepted on post creation.
type NewPost struct {
	Subject     int64    `json:"subject"`
	PostedBy    int64    `json:"posted_by"`
	PostType    PostType `json:"post_type"`
	Topic       string   `json:"topic"`
	NotesLink   string   `json:"notes_link,omitempty"`
	VideoLink   string   `json:"video_link,omitempty"`
	FocusPoints string   `json:"focus_points,omitempty"`
}

type PostPatch struct {
	PostType    *PostType `json:"post_type,omitempty"`
	Topic       *string   `json:"topic,omitempty"`
	NotesLink   *string   `json:"notes_link,omitempty"`
	VideoLink   *string   `json:"video_link,omitempty"`
	FocusPoints *string   `json:"focus_points,omitempty"`
}

// PostVoteResult is the server's recomputed aggregate after a vote. Clients
// overwrite local counts with these values, never increment.
type PostVoteResult struct {
	Message   string `json:"message"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
	UserVote  *int   `json:"user_vote"`
	NetVotes  int    `json:"net_votes"`
}
