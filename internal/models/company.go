package models

import "time"

type CompanyTier string

const (
	CompanyTier1       CompanyTier = "tier1"
	CompanyTier2       CompanyTier = "tier2"
	CompanyTier3       CompanyTier = "tier3"
	CompanyTierStartup CompanyTier = "startup"
	CompanyTierMNC     CompanyTier = "mnc"
)

type Company struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Website          string      `json:"website"`
	LogoURL          string      `json:"logo_url"`
	SalaryRange      string      `json:"salary_range"`
	Tier             CompanyTier `json:"tier"`
	ExperiencesCount int         `json:"experiences_count"`
	CreatedAt        time.Time   `json:"created_at"`
}

type NewCompany struct {
	Name        string      `json:"name"`
	Website     string      `json:"website,omitempty"`
	SalaryRange string      `json:"salary_range,omitempty"`
	Tier        CompanyTier `json:"tier,omitempty"`
}

type ExperienceResult string

const (
	ExperiencePending  ExperienceResult = "pending"
	ExperienceSelected ExperienceResult = "selected"
	ExperienceRejected ExperienceResult = "rejected"
)

const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
)

// InterviewExperience is a crowd-sourced interview report. InterviewDate is a
// calendar date in ISO form (2006-01-02); the server owns the format.
type InterviewExperience struct {
	ID              int64            `json:"id"`
	Company         int64            `json:"company"`
	CompanyName     string           `json:"company_name"`
	PostedBy        int64            `json:"posted_by"`
	PostedByName    string           `json:"posted_by_name"`
	Position        string           `json:"position"`
	InterviewDate   string           `json:"interview_date"`
	Rounds          string           `json:"rounds"`
	Questions       string           `json:"questions"`
	Tips            string           `json:"tips"`
	DifficultyLevel int              `json:"difficulty_level"`
	Result          ExperienceResult `json:"result"`
	Upvotes         int              `json:"upvotes"`
	UserVoted       *bool            `json:"user_voted"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type NewInterviewExperience struct {
	Company         int64            `json:"company"`
	Position        string           `json:"position"`
	InterviewDate   string           `json:"interview_date"`
	Rounds          string           `json:"rounds"`
	Questions       string           `json:"questions"`
	Tips            string           `json:"tips,omitempty"`
	DifficultyLevel int              `json:"difficulty_level"`
	Result          ExperienceResult `json:"result"`
}

type InterviewExperiencePatch struct {
	Position        *string           `json:"position,omitempty"`
	InterviewDate   *string           `json:"interview_date,omitempty"`
	Rounds          *string           `json:"rounds,omitempty"`
	Questions       *string           `json:"questions,omitempty"`
	Tips            *string           `json:"tips,omitempty"`
	DifficultyLevel *int              `json:"difficulty_level,omitempty"`
	Result          *ExperienceResult `json:"result,omitempty"`
}

// ExperienceVoteResult is the server's recomputed aggregate after an
// experience vote. Experience votes are upvote-only and non-retractable,
// unlike post votes.
type ExperienceVoteResult struct {
	Message   string `json:"message"`
	Upvotes   int    `json:"upvotes"`
	UserVoted *bool  `json:"user_voted"`
}
