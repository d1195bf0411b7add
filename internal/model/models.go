// Package model defines shared data structures for the search service.
package model

import "time"

// SearchLogic controls how a config's keywords are combined into a query.
type SearchLogic string

const (
	LogicAND    SearchLogic = "AND"
	LogicOR     SearchLogic = "OR"
	LogicCustom SearchLogic = "CUSTOM"
)

// CadenceKind names the recurrence rule variants a SearchConfig may carry.
type CadenceKind string

const (
	CadenceDaily       CadenceKind = "daily"
	CadenceHourly      CadenceKind = "hourly"
	CadenceEveryNHours CadenceKind = "every_n_hours"
	CadenceWeekdays    CadenceKind = "weekdays"
	CadenceWeekly      CadenceKind = "weekly"
	CadenceTwiceWeekly CadenceKind = "twice_weekly"
	CadenceCustom      CadenceKind = "custom"
)

// Cadence is the declarative recurrence rule attached to a SearchConfig.
// Time is a wall-clock "HH:MM" string. Which of the remaining fields are
// meaningful depends on Kind:
//
//	daily, weekdays      Time only
//	hourly               minute of Time (hour ignored)
//	every_n_hours        Time anchors the interval, N is the hour step
//	weekly               Weekday + Time
//	twice_weekly         Weekday + Weekday2 + Time
//	custom               Days + IntervalWeeks + Time
type Cadence struct {
	Kind          CadenceKind    `json:"kind"`
	Time          string         `json:"time,omitempty"`
	N             int            `json:"n,omitempty"`
	Weekday       time.Weekday   `json:"weekday,omitempty"`
	Weekday2      time.Weekday   `json:"weekday2,omitempty"`
	Days          []time.Weekday `json:"days,omitempty"`
	IntervalWeeks int            `json:"interval_weeks,omitempty"`
}

// WeeklyCadence returns the default weekly rule: Mondays at t.
func WeeklyCadence(t string) Cadence {
	return Cadence{Kind: CadenceWeekly, Time: t, Weekday: time.Monday}
}

// TwiceWeeklyCadence returns the default twice-weekly rule: Mondays and
// Thursdays at t.
func TwiceWeeklyCadence(t string) Cadence {
	return Cadence{Kind: CadenceTwiceWeekly, Time: t, Weekday: time.Monday, Weekday2: time.Thursday}
}

// SearchConfig is one user-owned recurring search definition. Defaults for
// optional fields are resolved when the config is constructed at the API or
// storage boundary, never at read time.
type SearchConfig struct {
	ID             string
	UserID         string
	Name           string
	Keywords       []string // ordered, non-empty
	SearchLogic    SearchLogic
	CustomLogic    string // meaningful only when SearchLogic is CUSTOM
	Cadence        Cadence
	JobSites       []string // empty means the process-wide default set
	LocationFilter string
	MaxJobAge      int // hours; 0 means no age restriction
	IsActive       bool
	CreatedAt      time.Time
	LastRun        *time.Time // advanced only by the run coordinator
}

// JobPosting is one discovered job, produced per run and persisted as part
// of the run's batch. Postings are not unique-keyed: the engine performs no
// deduplication across runs.
type JobPosting struct {
	ID       string
	UserID   string
	ConfigID string
	Title    string
	Link     string
	Snippet  string
	Site     string
	Keyword  string // the keyword this posting is attributed to
	FoundAt  time.Time
}

// UserCredentialView is the narrow slice of a user record the engine needs:
// where to send mail and whether live search / mail delivery are possible.
type UserCredentialView struct {
	ID                string
	Email             string
	NotificationEmail string
	SearchAPIKey      string
	SearchEngineID    string
	MailConfigured    bool
}

// HasSearchCredential reports whether a live provider search can be made.
func (u UserCredentialView) HasSearchCredential() bool {
	return u.SearchAPIKey != "" && u.SearchEngineID != ""
}

// HasMailCredential reports whether notifications can be delivered.
func (u UserCredentialView) HasMailCredential() bool {
	return u.MailConfigured
}

// Recipient returns the address notifications go to, falling back to the
// account email when no separate notification address is set.
func (u UserCredentialView) Recipient() string {
	if u.NotificationEmail != "" {
		return u.NotificationEmail
	}
	return u.Email
}
