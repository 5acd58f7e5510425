package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SnapshotData captures the full learner state at a point in time.
type SnapshotData struct {
	Version int                  `json:"version"`
	Profile *ProfileSnapshotData `json:"profile,omitempty"`
}

// ProfileSnapshotData is the persisted learner profile.
type ProfileSnapshotData struct {
	XP        int                         `json:"xp"`
	Coins     int                         `json:"coins"`
	Lives     int                         `json:"lives"`
	LastRegen time.Time                   `json:"last_regen"`
	Unlocked  []string                    `json:"unlocked"`
	Levels    map[string]*LevelRecordData `json:"levels"`
	CreatedAt time.Time                   `json:"created_at"`
}

// LevelRecordData is the per-level best result.
type LevelRecordData struct {
	LevelID     string    `json:"level_id"`
	BestMedal   string    `json:"best_medal"`
	BestScore   int       `json:"best_score"`
	Completions int       `json:"completions"`
	LastPlayed  time.Time `json:"last_played"`
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// AnswerEventData captures one submission within a session.
type AnswerEventData struct {
	SessionID string
	LevelID   string
	ItemID    string
	Option    int
	Correct   bool
	FirstTry  bool
	Review    bool
	Points    int
}

// HintEventData captures a revealed hint.
type HintEventData struct {
	SessionID string
	LevelID   string
	ItemID    string
	HintText  string
}

// Life event reasons.
const (
	LifeLost        = "lost"
	LifeRegenerated = "regenerated"
	LifePurchased   = "purchased"
)

// LifeEventData captures a change to the life pool.
type LifeEventData struct {
	Reason    string // LifeLost, LifeRegenerated or LifePurchased
	Delta     int
	Balance   int
	SessionID string // empty unless lost during a session
	Coins     int    // coins spent, for purchases
}

// Session event actions.
const (
	SessionStarted   = "start"
	SessionCompleted = "end"
	SessionAbandoned = "quit"
)

// SessionEventData captures session lifecycle events.
type SessionEventData struct {
	SessionID       string
	LevelID         string
	Action          string // SessionStarted, SessionCompleted or SessionAbandoned
	Mode            string
	Score           int
	Mistakes        int
	FirstTryCorrect int
	Medal           string
	DurationSecs    int
	XPEarned        int
	CoinsEarned     int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	Attempt      int // generation attempt of the caller
	Try          int // vendor round trip within the attempt
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// SessionSummaryRecord summarizes one completed session.
type SessionSummaryRecord struct {
	SessionID       string
	LevelID         string
	Timestamp       time.Time
	Mode            string
	Score           int
	Mistakes        int
	FirstTryCorrect int
	Medal           string
	DurationSecs    int
	XPEarned        int
	CoinsEarned     int
}

// ItemAccuracy aggregates answers for one item.
type ItemAccuracy struct {
	LevelID  string
	ItemID   string
	Attempts int
	Correct  int
}

// Rate returns Correct/Attempts.
func (a ItemAccuracy) Rate() float64 {
	if a.Attempts == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Attempts)
}

// LLMUsageStat aggregates LLM usage for one purpose.
type LLMUsageStat struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// LLMModelUsage aggregates LLM usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendHintEvent(ctx context.Context, data HintEventData) error
	AppendLifeEvent(ctx context.Context, data LifeEventData) error
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LatestSequence returns the last assigned global sequence number.
	LatestSequence(ctx context.Context) (int64, error)

	// QuerySessionSummaries returns completed sessions, newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)

	// ItemAccuracy aggregates answers per item of a level.
	ItemAccuracy(ctx context.Context, levelID string) ([]ItemAccuracy, error)

	// HintCount returns how many hints were revealed in a session.
	HintCount(ctx context.Context, sessionID string) (int, error)

	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
