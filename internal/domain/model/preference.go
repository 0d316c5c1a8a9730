package model

import (
	"fmt"
	"regexp"
	"strings"

	"telegram-gita-bot/internal/domain"
)

// UserType is the delivery order mode stored with a preference record.
// Values match the wire format of the preference service.
type UserType string

const (
	UserTypeRandom     UserType = "random"
	UserTypeSequential UserType = "sequential"
)

// ParseUserType accepts "random" or "sequential" in any case.
func ParseUserType(s string) (UserType, error) {
	switch UserType(strings.ToLower(strings.TrimSpace(s))) {
	case UserTypeRandom:
		return UserTypeRandom, nil
	case UserTypeSequential:
		return UserTypeSequential, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidOrder, s)
}

func (t UserType) Valid() bool {
	return t == UserTypeRandom || t == UserTypeSequential
}

func (t UserType) String() string { return string(t) }

// UserPreference is the remote preference record. The preference service keeps
// at most one record per Username.
type UserPreference struct {
	Username string
	UserType UserType
	ChatID   int64
	Time     string // HH:MM, 24-hour, no timezone
}

// PreferenceStatus is the result of looking up a user's current record.
// StatusQueryFailed is a lookup failure and is never the same as StatusNone.
type PreferenceStatus int

const (
	StatusNone PreferenceStatus = iota
	StatusRandom
	StatusSequential
	StatusQueryFailed
)

// absentUserType is the literal some deployments of the preference service
// return in place of an empty usertype when no record exists.
const absentUserType = "does not exist"

// StatusFromUserType maps a stored usertype onto a status. The empty string
// and the "does not exist" literal mean no record; unknown values are
// treated as a failed query.
func StatusFromUserType(raw string) PreferenceStatus {
	if strings.EqualFold(strings.TrimSpace(raw), absentUserType) {
		return StatusNone
	}
	switch UserType(raw) {
	case "":
		return StatusNone
	case UserTypeRandom:
		return StatusRandom
	case UserTypeSequential:
		return StatusSequential
	default:
		return StatusQueryFailed
	}
}

// UserType returns the mode of an existing record. ok is false for
// StatusNone and StatusQueryFailed.
func (s PreferenceStatus) UserType() (UserType, bool) {
	switch s {
	case StatusRandom:
		return UserTypeRandom, true
	case StatusSequential:
		return UserTypeSequential, true
	}
	return "", false
}

func (s PreferenceStatus) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusRandom:
		return "random"
	case StatusSequential:
		return "sequential"
	case StatusQueryFailed:
		return "query_failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Outcome is the single result of one reconcile run.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeReplaced
	OutcomeDeleteFailed
	OutcomeCreateFailed
	OutcomeInternalError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeDeleteFailed:
		return "delete_failed"
	case OutcomeCreateFailed:
		return "create_failed"
	default:
		return "internal_error"
	}
}

// Success reports whether the user ends up with the requested record.
func (o Outcome) Success() bool {
	return o == OutcomeCreated || o == OutcomeReplaced
}

var dailyTimeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ValidateDailyTime checks s is a 24-hour HH:MM wall-clock time.
func ValidateDailyTime(s string) error {
	if !dailyTimeRe.MatchString(s) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTime, s)
	}
	return nil
}

// ScheduleRequest is a validated request to register a daily delivery.
type ScheduleRequest struct {
	Username string
	ChatID   int64
	UserType UserType
	Time     string
}

// NewScheduleRequest validates raw command tokens. Order is checked before time.
func NewScheduleRequest(username string, chatID int64, order, at string) (ScheduleRequest, error) {
	if strings.TrimSpace(username) == "" {
		return ScheduleRequest{}, fmt.Errorf("%w: empty username", domain.ErrInvalidArgument)
	}
	ut, err := ParseUserType(order)
	if err != nil {
		return ScheduleRequest{}, err
	}
	at = strings.TrimSpace(at)
	if err := ValidateDailyTime(at); err != nil {
		return ScheduleRequest{}, err
	}
	return ScheduleRequest{
		Username: username,
		ChatID:   chatID,
		UserType: ut,
		Time:     at,
	}, nil
}

// ParseScheduleArgs validates the positional "<order> <time>" arguments.
func ParseScheduleArgs(username string, chatID int64, args []string) (ScheduleRequest, error) {
	if len(args) != 2 {
		return ScheduleRequest{}, fmt.Errorf("%w: want <order> <time>, got %d", domain.ErrMissingArguments, len(args))
	}
	return NewScheduleRequest(username, chatID, args[0], args[1])
}

// Preference builds the record to create for this request.
func (r ScheduleRequest) Preference() UserPreference {
	return UserPreference{
		Username: r.Username,
		UserType: r.UserType,
		ChatID:   r.ChatID,
		Time:     r.Time,
	}
}
