//go:build !integration

package model

import (
	"errors"
	"testing"

	"telegram-gita-bot/internal/domain"
)

// --- Preference Model Tests ---

func TestParseUserType(t *testing.T) {
	t.Run("should accept both modes in any case", func(t *testing.T) {
		cases := map[string]UserType{
			"random":       UserTypeRandom,
			"RANDOM":       UserTypeRandom,
			" Sequential ": UserTypeSequential,
		}
		for in, want := range cases {
			got, err := ParseUserType(in)
			if err != nil {
				t.Fatalf("ParseUserType(%q) returned error: %v", in, err)
			}
			if got != want {
				t.Errorf("ParseUserType(%q) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("should reject unknown tokens", func(t *testing.T) {
		for _, in := range []string{"", "shuffle", "seq", "randomly"} {
			_, err := ParseUserType(in)
			if !errors.Is(err, domain.ErrInvalidOrder) {
				t.Errorf("ParseUserType(%q) error = %v, want ErrInvalidOrder", in, err)
			}
		}
	})
}

func TestValidateDailyTime(t *testing.T) {
	valid := []string{"00:00", "06:30", "12:05", "23:59"}
	for _, s := range valid {
		if err := ValidateDailyTime(s); err != nil {
			t.Errorf("ValidateDailyTime(%q) unexpected error: %v", s, err)
		}
	}

	invalid := []string{"25:99", "24:00", "6:30", "06:3", "06:60", "06:30:00", "0630", "", "ab:cd", " 06:30"}
	for _, s := range invalid {
		err := ValidateDailyTime(s)
		if !errors.Is(err, domain.ErrInvalidTime) {
			t.Errorf("ValidateDailyTime(%q) error = %v, want ErrInvalidTime", s, err)
		}
	}
}

func TestStatusFromUserType(t *testing.T) {
	cases := []struct {
		raw  string
		want PreferenceStatus
	}{
		{"", StatusNone},
		{"random", StatusRandom},
		{"sequential", StatusSequential},
		{"does not exist", StatusNone},
		{"Does Not Exist", StatusNone},
		{"does not", StatusQueryFailed},
		{"Random", StatusQueryFailed},
	}
	for _, tc := range cases {
		if got := StatusFromUserType(tc.raw); got != tc.want {
			t.Errorf("StatusFromUserType(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestPreferenceStatus_UserType(t *testing.T) {
	if ut, ok := StatusRandom.UserType(); !ok || ut != UserTypeRandom {
		t.Errorf("StatusRandom.UserType() = %q, %v", ut, ok)
	}
	if ut, ok := StatusSequential.UserType(); !ok || ut != UserTypeSequential {
		t.Errorf("StatusSequential.UserType() = %q, %v", ut, ok)
	}
	if _, ok := StatusNone.UserType(); ok {
		t.Error("StatusNone should not carry a user type")
	}
	if _, ok := StatusQueryFailed.UserType(); ok {
		t.Error("StatusQueryFailed should not carry a user type")
	}
}

func TestNewScheduleRequest(t *testing.T) {
	t.Run("should build a valid request", func(t *testing.T) {
		req, err := NewScheduleRequest("asha", 42, "sequential", "06:30")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := UserPreference{Username: "asha", UserType: UserTypeSequential, ChatID: 42, Time: "06:30"}
		if got := req.Preference(); got != want {
			t.Errorf("Preference() = %+v, want %+v", got, want)
		}
	})

	t.Run("should check order before time", func(t *testing.T) {
		_, err := NewScheduleRequest("asha", 42, "weekly", "25:99")
		if !errors.Is(err, domain.ErrInvalidOrder) {
			t.Errorf("expected ErrInvalidOrder, got %v", err)
		}
	})

	t.Run("should reject malformed time", func(t *testing.T) {
		_, err := NewScheduleRequest("asha", 42, "random", "25:99")
		if !errors.Is(err, domain.ErrInvalidTime) {
			t.Errorf("expected ErrInvalidTime, got %v", err)
		}
	})

	t.Run("should reject empty username", func(t *testing.T) {
		_, err := NewScheduleRequest("  ", 42, "random", "06:30")
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestParseScheduleArgs(t *testing.T) {
	for _, args := range [][]string{nil, {"random"}, {"random", "06:30", "daily"}} {
		if _, err := ParseScheduleArgs("asha", 1, args); !errors.Is(err, domain.ErrMissingArguments) {
			t.Errorf("args %v: expected ErrMissingArguments, got %v", args, err)
		}
	}
	req, err := ParseScheduleArgs("asha", 1, []string{"RANDOM", "23:59"})
	if err != nil || req.UserType != UserTypeRandom || req.Time != "23:59" {
		t.Errorf("got %+v, %v", req, err)
	}
}

func TestOutcome(t *testing.T) {
	if !OutcomeCreated.Success() || !OutcomeReplaced.Success() {
		t.Error("created and replaced should be successful outcomes")
	}
	for _, o := range []Outcome{OutcomeDeleteFailed, OutcomeCreateFailed, OutcomeInternalError} {
		if o.Success() {
			t.Errorf("%s should not be a successful outcome", o)
		}
	}
	if OutcomeDeleteFailed.String() != "delete_failed" {
		t.Errorf("unexpected label %q", OutcomeDeleteFailed.String())
	}
}

// --- Verse Model Tests ---

func TestParseVerseRef(t *testing.T) {
	t.Run("should parse a valid reference", func(t *testing.T) {
		ref, err := ParseVerseRef("2", " 47")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ref.Chapter != 2 || ref.Verse != 47 {
			t.Errorf("got %+v", ref)
		}
		if ref.String() != "2.47" {
			t.Errorf("String() = %q", ref.String())
		}
	})

	t.Run("should reject bad input", func(t *testing.T) {
		bad := [][2]string{{"x", "1"}, {"1", "y"}, {"0", "1"}, {"19", "1"}, {"2", "0"}, {"-1", "3"}}
		for _, in := range bad {
			_, err := ParseVerseRef(in[0], in[1])
			if !errors.Is(err, domain.ErrInvalidVerseRef) {
				t.Errorf("ParseVerseRef(%q, %q) error = %v, want ErrInvalidVerseRef", in[0], in[1], err)
			}
		}
	})
}
