package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is the accepted "<date> <time>" format, interpreted in local time.
const DateTimeLayout = "2006-01-02 15:04"

var (
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidDateTime  = errors.New("invalid date or time")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrNegativeDuration = errors.New("negative duration")
	ErrEmptyName        = errors.New("empty name")
)

// SetArgs are the typed fields of a /set command.
type SetArgs struct {
	Name       string
	ActivateAt time.Time
	Duration   time.Duration
	Frequency  string
}

// ParseSetCommand parses "/set <name> <YYYY-MM-DD> <HH:MM> <minutes> <frequency>".
// The command token itself is part of the text and counted.
func ParseSetCommand(text string, loc *time.Location) (SetArgs, error) {
	parts := strings.Fields(text)
	if len(parts) != 6 {
		return SetArgs{}, fmt.Errorf("%w: want 6 fields, got %d", ErrInvalidFormat, len(parts))
	}

	at, err := ParseDateTime(parts[2], parts[3], loc)
	if err != nil {
		return SetArgs{}, err
	}
	dur, err := ParseMinutes(parts[4])
	if err != nil {
		return SetArgs{}, err
	}

	return SetArgs{
		Name:       parts[1],
		ActivateAt: at,
		Duration:   dur,
		Frequency:  parts[5],
	}, nil
}

// ParseDeleteCommand parses "/delete <name>" and returns the name.
func ParseDeleteCommand(text string) (string, error) {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: want 2 fields, got %d", ErrInvalidFormat, len(parts))
	}
	return parts[1], nil
}

// ParseDateTime parses a date and a time in DateTimeLayout without any
// timezone conversion. A nil loc means time.Local.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateTimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %s", ErrInvalidDateTime, date, clock)
	}
	return t, nil
}

// ParseMinutes parses a whole, non-negative number of minutes.
func ParseMinutes(s string) (time.Duration, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeDuration, n)
	}
	// Keep the value representable as a time.Duration.
	if n > int64(time.Duration(1<<63-1)/time.Minute) {
		return 0, fmt.Errorf("%w: %d is too large", ErrInvalidDuration, n)
	}
	return time.Duration(n) * time.Minute, nil
}

// FormatMinutes returns the duration as whole minutes, e.g. "90".
func FormatMinutes(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Minute), 10)
}
