package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"filmrover/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
func newClock() *fakeClock                   { return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)} }

type countingCompleter struct {
	calls []string
	err   error
}

func (c *countingCompleter) CompleteGame(_ context.Context, id string) error {
	c.calls = append(c.calls, id)
	return c.err
}

var (
	startStep = Step{Kind: domain.KindMovie, ID: 5, Label: "Heat"}
	endRef    = domain.Ref{Kind: domain.KindMovie, ID: 10}
	middle    = Step{Kind: domain.KindPerson, ID: 3, Label: "Al Pacino"}
	endStep   = Step{Kind: domain.KindMovie, ID: 10, Label: "Scarface"}
)

func newSession() (*Session, *fakeClock, *countingCompleter) {
	clock := newClock()
	completer := &countingCompleter{}
	return New("game1", startStep, endRef, clock, completer), clock, completer
}

func TestSession_Transition(t *testing.T) {
	s, _, completer := newSession()
	ctx := context.Background()
	assert.Equal(t, StateIdle, s.State())

	won, err := s.Visit(ctx, middle)
	require.NoError(t, err)
	assert.False(t, won)
	assert.Equal(t, StateRunning, s.State())
	assert.Equal(t, []Step{startStep, middle}, s.History())
	assert.Equal(t, 1, s.Clicks())

	won, err = s.Visit(ctx, endStep)
	require.NoError(t, err)
	assert.True(t, won)
	assert.Equal(t, StateWon, s.State())
	assert.Len(t, s.History(), 3)
	assert.Equal(t, endStep, s.History()[2])
	assert.Equal(t, []string{"game1"}, completer.calls)
}

func TestSession_LandingOnStartOnlyPlacesIt(t *testing.T) {
	s, _, _ := newSession()

	won, err := s.Visit(context.Background(), startStep)
	require.NoError(t, err)
	assert.False(t, won)
	assert.Equal(t, StateRunning, s.State())
	assert.Equal(t, []Step{startStep}, s.History())
	assert.Equal(t, 0, s.Clicks())
}

func TestSession_DirectHopToEndCountsOneClick(t *testing.T) {
	s, _, completer := newSession()
	s.Start()

	won, err := s.Visit(context.Background(), endStep)
	require.NoError(t, err)
	assert.True(t, won)
	assert.Equal(t, []Step{startStep, endStep}, s.History())
	assert.Equal(t, 1, s.Clicks())
	assert.Len(t, completer.calls, 1)
}

func TestSession_WonIsTerminal(t *testing.T) {
	s, _, completer := newSession()
	ctx := context.Background()
	s.Start()
	_, err := s.Visit(ctx, endStep)
	require.NoError(t, err)

	_, err = s.Visit(ctx, middle)
	assert.ErrorIs(t, err, ErrFinished)
	_, err = s.Visit(ctx, endStep)
	assert.ErrorIs(t, err, ErrFinished)

	s.Start()
	assert.Equal(t, StateWon, s.State())
	assert.Len(t, s.History(), 2)
	assert.Len(t, completer.calls, 1)
}

func TestSession_ElapsedWholeSecondsAndFrozenOnWin(t *testing.T) {
	s, clock, _ := newSession()
	ctx := context.Background()

	assert.Zero(t, s.Elapsed())
	s.Start()
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, time.Second, s.Elapsed())

	clock.Advance(61 * time.Second)
	_, err := s.Visit(ctx, endStep)
	require.NoError(t, err)
	assert.Equal(t, 62*time.Second, s.Elapsed())

	clock.Advance(time.Hour)
	assert.Equal(t, 62*time.Second, s.Elapsed())
}

func TestSession_GiveUp(t *testing.T) {
	s, clock, completer := newSession()
	ctx := context.Background()

	_, err := s.Visit(ctx, middle)
	require.NoError(t, err)
	clock.Advance(30 * time.Second)

	s.GiveUp()
	assert.Equal(t, StateIdle, s.State())
	assert.Zero(t, s.Elapsed())
	assert.Empty(t, s.History())
	assert.Zero(t, s.Clicks())
	assert.Empty(t, completer.calls)
}

func TestSession_GiveUpAfterWin(t *testing.T) {
	s, _, completer := newSession()
	ctx := context.Background()
	s.Start()
	_, err := s.Visit(ctx, endStep)
	require.NoError(t, err)

	s.GiveUp()
	assert.Equal(t, StateIdle, s.State())
	assert.Zero(t, s.Elapsed())

	// a replay may reach the end again but the game is completed only once
	_, err = s.Visit(ctx, endStep)
	require.NoError(t, err)
	assert.Equal(t, StateWon, s.State())
	assert.Len(t, completer.calls, 1)
}

func TestSession_CompletionFailureStaysWon(t *testing.T) {
	s, _, completer := newSession()
	completer.err = errors.New("db locked")
	s.Start()

	won, err := s.Visit(context.Background(), endStep)
	assert.True(t, won)
	assert.ErrorIs(t, err, completer.err)
	assert.Equal(t, StateWon, s.State())
}

func TestSession_SnapshotRestore(t *testing.T) {
	s, clock, completer := newSession()
	ctx := context.Background()

	_, err := s.Visit(ctx, middle)
	require.NoError(t, err)
	clock.Advance(10 * time.Second)

	snap := s.Snapshot()
	assert.Equal(t, int64(10), snap.ElapsedSeconds)
	assert.Equal(t, 1, snap.Clicks)

	restored := Restore(snap, clock, completer)
	clock.Advance(5 * time.Second)
	assert.Equal(t, StateRunning, restored.State())
	assert.Equal(t, 15*time.Second, restored.Elapsed())

	_, err = restored.Visit(ctx, endStep)
	require.NoError(t, err)
	won := Restore(restored.Snapshot(), clock, completer)
	clock.Advance(time.Minute)
	assert.Equal(t, StateWon, won.State())
	assert.Equal(t, 15*time.Second, won.Elapsed())
	assert.True(t, won.Completed())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatElapsed(0))
	assert.Equal(t, "00:01:05", FormatElapsed(65*time.Second))
	assert.Equal(t, "02:00:09", FormatElapsed(2*time.Hour+9*time.Second))
}

func TestSession_ShareText(t *testing.T) {
	s, clock, _ := newSession()
	ctx := context.Background()
	_, err := s.Visit(ctx, middle)
	require.NoError(t, err)
	clock.Advance(83 * time.Second)
	_, err = s.Visit(ctx, endStep)
	require.NoError(t, err)

	assert.Equal(t,
		"I just got from Heat to Scarface in 00:01:23 with 2 clicks on FilmRover! Give it a shot! https://filmrover.app/play/game1",
		s.ShareText("https://filmrover.app/play/game1"))
}
