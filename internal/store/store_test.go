package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/kvasha/digitype/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "digitype.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func mustCreateUser(t *testing.T, st *Store, username, password string) int64 {
	t.Helper()
	id, err := st.CreateUser(context.Background(), model.SignupRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return id
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id := mustCreateUser(t, st, "alice", "secret1")
	if _, err := st.CreateUser(ctx, model.SignupRequest{Username: "alice", Password: "other"}); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	// The original account must be untouched.
	user, err := st.Authenticate(ctx, model.LoginRequest{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("authenticate after duplicate attempt: %v", err)
	}
	if user.ID != id {
		t.Fatalf("expected id %d, got %d", id, user.ID)
	}
}

func TestAuthenticate(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, st, "bob", "hunter2")

	if _, err := st.Authenticate(ctx, model.LoginRequest{Username: "bob", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := st.Authenticate(ctx, model.LoginRequest{Username: "nobody", Password: "hunter2"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	user, err := st.Authenticate(ctx, model.LoginRequest{Username: "bob", Password: "hunter2"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "bob" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUpdateUser(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id := mustCreateUser(t, st, "carol", "secret1")
	mustCreateUser(t, st, "dave", "secret2")

	if err := st.UpdateUser(ctx, id, model.UpdateProfileRequest{Email: "carol@example.com"}); err != nil {
		t.Fatalf("update email: %v", err)
	}
	user, err := st.GetUser(ctx, id)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Email != "carol@example.com" {
		t.Fatalf("expected updated email, got %q", user.Email)
	}

	if err := st.UpdateUser(ctx, id, model.UpdateProfileRequest{Password: "newpass"}); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if _, err := st.Authenticate(ctx, model.LoginRequest{Username: "carol", Password: "newpass"}); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}

	if err := st.UpdateUser(ctx, id, model.UpdateProfileRequest{Username: "dave"}); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername on rename collision, got %v", err)
	}
	if err := st.UpdateUser(ctx, 9999, model.UpdateProfileRequest{Email: "x@example.com"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := st.UpdateUser(ctx, id, model.UpdateProfileRequest{}); err != nil {
		t.Fatalf("expected empty update to be a no-op, got %v", err)
	}
}

func TestRecordAndListProgress(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id := mustCreateUser(t, st, "erin", "secret1")
	other := mustCreateUser(t, st, "frank", "secret2")

	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 15, 30, 0, 0, time.Local)
	}
	if err := st.RecordProgress(ctx, id, 40, 90, day(1)); err != nil {
		t.Fatalf("record progress: %v", err)
	}
	if err := st.RecordProgress(ctx, id, 55, 97.5, day(3)); err != nil {
		t.Fatalf("record progress: %v", err)
	}
	if err := st.RecordProgress(ctx, id, 70, 99, day(8)); err != nil {
		t.Fatalf("record progress: %v", err)
	}
	if err := st.RecordProgress(ctx, other, 90, 80, day(2)); err != nil {
		t.Fatalf("record progress: %v", err)
	}

	records, err := st.ListProgress(ctx, model.ProgressFilter{
		UserID: id,
		From:   day(1),
		To:     day(5),
	})
	if err != nil {
		t.Fatalf("list progress: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records in range, got %d", len(records))
	}
	first, second := records[0], records[1]
	if first.UserID != id || math.Abs(first.WPM-40) > 1e-9 || math.Abs(first.Accuracy-90) > 1e-9 {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.Date.Format("2006-01-02") != "2026-03-01" {
		t.Fatalf("expected calendar date only, got %v", first.Date)
	}
	if !second.Date.After(first.Date) {
		t.Fatalf("expected records ordered by date ascending")
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.Local)
	if err := st.RecordProgress(ctx, 9999, 50, 90, date); err == nil {
		t.Fatalf("expected progress insert for unknown user to fail")
	}
	if err := st.SaveAchievements(ctx, 9999, []string{"First Test"}); err == nil {
		t.Fatalf("expected achievement insert for unknown user to fail")
	}
}

func TestLeaderboardRanksByBestWPM(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	a := mustCreateUser(t, st, "userA", "secret1")
	b := mustCreateUser(t, st, "userB", "secret2")

	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.Local)
	if err := st.RecordProgress(ctx, a, 60, 95, date); err != nil {
		t.Fatalf("record progress: %v", err)
	}
	if err := st.RecordProgress(ctx, a, 45, 99, date); err != nil {
		t.Fatalf("record progress: %v", err)
	}
	if err := st.RecordProgress(ctx, b, 80, 90, date); err != nil {
		t.Fatalf("record progress: %v", err)
	}

	board, err := st.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(board))
	}
	if board[0].Username != "userB" || math.Abs(board[0].MaxWPM-80) > 1e-9 {
		t.Fatalf("expected userB first with 80 WPM, got %+v", board[0])
	}
	if board[1].Username != "userA" || math.Abs(board[1].MaxWPM-60) > 1e-9 {
		t.Fatalf("expected userA second with best WPM 60, got %+v", board[1])
	}

	limited, err := st.Leaderboard(ctx, 1)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(limited) != 1 || limited[0].Username != "userB" {
		t.Fatalf("expected limit to keep only the top row, got %+v", limited)
	}
}

func TestSaveAndListAchievements(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id := mustCreateUser(t, st, "grace", "secret1")

	if err := st.SaveAchievements(ctx, id, []string{"Speed Demon", "First Test"}); err != nil {
		t.Fatalf("save achievements: %v", err)
	}
	// Saving again must be idempotent.
	if err := st.SaveAchievements(ctx, id, []string{"First Test"}); err != nil {
		t.Fatalf("save achievements twice: %v", err)
	}
	if err := st.SaveAchievements(ctx, id, nil); err != nil {
		t.Fatalf("save empty achievements: %v", err)
	}

	names, err := st.ListAchievements(ctx, id)
	if err != nil {
		t.Fatalf("list achievements: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 achievements, got %v", names)
	}
	if names[0] != "First Test" || names[1] != "Speed Demon" {
		t.Fatalf("expected names sorted, got %v", names)
	}
}
