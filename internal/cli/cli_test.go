package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/okr-dashboard/internal/client"
	"github.com/yukikurage/okr-dashboard/internal/dto"
	"github.com/yukikurage/okr-dashboard/internal/server/servertest"
)

type stubSuggester struct {
	drafts []dto.TaskDraft
}

func (s stubSuggester) SuggestTasks(context.Context, string) ([]dto.TaskDraft, error) {
	return s.drafts, nil
}

// setupEnv points okrctl at ts with an empty config directory.
func setupEnv(t *testing.T, ts *servertest.Server) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("OKR_API_URL", ts.URL)
	t.Setenv("OKR_CONFIG_DIR", dir)
	return dir
}

func executeCommand(stdin string, args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func mustExecute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := executeCommand(stdin, args...)
	require.NoError(t, err, out)
	return out
}

func loginAs(t *testing.T, username, password string) {
	t.Helper()
	mustExecute(t, password+"\n", "login", username)
}

func TestLoginStaffLandsOnTasks(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	dir := setupEnv(t, ts)

	out := mustExecute(t, "alice\n"+servertest.StaffPassword+"\n", "login")
	assert.Contains(t, out, "Logged in as alice (Staff)")
	assert.Contains(t, out, "Next: okrctl task list")

	token, err := client.NewTokenStore(dir).Load()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	out = mustExecute(t, "", "me")
	assert.Contains(t, out, "alice@example.com")
}

func TestLoginAdminLandsOnDashboard(t *testing.T) {
	ts := servertest.New(t, nil)
	setupEnv(t, ts)

	out := mustExecute(t, servertest.AdminPassword+"\n", "login", servertest.AdminUsername)
	assert.Contains(t, out, "Next: okrctl dashboard")
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	dir := setupEnv(t, ts)

	_, err := executeCommand("wrong-password\n", "login", "alice")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)

	_, statErr := os.Stat(client.NewTokenStore(dir).Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestCommandsRequireLogin(t *testing.T) {
	ts := servertest.New(t, nil)
	setupEnv(t, ts)

	for _, args := range [][]string{{"task", "list"}, {"dashboard"}, {"goal", "list", "week"}, {"me"}} {
		_, err := executeCommand("", args...)
		assert.ErrorIs(t, err, client.ErrNotLoggedIn, "okrctl %s", strings.Join(args, " "))
	}
}

func TestStaffRedirectedFromAdminCommands(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	setupEnv(t, ts)
	loginAs(t, "alice", servertest.StaffPassword)

	for _, args := range [][]string{
		{"dashboard"},
		{"user", "list"},
		{"user", "tasks", "1"},
		{"position", "list"},
	} {
		_, err := executeCommand("", args...)
		require.Error(t, err, "okrctl %s", strings.Join(args, " "))
		assert.Contains(t, err.Error(), "access denied")
		assert.Contains(t, err.Error(), "okrctl task list")
	}
}

func TestLogout(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	setupEnv(t, ts)
	loginAs(t, "alice", servertest.StaffPassword)

	out := mustExecute(t, "", "logout")
	assert.Contains(t, out, "Logged out")

	_, err := executeCommand("", "task", "list")
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
}

func TestTaskCommands(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	setupEnv(t, ts)
	loginAs(t, "alice", servertest.StaffPassword)

	out := mustExecute(t, "", "task", "add", "Write", "report", "--hours", "2", "--important")
	assert.Contains(t, out, "Created task #1")

	out = mustExecute(t, "", "task", "list")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "Total hours: 2")
	assert.Contains(t, out, "Tip:")

	out = mustExecute(t, "", "task", "start", "1")
	assert.Contains(t, out, "In progress")

	_, err := executeCommand("", "task", "progress", "1", "150")
	assert.ErrorIs(t, err, client.ErrProgressOutOfRange)

	out = mustExecute(t, "", "task", "progress", "1", "60%")
	assert.Contains(t, out, "Task #1 is at 60%")

	out = mustExecute(t, "", "task", "edit", "1", "--title", "Write final report", "--deadline", "2030-01-02")
	assert.Contains(t, out, "Write final report")
	assert.Contains(t, out, "2030-01-02")

	out = mustExecute(t, "", "task", "done", "1")
	assert.Contains(t, out, "Completed task #1")

	_, err = executeCommand("", "task", "start", "1")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.Status)

	out = mustExecute(t, "", "task", "rm", "1")
	assert.Contains(t, out, "Deleted task #1")
	assert.Contains(t, out, "No tasks.")
}

func TestTaskEditValidation(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	setupEnv(t, ts)
	loginAs(t, "alice", servertest.StaffPassword)
	mustExecute(t, "", "task", "add", "Plan")

	_, err := executeCommand("", "task", "edit", "1")
	assert.EqualError(t, err, "nothing to change")

	_, err = executeCommand("", "task", "edit", "1", "--status", "Someday")
	assert.EqualError(t, err, `unknown status "Someday"`)

	_, err = executeCommand("", "task", "edit", "x", "--title", "y")
	assert.EqualError(t, err, `invalid id "x"`)

	_, err = executeCommand("", "task", "list", "--date", "tomorrow")
	assert.ErrorIs(t, err, client.ErrInvalidDate)
}

func TestTaskSuggest(t *testing.T) {
	ts := servertest.New(t, stubSuggester{drafts: []dto.TaskDraft{
		{Title: "Book flights", Hours: 1},
		{Title: "Send agenda", Hours: 0.5, IsImportant: true},
	}})
	ts.CreateStaff(t, "alice")
	setupEnv(t, ts)
	loginAs(t, "alice", servertest.StaffPassword)

	out := mustExecute(t, "", "task", "suggest", "trip", "next", "week")
	assert.Contains(t, out, "Book flights")
	assert.Contains(t, out, "--create")

	out = mustExecute(t, "", "task", "suggest", "trip", "--create")
	assert.Contains(t, out, "Created task #1 Book flights")
	assert.Contains(t, out, "Created task #2 Send agenda")

	out = mustExecute(t, "", "task", "list")
	assert.Contains(t, out, "Send agenda")
}

func TestGoalCommands(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	setupEnv(t, ts)
	loginAs(t, "alice", servertest.StaffPassword)

	out := mustExecute(t, "", "goal", "add", "week", "Ship", "v1", "-q", "3")
	assert.Contains(t, out, `Added goal "Ship v1"`)

	out = mustExecute(t, "", "goal", "list", "WEEK")
	assert.Contains(t, out, "Ship v1")

	out = mustExecute(t, "", "goal", "list", "year")
	assert.Contains(t, out, "No goals.")

	_, err := executeCommand("", "goal", "list", "decade")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daily, week")
}

func TestGuideToggle(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	setupEnv(t, ts)
	loginAs(t, "alice", servertest.StaffPassword)

	out := mustExecute(t, "", "settings", "guide")
	assert.Contains(t, out, "Guide: on")

	out = mustExecute(t, "", "settings", "guide", "off")
	assert.Contains(t, out, "Guide off")

	out = mustExecute(t, "", "task", "list")
	assert.NotContains(t, out, "Tip:")

	_, err := executeCommand("", "settings", "guide", "maybe")
	assert.Error(t, err)
}

func TestProfileCommands(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	setupEnv(t, ts)
	loginAs(t, "alice", servertest.StaffPassword)

	out := mustExecute(t, "", "profile", "update", "--name", "Alice Liddell", "--phone", "555-0100")
	assert.Contains(t, out, "Profile updated")

	out = mustExecute(t, "", "profile")
	assert.Contains(t, out, "Alice Liddell")
	assert.Contains(t, out, "555-0100")

	_, err := executeCommand(servertest.StaffPassword+"\nnewpassword\nmismatch\n", "profile", "password")
	assert.Error(t, err)

	out = mustExecute(t, servertest.StaffPassword+"\nnewpassword\nnewpassword\n", "profile", "password")
	assert.Contains(t, out, "Password changed")

	mustExecute(t, "", "logout")
	loginAs(t, "alice", "newpassword")
}

func TestAdminCommands(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	setupEnv(t, ts)
	loginAs(t, servertest.AdminUsername, servertest.AdminPassword)

	out := mustExecute(t, "", "position", "add", "Intern")
	assert.Contains(t, out, "Created position #4 Intern")

	out = mustExecute(t, "", "user", "add", "carol", "carol@example.com", "--position", "4")
	assert.Contains(t, out, "Created user")
	assert.Contains(t, out, "Initial password: ")

	out = mustExecute(t, "", "user", "list")
	assert.Contains(t, out, "carol")
	assert.Contains(t, out, "Intern")
	assert.Contains(t, out, "(3 users)")

	mustExecute(t, "", "user", "edit", "3", "--position", "0", "--name", "Carol")
	out = mustExecute(t, "", "user", "list")
	assert.NotContains(t, out, "Intern")

	out = mustExecute(t, "", "position", "list")
	assert.Contains(t, out, "Intern")
	mustExecute(t, "", "position", "rm", "4")
	out = mustExecute(t, "", "position", "list")
	assert.NotContains(t, out, "Intern")

	out = mustExecute(t, "", "user", "tasks", "2")
	assert.Contains(t, out, "No tasks.")

	out = mustExecute(t, "", "dashboard")
	assert.Contains(t, out, "Users by position")
	assert.Contains(t, out, "Tasks by status")
	assert.Contains(t, out, "Users: 3")

	path := filepath.Join(t.TempDir(), "dashboard.pdf")
	out = mustExecute(t, "", "dashboard", "--pdf", path)
	assert.Contains(t, out, "Wrote "+path)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))

	out = mustExecute(t, "", "user", "rm", "3")
	assert.Contains(t, out, "Deleted user #3")
}

func TestConfigFile(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	dir := t.TempDir()
	t.Setenv("OKR_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_url: "+ts.URL+"\ntimeout: 5s\n"), 0o600))

	out := mustExecute(t, servertest.StaffPassword+"\n", "login", "alice")
	assert.Contains(t, out, "Logged in as alice")
}

func TestAPIURLFlag(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	t.Setenv("OKR_CONFIG_DIR", t.TempDir())
	t.Setenv("OKR_API_URL", "http://127.0.0.1:1")

	out := mustExecute(t, servertest.StaffPassword+"\n", "--api-url", ts.URL, "login", "alice")
	assert.Contains(t, out, "Logged in as alice")
}

func TestExplicitConfigFileMissing(t *testing.T) {
	t.Setenv("OKR_CONFIG_DIR", t.TempDir())

	_, err := executeCommand("", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "logout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}
