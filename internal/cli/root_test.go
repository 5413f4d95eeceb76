package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/caasets/internal/store"
	"github.com/roach88/caasets/internal/testutil"
)

// seededDB writes the standard fixture to a database file and returns its path.
func seededDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coding.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	testutil.Seed(t, st, testutil.StandardBatch())
	require.NoError(t, st.Close())
	return path
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"verbose", "format", "config", "db", "missing"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing flag --%s", name)
	}
	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("format").DefValue)
	assert.Equal(t, "null", cmd.PersistentFlags().Lookup("missing").DefValue)
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"sequential", "session", "labels", "import", "plan"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, _, err := execute(t, "session", "--db", seededDB(t), "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootCommand_InvalidMissingPolicy(t *testing.T) {
	_, _, err := execute(t, "session", "--db", seededDB(t), "--missing", "zero")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootCommand_DatabaseFromEnv(t *testing.T) {
	t.Setenv("CAASETS_DB", seededDB(t))
	t.Setenv("CAASETS_FORMAT", "csv")

	stdout, _, err := execute(t, "session", "--property", "3", "--global=")
	require.NoError(t, err)
	assert.Equal(t, "interview_name,client_id,rater_id,session_number,Code_X,Code_Y\n"+
		"S3,9,R2,1,1,0\n"+
		"S1,101,R1,1,2,0\n"+
		"S2,101,R1,2,0,0\n", stdout)
}

func TestRootCommand_FlagOverridesEnv(t *testing.T) {
	t.Setenv("CAASETS_FORMAT", "json")

	stdout, _, err := execute(t, "session", "--db", seededDB(t), "--format", "csv", "--property=", "--global=")
	require.NoError(t, err)
	assert.Equal(t, "interview_name,client_id,rater_id,session_number\n", stdout)
}

func TestRootCommand_ConfigFile(t *testing.T) {
	db := seededDB(t)
	cfg := filepath.Join(t.TempDir(), "caasets.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("db: "+db+"\nformat: csv\nmissing: sentinel\n"), 0o644))

	stdout, _, err := execute(t, "session", "--config", cfg, "--property=", "--global", "1")
	require.NoError(t, err)
	assert.Equal(t, "interview_name,client_id,rater_id,session_number,Empathy\nS3,9,R2,1,\nS1,101,R1,1,4\nS2,101,R1,2,5\n", stdout)
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	_, _, err := execute(t, "session", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootCommand_VerboseLogsRunID(t *testing.T) {
	_, stderr, err := execute(t, "session", "--db", seededDB(t), "-v", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "run_id=")
}
