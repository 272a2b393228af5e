package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "rqlsearch", cmd.Use)
	assert.Contains(t, cmd.Long, "RQLSEARCH_")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "join", "aggs", "validate", "test", "history"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "locale", "db"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %s", name)
	}
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	entityFlag := compileCmd.Flags().Lookup("entity")
	require.NotNil(t, entityFlag)
	assert.Equal(t, "variable", entityFlag.DefValue)

	scopeFlag := compileCmd.Flags().Lookup("scope")
	require.NotNil(t, scopeFlag)
	assert.Equal(t, "detail", scopeFlag.DefValue)
}

func TestExecute_InvalidFormat(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	code := Execute([]string{"--format", "xml", "compile", "eq(a,1)"}, out, errOut)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut.String(), "invalid format")
}

func TestExecute_EnvironmentSetsConfig(t *testing.T) {
	t.Setenv("RQLSEARCH_CONFIG", "/nonexistent/rqlsearch.cue")
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	code := Execute([]string{"compile", "eq(a,1)"}, out, errOut)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, out.String(), "E201")
}

func TestExecute_Success(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	code := Execute([]string{"compile", "--config", "", "eq(a,1)"}, out, errOut)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out.String(), `"term"`)
	assert.Empty(t, errOut.String())
}
