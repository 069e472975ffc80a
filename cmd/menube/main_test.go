package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGraphCommand(t *testing.T) {
	menu := writeFile(t, "menu.yaml", `
- label: Git
  menu:
    - label: Status
      command: git status
- label: Branches
  options: git branch --format='%(refname:short)'
  selectScript: git checkout
`)

	out, err := runCLI(t, "graph", "--menu", menu)
	require.NoError(t, err)
	assert.Equal(t, "Git\n  Status  ($ git status)\nBranches  (… git branch --format='%(refname:short)')\n", out)

	out, err = runCLI(t, "graph", "--menu", menu, "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")

	_, err = runCLI(t, "graph", "--menu", menu, "--format", "svg")
	assert.ErrorContains(t, err, "unknown format")
}

func TestValidateCommand(t *testing.T) {
	good := writeFile(t, "good.yaml", "- label: Hello\n  command: echo hi\n")
	out, err := runCLI(t, "validate", "--menu", good)
	require.NoError(t, err)
	assert.Contains(t, out, "Menu is valid!")

	bad := writeFile(t, "bad.json", `[{"label": "Broken", "emit": ""}, {"command": "true"}]`)
	out, err = runCLI(t, "validate", "--menu", bad)
	assert.Error(t, err)
	assert.Contains(t, out, "- ")
}

func TestSessionCommands(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "session", "ls", "--session-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No saved sessions found.")

	_, err = runCLI(t, "session", "inspect", "ghost", "--session-dir", dir)
	assert.Error(t, err)

	_, err = runCLI(t, "session", "rm", "--all", "--session-dir", dir)
	assert.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "menube version ")
}
