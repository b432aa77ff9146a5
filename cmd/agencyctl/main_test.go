package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusadigital/agency-site/reconcile"
	"github.com/nusadigital/agency-site/utils"
)

func TestHashPasswordCmd(t *testing.T) {
	cmd := hashPasswordCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"correct-horse"})

	require.NoError(t, cmd.Execute())
	hash := strings.TrimSpace(out.String())
	assert.True(t, utils.CheckPassword("correct-horse", hash))
}

func TestHashPasswordCmdRejectsShort(t *testing.T) {
	cmd := hashPasswordCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"short"})

	assert.Error(t, cmd.Execute())
}

func TestReconcileFlags(t *testing.T) {
	cmd := reconcileCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--dry-run", "-n", "5"}))

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	limit, _ := cmd.Flags().GetInt("limit")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	assert.True(t, dryRun)
	assert.Equal(t, 5, limit)
	assert.Equal(t, reconcile.DefaultBatchSize, batchSize)
}

func TestLogsCmdEmptyDir(t *testing.T) {
	cmd := logsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--dir", t.TempDir(), "--date", "2026-05-01"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Callbacks Received: 0")
}

func TestLogsCmdBadDate(t *testing.T) {
	cmd := logsCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--date", "yesterday"})

	assert.Error(t, cmd.Execute())
}
