package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/impianti/core/consumption"
)

const testDataset = `facility_id,facility_name,date,kwh
A,Impianto A,2025-01-01,1
A,Impianto A,2025-01-02,1
A,Impianto A,2025-01-03,1
A,Impianto A,2025-01-04,1
A,Impianto A,2025-01-05,1
A,Impianto A,2025-01-06,1
A,Impianto A,2025-01-07,1
B,Impianto B,2025-01-01,2
B,Impianto B,2025-01-02,2
B,Impianto B,2025-01-03,2
B,Impianto B,2025-01-04,2
B,Impianto B,2025-01-05,2
B,Impianto B,2025-01-06,2
B,Impianto B,2025-01-07,2
`

type testEnv struct {
	config  string
	dataset string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	dataset := filepath.Join(dir, "facilities.csv")
	require.NoError(t, os.WriteFile(dataset, []byte(testDataset), 0o644))
	cfgFile := filepath.Join(dir, "config.yaml")
	cfgData := "planlog:\n  backend: jsonl\n  path: " + filepath.Join(dir, "runs.log") + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfgData), 0o644))
	return testEnv{config: cfgFile, dataset: dataset}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	scheduleFlags.format, averageFlags.format = "text", "text"
	historyFlags.json = false
	datasetPath = ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScheduleCommand(t *testing.T) {
	env := newTestEnv(t)
	out, err := execute(t, "schedule", "--config", env.config, "--dataset", env.dataset, "--month", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Day 1: Impianto A\n")
	assert.Contains(t, out, "Day 7: Impianto A\n")
	assert.Contains(t, out, "Total cost: 7.00")

	out, err = execute(t, "schedule", "--config", env.config, "--dataset", env.dataset, "--month", "1", "--format", "csv", "--parallel")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "1,A,Impianto A,1,0", lines[1])

	out, err = execute(t, "history", "--config", env.config, "--month", "1")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "month=1"))
}

func TestScheduleCommandErrors(t *testing.T) {
	env := newTestEnv(t)
	_, err := execute(t, "schedule", "--config", env.config, "--dataset", env.dataset, "--month", "2")
	assert.ErrorContains(t, err, "insufficient data")

	_, err = execute(t, "schedule", "--config", env.config, "--dataset", env.dataset, "--month", "1", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestAverageCommand(t *testing.T) {
	env := newTestEnv(t)
	out, err := execute(t, "average", "--config", env.config, "--dataset", env.dataset, "--month", "1", "--format", "json")
	require.NoError(t, err)
	var avgs []consumption.Average
	require.NoError(t, json.Unmarshal([]byte(out), &avgs))
	require.Len(t, avgs, 2)
	assert.Equal(t, 1.0, avgs[0].KWh)
	assert.Equal(t, 2.0, avgs[1].KWh)
}

func TestFacilitiesCommands(t *testing.T) {
	env := newTestEnv(t)
	out, err := execute(t, "facilities", "ls", "--config", env.config, "--dataset", env.dataset)
	require.NoError(t, err)
	assert.Equal(t, "A\tImpianto A\t7 records\nB\tImpianto B\t7 records\n", out)

	dbCfg := filepath.Join(filepath.Dir(env.config), "sqlite.yaml")
	db := filepath.Join(filepath.Dir(env.config), "facilities.db")
	require.NoError(t, os.WriteFile(dbCfg, []byte("store:\n  backend: sqlite\n  path: "+db+"\nplanlog:\n  backend: none\n"), 0o644))
	out, err = execute(t, "facilities", "import", env.dataset, "--config", dbCfg)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 facilities into the sqlite store")

	out, err = execute(t, "schedule", "--config", dbCfg, "--month", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Total cost: 7.00")
}
