package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xtgeoip/testutils"
)

func writeFeeds(t *testing.T) (dir string) {
	dir = t.TempDir()
	files := map[string]string{
		"locations.csv": testutils.LocationsFeed(
			testutils.Location("2921044", "EU", "DE", "Germany"),
			testutils.Location("6252001", "NA", "US", "United States"),
		),
		"blocks4.csv": testutils.BlocksFeed(
			testutils.Block("1.0.0.0/24", "6252001", "", "0", "0"),
			testutils.Block("1.0.1.0/24", "6252001", "", "0", "0"),
			testutils.Block("5.0.0.0/24", "2921044", "", "0", "0"),
		),
		"blocks6.csv": testutils.BlocksFeed(
			testutils.Block("2a00::/16", "2921044", "", "0", "0"),
		),
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "out"), 0755))
	return
}

func TestRunCompilesTables(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	dir := writeFeeds(t)
	var stderr bytes.Buffer

	// Act
	code := run([]string{
		"-c", filepath.Join(dir, "locations.csv"),
		"-ipv4-file", filepath.Join(dir, "blocks4.csv"),
		"-6", filepath.Join(dir, "blocks6.csv"),
		"-d", filepath.Join(dir, "out"),
		"-report", filepath.Join(dir, "log", "report.log"),
		"-v",
	}, &stderr)

	// Assert
	assert.Equal(0, code, stderr.String())
	us, err := os.ReadFile(filepath.Join(dir, "out", "US.iv4"))
	assert.Nil(err)
	assert.Equal([]byte{1, 0, 0, 0, 1, 0, 1, 255}, us)
	de6, err := os.ReadFile(filepath.Join(dir, "out", "DE.iv6"))
	assert.Nil(err)
	assert.Len(de6, 32)
	_, err = os.Stat(filepath.Join(dir, "out", "O1.iv4"))
	assert.Nil(err)
	report, err := os.ReadFile(filepath.Join(dir, "log", "report.log"))
	assert.Nil(err)
	assert.Equal(3, bytes.Count(report, []byte("\n")))
	assert.Contains(stderr.String(), "Processed range file")
}

func TestRunWithConfigFile(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	dir := writeFeeds(t)
	configPath := filepath.Join(dir, "xtgeoip.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"countryFile: "+filepath.Join(dir, "locations.csv")+"\n"+
			"ipv4File: "+filepath.Join(dir, "blocks4.csv")+"\n"+
			"ipv6File: \"\"\n"+
			"targetDir: "+filepath.Join(dir, "out")+"\n"+
			"allowCountries: US\n"), 0644))
	var stderr bytes.Buffer

	// Act
	code := run([]string{"-config", configPath, "-n"}, &stderr)

	// Assert
	assert.Equal(0, code, stderr.String())
	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	assert.Nil(err)
	if assert.Len(entries, 1) {
		assert.Equal("US.iv4", entries[0].Name())
	}
}

func TestRunArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-x"}},
		{"positional argument", []string{"extra"}},
		{"both filters", []string{"-a", "DE", "-f", "US"}},
		{"no range feeds", []string{"-4", "", "-6", ""}},
		{"bad log level", []string{"-loglevel", "loud"}},
		{"missing config", []string{"-config", "/nonexistent/xtgeoip.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, exitUsage, run(tt.args, &stderr))
		})
	}
}

func TestRunHelp(t *testing.T) {
	var stderr bytes.Buffer

	assert.Equal(t, 0, run([]string{"-h"}, &stderr))
	assert.Contains(t, stderr.String(), "allow-countries")
}

func TestRunExitCodes(t *testing.T) {
	assert := assert.New(t)

	dir := writeFeeds(t)
	var stderr bytes.Buffer

	code := run([]string{"-c", filepath.Join(dir, "missing.csv"), "-d", filepath.Join(dir, "out")}, &stderr)
	assert.Equal(1, code)

	code = run([]string{
		"-c", filepath.Join(dir, "locations.csv"),
		"-4", filepath.Join(dir, "missing4.csv"),
		"-6", filepath.Join(dir, "missing6.csv"),
		"-d", filepath.Join(dir, "out"),
	}, &stderr)
	assert.Equal(2, code)
}
