package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/ddlinfer/config"
	"github.com/nao1215/ddlinfer/internal/fixture"
)

const basicCrate = "CREATE TABLE \"basic\" (\n" +
	"\t\"id\" BIGINT NOT NULL,\n" +
	"\t\"name\" TEXT,\n" +
	"\tPRIMARY KEY (\"id\")\n" +
	");\n"

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Generate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	odsPath := fixture.WriteFile(t, dir, "basic.ods", fixture.ODS(t, fixture.BasicSheets()))

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name: "default command",
			args: []string{odsPath, "--dialect", "crate"},
			want: basicCrate,
		},
		{
			name: "explicit command with short flags",
			args: []string{"generate", "-d", "cratedb", odsPath},
			want: basicCrate,
		},
		{
			name: "second sheet",
			args: []string{odsPath, "-d", "crate", "-a", "Sheet2", "-t", "foo"},
			want: "CREATE TABLE \"foo\" (\n" +
				"\t\"sku\" TEXT NOT NULL,\n" +
				"\t\"price\" DOUBLE PRECISION,\n" +
				"\t\"in_stock\" BOOLEAN,\n" +
				"\tPRIMARY KEY (\"sku\")\n" +
				");\n",
		},
		{
			name:  "standard input",
			stdin: "id,name\n1,foo\n2,bar\n",
			args:  []string{"-", "-d", "crate", "-t", "basic", "--content-type", "csv"},
			want: "CREATE TABLE \"basic\" (\n" +
				"\t\"id\" BIGINT NOT NULL,\n" +
				"\t\"name\" TEXT NOT NULL,\n" +
				"\tPRIMARY KEY (\"id\")\n" +
				");\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, stdout, stderr := runCLI(t, tt.stdin, tt.args...)
			require.Equal(t, 0, code, stderr)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestRun_FallbackNote(t *testing.T) {
	t.Parallel()

	path := fixture.WriteFile(t, t.TempDir(), "data.weird", []byte("id;name\n1;foo\n2;bar\n"))

	code, stdout, stderr := runCLI(t, "", path, "-d", "crate")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `CREATE TABLE "data"`)
	assert.Contains(t, stderr, "used the general backend")

	code, _, stderr = runCLI(t, "", path, "-d", "crate", "--quiet")
	require.Equal(t, 0, code)
	assert.NotContains(t, stderr, "used the general backend")
}

func TestRun_Verbose(t *testing.T) {
	t.Parallel()

	path := fixture.WriteFile(t, t.TempDir(), "basic.csv", []byte("id,name\n1,foo\n"))

	code, _, stderr := runCLI(t, "", path, "-d", "crate", "-v")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "content type: csv, backend: direct, table: basic, primary key: id")
}

func TestRun_Output(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	odsPath := fixture.WriteFile(t, dir, "basic.ods", fixture.ODS(t, fixture.BasicSheets()))
	out := filepath.Join(dir, "sql", "basic.sql")

	code, stdout, stderr := runCLI(t, "", odsPath, "-d", "crate", "-o", out)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	got, err := os.ReadFile(out) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(t, basicCrate, string(got))
}

func TestRun_Config(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := fixture.WriteFile(t, dir, "basic.csv", []byte("id,name\n1,foo\n"))
	cfgPath := filepath.Join(dir, "ddlinfer.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("dialect: postgres\nbackend: general\n"), 0o600))

	code, stdout, stderr := runCLI(t, "", "--config", cfgPath, csvPath)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `CREATE TABLE "basic"`)
	assert.Contains(t, stdout, `"id" bigint NOT NULL`)
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := fixture.WriteFile(t, dir, "basic.csv", []byte("id,name\n1,foo\n"))

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "missing dialect", args: []string{csvPath}, wantCode: 1, wantErr: "dialect is required"},
		{name: "unknown dialect", args: []string{csvPath, "-d", "oracle"}, wantCode: 1, wantErr: "unsupported dialect"},
		{name: "unknown backend", args: []string{csvPath, "-d", "crate", "-b", "fast"}, wantCode: 1, wantErr: "unsupported backend"},
		{name: "missing file", args: []string{filepath.Join(dir, "nope.csv"), "-d", "crate"}, wantCode: 1, wantErr: "unresolvable resource"},
		{name: "stdin without table name", args: []string{"-d", "crate", "--content-type", "csv"}, wantCode: 1, wantErr: "table name"},
		{name: "unknown flag", args: []string{csvPath, "--turbo"}, wantCode: 2, wantErr: "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, stdout, stderr := runCLI(t, "id\n1\n", tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestRun_Dialects(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, "", "dialects")
	require.Equal(t, 0, code)
	assert.Equal(t, "ansi\ncrate\nmysql\npostgres\nsqlite\n", stdout)
}

func TestRun_Init(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ddlinfer.hcl")

	code, _, stderr := runCLI(t, "", "init", path)
	require.Equal(t, 0, code, stderr)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().SampleRows, cfg.SampleRows)

	code, _, stderr = runCLI(t, "", "init", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already exists")

	code, _, _ = runCLI(t, "", "init", "--force", path)
	assert.Equal(t, 0, code)
}

func TestRun_VersionAndHelp(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, "", "version")
	require.Equal(t, 0, code)
	assert.Equal(t, "ddlinfer dev\n", stdout)

	code, stdout, _ = runCLI(t, "", "--help")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "ddlinfer")
}
