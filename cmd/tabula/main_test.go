package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabula/pkg/config"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/testutil"
)

const people = "name,age\nAlice,30\nBob,45\n"

// run executes the CLI with args and returns what it printed to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Tabula v"+version)
	assert.Contains(t, out, "OS/Arch:")
}

func TestConvertCSVToJSON(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)
	dst := testutil.TempPath(t, "people.json")

	out, err := run(t, "convert", src, "--output", dst, "--load-mode", "chunked", "--chunk-size", "18")
	require.NoError(t, err)
	assert.Equal(t, "2 rows written to "+dst+"\n", out)

	var objects []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(testutil.ReadFile(t, dst)), &objects))
	require.Len(t, objects, 2)
	assert.Equal(t, "Bob", objects[1]["name"])
	assert.Equal(t, 45.0, objects[1]["age"])
}

func TestConvertReplaceAndDelimiter(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)
	dst := testutil.TempPath(t, "people.txt")

	_, err := run(t, "convert", src, "--output", dst,
		"--output-delimiter", ";", "--column", "name", "--pattern", "^B.*", "--replace", "Robert")
	require.NoError(t, err)
	assert.Equal(t, "name;age\nAlice;30\nRobert;45\n", testutil.ReadFile(t, dst))
}

func TestConvertToArrow(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)
	dst := testutil.TempPath(t, "people.arrow")

	_, err := run(t, "convert", src, "--output", dst, "--load-mode", "chunked", "--chunk-size", "18")
	require.NoError(t, err)

	r, err := ipc.NewFileReader(bytes.NewReader([]byte(testutil.ReadFile(t, dst))))
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 2, r.NumRecords())
	assert.Equal(t, "age", r.Schema().Field(1).Name)
}

func TestConvertNeedsOutput(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)
	_, err := run(t, "convert", src)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestConvertFromEnvironmentAndConfigFile(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", "name;age\nAlice;30\n")
	dst := testutil.TempPath(t, "out.csv")
	cfgPath := testutil.TempPath(t, "tabula.yaml")

	cfg := config.Default()
	cfg.Source = src
	cfg.LoadMode = config.LoadAuto
	cfg.Output.Path = dst
	require.NoError(t, config.Save(cfgPath, cfg))
	t.Setenv("TABULA_DELIMITER", ";")

	_, err := run(t, "convert", "--config", cfgPath, "--output-delimiter", ",")
	require.NoError(t, err)
	assert.Equal(t, "name,age\nAlice,30\n", testutil.ReadFile(t, dst))
}

func TestInspect(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)

	out, err := run(t, "inspect", src, "--rows", "1")
	require.NoError(t, err)

	var report inspectReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, src, report.Source)
	assert.Equal(t, []string{"name", "age"}, report.Header)
	assert.Equal(t, []string{"string", "int"}, report.Types)
	assert.Equal(t, "lf", report.LineEnding)
	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, [][]string{{"Alice", "30"}}, report.Sample)
	assert.Contains(t, report.ArrowSchema, "age: type=int64")
}

func TestValidate(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)

	out, err := run(t, "validate", src, "--types", "string,int")
	require.NoError(t, err)
	assert.Equal(t, "2 column types match\n", out)

	_, err = run(t, "validate", src, "--types", "string,int,date")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestFind(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people+"Carol,30\n")

	out, err := run(t, "find", src, "--column", "age", "--pattern", "^30$", "--load-mode", "chunked", "--chunk-size", "18")
	require.NoError(t, err)
	assert.Equal(t, "Alice,30\nCarol,30\n", out)
}
