package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/codestamp/internal/testutil"
)

const sourceJSON = "{\n  \"players\": [\"Stephen Curry\", \"LeBron James\", \"Klay Thompson\"]\n}\n"

const invalidJSON = "/* @generated CodeStamp<<cd7c7e09cdbabd54696a12d864243dcf>> */\n" +
	"{\n  \"stamp\": \"CodeStamp<<bd54696a12d864243dcfcd7c7e09cdba>>\"\n}\n"

type execResult struct {
	stdout string
	stderr string
	err    error
}

func (r execResult) code() int {
	if r.err == nil {
		return ExitSuccess
	}
	return GetExitCode(r.err)
}

func execute(t *testing.T, args ...string) execResult {
	t.Helper()

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return execResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	return testutil.TempTree(t, map[string]string{
		"source.json":  sourceJSON,
		"invalid.json": invalidJSON,
	})
}

func TestStampVerifyPrintsDiff(t *testing.T) {
	dir := fixtureDir(t)

	long := execute(t, "source.json", "--cwd", dir, "--template", `// %STAMP%\n%CONTENT%`)
	short := execute(t, "source.json", "--cwd", dir, "-t", `// %STAMP%\n%CONTENT%`)

	require.Error(t, long.err)
	assert.Equal(t, ExitFailure, long.code())
	assert.Empty(t, long.err.Error())
	assert.Empty(t, long.stdout)
	assert.Equal(t, long, short)

	testutil.Golden(t).Assert(t, "verify_template", []byte(long.stderr))
	assert.Equal(t, sourceJSON, testutil.ReadFile(t, filepath.Join(dir, "source.json")))
}

func TestStampWriteThenVerify(t *testing.T) {
	dir := fixtureDir(t)

	res := execute(t, "source.json", "--cwd", dir, "--write")
	require.NoError(t, res.err)
	assert.Equal(t, "CodeStamp: 🔏 Stamped `source.json`.\n", res.stdout)
	assert.Equal(t,
		"/* @generated CodeStamp<<d9d562e935d0476ea08152e4283f41fb>> */\n"+sourceJSON,
		testutil.ReadFile(t, filepath.Join(dir, "source.json")))

	for _, extra := range [][]string{nil, {"--write"}} {
		res = execute(t, append([]string{"source.json", "--cwd", dir}, extra...)...)
		require.NoError(t, res.err)
		assert.Equal(t, "CodeStamp: ✅ Verified `source.json`.\n", res.stdout)
	}

	// A new dependency invalidates the stamp.
	testutil.WriteTree(t, dir, map[string]string{"ffi.rs": "fn main() {}"})
	res = execute(t, "source.json", "--cwd", dir, "--deps", "ffi.rs")
	assert.Equal(t, ExitFailure, res.code())
	assert.Contains(t, res.stderr, "- /* @generated CodeStamp<<d9d562e935d0476ea08152e4283f41fb>> */\n")
}

func TestStampUsageErrors(t *testing.T) {
	dir := fixtureDir(t)
	hint := "\n\nRun `codestamp --help` to see the quick guide and examples."

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing target", []string{}, "CodeStamp Error: Missing required argument `target_file`." + hint},
		{"empty template", []string{"source.json", "--cwd", dir, "-t", ""}, "CodeStamp Error: Received empty value for option `-t, --template`." + hint},
		{"empty deps", []string{"source.json", "--cwd", dir, "-d", ""}, "CodeStamp Error: Received empty value for option `-d, --deps`." + hint},
		{"only commas", []string{"source.json", "--cwd", dir, "--deps", ",,"}, "CodeStamp Error: Received empty value for option `-d, --deps`." + hint},
		{"template and placer", []string{"source.json", "-t", "%STAMP%", "--placer", "json-field"}, "CodeStamp Error: Options `-t, --template` and `--placer` are mutually exclusive." + hint},
		{"dep transform without names", []string{"invalid.json", "--cwd", dir, "-d", "source.json", "--dep-transform", "*.json=,"}, "CodeStamp Error: invalid --dep-transform \"*.json=,\": want GLOB=NAME[,NAME]" + hint},
		{"target with config", []string{"source.json", "--config", "codestamp.yaml"}, "CodeStamp Error: Argument `target_file` cannot be combined with `--config`." + hint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, ExitCommandError, res.code())
			assert.Equal(t, tt.want, res.err.Error())
			assert.Empty(t, res.stdout)
		})
	}
}

func TestStampCommandErrors(t *testing.T) {
	dir := fixtureDir(t)

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"missing file", []string{"doesNotExist.file", "--cwd", dir}, `CodeStamp Error: reading target "doesNotExist.file"`},
		{"unknown placer", []string{"source.json", "--cwd", dir, "--placer", "xml"}, `unknown placer "xml"`},
		{"unknown transform", []string{"source.json", "--cwd", dir, "--transform", "json,xml"}, `unknown transform "xml"`},
		{"bad dep transform", []string{"source.json", "--cwd", dir, "--dep-transform", "json"}, `invalid --dep-transform "json"`},
		{"unknown flag", []string{"source.json", "--frobnicate"}, "unknown flag: --frobnicate"},
		{"bad format", []string{"source.json", "--format", "xml"}, `invalid format "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, ExitCommandError, res.code())
			assert.Contains(t, res.err.Error(), tt.contains)
		})
	}
}

func TestStampErrorOutcomes(t *testing.T) {
	dir := fixtureDir(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "multiple stamps",
			args: []string{"invalid.json", "--cwd", dir},
			want: "CodeStamp: Found multiple stamps. This is likely because the content was manually updated. " +
				"`codestamp` needs to bail out because it cannot guarantee a deterministic update. Please regenerate the file.\n" +
				"Stamps: \"CodeStamp<<cd7c7e09cdbabd54696a12d864243dcf>>\", \"CodeStamp<<bd54696a12d864243dcfcd7c7e09cdba>>\"\n",
		},
		{
			name: "template without stamp",
			args: []string{"source.json", "--cwd", dir, "--template", "hello"},
			want: "CodeStamp: `InitialStampPlacer` didn't return a stamp.\nPlacer: \"hello\"\nPlacer return value: \"hello\"\n",
		},
		{
			name: "template with two stamps",
			args: []string{"source.json", "--cwd", dir, "--template", "%STAMP% %STAMP%", "--write"},
			want: "CodeStamp: `InitialStampPlacer` returned multiple stamps.\nPlacer: \"%STAMP% %STAMP%\"\n" +
				"Placer return value: \"CodeStamp<<4097889236a2af26c293033feb964c4c>> CodeStamp<<4097889236a2af26c293033feb964c4c>>\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.args...)
			assert.Equal(t, ExitFailure, res.code())
			assert.Empty(t, res.stdout)
			assert.Equal(t, tt.want, res.stderr)
		})
	}
}

func TestStampSilent(t *testing.T) {
	dir := fixtureDir(t)

	res := execute(t, "invalid.json", "--cwd", dir, "--silent")
	assert.Equal(t, ExitFailure, res.code())
	assert.Empty(t, res.stdout)
	assert.Empty(t, res.stderr)
}

func TestStampTemplateUnescape(t *testing.T) {
	assert.Equal(t, "# %STAMP%\n%CONTENT%", unescapeTemplate(`# %STAMP%\n%CONTENT%`))
	assert.Equal(t, "tab\there", unescapeTemplate(`tab\there`))
	assert.Equal(t, `say "hi" %STAMP%`, unescapeTemplate(`say "hi" %STAMP%`))
	assert.Equal(t, `bad \q %STAMP%`, unescapeTemplate(`bad \q %STAMP%`))
}

func TestStampJSONFormat(t *testing.T) {
	dir := fixtureDir(t)

	res := execute(t, "source.json", "--cwd", dir, "--format", "json")
	assert.Equal(t, ExitFailure, res.code())

	var resp struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "NEW", resp.Data["status"])
	assert.Equal(t, "CodeStamp<<d9d562e935d0476ea08152e4283f41fb>>", resp.Data["new_stamp"])
	assert.Equal(t, true, resp.Data["should_fatal_if_desired"])
	assert.Equal(t, false, resp.Data["did_write"])
	assert.Equal(t, "source.json", resp.Data["path"])
}

func TestStampJSONFormatCommandError(t *testing.T) {
	res := execute(t, "missing.ts", "--cwd", t.TempDir(), "--format", "json")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, res.code())
	assert.Empty(t, res.err.Error())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeIO, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "missing.ts")
}

const batchYAML = `version: 1
targets:
  - path: source.json
    template: "// %STAMP%\n%CONTENT%"
  - path: types.ts
    deps: ["ffi.rs", "data.json"]
`

func batchDir(t *testing.T) string {
	t.Helper()
	return testutil.TempTree(t, map[string]string{
		"codestamp.yaml": batchYAML,
		"source.json":    sourceJSON,
		"types.ts":       "type FFI = string;\n",
		"ffi.rs":         "fn main() {}",
		"data.json":      "{}",
	})
}

func TestStampConfig(t *testing.T) {
	dir := batchDir(t)
	configPath := filepath.Join(dir, "codestamp.yaml")

	res := execute(t, "--config", configPath, "--write")
	require.NoError(t, res.err)
	assert.Equal(t, "CodeStamp: 🔏 Stamped `source.json`.\nCodeStamp: 🔏 Stamped `types.ts`.\n", res.stdout)
	assert.Equal(t,
		"// CodeStamp<<76cdbd71e69511b76d911eaeea731eda>>\n"+sourceJSON,
		testutil.ReadFile(t, filepath.Join(dir, "source.json")))

	res = execute(t, "-c", configPath)
	require.NoError(t, res.err)
	assert.Equal(t, "CodeStamp: ✅ Verified `source.json`.\nCodeStamp: ✅ Verified `types.ts`.\n", res.stdout)
}

func TestStampConfigJSON(t *testing.T) {
	dir := batchDir(t)

	res := execute(t, "--config", filepath.Join(dir, "codestamp.yaml"), "--format", "json", "-j", "1")
	assert.Equal(t, ExitFailure, res.code())

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			RunID   string           `json:"run_id"`
			Results []map[string]any `json:"results"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	_, err := uuid.Parse(resp.Data.RunID)
	assert.NoError(t, err)
	require.Len(t, resp.Data.Results, 2)
	assert.Equal(t, "source.json", resp.Data.Results[0]["path"])
	assert.Equal(t, "CodeStamp<<76cdbd71e69511b76d911eaeea731eda>>", resp.Data.Results[0]["new_stamp"])
	assert.Equal(t, "types.ts", resp.Data.Results[1]["path"])
}

func TestStampInvalidConfig(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{
		"codestamp.yaml": "targets:\n  - path: a.ts\n    placer: xml-field\n",
	})
	configPath := filepath.Join(dir, "codestamp.yaml")

	res := execute(t, "--config", configPath)
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, res.code())
	assert.Contains(t, res.err.Error(), "E014")

	res = execute(t, "--config", configPath, "--format", "json")
	assert.Equal(t, ExitCommandError, res.code())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E014", resp.Error.Code)
}
