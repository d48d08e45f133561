package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"steamdoc/lib/testutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const indexPage = `<html><body>
<table>
	<tr><th>Section</th><th>AppID</th></tr>
	<tr><td>dota2</td><td>500</td></tr>
	<tr><td>tf2</td><td>440</td></tr>
</table>
</body></html>`

const newsPage = `<html><body>
<div class="docPageTitle">ISteamNews Interface</div>
<h2 class="bb_section">GetNews</h2>
<div class="bb_code http">GET /ISteamNews/GetNewsForApp/v2/</div>
<table>
	<tr><th>Name</th><th>Type</th><th>Required</th><th>Description</th></tr>
	<tr><td>appid</td><td>uint32</td><td>✔</td><td>AppID to retrieve <b>news</b> for</td></tr>
</table>
<h2 class="bb_section">GetNewsForAppAuthed</h2>
<div class="bb_code hljs">GET /ISteamNews/GetNewsForAppAuthed/v2/</div>
<table>
	<tr><th>Name</th><th>Type</th><th>Required</th><th>Description</th></tr>
</table>
</body></html>`

const getNewsJson = `{"method":"GET","url":"/ISteamNews/GetNewsForApp/v2/","name":"GetNews","params":{"appid":{"type":"uint32","required":true,"description":"AppID to retrieve news for"}}}`

type result struct {
	code   int
	stdout string
	stderr string
	// requests made to the documentation site
	requests int
}

// run executes the root command against a fake documentation site with
// an empty config file, so nothing outside the test is read.
func run(t *testing.T, args ...string) result {
	t.Helper()

	site := testutil.NewSite(t, indexPage, map[string]string{"ISteamNews": newsPage})

	config := filepath.Join(t.TempDir(), "steamdoc.json5")
	err := os.WriteFile(config, []byte("{\n  // test config\n  base_url: \""+site.BaseUrl+"\",\n}\n"), 0600)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(append([]string{"--config", config}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	code := Execute(context.Background(), cmd)
	return result{
		code:     code,
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		requests: site.Requests(),
	}
}

func TestHelpWithoutQuery(t *testing.T) {
	res := run(t)
	require.Equal(t, 0, res.code)
	require.Contains(t, res.stdout, "Usage:")
	require.Contains(t, res.stdout, "--point-names")
}

func TestSections(t *testing.T) {
	res := run(t, "--sections")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "dota2\ntf2\n", res.stdout)
	require.Equal(t, 1, res.requests)
}

func TestDumpHttp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "transcripts")
	res := run(t, "--dump-http", dir, "--section", "ISteamNews", "--point-names")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "GetNews\nGetNewsForAppAuthed\n", res.stdout)

	contents, err := os.ReadFile(filepath.Join(dir, "0001.txt"))
	require.NoError(t, err)
	require.Contains(t, string(contents), "---- REQUEST ----\n\nGET ")
	require.Contains(t, string(contents), "/doc/webapi/ISteamNews")
	require.Contains(t, string(contents), "---- RESPONSE ----\n\n200 ")
}

func TestPointNames(t *testing.T) {
	res := run(t, "--section", "ISteamNews", "--point-names")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "GetNews\nGetNewsForAppAuthed\n", res.stdout)
}

func TestPoint(t *testing.T) {
	res := run(t, "--section", "ISteamNews", "--point", "GetNews")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, getNewsJson+"\n", res.stdout)
}

func TestPoints(t *testing.T) {
	res := run(t, "--section", "ISteamNews", "--points")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, 1, res.requests)

	lines := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, getNewsJson, lines[0])
	require.Equal(t, `{"method":"GET","url":"/ISteamNews/GetNewsForAppAuthed/v2/","name":"GetNewsForAppAuthed","params":{}}`, lines[1])
}

func TestPointMiss(t *testing.T) {
	res := run(t, "--section", "ISteamNews", "--point", "GetNewz")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "false\n", res.stdout)
}

func TestTableFormat(t *testing.T) {
	res := run(t, "--section", "ISteamNews", "--point", "GetNews", "--format", "table")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "ISteamNews / GetNews: GET /ISteamNews/GetNewsForApp/v2/")
	require.Contains(t, res.stdout, "appid")
	require.Contains(t, res.stdout, "AppID to retrieve news for")
}

func TestMarkdownFlag(t *testing.T) {
	res := run(t, "--section", "ISteamNews", "--point", "GetNews", "--markdown")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, `"description":"AppID to retrieve **news** for"`)
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.json")

	res := run(t, "--section", "ISteamNews", "--point", "GetNews", "--export", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Empty(t, res.stdout)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, getNewsJson, string(contents))
	require.True(t, strings.HasPrefix(string(contents), "{\n    \"method\": \"GET\""))

	res = run(t, "--sections", "--export", path)
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "already existing file")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, contents, after)
}

func TestExportMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miss.json")
	res := run(t, "--section", "ISteamNews", "--point", "GetNewz", "--export", path)
	require.Equal(t, 0, res.code, res.stderr)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "false\n", string(contents))
}

func TestFetchFailure(t *testing.T) {
	res := run(t, "--section", "IMissing", "--points")
	require.Equal(t, 1, res.code)
	require.Equal(t, 1, res.requests)
	require.Contains(t, res.stderr, "unable to access '")
	require.Contains(t, res.stderr, "/doc/webapi/IMissing'")
}

func TestMissingConfig(t *testing.T) {
	var stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.json5"), "--sections"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)
	require.Equal(t, 1, Execute(context.Background(), cmd))
}

func TestUsageErrors(t *testing.T) {
	cases := [][]string{
		{"--section", "ISteamNews"},
		{"--point", "GetNews"},
		{"--points"},
		{"--sections", "--section", "ISteamNews"},
		{"--section", "ISteamNews", "--points", "--point-names"},
		{"--sections", "--format", "xml"},
		{"--no-such-flag"},
		{"unexpected"},
	}
	for _, args := range cases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			res := run(t, args...)
			require.Equal(t, 2, res.code, res.stderr)
			require.Zero(t, res.requests)
			require.Contains(t, res.stderr, "--help")
			require.Empty(t, res.stdout)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steamdoc.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{user_agent: "custom", cloudflare_bypass: true}`), 0600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, Config{
		BaseUrl:          defaultConfig.BaseUrl,
		TimeoutSeconds:   30,
		UserAgent:        "custom",
		CloudflareBypass: true,
	}, cfg)
}
