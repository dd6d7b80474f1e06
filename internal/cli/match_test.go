package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knows = "<http://xmlns.com/foaf/0.1/knows>"

func TestMatch_Predicate(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "match", "testdata/people.nt", "-p", knows)
	require.Equal(t, ExitSuccess, code)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "<http://example.org/alice> "+knows+" <http://example.org/bob> .", lines[0])
	assert.Equal(t, "<http://example.org/alice> "+knows+" <http://example.org/carol> .", lines[1])
	assert.Equal(t, "<http://example.org/bob> "+knows+" _:someone .", lines[2])
}

func TestMatch_BlankNodeObject(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "match", "testdata/people.nt", "-o", "_:someone")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "<http://example.org/bob> "+knows+" _:someone .\n", stdout)

	code, stdout, _ = runCLI(t, "", "match", "testdata/people.nt", "testdata/people.nt", "-o", "_:someone", "--count")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "0\n", stdout)
}

func TestMatch_Object(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "match", "testdata/people.nt", "--object", `"Alice"@en`)
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "<http://example.org/alice> <http://xmlns.com/foaf/0.1/name> \"Alice\"@en .\n", stdout)
}

func TestMatch_CountAndExplain(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "match", "testdata/people.nt", "-p", knows, "--count", "--explain")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "# (default) p\n3\n", stdout)

	code, stdout, _ = runCLI(t, "", "match", "testdata/people.nt",
		"-s", "<http://example.org/alice>", "-p", knows, "--count", "--explain")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "# (default) sp\n2\n", stdout)
}

func TestMatch_GraphSelection(t *testing.T) {
	tests := []struct {
		name  string
		graph string
		want  string
	}{
		{
			name:  "named graph",
			graph: "<http://example.org/g1>",
			want: `<http://example.org/s> <http://example.org/p> "one" <http://example.org/g1> .
<http://example.org/t> <http://example.org/p> "one" <http://example.org/g1> .
`,
		},
		{
			name:  "default graph",
			graph: "default",
			want:  "<http://example.org/s> <http://example.org/p> \"default\" .\n",
		},
		{
			name:  "unknown graph",
			graph: "<http://example.org/g9>",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, "", "match", "testdata/graphs.nq", "-g", tt.graph)
			require.Equal(t, ExitSuccess, code)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestMatch_Limit(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "match", "testdata/graphs.nq", "--limit", "2")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, `<http://example.org/s> <http://example.org/p> "default" .
<http://example.org/s> <http://example.org/p> "one" <http://example.org/g1> .
`, stdout)

	code, stdout, _ = runCLI(t, "", "match", "testdata/graphs.nq", "--limit", "2", "--count")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "2\n", stdout)
}

func TestMatch_JSON(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "--format", "json", "match", "testdata/graphs.nq", "-o", `"one"`, "--explain")
	require.Equal(t, ExitSuccess, code)

	resp := decodeResponse(t, stdout)
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result MatchResult
	require.NoError(t, json.Unmarshal(raw, &result))

	assert.Equal(t, 2, result.Count)
	assert.Len(t, result.Quads, 2)
	assert.Equal(t, []GraphPlan{
		{Index: "none"},
		{Graph: "<http://example.org/g1>", Index: "o"},
		{Graph: "<http://example.org/g2>", Index: "none"},
	}, result.Plans)
}

func TestMatch_InvalidPattern(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"literal predicate", []string{"-p", `"knows"`}, "invalid pattern"},
		{"literal subject", []string{"-s", `"alice"`}, "invalid pattern"},
		{"malformed term", []string{"-o", "<http://example.org/x"}, "invalid pattern"},
		{"literal graph", []string{"-g", `"g"`}, "invalid graph"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--format", "json", "match", "testdata/people.nt"}, tt.args...)
			code, stdout, _ := runCLI(t, "", args...)
			assert.Equal(t, ExitCommandError, code)
			resp := decodeResponse(t, stdout)
			require.NotNil(t, resp.Error)
			assert.Contains(t, resp.Error.Message, tt.want)
		})
	}
}
