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
)

const chapterSource = "# Signals\n\n```wavedrom\n{signal: []}\n```\n"

const chapterRendered = "# Signals\n\n\n<body onload=\"WaveDrom.ProcessAll()\">\n\n" +
	"<script type=\"WaveDrom\">{signal: []}\n</script>\n\n\n"

func execute(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	code := run(append([]string{"--log-level", "error"}, args...), strings.NewReader(stdin), &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestSupports(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := execute(t, "", "supports", "html")
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)

	code, stdout, stderr = execute(t, "", "supports", "epub")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestPreprocess(t *testing.T) {
	t.Parallel()

	input, err := json.Marshal([]interface{}{
		map[string]interface{}{"root": ".", "config": map[string]interface{}{}, "renderer": "html", "mdbook_version": "0.4.40"},
		map[string]interface{}{
			"sections": []interface{}{
				map[string]interface{}{"Chapter": map[string]interface{}{
					"name": "Signals", "content": chapterSource, "number": []int{1},
					"sub_items": []interface{}{}, "path": "signals.md", "source_path": "signals.md",
					"parent_names": []string{},
				}},
			},
			"__non_exhaustive": nil,
		},
	})
	require.NoError(t, err)

	code, stdout, stderr := execute(t, string(input))
	require.Equal(t, 0, code, stderr)

	var out struct {
		Sections []struct {
			Chapter struct {
				Content string `json:"content"`
			}
		} `json:"sections"`
	}

	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Sections, 1)
	assert.Equal(t, chapterRendered, out.Sections[0].Chapter.Content)
}

func TestPreprocessInvalidInput(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := execute(t, "not json")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid preprocessor input")
}

func TestRenderStdin(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := execute(t, chapterSource, "render")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, chapterRendered, stdout)
}

func TestRenderWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "part"), 0o755))

	chapter := filepath.Join(src, "part", "signals.md")
	plain := filepath.Join(src, "plain.md")
	other := filepath.Join(src, "notes.txt")

	require.NoError(t, os.WriteFile(chapter, []byte(chapterSource), fileMode))
	require.NoError(t, os.WriteFile(plain, []byte("# Plain\n"), fileMode))
	require.NoError(t, os.WriteFile(other, []byte(chapterSource), fileMode))

	code, stdout, stderr := execute(t, "", "render", "--write", src)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(chapter)
	require.NoError(t, err)
	assert.Equal(t, chapterRendered, string(data))

	data, err = os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, "# Plain\n", string(data))

	data, err = os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, chapterSource, string(data))
}

func TestBlocks(t *testing.T) {
	t.Parallel()

	source := chapterSource + "\n```go\nx\n```\n\n```wavedrom\n{}\n"

	code, stdout, stderr := execute(t, source, "blocks", "--all")
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "STATUS")
	assert.Contains(t, lines[1], "3-5")
	assert.Contains(t, lines[1], statusRewrite)
	assert.Contains(t, lines[2], "go")
	assert.Contains(t, lines[3], statusUnterminated)

	code, stdout, _ = execute(t, source, "blocks")
	require.Equal(t, 0, code)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 3)
}

func TestInstallCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "book.toml"), []byte("[book]\ntitle = \"Signals\"\n"), fileMode))

	code, _, stderr := execute(t, "", "install", "--skip-assets", dir)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "```wavedrom")

	data, err := os.ReadFile(filepath.Join(dir, "book.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[preprocessor.wavedrom]")
	assert.Contains(t, string(data), "wavedrom.min.js")

	code, _, stderr = execute(t, "", "install", "--skip-assets", t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "book.toml")
}

func TestInstallAssetsFrom(t *testing.T) {
	t.Parallel()

	pkg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(pkg, "skins"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "wavedrom.min.js"), []byte("var WaveDrom;\n"), fileMode))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "skins", "default.js"), []byte("var WaveSkin;\n"), fileMode))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "book.toml"), []byte(""), fileMode))

	code, _, stderr := execute(t, "", "install", "--assets-from", pkg, dir)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(filepath.Join(dir, "wavedrom.min.js"))
	require.NoError(t, err)
	assert.Equal(t, "var WaveDrom;\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "wavedrome-default.js"))
	require.NoError(t, err)
	assert.Equal(t, "var WaveSkin;\n", string(data))
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	code, _, stderr := execute(t, "", "frobnicate")
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, stderr)
}
