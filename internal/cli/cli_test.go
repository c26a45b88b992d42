package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/addonlink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate keeps config lookup, log files and path variables away from the
// real environment.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", testutil.TempDir(t))
	t.Setenv("XDG_STATE_HOME", testutil.TempDir(t))
	t.Setenv("NO_COLOR", "1")
	for _, name := range []string{"MAIN_ADDONS_PATH", "EXT_ADDONS_PATH", "RESULT_EXT_ADDONS_PATH"} {
		t.Setenv(name, "")
	}
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

type trees struct {
	main   *testutil.AddonTree
	ext    *testutil.AddonTree
	result string
}

func newTrees(t *testing.T) *trees {
	t.Helper()
	tr := &trees{
		main:   testutil.NewAddonTree(t),
		ext:    testutil.NewAddonTree(t),
		result: filepath.Join(testutil.TempDir(t), "result"),
	}
	tr.main.AddModule(t, "sale", `{'depends': ['stock', 'base']}`)
	tr.main.AddModule(t, "stock", `{'depends': ['base']}`)
	tr.ext.AddModule(t, "sale_extra", `{'depends': ['sale']}`)
	tr.ext.AddModule(t, "oca/partner_firstname", `{'depends': ['base']}`)
	return tr
}

func (tr *trees) flags() []string {
	return []string{
		"--main-path", tr.main.Root,
		"--ext-path", tr.ext.Root,
		"--result-path", tr.result,
	}
}

func TestRun_Link(t *testing.T) {
	isolate(t)
	tr := newTrees(t)
	require.NoError(t, os.Mkdir(tr.result, 0755))

	res := run(t, tr.flags()...)
	require.Equal(t, ExitOK, res.code, res.stderr)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	assert.Equal(t, []string{
		"MAIN_ADDONS_PATH: " + tr.main.Root,
		"EXT_ADDONS_PATH: " + tr.ext.Root,
		"RESULT_EXT_ADDONS_PATH: " + tr.result,
		tr.ext.Path("oca/partner_firstname") + " -> " + filepath.Join(tr.result, "partner_firstname"),
		tr.ext.Path("sale_extra") + " -> " + filepath.Join(tr.result, "sale_extra"),
	}, lines)

	testutil.AssertSymlink(t, filepath.Join(tr.result, "sale_extra"), tr.ext.Path("sale_extra"))
	testutil.AssertSymlink(t, filepath.Join(tr.result, "partner_firstname"), tr.ext.Path("oca/partner_firstname"))

	t.Run("second run leaves links alone", func(t *testing.T) {
		again := run(t, tr.flags()...)
		require.Equal(t, ExitOK, again.code, again.stderr)
		assert.Equal(t, res.stdout, again.stdout)
		testutil.AssertSymlink(t, filepath.Join(tr.result, "sale_extra"), tr.ext.Path("sale_extra"))
	})
}

func TestRun_LinkSubcommandFromEnvironment(t *testing.T) {
	isolate(t)
	tr := newTrees(t)
	require.NoError(t, os.Mkdir(tr.result, 0755))

	t.Setenv("MAIN_ADDONS_PATH", tr.main.Root)
	t.Setenv("EXT_ADDONS_PATH", tr.ext.Root)
	t.Setenv("RESULT_EXT_ADDONS_PATH", tr.result)

	res := run(t, "link")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "EXT_ADDONS_PATH: "+tr.ext.Root+"\n")
	testutil.AssertSymlink(t, filepath.Join(tr.result, "sale_extra"), tr.ext.Path("sale_extra"))
}

func TestRun_FlagsWinOverEnvironment(t *testing.T) {
	isolate(t)
	tr := newTrees(t)
	require.NoError(t, os.Mkdir(tr.result, 0755))
	t.Setenv("EXT_ADDONS_PATH", filepath.Join(tr.result, "nowhere"))

	res := run(t, tr.flags()...)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "EXT_ADDONS_PATH: "+tr.ext.Root+"\n")
}

func TestRun_ResolvesSymlinkedPaths(t *testing.T) {
	isolate(t)
	tr := newTrees(t)
	require.NoError(t, os.Mkdir(tr.result, 0755))
	alias := filepath.Join(testutil.TempDir(t), "ext-alias")
	testutil.CreateSymlink(t, tr.ext.Root, alias)

	res := run(t, "--main-path", tr.main.Root, "--ext-path", alias, "--result-path", tr.result)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "EXT_ADDONS_PATH: "+tr.ext.Root+"\n")
}

func TestRun_PathUsageErrors(t *testing.T) {
	isolate(t)
	tr := newTrees(t)

	t.Run("missing path", func(t *testing.T) {
		res := run(t, "--main-path", tr.main.Root, "--result-path", tr.result, "--mkdir")
		assert.Equal(t, ExitUsage, res.code)
		assert.Contains(t, res.stderr, "EXT_ADDONS_PATH is required")
		assert.Contains(t, res.stderr, "--ext-path")
		assert.Contains(t, res.stderr, "USAGE")
		assert.Empty(t, res.stdout)
	})

	t.Run("result path must exist without --mkdir", func(t *testing.T) {
		res := run(t, tr.flags()...)
		assert.Equal(t, ExitUsage, res.code)
		assert.Contains(t, res.stderr, "RESULT_EXT_ADDONS_PATH does not exist")
		testutil.AssertNoFile(t, tr.result)
	})

	t.Run("main path must exist even with --mkdir", func(t *testing.T) {
		res := run(t, "--main-path", filepath.Join(tr.result, "missing"),
			"--ext-path", tr.ext.Root, "--result-path", tr.result, "--mkdir")
		assert.Equal(t, ExitUsage, res.code)
		assert.Contains(t, res.stderr, "MAIN_ADDONS_PATH does not exist")
	})

	t.Run("path is a file", func(t *testing.T) {
		file := testutil.CreateFile(t, testutil.TempDir(t), "notes.txt", "x")
		res := run(t, "--main-path", file, "--ext-path", tr.ext.Root, "--result-path", tr.result, "--mkdir")
		assert.Equal(t, ExitUsage, res.code)
		assert.Contains(t, res.stderr, "MAIN_ADDONS_PATH is not a directory")
	})
}

func TestRun_MkdirCreatesResult(t *testing.T) {
	isolate(t)
	tr := newTrees(t)

	res := run(t, append(tr.flags(), "--mkdir")...)
	require.Equal(t, ExitOK, res.code, res.stderr)

	info, err := os.Stat(tr.result)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	testutil.AssertSymlink(t, filepath.Join(tr.result, "sale_extra"), tr.ext.Path("sale_extra"))
}

func TestRun_DryRun(t *testing.T) {
	isolate(t)
	tr := newTrees(t)

	res := run(t, append(tr.flags(), "--mkdir", "--dry-run")...)
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, tr.ext.Path("sale_extra")+" -> "+filepath.Join(tr.result, "sale_extra"))
	assert.Contains(t, res.stderr, "DRY RUN")
	testutil.AssertNoFile(t, tr.result)
}

func TestRun_SkipMain(t *testing.T) {
	isolate(t)
	tr := newTrees(t)
	tr.ext.AddModule(t, "forks/stock", `{'depends': ['base']}`)
	require.NoError(t, os.Mkdir(tr.result, 0755))

	t.Run("from flag", func(t *testing.T) {
		res := run(t, append(tr.flags(), "--skip-main")...)
		require.Equal(t, ExitOK, res.code, res.stderr)
		assert.NotContains(t, res.stdout, "forks/stock")
		testutil.AssertNoFile(t, filepath.Join(tr.result, "stock"))
	})

	t.Run("from config file", func(t *testing.T) {
		cfgPath := testutil.CreateFile(t, testutil.TempDir(t), "config.toml", "[link]\nskip_main = true\n")
		res := run(t, append(tr.flags(), "--config", cfgPath)...)
		require.Equal(t, ExitOK, res.code, res.stderr)
		testutil.AssertNoFile(t, filepath.Join(tr.result, "stock"))
	})

	t.Run("flag overrides config file", func(t *testing.T) {
		cfgPath := testutil.CreateFile(t, testutil.TempDir(t), "config.toml", "[link]\nskip_main = true\n")
		res := run(t, append(tr.flags(), "--config", cfgPath, "--skip-main=false")...)
		require.Equal(t, ExitOK, res.code, res.stderr)
		testutil.AssertSymlink(t, filepath.Join(tr.result, "stock"), tr.ext.Path("forks/stock"))
	})
}

func TestRun_MissingConfigFile(t *testing.T) {
	isolate(t)
	tr := newTrees(t)

	res := run(t, append(tr.flags(), "--mkdir", "--config", filepath.Join(tr.result, "none.toml"))...)
	assert.Equal(t, ExitError, res.code)
	assert.Contains(t, res.stderr, "cannot access config file")
}

func TestRun_ManifestErrorExitsWithOne(t *testing.T) {
	isolate(t)
	tr := newTrees(t)
	tr.ext.AddModule(t, "broken", `{'depends': [os.getcwd()]}`)

	res := run(t, append(tr.flags(), "--mkdir")...)
	assert.Equal(t, ExitError, res.code)
	assert.Contains(t, res.stderr, "Error: ")
	assert.NotContains(t, res.stderr, "Usage")
	assert.NotContains(t, res.stderr, "file=")
	testutil.AssertNoFile(t, tr.result)

	t.Run("verbose shows details", func(t *testing.T) {
		res := run(t, append(tr.flags(), "--mkdir", "-v")...)
		assert.Equal(t, ExitError, res.code)
		assert.Contains(t, res.stderr, "file="+tr.ext.Path("broken/__manifest__.py"))
		assert.Contains(t, res.stderr, "line=1")
	})
}

func TestRun_AllowExpressions(t *testing.T) {
	isolate(t)
	tr := newTrees(t)
	tr.ext.AddModule(t, "concat", `{'name': 'Con' + 'cat', 'depends': ['base']}`)

	res := run(t, append(tr.flags(), "--mkdir")...)
	assert.Equal(t, ExitError, res.code)

	res = run(t, append(tr.flags(), "--mkdir", "--allow-expressions")...)
	require.Equal(t, ExitOK, res.code, res.stderr)
	testutil.AssertSymlink(t, filepath.Join(tr.result, "concat"), tr.ext.Path("concat"))
}

func TestRun_List(t *testing.T) {
	isolate(t)
	tr := newTrees(t)

	t.Run("text", func(t *testing.T) {
		res := run(t, "list", tr.main.Root, "--format", "text")
		require.Equal(t, ExitOK, res.code, res.stderr)
		assert.Equal(t,
			"sale "+tr.main.Path("sale")+"\n"+
				"  depends: stock, base\n"+
				"stock "+tr.main.Path("stock")+"\n"+
				"  depends: base\n",
			res.stdout)
	})

	t.Run("json", func(t *testing.T) {
		res := run(t, "list", tr.ext.Root, "-f", "json")
		require.Equal(t, ExitOK, res.code, res.stderr)

		var got struct {
			Root    string `json:"root"`
			Modules []struct {
				Name    string   `json:"name"`
				Path    string   `json:"path"`
				Depends []string `json:"depends"`
			} `json:"modules"`
		}
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
		assert.Equal(t, tr.ext.Root, got.Root)
		require.Len(t, got.Modules, 2)
		assert.Equal(t, "partner_firstname", got.Modules[0].Name)
		assert.Equal(t, tr.ext.Path("oca/partner_firstname"), got.Modules[0].Path)
		assert.Equal(t, []string{"sale"}, got.Modules[1].Depends)
	})

	t.Run("missing root lists nothing", func(t *testing.T) {
		missing := filepath.Join(tr.result, "missing")
		res := run(t, "list", missing, "--format", "text")
		require.Equal(t, ExitOK, res.code, res.stderr)
		assert.Equal(t, "No modules found in "+missing+"\n", res.stdout)
	})

	t.Run("needs a root", func(t *testing.T) {
		res := run(t, "list")
		assert.Equal(t, ExitUsage, res.code)
		assert.Contains(t, res.stderr, "list <root>")
	})

	t.Run("unknown format", func(t *testing.T) {
		res := run(t, "list", tr.main.Root, "--format", "xml")
		assert.Equal(t, ExitUsage, res.code)
		assert.Contains(t, res.stderr, "unknown format: xml")
	})
}

func TestRun_Deps(t *testing.T) {
	isolate(t)
	tr := newTrees(t)

	res := run(t, "deps", tr.main.Root, "--format", "text")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "base (external)\nstock\n", res.stdout)

	res = run(t, "deps", tr.main.Root, "--format", "yaml")
	require.Equal(t, ExitOK, res.code, res.stderr)

	var got struct {
		Root     string   `yaml:"root"`
		Depends  []string `yaml:"depends"`
		External []string `yaml:"external"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, tr.main.Root, got.Root)
	assert.Equal(t, []string{"base", "stock"}, got.Depends)
	assert.Equal(t, []string{"base"}, got.External)
}

func TestRun_UnknownCommand(t *testing.T) {
	isolate(t)

	res := run(t, "frobnicate")
	assert.Equal(t, ExitUsage, res.code)
	assert.Contains(t, res.stderr, `unknown command "frobnicate"`)
}

func TestRun_UnknownFlag(t *testing.T) {
	isolate(t)

	res := run(t, "--frobnicate")
	assert.Equal(t, ExitUsage, res.code)
	assert.Contains(t, res.stderr, "unknown flag: --frobnicate")
}

func TestRun_Version(t *testing.T) {
	isolate(t)

	res := run(t, "version")
	require.Equal(t, ExitOK, res.code)
	assert.True(t, strings.HasPrefix(res.stdout, "addonlink version dev\n"))
}

func TestRun_Topics(t *testing.T) {
	isolate(t)

	t.Run("list", func(t *testing.T) {
		res := run(t, "topics")
		require.Equal(t, ExitOK, res.code, res.stderr)
		for _, name := range []string{"layout", "manifests", "configuration", "--dry-run", "--mkdir", "--skip-main"} {
			assert.Contains(t, res.stdout, name)
		}
	})

	t.Run("one topic", func(t *testing.T) {
		res := run(t, "topics", "manifests")
		require.Equal(t, ExitOK, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Manifests")
	})

	t.Run("through help", func(t *testing.T) {
		res := run(t, "help", "dry-run")
		require.Equal(t, ExitOK, res.code, res.stderr)
		assert.Contains(t, res.stdout, "dry-run")
	})

	t.Run("unknown", func(t *testing.T) {
		res := run(t, "topics", "nope")
		assert.Equal(t, ExitUsage, res.code)
		assert.Contains(t, res.stderr, `unknown help topic "nope"`)
	})
}

func TestRun_Completion(t *testing.T) {
	isolate(t)

	res := run(t, "completion", "bash")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "bash completion")

	res = run(t, "completion", "tcsh")
	assert.Equal(t, ExitUsage, res.code)
}

func TestRun_Man(t *testing.T) {
	isolate(t)
	dir := testutil.TempDir(t)

	res := run(t, "man", dir)
	require.Equal(t, ExitOK, res.code, res.stderr)

	_, err := os.Stat(filepath.Join(dir, "addonlink.1"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "addonlink-link.1"))
	assert.NoError(t, err)
}

func TestRun_LinkReport(t *testing.T) {
	isolate(t)
	tr := newTrees(t)
	require.NoError(t, os.Mkdir(tr.result, 0755))
	testutil.CreateFile(t, tr.result, "sale_extra", "taken")

	res := run(t, append(tr.flags(), "--report", "json")...)
	require.Equal(t, ExitOK, res.code, res.stderr)

	start := strings.Index(res.stdout, "{")
	require.True(t, start > 0, res.stdout)
	assert.Contains(t, res.stdout[:start], " -> ")

	var got struct {
		ResultPath string `json:"result_path"`
		Results    []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout[start:]), &got))
	assert.Equal(t, tr.result, got.ResultPath)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "partner_firstname", got.Results[0].Name)
	assert.Equal(t, "created", got.Results[0].Status)
	assert.Equal(t, "sale_extra", got.Results[1].Name)
	assert.Equal(t, "skipped", got.Results[1].Status)

	t.Run("bad report format fails before linking", func(t *testing.T) {
		res := run(t, append(tr.flags(), "--report", "xml")...)
		assert.Equal(t, ExitUsage, res.code)
		assert.Empty(t, res.stdout)
	})
}
