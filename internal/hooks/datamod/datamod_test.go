package datamod

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/host"
	"github.com/dshills/imphook/internal/imphook"
	"github.com/dshills/imphook/internal/module"
)

func writeData(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// render returns every attribute of m as its Starlark repr.
func render(m *module.Module) map[string]string {
	out := make(map[string]string)
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		out[k] = v.String()
	}
	return out
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
		src  string
		keys []string
		want map[string]string
	}{
		{
			name: "toml",
			file: "app.toml",
			src: `title = "demo"
port = 8080
ratio = 0.5

[owner]
name = "ann"
tags = ["a", "b"]
`,
			keys: []string{"owner", "port", "ratio", "title"},
			want: map[string]string{
				"title": `"demo"`,
				"port":  "8080",
				"ratio": "0.5",
				"owner": `{"name": "ann", "tags": ["a", "b"]}`,
			},
		},
		{
			name: "yaml",
			file: "app.yaml",
			src: `title: demo
port: 8080
enabled: true
servers:
  - alpha
  - beta
limits:
  cpu: 2
`,
			keys: []string{"enabled", "limits", "port", "servers", "title"},
			want: map[string]string{
				"title":   `"demo"`,
				"port":    "8080",
				"enabled": "True",
				"servers": `["alpha", "beta"]`,
				"limits":  `{"cpu": 2}`,
			},
		},
		{
			name: "yml",
			file: "app.yml",
			src:  "x: 1\n",
			keys: []string{"x"},
			want: map[string]string{"x": "1"},
		},
		{
			name: "json",
			file: "app.json",
			src:  `{"zeta": 1, "alpha": [1.5, null, true], "nested": {"b": "x", "a": 12345678901234567890}}`,
			keys: []string{"zeta", "alpha", "nested"},
			want: map[string]string{
				"zeta":   "1",
				"alpha":  "[1.5, None, True]",
				"nested": `{"b": "x", "a": 12345678901234567890}`,
			},
		},
		{
			name: "hcl",
			file: "app.hcl",
			src: `name = "web"
replicas = 3
label = upper(name)
ports = [80, 443]

service "api" "v1" {
  port = 8080
  host = "${name}.local"
}

service "admin" {
  port = 9000
}

limits {
  cpu = 1.5
}
`,
			keys: []string{"name", "replicas", "label", "ports", "service", "limits"},
			want: map[string]string{
				"name":     `"web"`,
				"replicas": "3",
				"label":    `"WEB"`,
				"ports":    "[80, 443]",
				"service":  `{"api": {"v1": {"port": 8080, "host": "web.local"}}, "admin": {"port": 9000}}`,
				"limits":   `{"cpu": 1.5}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeData(t, t.TempDir(), tt.file, tt.src)
			m, err := Load("app", p)
			require.NoError(t, err)
			assert.Equal(t, "app", m.Name)
			assert.Equal(t, p, m.Origin)
			assert.Equal(t, tt.keys, m.Keys())
			assert.Equal(t, tt.want, render(m))
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		src      string
		wantErr  error
		wantLine int
	}{
		{"toml syntax", "bad.toml", "a = 1\nb = \n", nil, 2},
		{"yaml syntax", "bad.yaml", "a: [1, 2\n", nil, 0},
		{"yaml list", "list.yaml", "- 1\n- 2\n", ErrNotMapping, 0},
		{"json syntax", "bad.json", `{"a": }`, nil, 0},
		{"json array", "list.json", `[1, 2]`, ErrNotMapping, 0},
		{"hcl syntax", "bad.hcl", "a = \n", nil, 0},
		{"hcl forward reference", "fwd.hcl", "a = b\nb = 1\n", nil, 1},
		{"hcl duplicate block", "dup.hcl", "x {\n}\nx {\n}\n", nil, 0},
		{"unknown", "data.ini", "a=1", ErrUnknownFormat, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeData(t, t.TempDir(), tt.file, tt.src)
			_, err := Load("bad", p)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantLine > 0 {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, tt.wantLine, pe.Line)
				assert.Contains(t, pe.Error(), "parse error in "+p)
			}
		})
	}
}

func TestEmptyYAML(t *testing.T) {
	p := writeData(t, t.TempDir(), "empty.yaml", "")
	m, err := Load("empty", p)
	require.NoError(t, err)
	assert.Empty(t, m.Keys())
}

func TestRegisterWithHost(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir, "settings.toml", "level = 3\n")
	writeData(t, dir, "extra.json", `{"names": ["a", "b"]}`)

	h := host.NewPipeline(host.WithPaths(dir))
	require.NoError(t, Register(imphook.New(h)))

	m, err := h.RunFile("main.star", []byte(`
load("settings", "level")
load("extra", "names")
total = level + len(names)
`))
	require.NoError(t, err)
	v, _ := m.Get("total")
	assert.Equal(t, starlark.MakeInt(5).String(), v.String())
}
