package plan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gindownload/pkg/config"
)

func TestBuildDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.BaseDirectory = "/data"

	p, err := Build(cfg)
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())

	assert.Equal(t, Step{Index: 0, Kind: KindMkdir, Path: filepath.Join("/data", "2017", "PET")}, p.Steps[0])

	dl := p.Steps[1]
	assert.Equal(t, 1, dl.Index)
	assert.Equal(t, KindDownload, dl.Kind)
	assert.Equal(t, filepath.Join("/data", "2017", "PET", "pet2017min.min"), dl.Path)
	assert.True(t, strings.HasPrefix(dl.URL, config.DefaultBaseURL+"?Request=GetData&"))
	assert.Contains(t, dl.URL, "dataStartDate=2017-01-01&dataDuration=365")

	mkdirs, downloads := p.Counts()
	assert.Equal(t, 1, mkdirs)
	assert.Equal(t, 1, downloads)
}

func TestBuildMkdirsFirst(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Plan.Stations = []string{"pet", "ESK"}
	cfg.Plan.Split = config.SplitDay
	cfg.Plan.StartDate = "2017-09-07"
	cfg.Plan.DurationDays = 3

	p, err := Build(cfg)
	require.NoError(t, err)
	require.Equal(t, 8, p.Len())

	assert.Equal(t, KindMkdir, p.Steps[0].Kind)
	assert.Equal(t, KindMkdir, p.Steps[1].Kind)
	assert.Equal(t, filepath.Join(".", "2017", "ESK"), p.Steps[1].Path)

	var names []string
	for _, s := range p.Steps[2:] {
		assert.Equal(t, KindDownload, s.Kind)
		names = append(names, filepath.Base(s.Path))
	}
	assert.Equal(t, []string{
		"pet20170907min.min", "pet20170908min.min", "pet20170909min.min",
		"esk20170907min.min", "esk20170908min.min", "esk20170909min.min",
	}, names)
	assert.Contains(t, p.Steps[3].URL, "dataStartDate=2017-09-08&dataDuration=1")

	for i, s := range p.Steps {
		assert.Equal(t, i, s.Index)
	}
}

func TestLoadFileAssignsIndices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.yaml")
	content := `steps:
  - kind: mkdir
    path: out/2017/PET
  - kind: download
    path: out/2017/PET/pet2017min.min
    url: http://gin.local/GINServices?Request=GetData
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := config.DefaultConfig()
	cfg.Plan.PlanFile = path
	p, err := Build(cfg)
	require.NoError(t, err)

	require.Equal(t, 2, p.Len())
	assert.Equal(t, 1, p.Steps[1].Index)
	assert.Equal(t, "http://gin.local/GINServices?Request=GetData", p.Steps[1].URL)
}

func TestSaveRoundTrip(t *testing.T) {
	p, err := Build(config.DefaultConfig())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, p.Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, p.Steps, loaded.Steps)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		steps []Step
	}{
		{"empty", nil},
		{"unknown kind", []Step{{Kind: "copy", Path: "x"}}},
		{"download without url", []Step{{Kind: KindDownload, Path: "x.min"}}},
		{"missing path", []Step{{Kind: KindMkdir}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.steps)
			assert.Error(t, err)
		})
	}
}
