package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-xr/engine/core"
)

func TestDecodeOverridesDefaults(t *testing.T) {
	doc := `
[application]
log_level = "debug"

[mesh_detection]
update_interval_ms = 250.0
max_view_distance = 5.5

[materials]
show_wireframe = false

[materials.label_colours]
wall = [1.0, 0.0, 0.0, 1.0]

[physics]
enabled = false
max_body_count = 10
`
	cfg, err := Decode([]byte(doc))
	require.NoError(t, err)

	want := Default()
	want.Application.LogLevel = "debug"
	want.MeshDetection.UpdateIntervalMs = 250
	want.MeshDetection.MaxViewDistance = 5.5
	want.Materials.ShowWireframe = false
	want.Physics.Enabled = false
	want.Physics.MaxBodyCount = 10

	assert.Equal(t, core.DebugLevel, cfg.LogLevel())
	assert.Equal(t, [4]float32{1, 0, 0, 1}, cfg.Materials.LabelColours["wall"])

	// colours are checked above; the merge behaviour of the map is not part of this test
	cfg.Materials.LabelColours = nil
	want.Materials.LabelColours = nil
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("decoded config mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultsMatchSynchronizerTunables(t *testing.T) {
	cfg, err := Decode(nil)
	require.NoError(t, err)

	md := cfg.MeshDetection
	assert.Equal(t, 1000.0, md.UpdateIntervalMs)
	assert.Equal(t, float32(3.0), md.MaxViewDistance)
	assert.Equal(t, float32(0.25), md.ForwardConeCosine)
	assert.Equal(t, 0, md.MaxMeshesPerTick)
	assert.Equal(t, 50, md.MaxMeshCount)
	assert.Equal(t, 5000.0, md.CleanupIntervalMs)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "[mesh_detection]\nbogus = 1\n"},
		{"syntax", "[mesh_detection\n"},
		{"wrong type", "[mesh_detection]\nmax_view_distance = \"far\"\n"},
		{"bad log level", "[application]\nlog_level = \"loud\"\n"},
		{"negative interval", "[mesh_detection]\nupdate_interval_ms = -1.0\n"},
		{"zero frame rate", "[application]\ntarget_frame_rate = 0\n"},
		{"negative bodies", "[physics]\nmax_body_count = -1\n"},
		{"unknown label colour", "[materials.label_colours]\nlamp = [1.0, 1.0, 1.0, 1.0]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			assert.ErrorIs(t, err, core.ErrInvalidConfig)
		})
	}
}

func TestValidateClamps(t *testing.T) {
	cfg := Default()
	cfg.MeshDetection.ForwardConeCosine = 2
	cfg.Application.TargetFrameRate = 1000
	require.NoError(t, cfg.Validate())
	assert.Equal(t, float32(1), cfg.MeshDetection.ForwardConeCosine)
	assert.Equal(t, 240, cfg.Application.TargetFrameRate)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().MeshDetection, cfg.MeshDetection)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anima.toml")
	cfg := Default()
	cfg.MeshDetection.MaxMeshesPerTick = 4
	cfg.Physics.AttachAfterMs = 2500
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.MeshDetection.MaxMeshesPerTick)
	assert.Equal(t, 2500.0, loaded.Physics.AttachAfterMs)
	assert.Equal(t, cfg.Physics.WorldConfig(), loaded.Physics.WorldConfig())
}

func TestWatcherDeliversReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anima.toml")
	require.NoError(t, os.WriteFile(path, []byte("[mesh_detection]\nupdate_interval_ms = 1000.0\n"), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[mesh_detection]\nupdate_interval_ms = 200.0\n"), 0o644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-w.Updates():
			// a write can be observed half done; wait for the full document
			if cfg != nil && cfg.MeshDetection.UpdateIntervalMs == 200 {
				return
			}
		case <-w.Errors():
		case <-timeout:
			t.Fatal("no reload observed")
		}
	}
}

func TestWatcherClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anima.toml")
	w, err := NewWatcher(path)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), core.ErrWatcherClosed)

	select {
	case _, ok := <-w.Updates():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("updates channel not closed")
	}
}
