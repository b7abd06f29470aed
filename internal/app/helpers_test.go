package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testTemplate = `{"igvConfig": {"genome": "hg19", "tracks": []}}`

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// fakeRunner records every command instead of starting a process.
type fakeRunner struct {
	calls [][]string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, argv []string, _, _ io.Writer) error {
	f.calls = append(f.calls, argv)
	return f.err
}

// testEnv is an in-memory workspace laid out like a real hpcigv checkout.
type testEnv struct {
	fs     afero.Fs
	runner *fakeRunner
	out    *SafeBuffer
	logs   *SafeBuffer
}

func newTestEnv(t *testing.T, mappingRows string, files ...string) *testEnv {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, DefaultMappingFile, []byte(mappingRows), 0644))
	require.NoError(t, afero.WriteFile(fs, DefaultTemplate, []byte(testTemplate), 0644))
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, f, []byte("x"), 0644))
	}
	return &testEnv{fs: fs, runner: &fakeRunner{}, out: &SafeBuffer{}, logs: &SafeBuffer{}}
}

func defaultConfig(dataPath string) *Config {
	return &Config{
		DataPath:     dataPath,
		MappingFile:  DefaultMappingFile,
		TemplatePath: DefaultTemplate,
		Genome:       DefaultGenome,
		OutputPath:   DefaultOutput,
		Port:         DefaultPort,
		LogLevel:     "debug",
		LogFormat:    "text",
	}
}

// setupApp creates a new app instance bound to the environment.
func setupApp(t *testing.T, env *testEnv, cfg *Config) *App {
	t.Helper()

	a := NewApp(env.out, env.logs, cfg, WithFs(env.fs), WithRunner(env.runner))
	t.Cleanup(func() {
		if os.Getenv("HPCIGV_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), env.logs.String())
		}
	})
	return a
}
