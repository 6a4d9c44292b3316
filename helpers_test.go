package tgrapher

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// test helper silences superfluous logging calls from the mock package
type foo struct {
	t *testing.T
}

func (f foo) Logf(format string, args ...interface{}) {
	// makes mock calls to log a no op to prevent a lot of superfluous logging calls
}
func (f foo) Errorf(format string, args ...interface{}) {
	f.t.Errorf(format, args...)
}
func (f foo) FailNow() {
	f.t.FailNow()
}

func silenceT(t *testing.T) mock.TestingT {
	return foo{t}
}

type mockViewer struct {
	mock.Mock
}

func (m *mockViewer) Open(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) ReportError(err error) {
	m.Called(err)
}

func (m *mockReporter) Wait() {}

// syncBuffer lets a test read output written by a running watcher
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

const fixtureCSV = `x,y,ex,ey,energy
1,2,0.1,0.2,100
2,4,0.1,0.2,200
3,6,0.1,0.2,450
4,NA,0.1,0.2,120
5,10,0.1,-0.5,600
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// newTestGrapher builds a batch grapher over the CSV fixture writing its report to out
func newTestGrapher(t *testing.T, out io.Writer, opts ...ConfigOption) (*Grapher, *mockReporter) {
	t.Helper()
	rep := &mockReporter{}
	base := []ConfigOption{
		Positional(writeFixture(t, "run.csv", fixtureCSV)),
		Positional("-"),
		Positional("x"),
		Positional("y"),
		Batch(),
		Output(out),
		Logger(zap.NewNop()),
		WithErrorReporter(rep),
	}
	g, errs := New(append(base, opts...)...)
	require.Empty(t, errs)
	return g, rep
}
