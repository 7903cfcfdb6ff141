package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/fuzzdomain-go/check"
)

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand("test-cli", "Test CLI for fuzzdomain")
	assert.Equal(t, "test-cli", root.Use)
	assert.Contains(t, root.Short, "Test CLI")
}

func TestRootCommandExecute(t *testing.T) {
	root := NewRootCommand("test-cli", "Test CLI")
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--help"})
	err := root.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Test CLI")
	assert.Contains(t, buf.String(), "validate  parse and validate a stored corpus file")
	assert.Contains(t, buf.String(), "FUZZDOMAIN_*")
}

type mockInitializer struct {
	called bool
	dir    string
	opts   InitOptions
}

func (m *mockInitializer) Init(ctx context.Context, dir string, opts InitOptions) (string, error) {
	m.called = true
	m.dir = dir
	m.opts = opts
	return dir + "/fuzzdomain.yaml", nil
}

func TestInitCommandExecution(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantDir string
		force   bool
	}{
		{"default dir", []string{"init"}, ".", false},
		{"explicit dir", []string{"init", "sub"}, "sub", false},
		{"force", []string{"init", "--force"}, ".", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mi := &mockInitializer{}
			root := NewRootCommand("test-cli", "Test")
			root.AddCommand(NewInitCommand(mi))
			buf := new(bytes.Buffer)
			root.SetOut(buf)
			root.SetArgs(tt.args)

			require.NoError(t, root.Execute())
			assert.True(t, mi.called)
			assert.Equal(t, tt.wantDir, mi.dir)
			assert.Equal(t, tt.force, mi.opts.Force)
			assert.Contains(t, buf.String(), "Wrote "+tt.wantDir+"/fuzzdomain.yaml")
		})
	}
}

type mockLister struct {
	entries []Entry
}

func (m *mockLister) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	return m.entries, nil
}

func TestListCommandExecution(t *testing.T) {
	ml := &mockLister{entries: []Entry{
		{Name: "constant", Description: "always 42"},
		{Name: "vector-of-copies", Description: "copies"},
	}}
	root := NewRootCommand("test-cli", "Test")
	root.AddCommand(NewListCommand(ml))
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"list"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "constant          always 42\nvector-of-copies  copies\n", buf.String())
}

type mockChecker struct {
	called bool
	name   string
	opts   CheckOptions
	report *check.Report
	err    error
}

func (m *mockChecker) Check(ctx context.Context, name string, opts CheckOptions) (*check.Report, error) {
	m.called = true
	m.name = name
	m.opts = opts
	return m.report, m.err
}

func passingReport() *check.Report {
	return &check.Report{
		Domain:     "constant",
		Iterations: 1,
		Properties: []check.PropertyResult{{ID: "INIT001", Description: "init", Trials: 1}},
	}
}

func TestCheckCommandExecution(t *testing.T) {
	mc := &mockChecker{report: passingReport()}
	root := NewRootCommand("test-cli", "Test")
	root.AddCommand(NewCheckCommand(mc, "text"))
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"check", "constant", "--seed", "9", "--iterations", "3"})

	require.NoError(t, root.Execute())
	assert.True(t, mc.called)
	assert.Equal(t, "constant", mc.name)
	require.NotNil(t, mc.opts.Seed)
	assert.Equal(t, uint64(9), *mc.opts.Seed)
	require.NotNil(t, mc.opts.Iterations)
	assert.Equal(t, 3, *mc.opts.Iterations)
	assert.Nil(t, mc.opts.Mutations)
	assert.Contains(t, buf.String(), "PASS INIT001")
}

func TestCheckCommandFormats(t *testing.T) {
	mc := &mockChecker{report: passingReport()}
	root := NewRootCommand("test-cli", "Test")
	root.AddCommand(NewCheckCommand(mc, "json"))
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"check", "constant"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), `"domain": "constant"`)
}

func TestCheckCommandFailures(t *testing.T) {
	failing := passingReport()
	failing.Properties[0].Issues = []check.Issue{{Property: "INIT001", Severity: check.SeverityError, Message: "bad"}}

	tests := []struct {
		name    string
		checker *mockChecker
		wantErr string
	}{
		{"failing property", &mockChecker{report: failing}, "check found 1 failing property"},
		{"checker error", &mockChecker{err: errors.New("boom")}, "check failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCommand("test-cli", "Test")
			root.AddCommand(NewCheckCommand(tt.checker, "text"))
			root.SetOut(new(bytes.Buffer))
			root.SetArgs([]string{"check", "constant"})
			assert.EqualError(t, root.Execute(), tt.wantErr)
		})
	}
}

type mockSampler struct {
	called bool
	opts   SampleOptions
}

func (m *mockSampler) Sample(ctx context.Context, name string, opts SampleOptions) ([]Sample, error) {
	m.called = true
	m.opts = opts
	return []Sample{{Index: 0, Value: "42", Corpus: `{"seq":[]}`}}, nil
}

func TestSampleCommandExecution(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default", []string{"sample", "constant"}, "[0] 42\n    {\"seq\":[]}\n"},
		{"corpus only", []string{"sample", "constant", "--corpus"}, "{\"seq\":[]}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := &mockSampler{}
			root := NewRootCommand("test-cli", "Test")
			root.AddCommand(NewSampleCommand(ms))
			buf := new(bytes.Buffer)
			root.SetOut(buf)
			root.SetArgs(tt.args)

			require.NoError(t, root.Execute())
			assert.Equal(t, tt.want, buf.String())
			assert.Equal(t, 5, ms.opts.Count)
			assert.Nil(t, ms.opts.Seed)
		})
	}
}

func TestSampleCommandFlags(t *testing.T) {
	ms := &mockSampler{}
	root := NewRootCommand("test-cli", "Test")
	root.AddCommand(NewSampleCommand(ms))
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"sample", "constant", "-c", "2", "-s", "4", "-m", "7", "--shrink"})

	require.NoError(t, root.Execute())
	assert.Equal(t, 2, ms.opts.Count)
	require.NotNil(t, ms.opts.Seed)
	assert.Equal(t, uint64(4), *ms.opts.Seed)
	assert.Equal(t, 7, ms.opts.Mutations)
	assert.True(t, ms.opts.Shrink)
}

type mockValidator struct {
	called bool
	opts   ValidateOptions
	errs   []ValidationError
}

func (m *mockValidator) Validate(ctx context.Context, name string, opts ValidateOptions) ([]ValidationError, error) {
	m.called = true
	m.opts = opts
	return m.errs, nil
}

func TestValidateCommandExecution(t *testing.T) {
	mv := &mockValidator{}
	root := NewRootCommand("test-cli", "Test")
	root.AddCommand(NewValidateCommand(mv))
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"validate", "constant", "--file", "corpus.json"})

	require.NoError(t, root.Execute())
	assert.True(t, mv.called)
	assert.Equal(t, "corpus.json", mv.opts.File)
	assert.Equal(t, "Validation passed\n", buf.String())
}

func TestValidateCommandReportsErrors(t *testing.T) {
	mv := &mockValidator{errs: []ValidationError{{Path: "$.input[0]", Message: "out of range", Code: "OUT_OF_RANGE"}}}
	root := NewRootCommand("test-cli", "Test")
	root.AddCommand(NewValidateCommand(mv))
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"validate", "constant", "-f", "corpus.json"})

	assert.EqualError(t, root.Execute(), "validation found 1 error(s)")
	assert.Equal(t, "$.input[0]: out of range (OUT_OF_RANGE)\n", buf.String())
}

func TestValidateCommandRequiresFile(t *testing.T) {
	mv := &mockValidator{}
	root := NewRootCommand("test-cli", "Test")
	root.AddCommand(NewValidateCommand(mv))
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"validate", "constant"})

	assert.Error(t, root.Execute())
	assert.False(t, mv.called)
}

type mockToolServer struct {
	started bool
	err     error
}

func (m *mockToolServer) Start(ctx context.Context) error {
	m.started = ctx != nil
	return m.err
}

func TestMCPCommand(t *testing.T) {
	ms := &mockToolServer{}
	root := NewRootCommand("test-cli", "Test")
	root.AddCommand(NewMCPCommand(ms))
	root.SetArgs([]string{"mcp"})

	require.NoError(t, root.Execute())
	assert.True(t, ms.started)

	ms = &mockToolServer{err: errors.New("closed")}
	root = NewRootCommand("test-cli", "Test")
	root.AddCommand(NewMCPCommand(ms))
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"mcp"})
	assert.EqualError(t, root.Execute(), "closed")
}
