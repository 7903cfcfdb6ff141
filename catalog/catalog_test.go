package catalog

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/lex00/fuzzdomain-go/check"
	"github.com/lex00/fuzzdomain-go/cmd"
	"github.com/lex00/fuzzdomain-go/config"
	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/ir"
	"github.com/lex00/fuzzdomain-go/serialize"
)

func TestEntriesSortedAndUnique(t *testing.T) {
	all := Entries()
	require.NotEmpty(t, all)
	seen := map[string]bool{}
	for i, e := range all {
		assert.False(t, seen[e.Name], e.Name)
		seen[e.Name] = true
		if i > 0 {
			assert.Less(t, all[i-1].Name, e.Name)
		}
	}
	assert.True(t, seen["vector-of-copies"])
	assert.True(t, seen["constant"])
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "domain not found: missing")
}

func TestEveryEntryPassesBuiltinProperties(t *testing.T) {
	cfg := check.DefaultConfig()
	cfg.Iterations = 25
	cfg.Mutations = 15

	for _, e := range Entries() {
		t.Run(e.Name, func(t *testing.T) {
			report, err := check.Run(context.Background(), e.Name, e.Build(0.3), check.Builtins(), cfg, nil)
			require.NoError(t, err)
			assert.True(t, report.Passed(), "%+v", report.Properties)
		})
	}
}

func TestServiceList(t *testing.T) {
	s := NewService(nil, nil)
	list, err := s.List(context.Background(), cmd.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, list, len(Entries()))
	assert.Equal(t, Entries()[0].Name, list[0].Name)
}

func TestServiceCheck(t *testing.T) {
	s := NewService(nil, nil)
	iterations := 5
	seed := uint64(77)

	report, err := s.Check(context.Background(), "constant", cmd.CheckOptions{Iterations: &iterations, Seed: &seed})
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.Equal(t, 5, report.Iterations)
	assert.Equal(t, uint64(77), report.Seed)

	_, err = s.Check(context.Background(), "missing", cmd.CheckOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceCheckHonorsDisabledProperties(t *testing.T) {
	cfg := config.Default()
	cfg.Iterations = 3
	cfg.DisabledProperties = []string{"INV001", "DET001"}
	s := NewService(cfg, nil)

	report, err := s.Check(context.Background(), "constant", cmd.CheckOptions{})
	require.NoError(t, err)
	for _, p := range report.Properties {
		assert.NotContains(t, []string{"INV001", "DET001"}, p.ID)
	}
	assert.Len(t, report.Properties, len(check.Builtins())-2)
}

func TestServiceSample(t *testing.T) {
	s := NewService(nil, nil)
	seed := uint64(5)
	opts := cmd.SampleOptions{Count: 8, Seed: &seed, Mutations: 3}

	first, err := s.Sample(context.Background(), "vector-of-copies", opts)
	require.NoError(t, err)
	second, err := s.Sample(context.Background(), "vector-of-copies", opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.Len(t, first, 8)
	valueShape := regexp.MustCompile(`^\{(true|false)(, (true|false)){0,4}\}$`)
	for i, sample := range first {
		assert.Equal(t, i, sample.Index)
		assert.Regexp(t, valueShape, sample.Value)
		require.True(t, gjson.Valid(sample.Corpus), sample.Corpus)
		assert.Len(t, gjson.Get(sample.Corpus, "seq").Array(), 3)
	}

	_, err = s.Sample(context.Background(), "vector-of-copies", cmd.SampleOptions{Count: 0})
	assert.Error(t, err)

	require.NotPanics(t, func() {
		_, err = s.Sample(context.Background(), "constant", cmd.SampleOptions{Count: 1_000_000_000_000})
	})
	assert.ErrorContains(t, err, "count must be in [1, 100000]")
}

func TestServiceSampleShrinks(t *testing.T) {
	s := NewService(nil, nil)
	samples, err := s.Sample(context.Background(), "dependent-range", cmd.SampleOptions{Count: 20, Mutations: 40, Shrink: true})
	require.NoError(t, err)
	for _, sample := range samples {
		// lo and width are never mutated while shrinking, and the output
		// ends at the value of [lo, lo+width] closest to zero.
		out := gjson.Get(sample.Corpus, "seq.0.u").Uint()
		lo := int(int64(gjson.Get(sample.Corpus, "seq.1.u").Uint()))
		width := int(gjson.Get(sample.Corpus, "seq.2.u").Uint())
		want := 0
		switch {
		case lo > 0:
			want = lo
		case lo+width < 0:
			want = lo + width
		}
		assert.Equal(t, uint64(int64(want)), out, sample.Corpus)
	}
}

func writeCorpus(t *testing.T, name string, obj ir.Object) string {
	t.Helper()
	var data []byte
	var err error
	if filepath.Ext(name) == ".yaml" {
		data, err = serialize.ToYAML(obj)
	} else {
		data, err = serialize.ToJSON(obj)
	}
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func copiesCorpus(n, copies int, b uint64) ir.Object {
	units := make([]ir.Object, copies)
	for i := range units {
		units[i] = ir.Seq()
	}
	return ir.Seq(ir.Seq(units...), ir.Uint(uint64(n)), ir.Uint(b))
}

func TestServiceValidate(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		file     string
		obj      ir.Object
		wantPath string
		wantCode string
		wantMsg  string
	}{
		{
			name:   "valid json",
			domain: "vector-of-copies",
			file:   "corpus.json",
			obj:    copiesCorpus(3, 3, 1),
		},
		{
			name:   "valid yaml",
			domain: "vector-of-copies",
			file:   "corpus.yaml",
			obj:    copiesCorpus(2, 2, 0),
		},
		{
			name:     "output size mismatch",
			domain:   "vector-of-copies",
			file:     "corpus.json",
			obj:      copiesCorpus(3, 2, 1),
			wantPath: "$.output",
			wantCode: domain.CodeOutOfRange,
			wantMsg:  "invalid value for flat-mapped domain (output): size 2 is not in [3, 3]",
		},
		{
			name:     "input out of range",
			domain:   "vector-of-copies",
			file:     "corpus.json",
			obj:      copiesCorpus(9, 9, 1),
			wantPath: "$.input[0]",
			wantCode: domain.CodeOutOfRange,
		},
		{
			name:     "dependent output",
			domain:   "dependent-range",
			file:     "corpus.json",
			obj:      ir.Seq(ir.Uint(9), ir.Uint(0), ir.Uint(5)),
			wantPath: "$.output",
			wantCode: domain.CodeOutOfRange,
			wantMsg:  "invalid value for flat-mapped domain (output): value 9 is not in [0, 5]",
		},
		{
			name:     "nested element",
			domain:   "nested",
			file:     "corpus.json",
			obj:      ir.Seq(ir.Seq(ir.Seq(ir.Uint(7)), ir.Uint(5)), ir.Uint(1)),
			wantPath: "$.output.output.element[0]",
			wantCode: domain.CodeOutOfRange,
		},
		{
			name:     "wrong arity",
			domain:   "vector-of-copies",
			file:     "corpus.json",
			obj:      ir.Seq(ir.Seq(), ir.Uint(1)),
			wantPath: "",
			wantCode: CodeParse,
		},
	}

	s := NewService(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCorpus(t, tt.file, tt.obj)
			errs, err := s.Validate(context.Background(), tt.domain, cmd.ValidateOptions{File: path})
			require.NoError(t, err)
			if tt.wantCode == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantCode, errs[0].Code)
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, errs[0].Path)
			} else {
				assert.Equal(t, path, errs[0].Path)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, errs[0].Message)
			}
		})
	}
}

func TestServiceValidateMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"seq": [`), 0644))

	s := NewService(nil, nil)
	errs, err := s.Validate(context.Background(), "constant", cmd.ValidateOptions{File: path})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeParse, errs[0].Code)

	_, err = s.Validate(context.Background(), "constant", cmd.ValidateOptions{File: filepath.Join(t.TempDir(), "absent.json")})
	assert.ErrorContains(t, err, "failed to read corpus file")
}

func TestServiceValidateInputsThatBreakTheMapper(t *testing.T) {
	// n = -1 parses as an int but no vector has that size.
	path := writeCorpus(t, "corpus.json", ir.Seq(ir.Seq(), ir.Uint(uint64(1<<64-1)), ir.Uint(1)))

	s := NewService(nil, nil)
	errs, err := s.Validate(context.Background(), "vector-of-copies", cmd.ValidateOptions{File: path})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeParse, errs[0].Code)
	assert.Contains(t, errs[0].Message, "does not match domain vector-of-copies")
}

func TestServiceInit(t *testing.T) {
	dir := t.TempDir()
	s := NewService(nil, nil)

	path, err := s.Init(context.Background(), dir, cmd.InitOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, config.ConfigFilename), path)

	loaded, found, err := config.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, path, found)
	assert.Equal(t, config.Default().Iterations, loaded.Iterations)

	_, err = s.Init(context.Background(), dir, cmd.InitOptions{})
	assert.ErrorContains(t, err, "already exists")

	_, err = s.Init(context.Background(), dir, cmd.InitOptions{Force: true})
	assert.NoError(t, err)
}
