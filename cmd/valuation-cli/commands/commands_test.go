package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"valuation-service/service/meta"
	"valuation-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestQualityCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rivers.csv")
	require.NoError(t, os.WriteFile(path, []byte(testutil.CSVFixture), 0o644))

	t.Run("表格输出", func(t *testing.T) {
		out, err := run(t, "quality", path)
		require.NoError(t, err)
		assert.Contains(t, out, "DUPLICATES")
		assert.Contains(t, out, path)
	})

	t.Run("JSON输出", func(t *testing.T) {
		out, err := run(t, "quality", "--json", path)
		require.NoError(t, err)

		var results []qualityOutput
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		require.Len(t, results, 1)
		assert.Equal(t, 3, results[0].Quality.Rows)
		assert.Equal(t, 1, results[0].Quality.Duplicates)
		assert.Equal(t, []string{"site", "reading", "notes"}, results[0].Columns)
	})

	t.Run("不支持的格式", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(bad, []byte("x"), 0o644))
		_, err := run(t, "quality", bad)
		assert.Error(t, err)
	})

	t.Run("缺少参数", func(t *testing.T) {
		_, err := run(t, "quality")
		assert.Error(t, err)
	})
}

func TestAggregateCommand(t *testing.T) {
	t.Run("未加权", func(t *testing.T) {
		out, err := run(t, "aggregate", "--json", "--star", "Economic=5", "--star", "Policy Alignment=3")
		require.NoError(t, err)

		var result aggregateOutput
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, 26.67, result.Result.FinalScorePercent)
		assert.Equal(t, []string{meta.DimensionEconomic}, result.Tags)
		assert.Equal(t, meta.DimensionPolicyAlignment, result.Summary[1].Dimension)
	})

	t.Run("加权", func(t *testing.T) {
		out, err := run(t, "aggregate", "--json", "--weighted",
			"--star", "Economic=4", "--star", "Social=2",
			"--weight", "Economic=1", "--weight", "Social=0")
		require.NoError(t, err)

		var result aggregateOutput
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.True(t, result.Result.ApplyWeights)
		assert.Equal(t, 26.67, result.Result.FinalScorePercent)
	})

	t.Run("全零不输出标签", func(t *testing.T) {
		out, err := run(t, "aggregate")
		require.NoError(t, err)
		assert.Contains(t, out, "Final score: 0.00%")
		assert.NotContains(t, out, "Top dimensions")
	})

	invalid := [][]string{
		{"aggregate", "--star", "Economic=6"},
		{"aggregate", "--star", "Aesthetic=3"},
		{"aggregate", "--weighted", "--weight", "Social=abc"},
		{"aggregate", "--weighted", "--weight", "Social=1.5"},
		{"aggregate", "--min-stars", "1", "--star", "Economic=0"},
	}
	for _, args := range invalid {
		t.Run(args[len(args)-1], func(t *testing.T) {
			_, err := run(t, args...)
			assert.Error(t, err)
		})
	}
}
