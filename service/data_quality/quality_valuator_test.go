/*
 * @module service/data_quality/quality_valuator_test
 * @description 数据集质量评估器单元测试
 * @architecture 测试层
 * @dependencies testing, testify
 * @refs quality_valuator.go
 */

package data_quality

import (
	"fmt"
	"strings"
	"testing"
	"valuation-service/service/dataset"
	"valuation-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, csvData string) *dataset.Table {
	t.Helper()
	table, err := dataset.ReadCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	return table
}

func TestScore_EmptyTables(t *testing.T) {
	tests := []struct {
		name  string
		table *dataset.Table
	}{
		{name: "nil表", table: nil},
		{name: "零行零列", table: &dataset.Table{}},
		{name: "只有表头", table: &dataset.Table{Columns: []string{"a", "b", "c"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := NewDatasetQualityValuator(tt.table).Score()
			assert.Equal(t, models.QualityReport{}, report)
		})
	}
}

func TestScore_Duplicates(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want int
	}{
		{name: "三行相同", csv: "a,b\n1,x\n1,x\n1,x\n", want: 2},
		{name: "三行不同", csv: "a,b\n1,x\n2,y\n3,z\n", want: 0},
		{name: "缺失值相等", csv: "a,b\n1,\n1,\n", want: 1},
		{name: "数值按值比较", csv: "a\n1\n1.0\n", want: 1},
		{name: "文本按原文比较", csv: "a\nx\nX\n", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := NewDatasetQualityValuator(mustTable(t, tt.csv)).Score()
			assert.Equal(t, tt.want, report.Duplicates)
		})
	}
}

func TestScore_EmptyColumns(t *testing.T) {
	// b 全缺失，c 全空白，d 仅有一个非空白值
	table := mustTable(t, "a,b,c,d\n1,, ,\n2,NA,  ,x\n3,,\t,\n")

	report := NewDatasetQualityValuator(table).Score()
	assert.Equal(t, 2, report.EmptyColumns)
}

func TestScore_MissingRatio(t *testing.T) {
	table := mustTable(t, "A,B,C\n1,2,3\n4,5,6\n1,2,3\n7,8,9\n,10,11\n")

	report := NewDatasetQualityValuator(table).Score()

	assert.Equal(t, 5, report.Rows)
	assert.Equal(t, 3, report.Cols)
	assert.Equal(t, 1, report.MissingCells)
	assert.Equal(t, 0.0667, report.MissingRatio)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 0, report.EmptyColumns)
}

func TestScore_Invariants(t *testing.T) {
	inputs := []string{
		"a\n\n",
		"a,b\n,\n,\n",
		"x,y,z\n1,,3\nNA,NA,NA\n4,5,6\n",
		"k\nv\n",
	}

	for _, in := range inputs {
		report := NewDatasetQualityValuator(mustTable(t, in)).Score()
		total := report.Rows * report.Cols
		assert.LessOrEqual(t, report.MissingCells, total)
		if total == 0 {
			assert.Equal(t, 0.0, report.MissingRatio)
			continue
		}
		assert.Equal(t, roundTo(float64(report.MissingCells)/float64(total), 4), report.MissingRatio)
		assert.GreaterOrEqual(t, report.MissingRatio, 0.0)
		assert.LessOrEqual(t, report.MissingRatio, 1.0)
	}
}

func TestScore_MissingRatioRoundsHalfToEven(t *testing.T) {
	// 32个单元格中1个缺失：1/32 = 0.03125，居中时取偶数
	var b strings.Builder
	b.WriteString("a,b,c,d\n")
	for i := 0; i < 8; i++ {
		second := "v"
		if i == 3 {
			second = ""
		}
		fmt.Fprintf(&b, "%d,%s,x%d,y\n", i, second, i)
	}

	report := NewDatasetQualityValuator(mustTable(t, b.String())).Score()

	require.Equal(t, 32, report.Rows*report.Cols)
	assert.Equal(t, 1, report.MissingCells)
	assert.Equal(t, 0.0312, report.MissingRatio)
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		value  float64
		places int
		want   float64
	}{
		{0.03125, 4, 0.0312},
		{0.03135, 4, 0.0314},
		{0.0625, 3, 0.062},
		{0.0666666, 4, 0.0667},
		{1, 4, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundTo(tt.value, tt.places), "roundTo(%v, %d)", tt.value, tt.places)
	}
}
