/*
 * @module service/dataset/loader_test
 * @description 数据集加载器与指纹单元测试
 * @architecture 测试层
 * @dependencies testing, testify, excelize
 * @refs loader.go, table.go, fingerprint.go
 */

package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    Format
		wantErr bool
	}{
		{name: "CSV", file: "rivers.csv", want: FormatCSV},
		{name: "大写扩展名", file: "RIVERS.XLSX", want: FormatXLSX},
		{name: "XLS", file: "legacy.xls", want: FormatXLS},
		{name: "不支持的类型", file: "notes.txt", wantErr: true},
		{name: "无扩展名", file: "data", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.file)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSV_TypesAndMissing(t *testing.T) {
	csvData := "id,name,score\n1,alpha,2.5\n2,NA,\n3,  ,4\n"

	table, err := ReadCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "score"}, table.Columns)
	require.Equal(t, 3, table.NumRows())

	// id 与 score 为数值列
	assert.Equal(t, CellNumber, table.Rows[0][0].Kind)
	assert.Equal(t, 2.5, table.Rows[0][2].Number)
	// "NA" 与空字段为缺失
	assert.True(t, table.Rows[1][1].IsMissing())
	assert.True(t, table.Rows[1][2].IsMissing())
	// 纯空白文本不是缺失，但视为空白
	assert.Equal(t, CellText, table.Rows[2][1].Kind)
	assert.True(t, table.Rows[2][1].IsBlank())
}

func TestReadCSV_NumericEquality(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("v\n1\n1.0\n"))
	require.NoError(t, err)

	assert.Equal(t, table.Rows[0][0].Number, table.Rows[1][0].Number)
}

func TestReadCSV_NumericText(t *testing.T) {
	tests := []struct {
		name        string
		csv         string
		wantNumeric bool
		want        []float64
	}{
		{name: "首尾空白按数值", csv: "v\n 1\n1 \n", wantNumeric: true, want: []float64{1, 1}},
		{name: "科学计数法", csv: "v\n1e3\n-2.5\n", wantNumeric: true, want: []float64{1000, -2.5}},
		{name: "数字分隔符为文本", csv: "v\n1_000\n1000\n", wantNumeric: false},
		{name: "十六进制为文本", csv: "v\n0x1p4\n16\n", wantNumeric: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadCSV(strings.NewReader(tt.csv))
			require.NoError(t, err)
			for i, row := range table.Rows {
				if !tt.wantNumeric {
					assert.Equal(t, CellText, row[0].Kind)
					continue
				}
				assert.Equal(t, CellNumber, row[0].Kind)
				assert.Equal(t, tt.want[i], row[0].Number)
			}
		})
	}
}

func TestReadCSV_BOMAndShortRows(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("\ufeffa,b,c\n1,2\n"))
	require.NoError(t, err)

	assert.Equal(t, "a", table.Columns[0])
	require.Equal(t, 1, table.NumRows())
	assert.True(t, table.Rows[0][2].IsMissing())
}

func TestReadCSV_TooManyFields(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a,b\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, table.NumCols())
	assert.Equal(t, 0, table.NumRows())
}

func TestNormalizeHeader(t *testing.T) {
	got := normalizeHeader([]string{"a", "a", "", "a.1", "a"})
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "a.1.1", "a.2"}, got)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"site", "reading"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Weir A", 3.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Weir B"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	upload, err := Load("readings.xlsx", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, FormatXLSX, upload.Format)
	assert.Equal(t, []string{"site", "reading"}, upload.Table.Columns)
	require.Equal(t, 2, upload.Table.NumRows())
	assert.Equal(t, 3.5, upload.Table.Rows[0][1].Number)
	assert.True(t, upload.Table.Rows[1][1].IsMissing())
}

func TestReadXLS_Corrupt(t *testing.T) {
	_, err := Load("broken.xls", []byte("definitely not a workbook"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestLoad_Unsupported(t *testing.T) {
	_, err := Load("data.json", []byte("{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFingerprint(t *testing.T) {
	a := []byte("a,b\n1,2\n")
	b := []byte("a,b\n1,3\n")

	fa := Fingerprint(a, "data.csv", int64(len(a)))
	fb := Fingerprint(b, "data.csv", int64(len(b)))

	assert.Equal(t, "data.csv-8-", fa[:len("data.csv-8-")])
	assert.Len(t, fa, len("data.csv-8-")+32)
	// 同名同大小，内容不同
	assert.NotEqual(t, fa, fb)
	// 确定性
	assert.Equal(t, fa, Fingerprint(a, "data.csv", int64(len(a))))
}

func TestPreview(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a\n1\n\n2\nNA\n3\n4\n5\n"))
	require.NoError(t, err)

	preview := table.Preview(5)
	assert.Len(t, preview, 5)
	assert.Equal(t, []string{""}, preview[2])
}
