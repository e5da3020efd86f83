/*
 * @module service/dataset/loader
 * @description 数据集加载器，将上传的 CSV / XLSX / XLS 文件解析为内存表格
 * @architecture 适配器模式 - 按文件扩展名选择解析器
 * @documentReference DESIGN.md
 * @stateFlow 上传字节 -> 格式识别 -> 解析 -> 表格 + 指纹
 * @rules 第一行作为表头；解析失败整体返回错误，不产生部分结果
 * @dependencies encoding/csv, golang.org/x/text, github.com/xuri/excelize/v2, github.com/extrame/xls
 * @refs service/dataset/table.go, service/session
 */

package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format 文件格式
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

var (
	// ErrUnsupportedFormat 不支持的文件类型
	ErrUnsupportedFormat = errors.New("不支持的文件类型")
	// ErrEmptyFile 文件中没有可解析的列
	ErrEmptyFile = errors.New("文件中没有可解析的列")
	// ErrMalformed 文件内容损坏或格式错误
	ErrMalformed = errors.New("文件格式错误")
)

// Upload 一次上传解析后的数据集
type Upload struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	Format      Format `json:"format"`
	Fingerprint string `json:"fingerprint"`
	Table       *Table `json:"-"`
}

// DetectFormat 按扩展名识别文件格式（不区分大小写）
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// Load 解析上传文件并计算指纹
func Load(name string, raw []byte) (*Upload, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	var table *Table
	switch format {
	case FormatCSV:
		table, err = ReadCSV(bytes.NewReader(raw))
	case FormatXLSX:
		table, err = ReadXLSX(raw)
	case FormatXLS:
		table, err = ReadXLS(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("读取文件%s失败: %w", name, err)
	}

	size := int64(len(raw))
	return &Upload{
		Name:        name,
		Size:        size,
		Format:      format,
		Fingerprint: Fingerprint(raw, name, size),
		Table:       table,
	}, nil
}

// ReadCSV 读取 CSV，自动去除 UTF-8/UTF-16 BOM
func ReadCSV(r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return fromRecords(records, false)
}

// ReadXLSX 读取 XLSX 的第一个工作表
func ReadXLSX(raw []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return fromRecords(rows, true)
}

// ReadXLS 读取旧版 XLS 的第一个工作表
func ReadXLS(raw []byte) (table *Table, err error) {
	// xls 库遇到损坏文件会 panic
	defer func() {
		if r := recover(); r != nil {
			table = nil
			err = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(raw), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyFile
	}

	records := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		rec := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			rec = append(rec, row.Col(c))
		}
		records = append(records, rec)
	}
	return fromRecords(records, true)
}

// fromRecords 第一行作为表头，数据行去掉行尾空字段
// 电子表格中的全空行（skipBlank）被跳过；CSV 的空行已由 csv.Reader 跳过，",," 这类行保留为缺失值
func fromRecords(records [][]string, skipBlank bool) (*Table, error) {
	nonEmpty := make([][]string, 0, len(records))
	for _, rec := range records {
		if isEmptyRecord(rec) && (skipBlank || len(nonEmpty) == 0) {
			continue
		}
		nonEmpty = append(nonEmpty, rec)
	}
	if len(nonEmpty) == 0 {
		return nil, ErrEmptyFile
	}

	rows := nonEmpty[1:]
	for i := range rows {
		rows[i] = trimTrailingEmpty(rows[i])
	}
	return NewTable(nonEmpty[0], rows)
}

func isEmptyRecord(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}

// trimTrailingEmpty 去掉行尾多余的空字段（电子表格常见）
func trimTrailingEmpty(rec []string) []string {
	end := len(rec)
	for end > 0 && rec[end-1] == "" {
		end--
	}
	return rec[:end]
}
