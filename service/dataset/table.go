/*
 * @module service/dataset/table
 * @description 内存表格模型：列名 + 行，单元格为缺失/数值/文本三种类型
 * @architecture 数据模型层 - 会话内临时数据
 * @documentReference DESIGN.md
 * @stateFlow 原始记录 -> 缺失标记识别 -> 列类型推断 -> Table
 * @rules 与 pandas 默认读取行为对齐：默认 NA 字符串视为缺失，全数值列按数值比较
 * @dependencies strconv
 * @refs service/dataset/loader.go, service/data_quality
 */

package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CellKind 单元格类型
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumber
	CellText
)

// Cell 表格单元格
type Cell struct {
	Kind   CellKind
	Text   string  // 原始文本
	Number float64 // 仅 CellNumber 有效
}

// IsMissing 是否缺失
func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// IsBlank 缺失或仅包含空白字符的文本
func (c Cell) IsBlank() bool {
	if c.Kind == CellMissing {
		return true
	}
	return c.Kind == CellText && strings.TrimSpace(c.Text) == ""
}

// Table 内存表格
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// naValues pandas 读取时默认识别为缺失值的字符串
var naValues = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNAValue 判断字符串是否为缺失标记
func IsNAValue(s string) bool {
	_, ok := naValues[s]
	return ok
}

// NewTable 由表头和原始记录构建表格
// 记录短于表头时补齐为缺失值，长于表头时返回 ErrMalformed
func NewTable(header []string, records [][]string) (*Table, error) {
	cols := len(header)
	t := &Table{
		Columns: normalizeHeader(header),
		Rows:    make([][]Cell, 0, len(records)),
	}

	for i, rec := range records {
		if len(rec) > cols {
			return nil, fmt.Errorf("%w: 第%d行有%d个字段，表头只有%d列", ErrMalformed, i+2, len(rec), cols)
		}
		row := make([]Cell, cols)
		for j := 0; j < cols; j++ {
			if j >= len(rec) || IsNAValue(rec[j]) {
				row[j] = Cell{Kind: CellMissing}
				continue
			}
			row[j] = Cell{Kind: CellText, Text: rec[j]}
		}
		t.Rows = append(t.Rows, row)
	}

	t.inferColumnTypes()
	return t, nil
}

// inferColumnTypes 列中所有非缺失值均可解析为数值时，将该列转为数值列
func (t *Table) inferColumnTypes() {
	for j := range t.Columns {
		numbers := make([]float64, len(t.Rows))
		numeric := true
		for i, row := range t.Rows {
			if row[j].IsMissing() {
				continue
			}
			v, err := parseNumber(row[j].Text)
			if err != nil {
				numeric = false
				break
			}
			numbers[i] = v
		}
		if !numeric {
			continue
		}
		for i, row := range t.Rows {
			if row[j].IsMissing() {
				continue
			}
			// "NAN" 等可被解析为 NaN 的文本按缺失处理
			if math.IsNaN(numbers[i]) {
				row[j] = Cell{Kind: CellMissing}
				continue
			}
			row[j].Kind = CellNumber
			row[j].Number = numbers[i]
		}
	}
}

// parseNumber 解析十进制数值文本，允许首尾空白；不接受数字分隔符与十六进制
func parseNumber(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if strings.ContainsRune(s, '_') || strings.ContainsAny(s, "xX") {
		return 0, fmt.Errorf("非数值: %q", text)
	}
	return strconv.ParseFloat(s, 64)
}

// normalizeHeader 空列名命名为 "Unnamed: i"，重复列名追加 ".n" 后缀
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		if n, dup := seen[name]; dup {
			for {
				n++
				candidate = fmt.Sprintf("%s.%d", name, n)
				if _, taken := seen[candidate]; !taken {
					break
				}
			}
			seen[name] = n
		}
		seen[candidate] = 0
		out[i] = candidate
	}
	return out
}

// NumRows 行数
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NumCols 列数
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Preview 返回前 n 行的展示文本，缺失值为空串
func (t *Table) Preview(n int) [][]string {
	if t == nil {
		return nil
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := make([][]string, 0, n)
	for _, row := range t.Rows[:n] {
		line := make([]string, len(row))
		for j, c := range row {
			if !c.IsMissing() {
				line[j] = c.Text
			}
		}
		out = append(out, line)
	}
	return out
}
