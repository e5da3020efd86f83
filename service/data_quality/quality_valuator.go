/*
 * @module service/data_quality/quality_valuator
 * @description 数据集质量评估器：行列数、缺失单元格、缺失率、重复行、空列
 * @architecture 分层架构 - 数据质量服务层（纯函数）
 * @documentReference DESIGN.md
 * @stateFlow 内存表格 -> 逐列/逐行统计 -> 质量报告
 * @rules 空表返回全零报告；缺失率保留4位小数；输出中不允许 NaN
 * @dependencies valuation-service/service/dataset, valuation-service/service/models
 * @refs service/session, api/controllers/dataset_controller.go
 */

package data_quality

import (
	"strconv"
	"strings"
	"valuation-service/service/dataset"
	"valuation-service/service/models"
)

// DatasetQualityValuator 数据集质量评估器
type DatasetQualityValuator struct {
	table *dataset.Table
}

// NewDatasetQualityValuator 创建评估器实例
func NewDatasetQualityValuator(table *dataset.Table) *DatasetQualityValuator {
	return &DatasetQualityValuator{table: table}
}

// Score 计算质量报告
func (v *DatasetQualityValuator) Score() models.QualityReport {
	rows := v.table.NumRows()
	cols := v.table.NumCols()
	if rows == 0 || cols == 0 {
		return models.QualityReport{}
	}

	totalCells := rows * cols
	missing := v.countMissing()

	return models.QualityReport{
		Rows:         rows,
		Cols:         cols,
		MissingCells: missing,
		MissingRatio: roundTo(float64(missing)/float64(totalCells), 4),
		Duplicates:   v.countDuplicates(),
		EmptyColumns: v.countEmptyColumns(),
	}
}

// countMissing 统计缺失单元格
func (v *DatasetQualityValuator) countMissing() int {
	missing := 0
	for _, row := range v.table.Rows {
		for _, cell := range row {
			if cell.IsMissing() {
				missing++
			}
		}
	}
	return missing
}

// countDuplicates 统计与之前某行完全相同的行数，[A,A,A] 计为2
func (v *DatasetQualityValuator) countDuplicates() int {
	seen := make(map[string]struct{}, len(v.table.Rows))
	duplicates := 0
	for _, row := range v.table.Rows {
		key := rowKey(row)
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}

// countEmptyColumns 统计全部为缺失或纯空白的列
func (v *DatasetQualityValuator) countEmptyColumns() int {
	empty := 0
	for j := range v.table.Columns {
		blank := true
		for _, row := range v.table.Rows {
			if !row[j].IsBlank() {
				blank = false
				break
			}
		}
		if blank {
			empty++
		}
	}
	return empty
}

// rowKey 行的类型化键，缺失值彼此相等，数值按值比较
func rowKey(row []dataset.Cell) string {
	var b strings.Builder
	for i, cell := range row {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		switch cell.Kind {
		case dataset.CellMissing:
			b.WriteByte('m')
		case dataset.CellNumber:
			b.WriteByte('n')
			number := cell.Number
			if number == 0 {
				number = 0 // -0 与 0 相等
			}
			b.WriteString(strconv.FormatFloat(number, 'g', -1, 64))
		default:
			b.WriteByte('t')
			b.WriteString(strconv.Quote(cell.Text))
		}
	}
	return b.String()
}

// roundTo 按十进制精确舍入，恰好居中时取偶数
func roundTo(value float64, places int) float64 {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(value, 'f', places, 64), 64)
	return rounded
}
