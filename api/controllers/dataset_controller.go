/*
 * @module api/controllers/dataset_controller
 * @description 数据集质量评估控制器（无状态），返回指纹、列、预览与质量报告
 * @architecture MVC架构 - 控制器层
 * @documentReference DESIGN.md
 * @stateFlow multipart上传 -> 解析 -> 质量评估 -> 返回
 * @rules 上传字段名为 file；超过上传上限返回400；不支持的格式返回400
 * @dependencies valuation-service/service/dataset, valuation-service/service/data_quality
 * @refs api/controllers/session_controller.go
 */

package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"valuation-service/service/data_quality"
	"valuation-service/service/dataset"
	"valuation-service/service/models"
	"valuation-service/service/monitoring"

	"github.com/go-chi/render"
)

const uploadField = "file"

// errUploadMissing 请求中没有上传文件
var errUploadMissing = errors.New("缺少上传文件字段 " + uploadField)

// DatasetController 数据集控制器
type DatasetController struct {
	maxUploadBytes int64
	metrics        *monitoring.Metrics
}

// NewDatasetController 创建数据集控制器实例
func NewDatasetController(maxUploadMB int64, metrics *monitoring.Metrics) *DatasetController {
	return &DatasetController{maxUploadBytes: maxUploadMB << 20, metrics: metrics}
}

// DatasetQualityResponse 数据集质量评估结果
type DatasetQualityResponse struct {
	Name        string               `json:"name" example:"rivers.csv"`
	Size        int64                `json:"size" example:"2048"`
	Format      dataset.Format       `json:"format" example:"csv"`
	Fingerprint string               `json:"fingerprint" example:"rivers.csv-2048-9e107d9d372bb6826bd81d3542a419d6"`
	Columns     []string             `json:"columns"`
	Preview     [][]string           `json:"preview"`
	Quality     models.QualityReport `json:"quality"`
}

// EvaluateQuality 评估上传数据集的质量
// @Summary 数据集质量评估
// @Description 上传CSV/XLSX/XLS文件，返回数据集指纹、列名、前5行预览与质量报告，不创建会话
// @Tags 数据集
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "数据集文件"
// @Success 200 {object} APIResponse{data=DatasetQualityResponse}
// @Failure 400 {object} APIResponse
// @Router /datasets/quality [post]
func (c *DatasetController) EvaluateQuality(w http.ResponseWriter, r *http.Request) {
	name, raw, err := readUpload(w, r, c.maxUploadBytes)
	if err != nil {
		render.Render(w, r, BadRequestResponse("读取上传文件失败", err))
		return
	}

	up, err := dataset.Load(name, raw)
	if err != nil {
		format, _ := dataset.DetectFormat(name)
		c.metrics.ObserveUpload(string(format), 0, err)
		renderError(w, r, "解析数据集失败", err)
		return
	}
	report := data_quality.NewDatasetQualityValuator(up.Table).Score()
	c.metrics.ObserveUpload(string(up.Format), report.Rows, nil)

	render.JSON(w, r, SuccessResponse("数据集质量评估成功", DatasetQualityResponse{
		Name:        up.Name,
		Size:        up.Size,
		Format:      up.Format,
		Fingerprint: up.Fingerprint,
		Columns:     up.Table.Columns,
		Preview:     up.Table.Preview(5),
		Quality:     report,
	}))
}

// readUpload 读取 multipart 上传文件，限制请求体大小
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (string, []byte, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return "", nil, fmt.Errorf("解析上传表单失败: %w", err)
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return "", nil, errUploadMissing
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("读取上传文件失败: %w", err)
	}
	return header.Filename, raw, nil
}
