/*
 * @module api/controllers/response
 * @description 统一API响应结构与错误到HTTP状态码的映射
 * @architecture MVC架构 - 控制器层
 * @documentReference DESIGN.md
 * @stateFlow 业务错误 -> 状态码 -> {status, msg, data}
 * @rules status=0 表示成功；输入错误400，会话不存在404，限流429，其余500
 * @dependencies github.com/go-chi/render
 * @refs api/controllers/session_controller.go
 */

package controllers

import (
	"errors"
	"net/http"
	"valuation-service/service/dataset"
	"valuation-service/service/meta"
	"valuation-service/service/session"
	"valuation-service/service/valuation"

	"github.com/go-chi/render"
)

// APIResponse 统一API响应结构
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"操作成功"`
	Data   interface{} `json:"data,omitempty"`

	httpStatus int
}

// Render 设置HTTP状态码，实现 render.Renderer
func (a *APIResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if a.httpStatus != 0 {
		render.Status(r, a.httpStatus)
	}
	return nil
}

// SuccessResponse 成功响应
func SuccessResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{Status: 0, Msg: msg, Data: data, httpStatus: http.StatusOK}
}

// ErrorResponse 错误响应，err 不为空时追加到消息中
func ErrorResponse(code int, msg string, err error) *APIResponse {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &APIResponse{Status: code, Msg: msg, httpStatus: code}
}

// BadRequestResponse 请求参数错误
func BadRequestResponse(msg string, err error) *APIResponse {
	return ErrorResponse(http.StatusBadRequest, msg, err)
}

// NotFoundResponse 资源不存在
func NotFoundResponse(msg string, err error) *APIResponse {
	return ErrorResponse(http.StatusNotFound, msg, err)
}

// InternalErrorResponse 服务内部错误
func InternalErrorResponse(msg string, err error) *APIResponse {
	return ErrorResponse(http.StatusInternalServerError, msg, err)
}

var badRequestErrors = []error{
	dataset.ErrUnsupportedFormat,
	dataset.ErrEmptyFile,
	dataset.ErrMalformed,
	meta.ErrUnknownDimension,
	meta.ErrUnknownUseCase,
	valuation.ErrStarsOutOfRange,
	valuation.ErrWeightOutOfRange,
	session.ErrNoDataset,
	session.ErrNoUseCase,
	session.ErrScoresNotConfirmed,
	session.ErrNotCalculated,
}

// statusFor 业务错误对应的HTTP状态码
func statusFor(err error) int {
	if errors.Is(err, session.ErrNotFound) {
		return http.StatusNotFound
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// renderError 按错误类型输出错误响应
func renderError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	render.Render(w, r, ErrorResponse(statusFor(err), msg, err))
}
