// Package model 定义签署合成流水线的核心数据模型与错误类型
package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 预定义错误代码
const (
	// 通用错误
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"

	// 源文件获取错误（暂时性，可重试）
	ErrCodeDownload ErrorCode = "DOWNLOAD_ERROR"

	// 源文件内容错误（永久性，重试无意义）
	ErrCodeInvalidPDF ErrorCode = "INVALID_PDF"

	// 验证错误
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
)

// BaseError 基础错误结构
type BaseError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Error 实现error接口
func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// GetCode 获取错误代码
func (e *BaseError) GetCode() ErrorCode {
	return e.Code
}

// NotFoundError 文档或其文件内容缺失
type NotFoundError struct {
	BaseError
	DocumentID string `json:"document_id,omitempty"`
}

// NewNotFoundError 创建未找到错误
func NewNotFoundError(documentID, message string) *NotFoundError {
	return &NotFoundError{
		BaseError: BaseError{
			Code:      ErrCodeNotFound,
			Message:   message,
			Timestamp: time.Now(),
		},
		DocumentID: documentID,
	}
}

// Error 实现error接口
func (e *NotFoundError) Error() string {
	if e.DocumentID != "" {
		return fmt.Sprintf("[%s] 文档'%s': %s", e.Code, e.DocumentID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// DownloadError 源文件下载失败，携带HTTP状态码与响应体片段用于诊断
type DownloadError struct {
	BaseError
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	Body       string `json:"body,omitempty"`
	Cause      error  `json:"-"`
}

// NewDownloadError 创建下载错误
func NewDownloadError(url string, statusCode int, body string, cause error) *DownloadError {
	return &DownloadError{
		BaseError: BaseError{
			Code:      ErrCodeDownload,
			Message:   "下载源文件失败",
			Timestamp: time.Now(),
		},
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
		Cause:      cause,
	}
}

// Error 实现error接口
func (e *DownloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (原因: %v)", e.Code, e.Message, e.URL, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s (状态码: %d, 响应: %s)",
		e.Code, e.Message, e.URL, e.StatusCode, e.Body)
}

// Unwrap 返回原始错误
func (e *DownloadError) Unwrap() error {
	return e.Cause
}

// InvalidPDFError PDF结构损坏或无法解析
type InvalidPDFError struct {
	BaseError
	Source string `json:"source"`
	Cause  error  `json:"-"`
}

// NewInvalidPDFError 创建PDF内容错误
func NewInvalidPDFError(source, message string, cause error) *InvalidPDFError {
	return &InvalidPDFError{
		BaseError: BaseError{
			Code:      ErrCodeInvalidPDF,
			Message:   message,
			Timestamp: time.Now(),
		},
		Source: source,
		Cause:  cause,
	}
}

// Error 实现error接口
func (e *InvalidPDFError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] PDF内容错误('%s'): %s (原因: %v)", e.Code, e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] PDF内容错误('%s'): %s", e.Code, e.Source, e.Message)
}

// Unwrap 返回原始错误
func (e *InvalidPDFError) Unwrap() error {
	return e.Cause
}

// SystemError 系统错误
type SystemError struct {
	BaseError
	Component string `json:"component"`
	Operation string `json:"operation"`
	Cause     error  `json:"-"`
}

// NewSystemError 创建系统错误
func NewSystemError(component, operation, message string, cause error) *SystemError {
	return &SystemError{
		BaseError: BaseError{
			Code:      ErrCodeInternal,
			Message:   message,
			Timestamp: time.Now(),
		},
		Component: component,
		Operation: operation,
		Cause:     cause,
	}
}

// Error 实现error接口
func (e *SystemError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s.%s失败: %s (原因: %v)",
			e.Code, e.Component, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s.%s失败: %s", e.Code, e.Component, e.Operation, e.Message)
}

// Unwrap 返回原始错误
func (e *SystemError) Unwrap() error {
	return e.Cause
}

// SimpleValidationError 创建简单验证错误
func SimpleValidationError(message string) error {
	return &BaseError{
		Code:      ErrCodeValidation,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// IsErrorType 检查错误链中是否包含指定代码的错误
func IsErrorType(err error, code ErrorCode) bool {
	for err != nil {
		if coded, ok := err.(interface{ GetCode() ErrorCode }); ok && coded.GetCode() == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
