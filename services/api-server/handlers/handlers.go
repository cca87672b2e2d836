// Package handlers 提供合成流水线的HTTP处理器
package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qiushui-dev/inkseal/internal/model"
	"github.com/qiushui-dev/inkseal/internal/pdf/merge"
	"github.com/qiushui-dev/inkseal/internal/pipeline"
)

// FinalizeService 合成流水线接口
type FinalizeService interface {
	Finalize(ctx context.Context, doc *model.Document, requests []*model.SignatureRequest, attachments []model.Attachment) (*pipeline.Result, error)
}

// MergeService 独立合并接口
// 合并器不要求主PDF来自合成器，任何有效的PDF URL都可以
type MergeService interface {
	MergeWithAttachments(ctx context.Context, mainURL string, attachments []model.Attachment) ([]byte, *merge.Report, error)
}

// Handlers API处理器
type Handlers struct {
	finalizer FinalizeService
	merger    MergeService
}

// NewHandlers 创建处理器
func NewHandlers(finalizer FinalizeService, merger MergeService) *Handlers {
	return &Handlers{
		finalizer: finalizer,
		merger:    merger,
	}
}

// Health 健康检查
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "api-server",
	})
}

// FinalizeRequest 合成请求
type FinalizeRequest struct {
	Document    model.Document            `json:"document" binding:"required"`
	Requests    []*model.SignatureRequest `json:"requests" binding:"required"`
	Attachments []model.Attachment        `json:"attachments"`
}

// Finalize 执行完整合成：域叠加、附件合并、页码、上传
func (h *Handlers) Finalize(c *gin.Context) {
	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	result, err := h.finalizer.Finalize(ctx, &req.Document, req.Requests, req.Attachments)
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MergeRequest 独立合并请求
type MergeRequest struct {
	MainURL     string             `json:"main_url" binding:"required,url"`
	Attachments []model.Attachment `json:"attachments"`
}

// Merge 合并任意PDF与附件，直接以PDF流响应
// 附件跳过信息写入响应头，不影响成功状态
func (h *Handlers) Merge(c *gin.Context) {
	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	data, report, err := h.merger.MergeWithAttachments(ctx, req.MainURL, req.Attachments)
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	if len(report.Skipped) > 0 {
		log.Printf("合并完成但跳过%d个附件: %+v", len(report.Skipped), report.Skipped)
		c.Header("X-Skipped-Attachments", fmt.Sprintf("%d", len(report.Skipped)))
	}
	c.Header("X-Total-Pages", fmt.Sprintf("%d", report.TotalPages))
	c.Data(http.StatusOK, "application/pdf", data)
}

// respondPipelineError 把类型化错误映射为HTTP状态码
// 内容缺失404、下载失败502（可重试）、内容损坏422（永久失败）
func respondPipelineError(c *gin.Context, err error) {
	log.Printf("流水线执行失败: %v", err)

	switch {
	case model.IsErrorType(err, model.ErrCodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case model.IsErrorType(err, model.ErrCodeDownload):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case model.IsErrorType(err, model.ErrCodeInvalidPDF):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case model.IsErrorType(err, model.ErrCodeValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "合成失败"})
	}
}
