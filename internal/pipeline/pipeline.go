// Package pipeline 串联签署合成的完整流程：
// 解析下载URL -> 域合成 -> 附件合并（可选） -> 页码 -> 上传结果
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/qiushui-dev/inkseal/internal/config"
	"github.com/qiushui-dev/inkseal/internal/model"
	"github.com/qiushui-dev/inkseal/internal/pdf/compose"
	"github.com/qiushui-dev/inkseal/internal/pdf/merge"
	"github.com/qiushui-dev/inkseal/internal/storage"
)

// Result 一次完整合成的产物
type Result struct {
	// ObjectKey 结果文件在存储桶内的键
	ObjectKey string `json:"object_key"`

	// URL 结果文件的访问URL
	URL string `json:"url"`

	// Composite 域合成诊断
	Composite *compose.Report `json:"composite"`

	// Merge 附件合并诊断，无附件时为空
	Merge *merge.Report `json:"merge,omitempty"`

	// Numbered 是否成功加上了页码
	Numbered bool `json:"numbered"`
}

// Finalizer 合成流水线
type Finalizer struct {
	storage    storage.Client
	compositor *compose.Compositor
	merger     *merge.Merger
	cfg        *config.PipelineConfig
}

// NewFinalizer 创建流水线
func NewFinalizer(st storage.Client, compositor *compose.Compositor, merger *merge.Merger, cfg *config.PipelineConfig) *Finalizer {
	return &Finalizer{
		storage:    st,
		compositor: compositor,
		merger:     merger,
		cfg:        cfg,
	}
}

// Finalize 执行完整合成并上传结果
// 每次调用都产出全新的对象，从不就地修改已有文件
func (f *Finalizer) Finalize(ctx context.Context, doc *model.Document, requests []*model.SignatureRequest, attachments []model.Attachment) (*Result, error) {
	if doc == nil || !doc.HasFile() {
		id := ""
		if doc != nil {
			id = doc.ID
		}
		return nil, model.NewNotFoundError(id, "文档没有可下载的文件内容")
	}

	if f.cfg.MaxAttachments > 0 && len(attachments) > f.cfg.MaxAttachments {
		return nil, model.SimpleValidationError(
			fmt.Sprintf("附件数量%d超过上限%d", len(attachments), f.cfg.MaxAttachments))
	}

	// FileKey换取预签名下载URL，约定有效期内可直接获取
	if doc.FileURL == "" {
		url, err := f.storage.GetDownloadURL(ctx, doc.FileKey, f.cfg.DownloadURLTTL)
		if err != nil {
			return nil, model.NewSystemError("pipeline", "presign", "生成底稿下载URL失败", err)
		}
		resolved := *doc
		resolved.FileURL = url
		doc = &resolved
	}

	data, compositeReport, err := f.compositor.GenerateSignedPDF(ctx, doc, requests)
	if err != nil {
		return nil, err
	}

	result := &Result{Composite: compositeReport}

	if len(attachments) > 0 {
		source := doc.Name
		if source == "" {
			source = doc.ID
		}
		merged, mergeReport, err := f.merger.MergeData(ctx, data, source, attachments)
		if err != nil {
			return nil, err
		}
		data = merged
		result.Merge = mergeReport

		data, result.Numbered = merge.AddPageNumbers(data)
	}

	objectKey := fmt.Sprintf("%s/%s-%s.pdf", f.cfg.OutputPrefix, doc.ID, uuid.New().String())
	url, err := f.storage.UploadFile(ctx, objectKey, bytes.NewReader(data), int64(len(data)), "application/pdf")
	if err != nil {
		return nil, model.NewSystemError("pipeline", "upload", "上传合成结果失败", err)
	}

	log.Printf("合成完成: doc=%s object=%s bytes=%d", doc.ID, objectKey, len(data))

	result.ObjectKey = objectKey
	result.URL = url
	return result, nil
}
