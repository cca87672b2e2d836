// Package storage 提供MinIO对象存储访问
// 合成流水线只依赖两个能力：换取限时下载URL、上传结果字节
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/qiushui-dev/inkseal/internal/config"
)

// Client 存储客户端接口
type Client interface {
	// UploadFile 上传文件，返回对象的访问URL
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)

	// DownloadFile 下载文件
	DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, error)

	// DeleteFile 删除文件
	DeleteFile(ctx context.Context, objectName string) error

	// GetDownloadURL 生成预签名下载URL
	GetDownloadURL(ctx context.Context, objectName string, expires time.Duration) (string, error)
}

type minioClient struct {
	client     *minio.Client
	cfg        *config.StorageConfig
	bucketName string
}

// NewMinIOClient 创建MinIO存储客户端并确保bucket存在
func NewMinIOClient(ctx context.Context, cfg *config.StorageConfig) (Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	mc := &minioClient{
		client:     client,
		cfg:        cfg,
		bucketName: cfg.BucketName,
	}

	if err := mc.ensureBucketExists(ctx); err != nil {
		return nil, err
	}

	return mc, nil
}

func (c *minioClient) ensureBucketExists(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶失败: %w", err)
	}

	if !exists {
		err = c.client.MakeBucket(ctx, c.bucketName, minio.MakeBucketOptions{
			Region: c.cfg.Region,
		})
		if err != nil {
			return fmt.Errorf("创建存储桶失败: %w", err)
		}
	}

	return nil
}

func (c *minioClient) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := c.client.PutObject(ctx, c.bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("上传文件失败: %w", err)
	}

	scheme := "http"
	if c.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, c.cfg.Endpoint, c.bucketName, objectName), nil
}

func (c *minioClient) DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, error) {
	object, err := c.client.GetObject(ctx, c.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("下载文件失败: %w", err)
	}

	return object, nil
}

func (c *minioClient) DeleteFile(ctx context.Context, objectName string) error {
	if err := c.client.RemoveObject(ctx, c.bucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}

func (c *minioClient) GetDownloadURL(ctx context.Context, objectName string, expires time.Duration) (string, error) {
	presignedURL, err := c.client.PresignedGetObject(ctx, c.bucketName, objectName, expires, nil)
	if err != nil {
		return "", fmt.Errorf("生成预签名URL失败: %w", err)
	}

	return presignedURL.String(), nil
}
