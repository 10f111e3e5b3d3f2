package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crossfun/backend/internal/config"
	"github.com/crossfun/backend/internal/logger"
)

const presignTTL = 15 * time.Minute

var uploadKinds = map[string]string{
	"logo":   "logos",
	"avatar": "avatars",
}

// UploadHandler hands out presigned S3 URLs; files never pass through the
// API server.
type UploadHandler struct {
	cfg *config.Config
	log *logger.Logger
}

func NewUploadHandler(cfg *config.Config, log *logger.Logger) *UploadHandler {
	return &UploadHandler{cfg: cfg, log: log}
}

func (h *UploadHandler) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(h.cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			h.cfg.S3AccessKey,
			h.cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if h.cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(h.cfg.S3BaseEndpoint)
		}
	})
	return s3.NewPresignClient(client), nil
}

// PresignPut returns a presigned PUT URL for a logo or avatar upload. The
// client uploads directly and then stores the returned key on the resource.
func (h *UploadHandler) PresignPut(c *gin.Context) {
	prefix, ok := uploadKinds[c.Param("kind")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown upload kind"})
		return
	}

	pc, err := h.presignClient(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("presign put: build client")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload service unavailable"})
		return
	}

	key := fmt.Sprintf("%s/%s", prefix, uuid.New())
	req, err := pc.PresignPutObject(c.Request.Context(), &s3.PutObjectInput{
		Bucket: aws.String(h.cfg.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		h.log.Error().Err(err).Msg("presign put")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to presign upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "uploadUrl": req.URL, "expiresIn": presignTTL.Seconds()})
}

// PresignGet returns a presigned GET URL for a previously uploaded object.
func (h *UploadHandler) PresignGet(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key parameter is required"})
		return
	}

	pc, err := h.presignClient(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("presign get: build client")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload service unavailable"})
		return
	}

	req, err := pc.PresignGetObject(c.Request.Context(), &s3.GetObjectInput{
		Bucket: aws.String(h.cfg.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		h.log.Error().Err(err).Msg("presign get")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to presign download"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": req.URL, "expiresIn": presignTTL.Seconds()})
}
