package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"
)

// Storage saves uploaded documents (driver-licence scans for rental
// bookings) to S3 when AWS credentials are configured, and to local disk
// otherwise.
type Storage struct {
	uploader  *s3manager.Uploader
	useS3     bool
	bucket    string
	region    string
	baseURL   string
	uploadDir string
}

// NewStorage initializes either S3 or local storage based on configuration.
func NewStorage(log *zap.Logger) (*Storage, error) {
	awsRegion := os.Getenv("AWS_REGION")
	awsAccessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	awsSecretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if awsRegion != "" && awsAccessKey != "" && awsSecretKey != "" {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(awsRegion),
			Credentials: credentials.NewStaticCredentials(
				awsAccessKey,
				awsSecretKey,
				"",
			),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %v", err)
		}

		log.Info("S3 storage initialized", zap.String("region", awsRegion))
		return &Storage{
			uploader: s3manager.NewUploader(sess),
			useS3:    true,
			bucket:   os.Getenv("AWS_S3_BUCKET"),
			region:   awsRegion,
		}, nil
	}

	// Fallback to local storage
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "/app/uploads"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	if err := os.MkdirAll(filepath.Join(uploadDir, "licenses"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %v", err)
	}

	log.Warn("AWS S3 not configured, using local file storage")
	return &Storage{
		useS3:     false,
		baseURL:   baseURL,
		uploadDir: uploadDir,
	}, nil
}

// UploadDocument stores the file and returns a public URL.
func (s *Storage) UploadDocument(file *multipart.FileHeader, folder string) (string, error) {
	if s.useS3 {
		return s.uploadToS3(file, folder)
	}
	return s.uploadLocally(file, folder)
}

func (s *Storage) uploadToS3(file *multipart.FileHeader, folder string) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("S3 bucket name not configured")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, src); err != nil {
		return "", fmt.Errorf("failed to read file: %v", err)
	}

	contentType := http.DetectContentType(buffer.Bytes())

	fileExt := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("%s/%d%s", folder, time.Now().UnixNano(), fileExt)

	_, err = s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(buffer.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, fileName), nil
}

func (s *Storage) uploadLocally(file *multipart.FileHeader, folder string) (string, error) {
	folderPath := filepath.Join(s.uploadDir, folder)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create folder directory: %v", err)
	}

	fileExt := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("%d%s", time.Now().UnixNano(), fileExt)
	filePath := filepath.Join(folderPath, fileName)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	relativePath := filepath.ToSlash(filepath.Join(folder, fileName))
	return fmt.Sprintf("%s/uploads/%s", s.baseURL, relativePath), nil
}
