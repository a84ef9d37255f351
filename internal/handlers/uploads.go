package handlers

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kwesiamoo/travelhub-backend/internal/services"
)

var allowedLicenseExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// UploadLicense accepts a driver-licence scan for a rental booking and
// returns the stored document's URL.
func UploadLicense(storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(400, gin.H{"error": "File is required"})
			return
		}
		if file.Size > 5<<20 {
			c.JSON(400, gin.H{"error": "File too large (max 5MB)"})
			return
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedLicenseExts[ext] {
			c.JSON(400, gin.H{"error": "Unsupported file type"})
			return
		}

		url, err := storage.UploadDocument(file, "licenses")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to store file"})
			return
		}

		c.JSON(200, gin.H{"url": url})
	}
}
