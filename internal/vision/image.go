package vision

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Image неизменяемая пара «байты + media type», готовая к кодированию в конверт провайдера.
type Image struct {
	Data      []byte
	MediaType string
}

// mediaTypes соответствие расширений файлов и MIME-типов, которые понимают провайдеры.
var mediaTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// MediaTypeFromPath определяет MIME-тип по расширению файла.
// Неизвестные расширения трактуются как image/jpeg.
func MediaTypeFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mt, ok := mediaTypes[ext]; ok {
		return mt
	}
	return "image/jpeg"
}

// Load читает картинку с диска и определяет её media type по расширению.
func Load(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image file: %w", err)
	}
	return Image{Data: data, MediaType: MediaTypeFromPath(path)}, nil
}

// Base64 кодирует байты картинки в base64 (стандартный алфавит).
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL возвращает картинку в виде data-URI для мультимодальных сообщений.
func (i Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MediaType, i.Base64())
}
