package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

const MaxImages = 4

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// CheckImageDir validates the folder without reading image content.
func CheckImageDir(dir string) ([]string, error) {
	if err := checkDir(dir, "images folder"); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list images folder %s: %v", contractx.ErrInputValidation, dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, e.Name())
	}
	if len(files) > MaxImages {
		return nil, fmt.Errorf("%w: images folder %s holds %d files, at most %d allowed", contractx.ErrInputValidation, dir, len(files), MaxImages)
	}
	for _, name := range files {
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil, fmt.Errorf("%w: %s is not a supported image (jpg, jpeg, png, gif, webp)", contractx.ErrInputValidation, name)
		}
	}

	sort.Strings(files)
	return files, nil
}

// LoadImages reads every image in dir as a base64 payload, in name order.
func LoadImages(dir string) ([]contractx.Image, error) {
	files, err := CheckImageDir(dir)
	if err != nil {
		return nil, err
	}

	images := make([]contractx.Image, 0, len(files))
	for _, name := range files {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: read image %s: %v", contractx.ErrInputValidation, name, err)
		}
		images = append(images, contractx.Image{
			MediaType: imageExtensions[strings.ToLower(filepath.Ext(name))],
			Data:      base64.StdEncoding.EncodeToString(raw),
		})
	}
	return images, nil
}
