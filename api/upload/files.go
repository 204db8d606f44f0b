package upload

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"yelo_server/services"
)

// 32MB in-memory threshold before multipart parts spill to disk
const multipartMemoryLimit = 32 << 20

func readMultipartFiles(r *http.Request, field string) ([]services.UploadFile, error) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return nil, err
	}

	headers := r.MultipartForm.File[field]
	files := make([]services.UploadFile, 0, len(headers))
	for _, header := range headers {
		file, err := readOneFile(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}

func readOneFile(header *multipart.FileHeader) (services.UploadFile, error) {
	f, err := header.Open()
	if err != nil {
		return services.UploadFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return services.UploadFile{}, err
	}

	return services.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// parseQuality reads the optional quality form value. Zero means
// "use the configured default".
func parseQuality(r *http.Request) int {
	raw := r.FormValue("quality")
	if raw == "" {
		return 0
	}

	quality, err := strconv.Atoi(raw)
	if err != nil || quality < 1 || quality > 100 {
		return 0
	}

	return quality
}
