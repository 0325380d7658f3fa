package response

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dmitrymomot/webcore/core/handler"
)

// FileChunkSize is the read size used when streaming files.
const FileChunkSize = 64 << 10

// File streams the file at path with 200 OK status.
// Content-Type comes from the extension, falling back to content sniffing;
// Content-Length comes from the file size. Missing files and directories
// yield ErrNotFound.
func File(path string) (*handler.Response, error) {
	return FileFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// FileFS streams name from fsys. See File.
func FileFS(fsys fs.FS, name string) (*handler.Response, error) {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound.WithMessage("file not found")
		}
		return nil, ErrInternalServerError.WithError(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ErrInternalServerError.WithError(err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound.WithMessage("file not found")
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = sniffContentType(fsys, name)
	}

	resp := handler.NewResponse(http.StatusOK).SetStream(handler.ReaderStream(f, FileChunkSize))
	resp.Header.Set("Content-Type", contentType)
	resp.Header.Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	return resp, nil
}

func sniffContentType(fsys fs.FS, name string) string {
	f, err := fsys.Open(name)
	if err != nil {
		return ContentTypeOctet
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return ContentTypeOctet
	}
	return mt.String()
}

// Download streams the file at path as an attachment named filename.
func Download(path, filename string) (*handler.Response, error) {
	resp, err := File(path)
	if err != nil {
		return nil, err
	}
	if filename == "" {
		filename = filepath.Base(path)
	}
	resp.Header.Set("Content-Disposition", contentDisposition(filename))
	return resp, nil
}

// Attachment serves in-memory data as a downloadable file.
func Attachment(data []byte, filename, contentType string) *handler.Response {
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	resp := Bytes(data, contentType)
	resp.Header.Set("Content-Disposition", contentDisposition(filename))
	return resp
}

func contentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
