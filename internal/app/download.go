package app

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/oshokin/httpkit/internal/constants"
	"github.com/oshokin/httpkit/internal/exec"
	"github.com/oshokin/httpkit/internal/utils"
)

// partFileExtension marks files that are still being written.
const partFileExtension = ".part"

// defaultFilename names bodies of URLs whose path has no file name.
const defaultFilename = "index"

// Static error definitions for better error handling.
var (
	// ErrIncompleteDownload indicates that fewer bytes were received than announced.
	ErrIncompleteDownload = errors.New("incomplete download")
	// ErrInvalidURL indicates a URL without scheme or host.
	ErrInvalidURL = errors.New("URL must be absolute")
	// ErrNoURLs indicates that neither arguments nor the input file supplied a URL.
	ErrNoURLs = errors.New("no URLs given")
)

// DownloadResult describes one finished exchange.
type DownloadResult struct {
	// URL is the requested address.
	URL string
	// StatusCode is the response status.
	StatusCode int
	// Bytes is the number of body bytes received.
	Bytes int64
	// Path is where the body was saved, empty when it was discarded.
	Path string
}

// newBodyHandler returns a handler that stores bodies under outputPath,
// or discards them when outputPath is empty.
// Handlers run sequentially, so the counter needs no locking.
func newBodyHandler(outputPath string) exec.ResponseHandler[DownloadResult] {
	var sequence int

	return func(
		req *http.Request,
		resp *http.Response,
		contentType *exec.ContentType,
		body io.Reader,
	) (DownloadResult, error) {
		sequence++

		result := DownloadResult{
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
		}

		if body == nil {
			return result, nil
		}

		if outputPath == "" {
			n, err := io.Copy(io.Discard, body)
			result.Bytes = n

			return result, err
		}

		filename := outputFilename(sequence, req, contentType)

		n, err := saveBody(filepath.Join(outputPath, filename), body, resp.ContentLength)
		if err != nil {
			return result, err
		}

		result.Bytes = n
		result.Path = filepath.Join(outputPath, filename)

		return result, nil
	}
}

// outputFilename builds "<sequence>_<name>" from the last URL path segment,
// adding an extension from the content type when the name has none.
func outputFilename(sequence int, req *http.Request, contentType *exec.ContentType) string {
	name := path.Base(req.URL.Path)
	if name == "/" || name == "." || name == "" {
		name = defaultFilename
	}

	name = utils.SanitizeFilename(name)

	if path.Ext(name) == "" && contentType != nil {
		if extensions, err := mime.ExtensionsByType(contentType.MimeType); err == nil && len(extensions) > 0 {
			name = utils.SetFileExtension(name, extensions[0], false)
		}
	}

	return fmt.Sprintf("%03d_%s", sequence, name)
}

// saveBody writes body to a temporary file and renames it to target once complete.
func saveBody(target string, body io.Reader, expected int64) (written int64, err error) {
	if err = os.MkdirAll(filepath.Dir(target), constants.DefaultFolderPermissions); err != nil {
		return 0, fmt.Errorf("failed to create output folder: %w", err)
	}

	tempPath := target + partFileExtension

	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.DefaultFilePermissions)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}

		if err != nil {
			_ = os.Remove(tempPath)

			return
		}

		if renameErr := os.Rename(tempPath, target); renameErr != nil {
			err = fmt.Errorf("failed to rename %s: %w", tempPath, renameErr)
		}
	}()

	written, err = io.Copy(f, body)
	if err != nil {
		return written, fmt.Errorf("failed to write file: %w", err)
	}

	if expected >= 0 && written != expected {
		return written, fmt.Errorf("%w: wrote %d bytes, expected %d bytes", ErrIncompleteDownload, written, expected)
	}

	return written, nil
}
