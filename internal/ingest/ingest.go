// Package ingest turns files on disk into data URLs for File items and
// writes them back out again.
package ingest

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const DefaultMaxBytes int64 = 10 << 20 // 10MiB

var (
	ErrTooLarge   = errors.New("file is too large")
	ErrBadDataURL = errors.New("malformed data URL")
)

// Upload is a file read into memory and encoded as a data URL.
type Upload struct {
	Name     string
	FileType string
	DataURL  string
	Size     int64
}

// Completion is delivered once by Start.
type Completion struct {
	Path   string
	Upload Upload
	Err    error
}

// Reader reads files into Uploads. MaxBytes <= 0 disables the cap.
type Reader struct {
	MaxBytes int64
}

func (r Reader) Read(ctx context.Context, path string) (Upload, error) {
	path = filepath.Clean(strings.TrimSpace(path))
	st, err := os.Stat(path)
	if err != nil {
		return Upload{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		return Upload{}, fmt.Errorf("%s is a directory", path)
	}
	if r.MaxBytes > 0 && st.Size() > r.MaxBytes {
		return Upload{}, fmt.Errorf("%w (%d bytes > %d bytes)", ErrTooLarge, st.Size(), r.MaxBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return Upload{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	src := io.Reader(f)
	if r.MaxBytes > 0 {
		// The file may have grown since Stat.
		src = io.LimitReader(f, r.MaxBytes+1)
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return Upload{}, fmt.Errorf("read %s: %w", path, err)
	}
	if r.MaxBytes > 0 && int64(len(b)) > r.MaxBytes {
		return Upload{}, fmt.Errorf("%w (%d bytes > %d bytes)", ErrTooLarge, len(b), r.MaxBytes)
	}
	if err := ctx.Err(); err != nil {
		return Upload{}, err
	}

	name := filepath.Base(path)
	typ := DetectType(name, b)
	return Upload{
		Name:     name,
		FileType: typ,
		DataURL:  EncodeDataURL(typ, b),
		Size:     int64(len(b)),
	}, nil
}

// Start reads path on its own goroutine. The returned channel yields
// exactly one Completion and is then closed.
func (r Reader) Start(ctx context.Context, path string) <-chan Completion {
	out := make(chan Completion, 1)
	go func() {
		defer close(out)
		up, err := r.Read(ctx, path)
		out <- Completion{Path: path, Upload: up, Err: err}
	}()
	return out
}

// DetectType guesses the MIME type from the file extension and falls back
// to sniffing the content. Parameters such as charset are dropped.
func DetectType(name string, content []byte) string {
	typ := ""
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		typ = mime.TypeByExtension(ext)
	}
	if typ == "" && len(content) > 0 {
		typ = http.DetectContentType(content)
	}
	if mt, _, err := mime.ParseMediaType(typ); err == nil {
		return mt
	}
	return typ
}

func EncodeDataURL(fileType string, content []byte) string {
	if fileType == "" {
		fileType = "application/octet-stream"
	}
	return "data:" + fileType + ";base64," + base64.StdEncoding.EncodeToString(content)
}

// DecodeDataURL returns the media type and payload of a data URL. Both
// base64 and percent-encoded payloads are accepted.
func DecodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: prefix", ErrBadDataURL)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing comma", ErrBadDataURL)
	}
	meta, isBase64 := strings.CutSuffix(meta, ";base64")
	mediaType := meta
	if mediaType == "" {
		mediaType = "text/plain;charset=US-ASCII"
	}
	if isBase64 {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrBadDataURL, err)
		}
		return mediaType, b, nil
	}
	p, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadDataURL, err)
	}
	return mediaType, []byte(p), nil
}

// WriteFile decodes dataURL into dir/name and returns the path written.
// An existing file is never overwritten; "name (1).ext" and so on are
// tried instead.
func WriteFile(dir, name, dataURL string) (string, error) {
	_, b, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "download"
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 0; ; n++ {
		candidate := base
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		if _, err := f.Write(b); err != nil {
			f.Close()
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", path, err)
		}
		return path, nil
	}
}
