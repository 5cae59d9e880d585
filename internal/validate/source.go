package validate

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// mimeByExt maps supported input extensions to their declared content type.
// Uploads and reference images are restricted to these types.
var mimeByExt = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// SourceFile checks that a local input exists, is a regular file, and has a
// supported type, returning its content type.
func SourceFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("validate: source file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("validate: %s is a directory", path)
	}
	mime, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("validate: unsupported file type %q", filepath.Ext(path))
	}
	return mime, nil
}

// SourceFileType returns the content type for a file name by extension
// alone, without touching the filesystem.
func SourceFileType(name string) (string, error) {
	mime, ok := mimeByExt[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", fmt.Errorf("validate: unsupported file type %q", filepath.Ext(name))
	}
	return mime, nil
}

// RemoteImageURL rejects URLs that could reach internal infrastructure
// before any fetch happens: only https, no userinfo, no loopback, private,
// or link-local hosts.
func RemoteImageURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("validate: parse url: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("validate: only https urls are allowed, got %q", u.Scheme)
	}
	if u.User != nil {
		return fmt.Errorf("validate: urls with credentials are not allowed")
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("validate: url has no host")
	}
	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".local") {
		return fmt.Errorf("validate: host %q is not allowed", host)
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return fmt.Errorf("validate: ip %s is not allowed", ip)
		}
	}
	return nil
}
