package utils

import (
	"regexp"
	"strings"
)

var unsafeFileChars = regexp.MustCompile(`[^\w.\-]+`)

// SafeFileName strips anything that is not a word character, dot or dash so
// user-supplied file names can be embedded in object keys.
func SafeFileName(name string) string {
	safe := unsafeFileChars.ReplaceAllString(name, "_")
	if safe == "" || safe == "_" {
		return "photo.jpg"
	}
	return safe
}

// ObjectKeyFromURL extracts the object key from a public photo URL. The key
// is everything after the "/<bucket>/" marker; that suffix is what must be
// passed to the object store on delete. Returns "" when the URL does not
// reference the bucket.
func ObjectKeyFromURL(url, bucket string) string {
	marker := "/" + bucket + "/"
	idx := strings.Index(url, marker)
	if idx == -1 {
		return ""
	}
	return url[idx+len(marker):]
}
