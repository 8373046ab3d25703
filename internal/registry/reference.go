package registry

import (
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
)

// Image is a parsed image reference.
type Image struct {
	Registry   string // e.g. index.docker.io
	Repository string // e.g. library/alpine
	Tag        string
}

func (i Image) String() string {
	return i.Repository + ":" + i.Tag
}

// ParseReference parses an image reference that must carry an explicit tag.
// Docker Hub short names are expanded, so "alpine:3.18" becomes library/alpine.
func ParseReference(ref string) (Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Image{}, &ReferenceError{Reference: ref, Message: "image reference is empty"}
	}

	// go-containerregistry defaults a missing tag to "latest"; recipes must pin one.
	lastSegment := ref[strings.LastIndex(ref, "/")+1:]
	if !strings.Contains(lastSegment, ":") || strings.Contains(lastSegment, "@") {
		return Image{}, &ReferenceError{Reference: ref, Message: "expected the form name:tag"}
	}

	tag, err := name.NewTag(ref)
	if err != nil {
		return Image{}, &ReferenceError{Reference: ref, Message: "not a valid image name", Cause: err}
	}

	return Image{
		Registry:   tag.RegistryStr(),
		Repository: tag.RepositoryStr(),
		Tag:        tag.TagStr(),
	}, nil
}
