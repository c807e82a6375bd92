package images

import (
	"fmt"
	"net/url"
	"strings"
)

const cloudinaryHost = "res.cloudinary.com"

// Transform describes delivery-time transformations. Zero fields fall back to
// quality 80, format webp and crop fill; width and height are omitted when zero.
type Transform struct {
	Width   int
	Height  int
	Quality int
	Format  string
	Crop    string
}

// OptimizeURL inserts transformation tokens into Cloudinary delivery URLs.
// Any other URL is returned unchanged.
func OptimizeURL(raw string, t Transform) string {
	if raw == "" || strings.HasPrefix(raw, "data:") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != cloudinaryHost {
		return raw
	}
	base, rest, ok := strings.Cut(raw, "/upload/")
	if !ok {
		return raw
	}

	if t.Quality == 0 {
		t.Quality = 80
	}
	if t.Format == "" {
		t.Format = "webp"
	}
	if t.Crop == "" {
		t.Crop = "fill"
	}

	var tokens []string
	if t.Width > 0 {
		tokens = append(tokens, fmt.Sprintf("w_%d", t.Width))
	}
	if t.Height > 0 {
		tokens = append(tokens, fmt.Sprintf("h_%d", t.Height))
	}
	tokens = append(tokens,
		fmt.Sprintf("q_%d", t.Quality),
		"f_"+t.Format,
		"c_"+t.Crop,
	)

	return base + "/upload/" + strings.Join(tokens, ",") + "/" + rest
}
