package markers

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/types"
)

// LoadImage decodes the picture file behind an image marker.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.Wrap(types.ErrIO, "loadImage", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, types.Wrap(types.ErrIO, "loadImage", err)
	}
	return img, nil
}
