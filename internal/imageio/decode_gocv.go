//go:build gocv

package imageio

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
)

// decodeFile goes through OpenCV so that any format the local OpenCV build
// understands can be used for captures.
func decodeFile(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	src := gocv.IMRead(path, gocv.IMReadColor)
	if src.Empty() {
		return nil, fmt.Errorf("could not load image: %s", path)
	}
	defer src.Close()

	return src.ToImage()
}
