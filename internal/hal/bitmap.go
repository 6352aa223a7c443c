package hal

import "strings"

// Display dimensions.
const (
	ScreenWidth  = 5
	ScreenHeight = 5
)

// Bitmap is a grid of pixel brightness values in row major order.
type Bitmap struct {
	Width, Height int
	Pixels        []byte
}

// NewBitmap creates a dark bitmap.
func NewBitmap(width, height int) Bitmap {
	return Bitmap{Width: width, Height: height, Pixels: make([]byte, width*height)}
}

// At returns the brightness at x, y, and false if it lies outside the bitmap.
func (bm Bitmap) At(x, y int) (byte, bool) {
	if x < 0 || y < 0 || x >= bm.Width || y >= bm.Height {
		return 0, false
	}
	return bm.Pixels[y*bm.Width+x], true
}

// Set changes the brightness at x, y, reporting false if it lies outside
// the bitmap.
func (bm Bitmap) Set(x, y int, v byte) bool {
	if x < 0 || y < 0 || x >= bm.Width || y >= bm.Height {
		return false
	}
	bm.Pixels[y*bm.Width+x] = v
	return true
}

// Clone returns a copy that shares no pixels with bm.
func (bm Bitmap) Clone() Bitmap {
	bm.Pixels = append([]byte(nil), bm.Pixels...)
	return bm
}

// Window copies the screen sized region of bm starting at column x; columns
// beyond bm are dark.
func (bm Bitmap) Window(x int) Bitmap {
	win := NewBitmap(ScreenWidth, ScreenHeight)
	for wy := 0; wy < ScreenHeight; wy++ {
		for wx := 0; wx < ScreenWidth; wx++ {
			if v, ok := bm.At(x+wx, wy); ok {
				win.Set(wx, wy, v)
			}
		}
	}
	return win
}

// String draws lit pixels as '#' and dark ones as '.', one row per line.
func (bm Bitmap) String() string {
	var sb strings.Builder
	for y := 0; y < bm.Height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < bm.Width; x++ {
			if v, _ := bm.At(x, y); v != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
