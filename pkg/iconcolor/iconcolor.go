package iconcolor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	// image decoders for Discord CDN icons
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/ioutil"
	"math"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

const (
	// Fallback is used as theme color when an icon yields no color
	Fallback = "#666"

	sampleSize   = 32
	minAlpha     = 0.15
	maxIconBytes = 8 << 20
	maxIconSide  = 4096
)

// ErrNoColor is returned when no pixel of an icon carries any weight
var ErrNoColor = errors.New("icon has no weighable pixels")

// Extractor derives a theme color from icon URLs
type Extractor struct {
	client *http.Client
}

func NewExtractor(client *http.Client) *Extractor {
	return &Extractor{
		client: client,
	}
}

// ThemeColor downloads the icon and returns its weighted average color as #rrggbb,
// animated GIFs use their first frame
func (e *Extractor) ThemeColor(ctx context.Context, iconURL string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, iconURL, nil)
	if err != nil {
		return "", err
	}
	req = req.WithContext(ctx)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "cannot download icon")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Errorf("received unexpected status from icon CDN: %s", resp.Status)
	}

	body, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
	if err != nil {
		return "", errors.Wrap(err, "cannot read icon")
	}

	config, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "cannot decode icon")
	}
	if config.Width > maxIconSide || config.Height > maxIconSide {
		return "", errors.Errorf("icon too large: %dx%d", config.Width, config.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "cannot decode icon")
	}

	return Average(img)
}

// Average computes the weighted average color of img. Transparent pixels are
// ignored, near-black, near-white and grey pixels count less than saturated mid-tones.
func Average(img image.Image) (string, error) {
	sample := scale(img)

	var sumR, sumG, sumB, sumW float64
	bounds := sample.Bounds()
	for y := 0; y < bounds.Dy(); y++ {
		row := sample.Pix[y*sample.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			px := row[x*4 : x*4+4]
			r, g, b := float64(px[0]), float64(px[1]), float64(px[2])
			a := float64(px[3]) / 255

			if a < minAlpha {
				continue
			}

			w := weight(r, g, b) * a
			if w <= 0 {
				continue
			}

			sumR += r * w
			sumG += g * w
			sumB += b * w
			sumW += w
		}
	}

	if sumW <= 0 {
		return "", ErrNoColor
	}

	return fmt.Sprintf("#%02x%02x%02x",
		channel(sumR/sumW),
		channel(sumG/sumW),
		channel(sumB/sumW),
	), nil
}

// scale fits img inside a sampleSize square, keeping its aspect ratio
func scale(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	ratio := math.Min(float64(sampleSize)/float64(width), float64(sampleSize)/float64(height))
	dstWidth := int(math.Max(1, math.Round(float64(width)*ratio)))
	dstHeight := int(math.Max(1, math.Round(float64(height)*ratio)))

	dst := image.NewNRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	return dst
}

func weight(r, g, b float64) float64 {
	distance := math.Abs(luminance(r, g, b)-0.5) * 2
	midWeight := 1 - math.Pow(distance, 2.2)

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	var saturation float64
	if hi > 0 {
		saturation = (hi - lo) / hi
	}

	return clamp01(midWeight * (0.65 + 0.35*saturation))
}

func luminance(r, g, b float64) float64 {
	return (0.2126*r + 0.7152*g + 0.0722*b) / 255
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
