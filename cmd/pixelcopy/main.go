// Command pixelcopy reads a synthetic producer frame back into a bitmap
// and writes it as PNG.
//
// It fills a source buffer with a test pattern, queues it on a surface
// queue and copies it with the configured backend:
//
//	pixelcopy -memory opaque -format RGB565 -crop 16,16,144,112 -o frame.png
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/pixelcopy"
	"github.com/gogpu/pixelcopy/backend"
	_ "github.com/gogpu/pixelcopy/backend/software"
	_ "github.com/gogpu/pixelcopy/backend/wgpu"
	"github.com/gogpu/pixelcopy/gpucore"
	"github.com/gogpu/pixelcopy/memory"
	"github.com/gogpu/pixelcopy/surface"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		backendArg = flag.String("backend", "", "device backend (default from config, then best available)")
		memKind    = flag.String("memory", "heap", "source memory: heap, opaque or shared")
		width      = flag.Int("width", 320, "source width")
		height     = flag.Int("height", 240, "source height")
		stride     = flag.Int("stride", 0, "source stride in pixels (0 = width)")
		outWidth   = flag.Int("out-width", 0, "bitmap width (0 = crop or source width)")
		outHeight  = flag.Int("out-height", 0, "bitmap height (0 = crop or source height)")
		formatArg  = flag.String("format", "RGBA8888", "bitmap format: Alpha8, RGB565, ARGB4444, RGBA8888, RGBAF16")
		cropArg    = flag.String("crop", "", "source crop as x0,y0,x1,y1")
		rotate     = flag.Bool("rotate", false, "mark the frame as rotated a quarter turn")
		private    = flag.Bool("private", false, "enable the direct memory fast path")
		output     = flag.String("o", "pixelcopy.png", "output file")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *backendArg != "" {
		cfg.Backend = *backendArg
	}
	if *private {
		cfg.PrivateReadback = true
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	pixelcopy.SetLogger(logger)

	format, err := pixelcopy.ParsePixelFormat(*formatArg)
	if err != nil {
		log.Fatal(err)
	}
	crop, err := parseCrop(*cropArg)
	if err != nil {
		log.Fatal(err)
	}

	b, err := backend.Open(cfg.Backend)
	if err != nil {
		log.Fatalf("open backend: %v", err)
	}
	defer b.Close()

	mem, release, err := newMemory(*memKind, *width, *height, *stride)
	if err != nil {
		log.Fatal(err)
	}
	defer release()

	transform := gpucore.FlipV()
	if *rotate {
		transform = gpucore.Rotate90()
	}
	queue := surface.NewQueue("pixelcopy")
	if err := queue.QueueBuffer(memory.Buffer(mem, pixelcopy.UsageSampled), pixelcopy.SignaledFence{}, transform); err != nil {
		log.Fatal(err)
	}

	w, h := bitmapSize(*outWidth, *outHeight, crop, *width, *height, *rotate)
	bm := pixelcopy.NewPixmap(w, h, format)

	rb := pixelcopy.New(b.Device(), pixelcopy.WithConfig(cfg), pixelcopy.WithLogger(logger))
	start := time.Now()
	res := rb.CopySurfaceInto(queue, crop, bm)
	elapsed := time.Since(start)

	p := message.NewPrinter(language.English)
	p.Printf("%s: %v in %v\n", b.Name(), res, elapsed.Round(time.Microsecond))
	if res != pixelcopy.Success {
		os.Exit(1)
	}
	p.Printf("copied %d x %d %v, %d bytes\n", w, h, format, len(bm.Pixels()))

	if err := bm.SavePNG(*output); err != nil {
		log.Fatalf("save: %v", err)
	}
	fmt.Printf("saved %s\n", *output)
}

func loadConfig(path string) (pixelcopy.Config, error) {
	cfg, err := pixelcopy.LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	return pixelcopy.ConfigFromEnv(cfg)
}

// parseCrop parses "x0,y0,x1,y1". An empty string selects no crop.
func parseCrop(s string) (image.Rectangle, error) {
	if s == "" {
		return image.Rectangle{}, nil
	}
	var r image.Rectangle
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r.Min.X, &r.Min.Y, &r.Max.X, &r.Max.Y); err != nil {
		return image.Rectangle{}, fmt.Errorf("invalid crop %q: %w", s, err)
	}
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("invalid crop %q: empty rectangle", s)
	}
	return r, nil
}

// bitmapSize picks the bitmap size: explicit flags first, then the crop,
// then the displayed source size.
func bitmapSize(w, h int, crop image.Rectangle, srcW, srcH int, rotated bool) (int, int) {
	if rotated {
		srcW, srcH = srcH, srcW
	}
	if !crop.Empty() {
		srcW, srcH = crop.Dx(), crop.Dy()
	}
	if w <= 0 {
		w = srcW
	}
	if h <= 0 {
		h = srcH
	}
	return w, h
}

// newMemory allocates a source buffer holding the test pattern.
func newMemory(kind string, w, h, stride int) (memory.Handle, func(), error) {
	pattern := testPattern(w, h)
	switch kind {
	case "heap":
		m, err := memory.HeapFromImage(pattern, stride)
		return m, func() {}, err
	case "opaque":
		m, err := memory.OpaqueFromImage(pattern)
		return m, func() {}, err
	case "shared":
		m, err := memory.NewShared(w, h, stride)
		if err != nil {
			return nil, nil, err
		}
		m.Draw(pattern)
		return m, func() { _ = m.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown memory kind %q", kind)
	}
}

// testPattern draws a gradient with a checker overlay and a fading alpha
// ramp along the bottom rows.
func testPattern(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: 128,
				A: 255,
			}
			if (x/16+y/16)%2 == 0 {
				c.B = 224
			}
			if y >= h-h/8 {
				c.A = uint8(x * 255 / max(w-1, 1))
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
