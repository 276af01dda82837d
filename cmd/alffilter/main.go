// Command alffilter runs the adaptive loop filter over still images.
//
// Usage:
//
//	alffilter apply [options] -params <job.json> <input>   filter an image (use "-" for stdin)
//	alffilter shapes [-family diamond|starcross]           list the filter shapes
//
// The job file holds the decoded filter parameters of the picture together
// with its CU control flags and slice layout:
//
//	{"params": {...}, "cu_control": [...], "slices": [...], "tree_depth": 1}
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/deepteams/alf"
	"github.com/deepteams/alf/internal/shape"
	"github.com/deepteams/alf/picture"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "apply":
		err = runApply(os.Args[2:])
	case "shapes":
		err = runShapes(os.Args[2:], os.Stdout)
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "alffilter: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "alffilter: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  alffilter apply [options] -params <job.json> <input>   Filter a PNG/JPEG/GIF/BMP/TIFF/WebP image
  alffilter shapes [-family diamond|starcross]           List the filter shapes

Use "-" as input to read from stdin, "-o -" to write to stdout.

Run "alffilter <command> -h" for command-specific options.
`)
}

// openInput returns an io.ReadCloser for the given path.
// If path is "-", stdin is returned (caller should not close).
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// job is the content of a job file.
type job struct {
	Params    alf.Params      `json:"params"`
	Control   []alf.CUControl `json:"cu_control"`
	Slices    []alf.SliceSpec `json:"slices"`
	TreeDepth int             `json:"tree_depth"`
}

func readJob(path string) (*job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var j job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, errors.Wrapf(err, "job %s", path)
	}
	return &j, nil
}

// --- apply ---

func runApply(args []string) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	jobPath := fs.String("params", "", "job file with the filter parameters (required)")
	family := fs.String("family", "diamond", "shape family: diamond/starcross")
	lcu := fs.Int("lcu", 64, "largest coding unit size")
	depth := fs.Int("depth", 4, "maximum coding unit depth")
	sgDepth := fs.Int("sg_depth", 0, "slice granularity depth")
	nonCross := fs.Bool("noncross", false, "do not filter across slice boundaries")
	workers := fs.Int("workers", 0, "slices filtered at once (0=one per CPU)")
	fmtFlag := fs.String("fmt", "", "output format: png, jpeg, bmp, tiff (auto-detect from extension if omitted)")
	output := fs.String("o", "", `output path (default: <input>_alf.png, "-" for stdout)`)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("apply: missing input file\nUsage: alffilter apply [options] -params <job.json> <input>")
	}
	if *jobPath == "" {
		return fmt.Errorf("apply: -params is required")
	}
	inputPath := fs.Arg(0)

	fam, err := parseFamily(*family)
	if err != nil {
		return err
	}
	j, err := readJob(*jobPath)
	if err != nil {
		return err
	}

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(in)
	in.Close()
	if err != nil {
		return errors.Wrapf(err, "decode %s", inputPath)
	}

	su := *lcu >> *depth
	if su < 1 {
		return fmt.Errorf("apply: depth %d splits a %d LCU to nothing", *depth, *lcu)
	}
	pic, err := toPicture(img, su)
	if err != nil {
		return err
	}

	cfg := alf.DefaultConfig(pic.Y.Width, pic.Y.Height)
	cfg.Family = fam
	cfg.LCUSize = *lcu
	cfg.MaxCUDepth = *depth
	cfg.SliceGranularityDepth = *sgDepth
	cfg.NonCrossSlices = *nonCross
	if *workers > 0 {
		cfg.Workers = *workers
	}
	f, err := alf.New(cfg)
	if err != nil {
		return err
	}

	var tree alf.QuadTree
	if anyEnabled(j.Control) {
		tree = alf.UniformTree(j.TreeDepth)
	}
	if err := f.Process(pic, &j.Params, j.Control, tree, j.Slices); err != nil {
		return err
	}

	format := detectOutputFormat(*fmtFlag, *output)
	out := toYCbCr(pic)
	if *output == "-" {
		return encodeImage(os.Stdout, out, format)
	}
	outputPath := *output
	if outputPath == "" {
		base := "output"
		if inputPath != "-" {
			base = strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		}
		outputPath = base + "_alf." + format
	}
	w, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := encodeImage(w, out, format); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Filtered %s → %s (%dx%d)\n", inputPath, outputPath, pic.Y.Width, pic.Y.Height)
	return nil
}

func parseFamily(s string) (alf.ShapeFamily, error) {
	switch strings.ToLower(s) {
	case "diamond":
		return alf.Diamond, nil
	case "starcross", "star-cross":
		return alf.StarCross, nil
	default:
		return 0, fmt.Errorf("unknown shape family %q (use diamond/starcross)", s)
	}
}

func anyEnabled(ctrl []alf.CUControl) bool {
	for _, c := range ctrl {
		if c.Enabled {
			return true
		}
	}
	return false
}

// detectOutputFormat returns "png", "jpeg", "bmp" or "tiff" based on
// flag/extension.
func detectOutputFormat(fmtFlag, outputPath string) string {
	if fmtFlag != "" {
		return strings.ToLower(fmtFlag)
	}
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return "png"
	}
}

func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "jpeg", "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff", "tif":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// toPicture converts img to an 8-bit 4:2:0 picture cropped to a multiple of
// unit samples. Chroma is the mean of each 2x2 block.
func toPicture(img image.Image, unit int) (*picture.Picture, error) {
	step := max(unit, 2)
	b := img.Bounds()
	w, h := b.Dx()/step*step, b.Dy()/step*step
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("image %dx%d is smaller than one %d sample unit", b.Dx(), b.Dy(), step)
	}
	pic := picture.NewPicture(w, h, 8)
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x += 2 {
			var cb, cr int
			for j := 0; j < 2; j++ {
				for i := 0; i < 2; i++ {
					c := color.YCbCrModel.Convert(img.At(b.Min.X+x+i, b.Min.Y+y+j)).(color.YCbCr)
					pic.Y.Set(x+i, y+j, uint16(c.Y))
					cb += int(c.Cb)
					cr += int(c.Cr)
				}
			}
			pic.Cb.Set(x/2, y/2, uint16((cb+2)/4))
			pic.Cr.Set(x/2, y/2, uint16((cr+2)/4))
		}
	}
	return pic, nil
}

// toYCbCr copies an 8-bit picture into a 4:2:0 image.
func toYCbCr(pic *picture.Picture) *image.YCbCr {
	w, h := pic.Y.Width, pic.Y.Height
	img := image.NewYCbCr(image.Rect(0, 0, w, h), image.YCbCrSubsampleRatio420)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Y[y*img.YStride+x] = uint8(pic.Y.At(x, y))
		}
	}
	for y := 0; y < h/2; y++ {
		for x := 0; x < w/2; x++ {
			img.Cb[y*img.CStride+x] = uint8(pic.Cb.At(x, y))
			img.Cr[y*img.CStride+x] = uint8(pic.Cr.At(x, y))
		}
	}
	return img
}

// --- shapes ---

func runShapes(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("shapes", flag.ContinueOnError)
	family := fs.String("family", "diamond", "shape family: diamond/starcross")
	if err := fs.Parse(args); err != nil {
		return err
	}
	fam, err := parseFamily(*family)
	if err != nil {
		return err
	}
	cat := shape.Lookup(fam)
	fmt.Fprintf(w, "family %s, sparse row %d\n", cat.Family, cat.SparseLen())
	list := func(kind string, n int, get func(int) *shape.Shape) {
		for id := 0; id < n; id++ {
			s := get(id)
			fmt.Fprintf(w, "%-6s %d  %-10s taps=%-2d coeffs=%-2d reach=%dx%d\n",
				kind, s.ID, s.Name, s.NumTaps(), s.NumCoeff(), s.HalfWidth, s.HalfHeight)
		}
	}
	list("luma", cat.NumLuma(), cat.Luma)
	list("chroma", cat.NumChroma(), cat.Chroma)
	return nil
}
