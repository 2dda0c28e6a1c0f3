package compose

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strings"
)

// Fixed base name of the dump exports.
const (
	DumpPNG = "summaryplot.png"
	DumpSVG = "summaryplot.svg"
)

// DumpFiles writes the panels as two image files: a raster PNG with
// the panels stacked vertically, and an SVG holding each panel as a
// nested document at its vertical offset.
func DumpFiles(panels []Panel, pngPath, svgPath string) error {
	if len(panels) == 0 {
		return fmt.Errorf("no panels to dump")
	}
	pngBytes, err := stackPNG(panels)
	if err != nil {
		return err
	}
	if err := os.WriteFile(pngPath, pngBytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", pngPath, err)
	}
	svgBytes, err := stackSVG(panels)
	if err != nil {
		return err
	}
	if err := os.WriteFile(svgPath, svgBytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", svgPath, err)
	}
	return nil
}

func stackPNG(panels []Panel) ([]byte, error) {
	var imgs []image.Image
	width, height := 0, 0
	for i := range panels {
		b, err := panels[i].RenderPNG()
		if err != nil {
			return nil, err
		}
		img, err := png.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("decode panel %q: %w", panels[i].Title, err)
		}
		imgs = append(imgs, img)
		if w := img.Bounds().Dx(); w > width {
			width = w
		}
		height += img.Bounds().Dy()
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	y := 0
	for _, img := range imgs {
		r := image.Rect(0, y, img.Bounds().Dx(), y+img.Bounds().Dy())
		draw.Draw(out, r, img, img.Bounds().Min, draw.Src)
		y += img.Bounds().Dy()
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stackSVG(panels []Panel) ([]byte, error) {
	width, height := 0, 0
	var docs []string
	var offsets []int
	for i := range panels {
		b, err := panels[i].RenderSVG()
		if err != nil {
			return nil, err
		}
		docs = append(docs, string(b))
		offsets = append(offsets, height)
		if w := panels[i].Width(); w > width {
			width = w
		}
		height += panels[i].Height()
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`, width, height)
	buf.WriteByte('\n')
	for i, doc := range docs {
		// nested <svg> elements position their panel via the y attribute
		buf.WriteString(strings.Replace(doc, "<svg ", fmt.Sprintf(`<svg y="%d" `, offsets[i]), 1))
		buf.WriteByte('\n')
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
