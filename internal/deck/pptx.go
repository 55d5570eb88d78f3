package deck

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// Office stores lengths in EMU; 12700 EMU per point.
const emuPerPoint = 12700

// PPTX is a Provider backed by a .pptx file. The whole deck is parsed on
// Open; decks are small enough that lazy slide loading buys nothing.
type PPTX struct {
	path   string
	slides []Slide
}

// Open parses a .pptx file into a Provider.
func Open(pptxPath string) (*PPTX, error) {
	zr, err := zip.OpenReader(pptxPath)
	if err != nil {
		return nil, fmt.Errorf("open deck: %w", err)
	}
	defer zr.Close()

	slides, err := readDeck(&zr.Reader)
	if err != nil {
		return nil, err
	}
	return &PPTX{path: pptxPath, slides: slides}, nil
}

// OpenReader parses a .pptx from an in-memory zip. Used by tests.
func OpenReader(r io.ReaderAt, size int64, name string) (*PPTX, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open deck: %w", err)
	}
	slides, err := readDeck(zr)
	if err != nil {
		return nil, err
	}
	return &PPTX{path: name, slides: slides}, nil
}

func (p *PPTX) SlideCount() (int, error) { return len(p.slides), nil }

func (p *PPTX) Slides(from, to int) ([]Slide, error) {
	var out []Slide
	for _, s := range p.slides {
		if s.Num >= from && s.Num <= to {
			out = append(out, s)
		}
	}
	return out, nil
}

// Namespace partitions persisted per-user state by document identity. An
// unresolvable path falls back to a fixed token so state still round-trips.
func (p *PPTX) Namespace() string {
	abs, err := filepath.Abs(p.path)
	if err != nil || p.path == "" {
		return "decklint:unsaved"
	}
	return "decklint:" + filepath.Clean(abs)
}

func readDeck(zr *zip.Reader) ([]Slide, error) {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	order, err := slideOrder(files)
	if err != nil {
		return nil, err
	}

	slides := make([]Slide, 0, len(order))
	for i, name := range order {
		f, ok := files[name]
		if !ok {
			return nil, fmt.Errorf("deck references missing slide part %s", name)
		}
		shapes, err := readSlide(f)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		slides = append(slides, Slide{Num: i + 1, Shapes: shapes})
	}
	return slides, nil
}

type presentationXML struct {
	SldIDList struct {
		SldIDs []struct {
			RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sldId"`
	} `xml:"sldIdLst"`
}

type relationshipsXML struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// slideOrder resolves the presentation's slide sequence: the sldIdLst gives
// relationship ids, the rels part maps those to slide part names.
func slideOrder(files map[string]*zip.File) ([]string, error) {
	var pres presentationXML
	if err := parsePart(files, "ppt/presentation.xml", &pres); err != nil {
		return nil, err
	}
	var rels relationshipsXML
	if err := parsePart(files, "ppt/_rels/presentation.xml.rels", &rels); err != nil {
		return nil, err
	}

	targets := make(map[string]string, len(rels.Rels))
	for _, r := range rels.Rels {
		targets[r.ID] = r.Target
	}

	var order []string
	for _, s := range pres.SldIDList.SldIDs {
		target, ok := targets[s.RelID]
		if !ok {
			return nil, fmt.Errorf("unresolved slide relationship %s", s.RelID)
		}
		order = append(order, path.Join("ppt", target))
	}
	return order, nil
}

func parsePart(files map[string]*zip.File, name string, v any) error {
	f, ok := files[name]
	if !ok {
		return fmt.Errorf("not a presentation: missing %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	defer rc.Close()
	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

type slideXML struct {
	CSld struct {
		SpTree struct {
			Shapes   []spXML    `xml:"sp"`
			Pictures []picXML   `xml:"pic"`
			Frames   []frameXML `xml:"graphicFrame"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

type cNvPrXML struct {
	ID    string `xml:"id,attr"`
	Descr string `xml:"descr,attr"`
	Title string `xml:"title,attr"`
}

type xfrmXML struct {
	Off *struct {
		X int64 `xml:"x,attr"`
		Y int64 `xml:"y,attr"`
	} `xml:"off"`
	Ext *struct {
		CX int64 `xml:"cx,attr"`
		CY int64 `xml:"cy,attr"`
	} `xml:"ext"`
}

type runPropsXML struct {
	Sz string `xml:"sz,attr"`
	B  string `xml:"b,attr"`
	I  string `xml:"i,attr"`
	U  string `xml:"u,attr"`
}

type txBodyXML struct {
	Paragraphs []struct {
		Runs []struct {
			Props *runPropsXML `xml:"rPr"`
			Text  string       `xml:"t"`
		} `xml:"r"`
	} `xml:"p"`
}

type spXML struct {
	NvSpPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
	} `xml:"nvSpPr"`
	SpPr struct {
		Xfrm *xfrmXML `xml:"xfrm"`
	} `xml:"spPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

type picXML struct {
	NvPicPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
		NvPr  struct {
			VideoFile *struct{} `xml:"videoFile"`
			AudioFile *struct{} `xml:"audioFile"`
		} `xml:"nvPr"`
	} `xml:"nvPicPr"`
	SpPr struct {
		Xfrm *xfrmXML `xml:"xfrm"`
	} `xml:"spPr"`
}

type frameXML struct {
	NvPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
	} `xml:"nvGraphicFramePr"`
	Xfrm *xfrmXML `xml:"xfrm"`
}

func readSlide(f *zip.File) ([]Shape, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var sld slideXML
	if err := xml.NewDecoder(rc).Decode(&sld); err != nil {
		return nil, err
	}

	tree := sld.CSld.SpTree
	shapes := make([]Shape, 0, len(tree.Shapes)+len(tree.Pictures)+len(tree.Frames))

	for _, sp := range tree.Shapes {
		shape := Shape{
			ID:   sp.NvSpPr.CNvPr.ID,
			Type: "geometricShape",
		}
		if sp.TxBody != nil {
			shape.Type = "textBox"
			applyText(&shape, sp.TxBody)
		}
		applyBox(&shape, sp.SpPr.Xfrm)
		applyAlt(&shape, sp.NvSpPr.CNvPr)
		shapes = append(shapes, shape)
	}

	for _, pic := range tree.Pictures {
		shape := Shape{
			ID:   pic.NvPicPr.CNvPr.ID,
			Type: "picture",
		}
		if pic.NvPicPr.NvPr.VideoFile != nil || pic.NvPicPr.NvPr.AudioFile != nil {
			shape.Type = "media"
		}
		applyBox(&shape, pic.SpPr.Xfrm)
		applyAlt(&shape, pic.NvPicPr.CNvPr)
		shapes = append(shapes, shape)
	}

	for _, fr := range tree.Frames {
		shape := Shape{
			ID:   fr.NvPr.CNvPr.ID,
			Type: "graphicFrame",
		}
		applyBox(&shape, fr.Xfrm)
		applyAlt(&shape, fr.NvPr.CNvPr)
		shapes = append(shapes, shape)
	}

	return shapes, nil
}

func applyAlt(shape *Shape, pr cNvPrXML) {
	// cNvPr is always present in slide XML, so alt text is a known-but-maybe-
	// empty capability for pptx decks.
	shape.AltTitle = String(pr.Title)
	shape.AltDescription = String(pr.Descr)
}

func applyBox(shape *Shape, xfrm *xfrmXML) {
	// A shape without its own xfrm inherits geometry from the layout, which
	// this reader does not resolve: the box stays unknown.
	if xfrm == nil || xfrm.Off == nil || xfrm.Ext == nil {
		return
	}
	shape.Left = Float(float64(xfrm.Off.X) / emuPerPoint)
	shape.Top = Float(float64(xfrm.Off.Y) / emuPerPoint)
	shape.Width = Float(float64(xfrm.Ext.CX) / emuPerPoint)
	shape.Height = Float(float64(xfrm.Ext.CY) / emuPerPoint)
}

// applyText flattens the text body into one block (paragraphs joined with
// newlines) and aggregates run formatting: font size is the smallest size
// any run declares, and a style flag is true only when every styled run
// agrees. Runs that declare no properties leave the attributes unknown.
func applyText(shape *Shape, body *txBodyXML) {
	var lines []string
	minSize := 0.0
	sizeKnown := false
	styleKnown := false
	bold, italic, underline := true, true, true

	for _, para := range body.Paragraphs {
		var sb strings.Builder
		for _, run := range para.Runs {
			sb.WriteString(run.Text)
			if run.Props == nil {
				continue
			}
			if run.Props.Sz != "" {
				if hundredths, err := strconv.ParseFloat(run.Props.Sz, 64); err == nil {
					pt := hundredths / 100
					if !sizeKnown || pt < minSize {
						minSize = pt
					}
					sizeKnown = true
				}
			}
			styleKnown = true
			bold = bold && xmlBool(run.Props.B)
			italic = italic && xmlBool(run.Props.I)
			underline = underline && run.Props.U != "" && run.Props.U != "none"
		}
		lines = append(lines, sb.String())
	}

	shape.Text = strings.Join(lines, "\n")
	if sizeKnown {
		shape.FontSize = Float(minSize)
	}
	if styleKnown {
		shape.Bold = Bool(bold)
		shape.Italic = Bool(italic)
		shape.Underline = Bool(underline)
	}
}

func xmlBool(v string) bool {
	return v == "1" || v == "true"
}
