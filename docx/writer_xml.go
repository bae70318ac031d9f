package docx

import "encoding/xml"

// Marshal-side mirrors of the WordprocessingML and DrawingML elements the
// writer emits. encoding/xml writes prefixed tag names verbatim, so the
// prefixes used here must match the namespace declarations on w:document.

type wDocument struct {
	XMLName  xml.Name `xml:"w:document"`
	XmlnsW   string   `xml:"xmlns:w,attr"`
	XmlnsR   string   `xml:"xmlns:r,attr"`
	XmlnsWP  string   `xml:"xmlns:wp,attr"`
	XmlnsA   string   `xml:"xmlns:a,attr"`
	XmlnsPic string   `xml:"xmlns:pic,attr"`
	Body     wBody    `xml:"w:body"`
}

type wBody struct {
	Paragraphs []wParagraph `xml:"w:p"`
	SectPr     *wSectPr     `xml:"w:sectPr,omitempty"`
}

type wParagraph struct {
	Props *wParagraphProps `xml:"w:pPr,omitempty"`
	Runs  []wRun           `xml:"w:r"`
}

type wParagraphProps struct {
	Spacing *wSpacing `xml:"w:spacing,omitempty"`
	Jc      *wVal     `xml:"w:jc,omitempty"`
	SectPr  *wSectPr  `xml:"w:sectPr,omitempty"`
}

type wSpacing struct {
	Before int `xml:"w:before,attr"`
	After  int `xml:"w:after,attr"`
}

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wRun struct {
	Break   *wBreak   `xml:"w:br,omitempty"`
	Drawing *wDrawing `xml:"w:drawing,omitempty"`
}

type wBreak struct {
	Type string `xml:"w:type,attr"`
}

// Element order inside w:sectPr is fixed by the schema: type, pgSz, pgMar,
// then vAlign.
type wSectPr struct {
	Type   *wVal  `xml:"w:type,omitempty"`
	PgSz   wPgSz  `xml:"w:pgSz"`
	PgMar  wPgMar `xml:"w:pgMar"`
	VAlign *wVal  `xml:"w:vAlign,omitempty"`
}

type wPgSz struct {
	W      int    `xml:"w:w,attr"`
	H      int    `xml:"w:h,attr"`
	Orient string `xml:"w:orient,attr,omitempty"`
}

type wPgMar struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

type wDrawing struct {
	Inline wpInline `xml:"wp:inline"`
}

type wpInline struct {
	DistT        int                 `xml:"distT,attr"`
	DistB        int                 `xml:"distB,attr"`
	DistL        int                 `xml:"distL,attr"`
	DistR        int                 `xml:"distR,attr"`
	Extent       wpExtent            `xml:"wp:extent"`
	EffectExtent wpEffectExtent      `xml:"wp:effectExtent"`
	DocPr        wpDocPr             `xml:"wp:docPr"`
	FramePr      wpCNvGraphicFramePr `xml:"wp:cNvGraphicFramePr"`
	Graphic      aGraphic            `xml:"a:graphic"`
}

type wpExtent struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type wpEffectExtent struct {
	L int `xml:"l,attr"`
	T int `xml:"t,attr"`
	R int `xml:"r,attr"`
	B int `xml:"b,attr"`
}

type wpDocPr struct {
	ID    int    `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr,omitempty"`
}

type wpCNvGraphicFramePr struct {
	Locks aGraphicFrameLocks `xml:"a:graphicFrameLocks"`
}

type aGraphicFrameLocks struct {
	NoChangeAspect int `xml:"noChangeAspect,attr"`
}

type aGraphic struct {
	Data aGraphicData `xml:"a:graphicData"`
}

type aGraphicData struct {
	URI string `xml:"uri,attr"`
	Pic picPic `xml:"pic:pic"`
}

type picPic struct {
	NvPicPr  picNvPicPr  `xml:"pic:nvPicPr"`
	BlipFill picBlipFill `xml:"pic:blipFill"`
	SpPr     picSpPr     `xml:"pic:spPr"`
}

type picNvPicPr struct {
	CNvPr    picCNvPr `xml:"pic:cNvPr"`
	CNvPicPr struct{} `xml:"pic:cNvPicPr"`
}

type picCNvPr struct {
	ID    int    `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr,omitempty"`
}

type picBlipFill struct {
	Blip    aBlip    `xml:"a:blip"`
	Stretch aStretch `xml:"a:stretch"`
}

type aBlip struct {
	Embed string `xml:"r:embed,attr"`
}

type aStretch struct {
	FillRect struct{} `xml:"a:fillRect"`
}

type picSpPr struct {
	Xfrm     aXfrm     `xml:"a:xfrm"`
	PrstGeom aPrstGeom `xml:"a:prstGeom"`
}

type aXfrm struct {
	Off aPoint `xml:"a:off"`
	Ext aSize  `xml:"a:ext"`
}

type aPoint struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type aSize struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type aPrstGeom struct {
	Prst  string   `xml:"prst,attr"`
	AvLst struct{} `xml:"a:avLst"`
}

// Package-level parts.

type ctTypes struct {
	XMLName   xml.Name     `xml:"Types"`
	Xmlns     string       `xml:"xmlns,attr"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type relsXML struct {
	XMLName       xml.Name `xml:"Relationships"`
	Xmlns         string   `xml:"xmlns,attr"`
	Relationships []relXML `xml:"Relationship"`
}

type relXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type cpCoreProperties struct {
	XMLName     xml.Name   `xml:"cp:coreProperties"`
	XmlnsCP     string     `xml:"xmlns:cp,attr"`
	XmlnsDC     string     `xml:"xmlns:dc,attr"`
	XmlnsDCTerm string     `xml:"xmlns:dcterms,attr"`
	XmlnsXSI    string     `xml:"xmlns:xsi,attr"`
	Title       string     `xml:"dc:title,omitempty"`
	Subject     string     `xml:"dc:subject,omitempty"`
	Creator     string     `xml:"dc:creator,omitempty"`
	Keywords    string     `xml:"cp:keywords,omitempty"`
	Created     *dcW3CDate `xml:"dcterms:created,omitempty"`
	Modified    *dcW3CDate `xml:"dcterms:modified,omitempty"`
}

type dcW3CDate struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

type appProperties struct {
	XMLName     xml.Name `xml:"Properties"`
	Xmlns       string   `xml:"xmlns,attr"`
	Application string   `xml:"Application"`
	Pages       int      `xml:"Pages"`
}
