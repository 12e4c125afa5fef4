package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// ContentType is the media type of the documents built here.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const wmlNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// SplitParagraphs splits text on blank-line boundaries, trimming each piece and
// dropping the empty ones. "A\n\nB\n\n\nC" yields A, B, C.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, piece := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// BuildDocument packages text as a .docx: a centered title followed by one
// paragraph per blank-line separated piece. Empty text yields a title-only document.
func BuildDocument(text string) ([]byte, error) {
	return buildDocument(SplitParagraphs(text), time.Now().UTC())
}

func buildDocument(paragraphs []string, created time.Time) ([]byte, error) {
	var body bytes.Buffer
	if err := writeDocumentXML(&body, paragraphs); err != nil {
		return nil, fmt.Errorf("document.xml: %w", err)
	}
	styles, err := stylesXML()
	if err != nil {
		return nil, fmt.Errorf("styles.xml: %w", err)
	}

	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"word/document.xml", body.Bytes()},
		{"word/styles.xml", styles},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"docProps/core.xml", []byte(coreXML(created))},
		{"docProps/app.xml", []byte(appXML)},
	}

	var output bytes.Buffer
	writer := zip.NewWriter(&output)
	for _, part := range parts {
		if err := writeZipFile(writer, part.name, part.content, created); err != nil {
			_ = writer.Close()
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func writeZipFile(writer *zip.Writer, name string, content []byte, modified time.Time) error {
	dst, err := writer.CreateHeader(&zip.FileHeader{
		Name:     normalizeZipName(name),
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return err
	}
	_, err = dst.Write(content)
	return err
}

func normalizeZipName(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}

func writeDocumentXML(buf *bytes.Buffer, paragraphs []string) error {
	buf.WriteString(xml.Header)
	buf.WriteString(`<w:document xmlns:w="` + wmlNamespace + `"><w:body>`)
	buf.WriteString(`<w:p><w:pPr><w:pStyle w:val="Title"/><w:jc w:val="center"/></w:pPr><w:r>`)
	if err := writeText(buf, TitleText); err != nil {
		return err
	}
	buf.WriteString(`</w:r></w:p>`)

	for _, p := range paragraphs {
		buf.WriteString(`<w:p><w:pPr><w:pStyle w:val="Normal"/></w:pPr><w:r>`)
		for i, line := range strings.Split(p, "\n") {
			if i > 0 {
				buf.WriteString(`<w:br/>`)
			}
			if err := writeText(buf, line); err != nil {
				return err
			}
		}
		buf.WriteString(`</w:r></w:p>`)
	}

	buf.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`)
	return nil
}

func writeText(buf *bytes.Buffer, text string) error {
	buf.WriteString(`<w:t xml:space="preserve">`)
	if err := xml.EscapeText(buf, []byte(stripInvalidXMLChars(text))); err != nil {
		return err
	}
	buf.WriteString(`</w:t>`)
	return nil
}

// stripInvalidXMLChars drops runes XML 1.0 cannot carry; OCR output sometimes
// contains form feeds and other control characters.
func stripInvalidXMLChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return -1
		default:
			return r
		}
	}, s)
}

func stylesXML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<w:styles xmlns:w="` + wmlNamespace + `">`)
	buf.WriteString(`<w:docDefaults><w:rPrDefault><w:rPr>`)
	buf.WriteString(runProperties(StyleMap["Normal"]))
	buf.WriteString(`</w:rPr></w:rPrDefault></w:docDefaults>`)

	for _, id := range []string{"Normal", "Title"} {
		style := StyleMap[id]
		buf.WriteString(`<w:style w:type="paragraph"`)
		if id == "Normal" {
			buf.WriteString(` w:default="1"`)
		}
		fmt.Fprintf(&buf, ` w:styleId="%s"><w:name w:val="%s"/>`, id, strings.ToLower(id))
		if id != "Normal" {
			buf.WriteString(`<w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>`)
		} else {
			buf.WriteString(`<w:qFormat/>`)
		}
		buf.WriteString(`<w:rPr>` + runProperties(style) + `</w:rPr></w:style>`)
	}
	buf.WriteString(`</w:styles>`)
	return buf.Bytes(), nil
}

func runProperties(style RunStyle) string {
	var b strings.Builder
	if style.Font != "" {
		fmt.Fprintf(&b, `<w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:eastAsia="%[1]s" w:cs="%[1]s"/>`, style.Font)
	}
	if style.Bold {
		b.WriteString(`<w:b/>`)
	}
	if style.Size > 0 {
		fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, style.Size, style.Size)
	}
	return b.String()
}

func coreXML(created time.Time) string {
	stamp := created.UTC().Format(time.RFC3339)
	return xml.Header +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + TitleText + `</dc:title>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:modified>` +
		`</cp:coreProperties>`
}

const contentTypesXML = xml.Header +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
	`</Types>`

const packageRelsXML = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

const appXML = xml.Header +
	`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
	`<Application>resume-converter</Application>` +
	`</Properties>`
