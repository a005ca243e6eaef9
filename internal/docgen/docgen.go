// Package docgen renders an optimized resume as a Word document. The OOXML
// package is assembled directly: a minimal docx needs only the content types
// manifest, the package relationships and word/document.xml.
package docgen

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/teijeiro7/fitmycv/internal/llm"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// BuildDocx renders the resume content into a .docx payload.
func BuildDocx(content llm.OptimizedContent) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"_rels/.rels":         relsXML,
		"word/document.xml":   buildDocumentXML(content),
	}
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("docx entry %s: %w", name, err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			return nil, fmt.Errorf("docx entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx close: %w", err)
	}
	return buf.Bytes(), nil
}

func buildDocumentXML(content llm.OptimizedContent) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	writeHeading(&b, content.Name, 32)
	writeHeading(&b, content.Title, 26)
	writeParagraph(&b, content.Summary, false)

	if len(content.Experience) > 0 {
		writeHeading(&b, "Experience", 28)
		for _, item := range content.Experience {
			line := item.Title
			if item.Company != "" {
				line += " — " + item.Company
			}
			if item.Date != "" {
				line += " (" + item.Date + ")"
			}
			writeParagraph(&b, line, true)
			for _, achievement := range item.Achievements {
				writeParagraph(&b, "• "+achievement, false)
			}
		}
	}

	if len(content.Skills) > 0 {
		writeHeading(&b, "Skills", 28)
		writeParagraph(&b, strings.Join(content.Skills, ", "), false)
	}

	if len(content.Education) > 0 {
		writeHeading(&b, "Education", 28)
		for _, item := range content.Education {
			line := item.Degree
			if item.School != "" {
				line += " — " + item.School
			}
			if item.Year != "" {
				line += " (" + item.Year + ")"
			}
			writeParagraph(&b, line, false)
		}
	}

	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeHeading(b *strings.Builder, text string, halfPoints int) {
	if strings.TrimSpace(text) == "" {
		return
	}
	fmt.Fprintf(b,
		`<w:p><w:r><w:rPr><w:b/><w:sz w:val="%d"/></w:rPr><w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
		halfPoints, escape(text))
}

func writeParagraph(b *strings.Builder, text string, bold bool) {
	if strings.TrimSpace(text) == "" {
		return
	}
	props := ""
	if bold {
		props = `<w:rPr><w:b/></w:rPr>`
	}
	fmt.Fprintf(b,
		`<w:p><w:r>%s<w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
		props, escape(text))
}

func escape(text string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(text))
	return buf.String()
}
