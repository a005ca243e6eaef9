package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromBytesDOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Ana García</w:t></w:r></w:p>
    <w:p><w:r><w:t>Backend Engineer</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := buildDocx(t, doc)

	text, err := TextFromBytes(context.Background(), data, MimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if !strings.Contains(text, "Ana García") || !strings.Contains(text, "Backend Engineer") {
		t.Fatalf("missing content: %q", text)
	}
}

func TestTextFromBytesSniffedZipResolvesToDocx(t *testing.T) {
	doc := `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, doc)

	// http.DetectContentType reports docx uploads as application/zip.
	text, err := TextFromBytes(context.Background(), data, "application/zip", "resume.docx")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if !strings.Contains(text, "hello") {
		t.Fatalf("missing content: %q", text)
	}
}

func TestTextFromBytesUnsupported(t *testing.T) {
	_, err := TextFromBytes(context.Background(), []byte("plain"), "text/plain", "notes.txt")
	if err == nil {
		t.Fatal("expected error for unsupported mime type")
	}
}

func TestNormalizeMimeType(t *testing.T) {
	if got := NormalizeMimeType("Application/PDF; charset=binary", "a.pdf", nil); got != MimePDF {
		t.Fatalf("pdf: got %q", got)
	}
	if got := NormalizeMimeType("application/zip", "a.docx", nil); got != MimeDOCX {
		t.Fatalf("zip+docx ext: got %q", got)
	}
	if got := NormalizeMimeType("application/zip", "a.bin", nil); got != "application/zip" {
		t.Fatalf("zip fallback: got %q", got)
	}
}
