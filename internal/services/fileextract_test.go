package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractText_PlainText(t *testing.T) {
	s := NewFileExtractService()

	got, err := s.ExtractText("notes.txt", "text/plain", []byte("  hello world  \n\n\n\nsecond paragraph\n"))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(got, "hello world") || !strings.Contains(got, "second paragraph") {
		t.Errorf("Expected normalized text, got %q", got)
	}
	if strings.HasPrefix(got, " ") || strings.HasSuffix(got, "\n") {
		t.Errorf("Expected trimmed output, got %q", got)
	}
}

func TestExtractText_ExtensionFallbackForGenericMime(t *testing.T) {
	s := NewFileExtractService()

	got, err := s.ExtractText("notes.txt", "application/octet-stream", []byte("fallback by extension"))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "fallback by extension" {
		t.Errorf("Expected extension dispatch, got %q", got)
	}
}

func TestExtractText_EmptyTextFile(t *testing.T) {
	s := NewFileExtractService()

	_, err := s.ExtractText("empty.txt", "text/plain", []byte("   \n \n"))
	if err == nil {
		t.Fatal("Expected an error for empty content")
	}
	if !errors.Is(err, errNoText) {
		t.Errorf("Expected errNoText, got %v", err)
	}
	if !strings.Contains(err.Error(), "empty.txt") {
		t.Errorf("Expected the filename in the error, got %q", err.Error())
	}
}

func TestExtractText_DOCX(t *testing.T) {
	s := NewFileExtractService()
	data := buildDOCX(t, `<w:document><w:body><w:p><w:r><w:t>First &amp; second</w:t></w:r></w:p><w:p><w:r><w:t>Next paragraph</w:t></w:r></w:p></w:body></w:document>`)

	got, err := s.ExtractText("doc.docx", mimeDOCX, data)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(got, "First & second") {
		t.Errorf("Expected entity-decoded text, got %q", got)
	}
	if !strings.Contains(got, "Next paragraph") {
		t.Errorf("Expected both paragraphs, got %q", got)
	}
}

func TestExtractText_DOCXWithoutDocumentXML(t *testing.T) {
	s := NewFileExtractService()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("word/styles.xml")
	f.Write([]byte("<w:styles/>"))
	w.Close()

	_, err := s.ExtractText("odd.docx", mimeDOCX, buf.Bytes())
	if err == nil || !strings.Contains(err.Error(), "document.xml") {
		t.Errorf("Expected a document.xml error, got %v", err)
	}
}

func TestExtractText_EmptyDOCX(t *testing.T) {
	s := NewFileExtractService()
	data := buildDOCX(t, `<w:document><w:body><w:p></w:p></w:body></w:document>`)

	_, err := s.ExtractText("blank.docx", mimeDOCX, data)
	if !errors.Is(err, errNoText) {
		t.Errorf("Expected errNoText, got %v", err)
	}
}

func TestExtractText_LegacyDOCRejected(t *testing.T) {
	s := NewFileExtractService()

	_, err := s.ExtractText("old.doc", mimeDOC, []byte{0xd0, 0xcf})
	if err == nil {
		t.Fatal("Expected legacy DOC to be rejected")
	}
	if !strings.Contains(err.Error(), "DOCX") {
		t.Errorf("Expected a convert-to-DOCX hint, got %q", err.Error())
	}
}

func TestExtractText_UnsupportedTypeNamesMime(t *testing.T) {
	s := NewFileExtractService()

	_, err := s.ExtractText("img.png", "image/png", []byte{0x89, 0x50})
	if err == nil {
		t.Fatal("Expected an unsupported-type error")
	}
	if !strings.Contains(err.Error(), "image/png") {
		t.Errorf("Expected the offending MIME type in the error, got %q", err.Error())
	}

	var ee *ExtractionError
	if !errors.As(err, &ee) || ee.Filename != "img.png" {
		t.Errorf("Expected *ExtractionError with filename, got %v", err)
	}
}

func TestExtractText_CorruptPDF(t *testing.T) {
	s := NewFileExtractService()

	_, err := s.ExtractText("broken.pdf", mimePDF, []byte("definitely not a pdf"))
	if err == nil {
		t.Fatal("Expected an error for a corrupt PDF")
	}
	if !strings.Contains(err.Error(), "broken.pdf") {
		t.Errorf("Expected the filename in the error, got %q", err.Error())
	}
}

// buildThreePagePDF assembles a minimal PDF whose second page declares a
// FlateDecode content stream that carries undecodable bytes.
func buildThreePagePDF(t *testing.T) []byte {
	t.Helper()

	streams := [][]byte{
		[]byte("BT /F1 12 Tf 72 720 Td (AlphaPage) Tj ET"),
		[]byte("this is not a flate stream"),
		[]byte("BT /F1 12 Tf 72 720 Td (GammaPage) Tj ET"),
	}

	var buf bytes.Buffer
	offsets := make([]int, 10)

	object := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n")
	object(1, "<< /Type /Catalog /Pages 2 0 R >>")
	object(2, "<< /Type /Pages /Kids [3 0 R 4 0 R 5 0 R] /Count 3 >>")
	for i := 0; i < 3; i++ {
		object(3+i, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 9 0 R >> >> >>",
			6+i))
	}
	for i, data := range streams {
		filter := ""
		if i == 1 {
			filter = " /Filter /FlateDecode"
		}
		offsets[6+i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Length %d%s >>\nstream\n", 6+i, len(data), filter)
		buf.Write(data)
		buf.WriteString("\nendstream\nendobj\n")
	}
	object(9, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xrefOffset := buf.Len()
	buf.WriteString("xref\n0 10\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 9; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 10 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	return buf.Bytes()
}

func TestExtractText_PDFSkipsUnreadablePage(t *testing.T) {
	s := NewFileExtractService()

	got, err := s.ExtractText("three.pdf", mimePDF, buildThreePagePDF(t))
	if err != nil {
		t.Fatalf("Expected the readable pages despite a broken one, got error: %v", err)
	}
	if got != "AlphaPage\n\nGammaPage" {
		t.Errorf("Expected text from pages 1 and 3 only, got %q", got)
	}
}
