package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDOC  = "application/msword"
)

var errNoText = errors.New("no extractable text content")

type FileExtractService struct{}

func NewFileExtractService() *FileExtractService {
	return &FileExtractService{}
}

// ExtractText converts an uploaded document into one text string.
// Dispatch goes by declared MIME type first, then by filename
// extension when the type is absent or generic. Every failure comes
// back as an *ExtractionError carrying the filename.
func (s *FileExtractService) ExtractText(filename, mimeType string, data []byte) (string, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	name := strings.ToLower(filename)

	var text string
	var err error
	switch {
	case strings.HasPrefix(mt, "text/") || strings.HasSuffix(name, ".txt"):
		text, err = s.extractTXT(data)
	case mt == mimePDF || strings.HasSuffix(name, ".pdf"):
		text, err = s.extractPDF(data)
	case mt == mimeDOCX || strings.HasSuffix(name, ".docx"):
		text, err = s.extractDOCX(data)
	case mt == mimeDOC || strings.HasSuffix(name, ".doc"):
		err = errors.New("legacy DOC files are not supported, convert the document to DOCX")
	default:
		err = fmt.Errorf("unsupported file type %q", mimeType)
	}

	if err != nil {
		return "", &ExtractionError{Filename: filename, Err: err}
	}
	return text, nil
}

func (s *FileExtractService) extractTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("file is not valid UTF-8 text")
	}

	text := normalizeExtractedText(string(data))
	if text == "" {
		return "", errNoText
	}
	return text, nil
}

// extractPDF walks the document page by page. A page that fails to
// parse is skipped, not fatal; text runs inside a page are joined with
// single spaces and pages are separated by a blank line.
func (s *FileExtractService) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("fileextract: skipping pdf page %d: %v", pageIndex, err)
			continue
		}

		pageText := strings.Join(strings.Fields(content), " ")
		if pageText == "" {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errNoText
	}
	return text, nil
}

func (s *FileExtractService) extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var documentXML []byte
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", fmt.Errorf("open docx document.xml: %w", err)
			}

			documentXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", fmt.Errorf("read docx document.xml: %w", err)
			}
			break
		}
	}

	if len(documentXML) == 0 {
		return "", errors.New("docx document.xml not found")
	}

	text := normalizeExtractedText(stripDOCXML(documentXML))
	if text == "" {
		return "", errNoText
	}
	return text, nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripDOCXML(src []byte) string {
	s := string(src)

	// DOCX paragraphs and line breaks
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	// Remove all xml tags
	s = xmlTagPattern.ReplaceAllString(s, "")

	// Basic XML entities
	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	s = replacer.Replace(s)

	return s
}

func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
