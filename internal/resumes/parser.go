// Package resumes parses uploaded resume files into structured content.
// PDF files are read through their text layer; DOCX files are walked
// paragraph by paragraph. Scanned image PDFs are rejected.
package resumes

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"

	"github.com/jonathan/laudatorai/internal/types"
)

// SupportedExtensions lists the resume file formats the parser accepts.
var SupportedExtensions = []string{".pdf", ".docx", ".doc"}

// Parser converts resume file bytes into a ParsedResume.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts structured content from a resume file. The format is
// chosen by filename extension.
func (p *Parser) Parse(filename string, data []byte) (*types.ParsedResume, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDFText(data)
	case ".docx", ".doc":
		text, err = extractDOCXText(data)
	default:
		return nil, &ParseError{Filename: filename, Message: fmt.Sprintf("unsupported file format %q", ext)}
	}
	if err != nil {
		return nil, &ParseError{Filename: filename, Message: "failed to read file", Cause: err}
	}

	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Filename: filename, Message: "no text layer found"}
	}

	return ExtractSections(text), nil
}

// extractPDFText concatenates the text layer of every page.
func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	text, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return string(text), nil
}

// extractDOCXText walks the document body and joins paragraph and table
// text with newlines.
func extractDOCXText(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph, *docx.Table:
			sb.WriteString(fmt.Sprint(it))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
