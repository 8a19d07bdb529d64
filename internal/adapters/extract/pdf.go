package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/okian/viva/internal/domain/model"
	"github.com/okian/viva/pkg/logger"
)

var pageNumberRE = regexp.MustCompile(`(\d+)`)

// extractPDF pulls the page content streams out of the PDF and decodes
// their text-showing operators into plain text, pages in order.
func (e *DocumentExtractor) extractPDF(ctx context.Context, name string, data []byte) (model.Document, error) {
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return model.Document{}, fmt.Errorf("%w: %v", ErrCorruptPDF, err)
	}
	if pages == 0 {
		return model.Document{}, ErrEmptyDocument
	}

	workDir, err := os.MkdirTemp("", "viva-extract-*")
	if err != nil {
		return model.Document{}, fmt.Errorf("create extraction workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	inFile := filepath.Join(workDir, "upload.pdf")
	if err := os.WriteFile(inFile, data, 0o600); err != nil {
		return model.Document{}, fmt.Errorf("stage upload: %w", err)
	}

	outDir := filepath.Join(workDir, "content")
	if err := os.MkdirAll(outDir, 0o700); err != nil {
		return model.Document{}, fmt.Errorf("create extraction workspace: %w", err)
	}
	if err := api.ExtractContentFile(inFile, outDir, nil, nil); err != nil {
		return model.Document{}, fmt.Errorf("%w: %v", ErrCorruptPDF, err)
	}

	text, err := e.collectPageText(outDir)
	if err != nil {
		return model.Document{}, err
	}
	if strings.TrimSpace(text) == "" {
		e.log.Warn(ctx, "pdf carried no extractable text",
			logger.String("name", name),
			logger.Int("pages", pages))
		return model.Document{}, ErrEmptyDocument
	}

	return model.Document{Name: name, Text: text, Pages: pages}, nil
}

// collectPageText reads the extracted per-page content files in page
// order and decodes each one.
func (e *DocumentExtractor) collectPageText(outDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(outDir, "*.txt"))
	if err != nil {
		return "", fmt.Errorf("list extracted content: %w", err)
	}
	sort.Slice(matches, func(i, j int) bool {
		return pageNumber(matches[i]) < pageNumber(matches[j])
	})

	var b strings.Builder
	for _, path := range matches {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read extracted content: %w", err)
		}
		page := decodePageContent(string(content))
		if strings.TrimSpace(page) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(page)
	}
	return b.String(), nil
}

func pageNumber(path string) int {
	m := pageNumberRE.FindString(filepath.Base(path))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// decodePageContent walks a decompressed content stream and collects
// the arguments of the text-showing operators (Tj, TJ, ' and "). Text
// positioning operators that start a new line (Td, TD, T*) become
// newlines so the marker heuristics downstream still see line starts.
func decodePageContent(content string) string {
	var out strings.Builder
	var pending []string

	flush := func() {
		for _, s := range pending {
			out.WriteString(s)
		}
		pending = pending[:0]
	}
	newline := func() {
		if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
			out.WriteByte('\n')
		}
	}

	for i := 0; i < len(content); {
		switch c := content[i]; {
		case c == '(':
			s, next := readLiteralString(content, i)
			pending = append(pending, s)
			i = next
		case c == '<' && i+1 < len(content) && content[i+1] != '<':
			s, next := readHexString(content, i)
			pending = append(pending, s)
			i = next
		case c == '%':
			for i < len(content) && content[i] != '\n' {
				i++
			}
		case c == '\'' || c == '"':
			newline()
			flush()
			i++
		case isRegular(c):
			start := i
			for i < len(content) && isRegular(content[i]) {
				i++
			}
			switch content[start:i] {
			case "Tj", "TJ":
				flush()
			case "Td", "TD", "T*", "ET":
				pending = pending[:0]
				newline()
			}
		default:
			i++
		}
	}
	return strings.TrimSpace(out.String())
}

func isRegular(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', '\x00', '(', ')', '<', '>', '[', ']', '{', '}', '/', '%', '\'', '"':
		return false
	}
	return true
}

// readLiteralString decodes a parenthesized PDF string starting at
// content[start] == '('. Returns the decoded text and the index just
// past the closing parenthesis.
func readLiteralString(content string, start int) (string, int) {
	var b strings.Builder
	depth := 1
	i := start + 1
	for i < len(content) && depth > 0 {
		c := content[i]
		switch c {
		case '\\':
			if i+1 >= len(content) {
				i++
				continue
			}
			next := content[i+1]
			switch next {
			case 'n':
				b.WriteByte('\n')
				i += 2
			case 'r':
				b.WriteByte('\r')
				i += 2
			case 't':
				b.WriteByte('\t')
				i += 2
			case 'b', 'f':
				i += 2
			case '(', ')', '\\':
				b.WriteByte(next)
				i += 2
			case '\n':
				i += 2
			default:
				if next >= '0' && next <= '7' {
					code, consumed := readOctal(content, i+1)
					b.WriteByte(code)
					i += 1 + consumed
				} else {
					b.WriteByte(next)
					i += 2
				}
			}
		case '(':
			depth++
			b.WriteByte(c)
			i++
		case ')':
			depth--
			if depth > 0 {
				b.WriteByte(c)
			}
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), i
}

func readOctal(content string, start int) (byte, int) {
	var value int
	consumed := 0
	for consumed < 3 && start+consumed < len(content) {
		c := content[start+consumed]
		if c < '0' || c > '7' {
			break
		}
		value = value*8 + int(c-'0')
		consumed++
	}
	return byte(value), consumed
}

// readHexString decodes an angle-bracketed hex string starting at
// content[start] == '<'. A missing trailing digit is padded with zero
// per the PDF string rules.
func readHexString(content string, start int) (string, int) {
	var digits []byte
	i := start + 1
	for i < len(content) && content[i] != '>' {
		c := content[i]
		if isHexDigit(c) {
			digits = append(digits, c)
		}
		i++
	}
	if i < len(content) {
		i++
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	var b strings.Builder
	for j := 0; j+1 < len(digits); j += 2 {
		hi := hexValue(digits[j])
		lo := hexValue(digits[j+1])
		b.WriteByte(hi<<4 | lo)
	}
	return b.String(), i
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
