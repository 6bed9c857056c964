package loot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source provides the raw lines of a loot table
type Source interface {
	Lines() ([]string, error)
}

// Lines is an in-memory source
type Lines []string

// Lines returns the lines unchanged
func (l Lines) Lines() ([]string, error) {
	return l, nil
}

// ReaderSource reads lines from an io.Reader. Name identifies the reader in errors.
type ReaderSource struct {
	R    io.Reader
	Name string
}

// Lines scans every line of the reader
func (s ReaderSource) Lines() ([]string, error) {
	lines, err := scanLines(s.R)
	if err != nil {
		return nil, &SourceUnavailableError{Source: s.Name, Err: err}
	}
	return lines, nil
}

// FileSource reads lines from a file on disk, decoding it from Encoding
// (UTF-8 when empty).
type FileSource struct {
	Path     string
	Encoding string
}

// Lines opens, decodes and scans the file
func (s FileSource) Lines() ([]string, error) {
	enc, err := LookupEncoding(s.Encoding)
	if err != nil {
		return nil, &SourceUnavailableError{Source: s.Path, Err: err}
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &SourceUnavailableError{Source: s.Path, Err: err}
	}
	defer f.Close()

	lines, err := scanLines(transform.NewReader(f, enc.NewDecoder()))
	if err != nil {
		return nil, &SourceUnavailableError{Source: s.Path, Err: err}
	}
	return lines, nil
}

// LookupEncoding maps a charset name to its decoder. UTF-8 input has any
// leading byte order mark removed.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "big5", "ms950":
		return traditionalchinese.Big5, nil
	case "gbk", "cp936":
		return simplifiedchinese.GBK, nil
	case "shift_jis", "sjis":
		return japanese.ShiftJIS, nil
	case "euc-kr":
		return korean.EUCKR, nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

func scanLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
