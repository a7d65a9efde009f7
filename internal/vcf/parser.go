// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// UnknownPatient is reported when no #CHROM header line names a sample.
const UnknownPatient = "UNKNOWN_PATIENT"

// minColumns is the number of columns up to and including INFO.
const minColumns = 8

// maxLineSize bounds a single line read by ReadLines.
const maxLineSize = 16 * 1024 * 1024

// File is an opened VCF input. Plain and gzipped files are both supported.
type File struct {
	io.Reader
	file       *os.File
	gzipReader *gzip.Reader
}

// Open opens a VCF file for reading. Gzipped files (.vcf.gz) are detected by
// their magic bytes. A path of "-" reads from stdin.
func Open(path string) (*File, error) {
	if path == "-" {
		return &File{Reader: os.Stdin}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	f := &File{file: file}

	br := bufio.NewReader(file)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read vcf header: %w", err)
	}

	// Check for gzip magic number (0x1f, 0x8b)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		f.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		f.Reader = f.gzipReader
	} else {
		f.Reader = br
	}

	return f, nil
}

// Close closes the underlying file.
func (f *File) Close() error {
	if f.gzipReader != nil {
		f.gzipReader.Close()
	}
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// ReadLines reads all lines from r. Trailing "\r" is stripped so files with
// Windows line endings parse the same way.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vcf lines: %w", err)
	}
	return lines, nil
}

// ParseLines turns VCF lines into variants, one per data line.
// Header lines are skipped. Lines with fewer than 8 whitespace-delimited
// columns are dropped without error.
func ParseLines(lines []string) []Variant {
	var variants []Variant
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		if v, ok := parseLine(line); ok {
			variants = append(variants, v)
		}
	}
	return variants
}

// parseLine parses a single data line. It returns false for malformed lines.
func parseLine(line string) (Variant, bool) {
	fields := strings.Fields(line)
	if len(fields) < minColumns {
		return Variant{}, false
	}

	info := parseInfo(fields[7])
	return Variant{
		Chrom: fields[0],
		Pos:   fields[1],
		ID:    fields[2],
		Gene:  info[InfoGene],
		Star:  info[InfoStar],
		Info:  info,
	}, true
}

// parseInfo parses the INFO field into a map.
// Entries without "=" (flags) are ignored.
func parseInfo(info string) map[string]string {
	result := make(map[string]string)
	for _, kv := range strings.Split(info, ";") {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		result[key] = value
	}
	return result
}

// PatientID returns the sample name from the first #CHROM header line,
// i.e. its last whitespace-delimited column.
// Returns UnknownPatient when there is no such line.
func PatientID(lines []string) string {
	for _, line := range lines {
		if !strings.HasPrefix(line, "#CHROM") {
			continue
		}
		fields := strings.Fields(line)
		return fields[len(fields)-1]
	}
	return UnknownPatient
}
