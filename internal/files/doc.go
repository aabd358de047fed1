// Package files loads tabular input into frames and writes cleaned frames
// back out. CSV is the primary interchange format; XLSX workbooks are
// supported on the read side (first sheet, first row as header).
package files
