package main

import (
	"bytes"
	"hash/crc32"
)

// buildTestXZ assembles a minimal single-block, single-filter (LZMA2) XZ
// stream around lzma2Data, mirroring xzframe/strip_test.go's buildXZ.
// decoded is the uncompressed form of lzma2Data, which the block check
// field is computed over. It is duplicated here (rather than imported,
// since it is unexported test scaffolding in another package) to exercise
// the -xz flag path end-to-end without a real .xz fixture file.
func buildTestXZ(lzma2Data, decoded []byte, checkType byte) []byte {
	var buf bytes.Buffer

	flags := []byte{0x00, checkType}
	buf.Write([]byte{0xFD, '7', 'z', 'X', 'Z', 0x00})
	buf.Write(flags)
	writeLE32(&buf, crc32.ChecksumIEEE(flags))

	const headerLen = 8
	header := make([]byte, 0, headerLen)
	header = append(header, byte(headerLen/4))
	header = append(header, 0x00)
	header = append(header, 0x21) // LZMA2 filter ID
	header = append(header, 0x01) // properties size
	header = append(header, 0x00) // dictionary-size property
	for len(header) < headerLen {
		header = append(header, 0x00)
	}
	buf.Write(header)
	writeLE32(&buf, crc32.ChecksumIEEE(header))

	buf.Write(lzma2Data)
	for buf.Len()%4 != 0 {
		buf.WriteByte(0x00)
	}
	if checkType == 0x01 {
		writeLE32(&buf, crc32.ChecksumIEEE(decoded))
	}

	indexStart := buf.Len()
	buf.WriteByte(0x00)
	buf.WriteByte(0x01)
	buf.WriteByte(0x04)
	buf.WriteByte(0x04)
	for buf.Len()%4 != 0 {
		buf.WriteByte(0x00)
	}
	indexLen := buf.Len() - indexStart
	writeLE32(&buf, crc32.ChecksumIEEE(buf.Bytes()[indexStart:]))

	backwardSize := uint32(indexLen / 4)
	footerTail := append(le32(backwardSize), flags...)
	writeLE32(&buf, crc32.ChecksumIEEE(footerTail))
	buf.Write(footerTail)
	buf.Write([]byte{'Y', 'Z'})

	return buf.Bytes()
}

func writeLE32(buf *bytes.Buffer, v uint32) {
	buf.Write(le32(v))
}

func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
