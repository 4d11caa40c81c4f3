// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package favicons

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// icoDirEntry is one ICONDIRENTRY of the ICO container.
type icoDirEntry struct {
	Width, Height uint8
	Colors        uint8
	Reserved      uint8
	Planes        uint16
	BitCount      uint16
	Size          uint32
	Offset        uint32
}

// encodeICO packs PNG-encoded images into an ICO file. Sizes of 256 are
// stored as 0, as the format requires.
func encodeICO(sizes []int, pngs [][]byte) ([]byte, error) {
	if len(sizes) != len(pngs) {
		return nil, fmt.Errorf("ico: %d sizes for %d images", len(sizes), len(pngs))
	}

	var buf bytes.Buffer
	header := [3]uint16{0, 1, uint16(len(pngs))}
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return nil, err
	}

	offset := uint32(6 + 16*len(pngs))
	for i, data := range pngs {
		edge := sizes[i]
		if edge < 1 || edge > 256 {
			return nil, fmt.Errorf("ico: size %d out of range", edge)
		}
		entry := icoDirEntry{
			Width:    uint8(edge % 256),
			Height:   uint8(edge % 256),
			Planes:   1,
			BitCount: 32,
			Size:     uint32(len(data)),
			Offset:   offset,
		}
		if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
			return nil, err
		}
		offset += uint32(len(data))
	}
	for _, data := range pngs {
		buf.Write(data)
	}
	return buf.Bytes(), nil
}
