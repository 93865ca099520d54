package oggvorbis

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPageHeader(t *testing.T) {
	header := []byte{
		'O', 'g', 'g', 'S', // capture pattern
		0,                      // version
		0,                      // flags
		0, 0, 0, 0, 0, 0, 0, 0, // granule position (0)
		1, 0, 0, 0, // serial number
		0, 0, 0, 0, // sequence number
		0, 0, 0, 0, // checksum
		1,   // 1 segment
		255, // segment table: 255 bytes
	}

	hdr, err := readPageHeader(bytes.NewReader(header))
	require.NoError(t, err)
	assert.Equal(t, int64(0), hdr.GranulePos)
	require.Len(t, hdr.SegmentTable, 1)
	assert.Equal(t, byte(255), hdr.SegmentTable[0])
}

func TestReadPageHeaderInvalidMagic(t *testing.T) {
	header := make([]byte, 27)
	copy(header, []byte("BadS"))
	_, err := readPageHeader(bytes.NewReader(header))
	assert.Error(t, err)
}

func TestReadPageHeaderGranulePosition(t *testing.T) {
	header := []byte{
		'O', 'g', 'g', 'S',
		0,
		0,
		0x80, 0xBB, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // 48000 little-endian
		1, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, // 0 segments
	}
	hdr, err := readPageHeader(bytes.NewReader(header))
	require.NoError(t, err)
	assert.Equal(t, int64(48000), hdr.GranulePos)
}

func TestReadPageBodySplitsOnSub255Segment(t *testing.T) {
	hdr := &pageHeader{SegmentTable: []byte{3, 2}}
	body := bytes.NewReader([]byte{'a', 'b', 'c', 'd', 'e'})

	packets, err := readPageBody(body, hdr)
	require.NoError(t, err)
	require.Len(t, packets, 2)
	assert.Equal(t, []byte("abc"), packets[0])
	assert.Equal(t, []byte("de"), packets[1])
}

func TestReadPageBodyContinuesPacketAcross255Segment(t *testing.T) {
	segTable := make([]byte, 0, 2)
	segTable = append(segTable, 255, 3)
	hdr := &pageHeader{SegmentTable: segTable}
	payload := append(bytes.Repeat([]byte{'x'}, 255), []byte("abc")...)

	packets, err := readPageBody(bytes.NewReader(payload), hdr)
	require.NoError(t, err)
	require.Len(t, packets, 1)
	assert.Len(t, packets[0], 258)
}

func TestNewRejectsNonVorbisIdentificationPacket(t *testing.T) {
	hdr := []byte{
		'O', 'g', 'g', 'S', 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		1, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		1, 10,
	}
	var buf bytes.Buffer
	buf.Write(hdr)
	buf.Write(make([]byte, 10))

	_, err := New(&buf)
	assert.Error(t, err)
}
