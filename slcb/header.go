package slcb

// Magic opens every save container.
const Magic = "slcb"

// HeaderSize is the fixed length of Header on disk.
const HeaderSize = 12

// Header is the fixed prefix of a save container. Both sizes are little-endian.
type Header struct {
	Magic            [4]uint8
	DecompressedSize uint32
	CompressedSize   uint32
}
