package cart

import (
	"strings"
	"unicode"
)

// Header offsets, all relative to the start of the ROM image.
const (
	entryPointAddress    = 0x100
	logoAddress          = 0x104
	titleAddress         = 0x134
	titleLength          = 16
	cgbFlagAddress       = 0x143
	newLicenseAddress    = 0x144
	cartridgeTypeAddress = 0x147
	romSizeAddress       = 0x148
	ramSizeAddress       = 0x149
	oldLicenseAddress    = 0x14B
	headerChecksumAddr   = 0x14D
)

// logo is the 48-byte Nintendo boot logo every licensed ROM carries at
// 0x0104-0x0133. A mismatch only matters diagnostically (spec.md §3): real
// hardware refuses to boot, this emulator just logs it.
var logo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Mapper identifies the bank-control scheme the cartridge header selects.
// spec.md §4.2 normatively enumerates exactly these three: MBC3/MBC5 are
// not part of this core's data model.
type Mapper int

const (
	MapperNone Mapper = iota
	MapperType1       // MBC1
	MapperType2       // MBC2
)

func (m Mapper) String() string {
	switch m {
	case MapperNone:
		return "none"
	case MapperType1:
		return "type-1"
	case MapperType2:
		return "type-2"
	default:
		return "unknown"
	}
}

// Header is the subset of cartridge metadata this core inspects.
type Header struct {
	Title          string
	Mapper         Mapper
	RawType        uint8
	ROMSize        uint8
	RAMSize        uint8
	OldLicenseCode uint8
	NewLicenseCode uint16
	CGBOnly        bool
	LogoValid      bool
}

// ParseHeader reads the fixed-offset header fields out of a ROM image.
// rom must be at least 0x150 bytes; callers are expected to have already
// validated the image is non-empty (spec.md §6, cartridge load error).
func ParseHeader(rom []byte) Header {
	h := Header{
		Title:          cleanTitle(rom[titleAddress : titleAddress+titleLength]),
		RawType:        rom[cartridgeTypeAddress],
		ROMSize:        rom[romSizeAddress],
		RAMSize:        rom[ramSizeAddress],
		OldLicenseCode: rom[oldLicenseAddress],
		CGBOnly:        rom[cgbFlagAddress] == 0xC0,
		LogoValid:      matchesLogo(rom),
	}
	h.Mapper = mapperFromType(h.RawType)
	if h.OldLicenseCode == 0x33 {
		h.NewLicenseCode = uint16(rom[newLicenseAddress])<<8 | uint16(rom[newLicenseAddress+1])
	}
	return h
}

func matchesLogo(rom []byte) bool {
	if len(rom) < logoAddress+len(logo) {
		return false
	}
	for i, b := range logo {
		if rom[logoAddress+i] != b {
			return false
		}
	}
	return true
}

// mapperFromType decodes header byte 0x0147 per spec.md §4.2: {0} = none,
// {1,2,3} = type-1 (MBC1), {5,6} = type-2 (MBC2). Any other value collapses
// to none; the bus still serves a flat ROM image rather than refusing to run.
func mapperFromType(raw uint8) Mapper {
	switch raw {
	case 0:
		return MapperNone
	case 1, 2, 3:
		return MapperType1
	case 5, 6:
		return MapperType2
	default:
		return MapperNone
	}
}

// cleanTitle strips the title field down to printable ASCII, matching the
// convention of replacing NUL with space and trimming the result.
func cleanTitle(raw []byte) string {
	runes := make([]rune, 0, len(raw))
	for _, b := range raw {
		r := rune(b)
		switch {
		case r == 0:
			r = ' '
		case !unicode.IsPrint(r):
			r = '?'
		}
		runes = append(runes, r)
	}
	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(untitled)"
	}
	return title
}
