package video

import "coreboy/internal/ioreg"

// objectAttributes is one OAM entry (spec.md §3's "40 entries of y, x,
// tile index, flag byte"). The flags byte is a packed bitfield; per
// spec.md §9's "packed bitfield" note, named getters are used instead of
// a native bitfield type so the layout stays explicit and portable.
type objectAttributes struct {
	Y, X      int
	TileIndex uint8
	Flags     uint8
	OAMIndex  int
}

func (o objectAttributes) paletteNumber() int { return int(o.Flags>>4) & 1 }
func (o objectAttributes) xFlip() bool        { return o.Flags&0x20 != 0 }
func (o objectAttributes) yFlip() bool        { return o.Flags&0x40 != 0 }
func (o objectAttributes) behindBG() bool     { return o.Flags&0x80 != 0 }

type busReader interface {
	Read8(addr uint16) uint8
}

// scanOAM selects up to 10 objects overlapping line, per spec.md §4.6's
// OAM-scan rule, applied to the screen-space y (stored_y − 16): y ≤ line
// and y+height > line. Entries are
// visited in OAM order (index 0..39), so the returned order already
// matches the priority rule used by spritePriorityBuffer.
func scanOAM(b busReader, line, objHeight int) []objectAttributes {
	var selected []objectAttributes
	for i := 0; i < 40; i++ {
		base := ioreg.OAMStart + uint16(i*4)
		y := int(b.Read8(base)) - 16
		if y > line || y+objHeight <= line {
			continue
		}
		selected = append(selected, objectAttributes{
			Y:         y,
			X:         int(b.Read8(base+1)) - 8,
			TileIndex: b.Read8(base + 2),
			Flags:     b.Read8(base + 3),
			OAMIndex:  i,
		})
		if len(selected) == 10 {
			break
		}
	}
	return selected
}
