package video

// spritePriorityBuffer resolves per-pixel sprite ownership for DMG
// drawing priority (https://gbdev.io/pandocs/OAM.html#drawing-priority):
// lower X wins, ties broken by lower OAM index. Rather than sorting
// sprites, each sprite claims the pixels it covers during a selection
// pass; the render pass only draws pixels a sprite actually won.
type spritePriorityBuffer struct {
	ownerIndex [FramebufferWidth]int
	ownerX     [FramebufferWidth]int
}

func (s *spritePriorityBuffer) clear() {
	for i := range s.ownerIndex {
		s.ownerIndex[i] = -1
		s.ownerX[i] = 0xFF
	}
}

// tryClaimPixel attempts to claim pixelX for spriteIndex (at spriteX).
func (s *spritePriorityBuffer) tryClaimPixel(pixelX, spriteIndex, spriteX int) {
	if pixelX < 0 || pixelX >= FramebufferWidth {
		return
	}

	currentOwner := s.ownerIndex[pixelX]
	if currentOwner == -1 {
		s.ownerIndex[pixelX] = spriteIndex
		s.ownerX[pixelX] = spriteX
		return
	}

	currentX := s.ownerX[pixelX]
	if spriteX < currentX || (spriteX == currentX && spriteIndex < currentOwner) {
		s.ownerIndex[pixelX] = spriteIndex
		s.ownerX[pixelX] = spriteX
	}
}

func (s *spritePriorityBuffer) owner(pixelX int) int {
	if pixelX < 0 || pixelX >= FramebufferWidth {
		return -1
	}
	return s.ownerIndex[pixelX]
}
