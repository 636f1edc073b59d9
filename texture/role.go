package texture

// Slot identifies one of the four storage channels of a Pixel.
type Slot int

const (
	SlotR Slot = iota
	SlotG
	SlotB
	SlotA
)

// Role is the meaning a storage slot carries once an image has been packed.
// After packing the slots no longer hold red, green and blue.
type Role int

const (
	// Alpha is the source alpha at full resolution
	Alpha Role = iota
	// Luma is the source luma at full resolution
	Luma
	// ChromaU is the blue difference plane, stored in the left half
	ChromaU
	// ChromaV is the red difference plane, stored in the right half
	ChromaV
)

// Slot returns the storage slot a role is packed into.
func (r Role) Slot() Slot {
	switch r {
	case Alpha:
		return SlotR
	case Luma:
		return SlotG
	default:
		return SlotB
	}
}

// Depth returns the number of bits the slot holding r has in the 5-6-5
// storage format.
func (r Role) Depth() uint {
	if r == Luma {
		return 6
	}
	return 5
}

func (r Role) String() string {
	switch r {
	case Alpha:
		return "alpha"
	case Luma:
		return "luma"
	case ChromaU:
		return "chroma-u"
	case ChromaV:
		return "chroma-v"
	default:
		return "unknown"
	}
}
