package game

import (
	"sort"
	"strconv"
)

// Mine layouts cross the wire at round start so the client can verify the
// board afterwards, but must be opaque during play. The 25-tile bitmask is
// packed under a random salt and xor-folded with a server key; without the key
// the token carries no usable signal.
const layoutKey uint64 = 0x9e3779b97f4a7c15

const layoutMaskBits = 25

func EncodeLayout(rng RNG, mines []int) string {
	var mask uint64
	for _, p := range mines {
		mask |= 1 << uint(p)
	}
	salt := uint64(rng.Intn(1 << 30))
	v := salt<<layoutMaskBits | mask
	return strconv.FormatUint(v^layoutKey, 36)
}

func DecodeLayout(token string) ([]int, error) {
	v, err := strconv.ParseUint(token, 36, 64)
	if err != nil {
		return nil, ErrInvalidRequest
	}
	mask := (v ^ layoutKey) & (1<<layoutMaskBits - 1)
	mines := []int{}
	for p := 0; p < layoutMaskBits; p++ {
		if mask&(1<<uint(p)) != 0 {
			mines = append(mines, p)
		}
	}
	sort.Ints(mines)
	return mines, nil
}
