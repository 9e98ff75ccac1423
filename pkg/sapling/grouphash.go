package sapling

import (
	"errors"
	"sync"

	"github.com/dchest/blake2s"
)

// urs is the uniform random string fixed by the Sapling ceremony, used as a
// prefix of every group hash input.
const urs = "096b36a5804bfacef1691e173c366a47ff5ba84a44f26ddd7e8d9f79d5b42df0"

const (
	personGroupHashG  = "Zcash_G_"
	personGroupHashH  = "Zcash_H_"
	personDiversifier = "Zcash_gd"
	personIvk         = "Zcashivk"
)

// ErrGroupHash is returned when a message does not hash to a usable point
var ErrGroupHash = errors.New("message does not hash to the group")

// groupHash maps a message to a prime-order jubjub point: the personalized
// BLAKE2s digest of URS||msg is decompressed and multiplied by the cofactor.
func groupHash(person string, msg []byte) (*point, error) {
	h, err := blake2s.New(&blake2s.Config{
		Size:   blake2s.Size,
		Person: []byte(person),
	})
	if err != nil {
		return nil, err
	}
	h.Write([]byte(urs))
	h.Write(msg)

	p, err := decompress(h.Sum(nil))
	if err != nil {
		return nil, ErrGroupHash
	}
	p = p.mulCofactor()
	if p.isIdentity() {
		return nil, ErrLowOrderPoint
	}
	return p, nil
}

// findGroupHash retries groupHash over msg||[i] until a point is found
func findGroupHash(person string, msg []byte) *point {
	for i := 0; i <= 0xff; i++ {
		p, err := groupHash(person, append(msg, byte(i)))
		if err == nil {
			return p
		}
	}
	// 256 consecutive failures each with probability ~1/2 cannot happen
	panic("sapling: no group hash found")
}

var (
	basesOnce     sync.Once
	spendAuthBase *point
	proofGenBase  *point
)

// generators returns the spend-authorizing and proof-generation base points
func generators() (*point, *point) {
	basesOnce.Do(func() {
		spendAuthBase = findGroupHash(personGroupHashG, nil)
		proofGenBase = findGroupHash(personGroupHashH, nil)
	})
	return spendAuthBase, proofGenBase
}
