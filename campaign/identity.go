// Package campaign recognises which playthrough a save slot belongs to by
// reading the hero's names out of the save.
package campaign

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ptolstoi/kbsave/slcb"
)

// Identity names the hero of a save. Slots with equal hashes belong to the
// same campaign.
type Identity struct {
	FirstName  string `json:"first_name"`
	SecondName string `json:"second_name"`
	FullName   string `json:"full_name"`
	Hash       string `json:"campaign_id"`
}

// ComputeHash hashes the name pair. The order of the names matters.
func ComputeHash(first string, second string) string {
	sum := sha256.Sum256([]byte(first + "|" + second))
	return hex.EncodeToString(sum[:])
}

func newIdentity(first string, second string) Identity {
	return Identity{
		FirstName:  first,
		SecondName: second,
		FullName:   strings.TrimSpace(first + " " + second),
		Hash:       ComputeHash(first, second),
	}
}

// IsEmpty reports whether no name was found. Empty identities all share one
// hash, so they always look like the same campaign.
func (identity Identity) IsEmpty() bool {
	return identity.FirstName == "" && identity.SecondName == ""
}

// SameCampaign reports whether both identities belong to one playthrough.
func (identity Identity) SameCampaign(other Identity) bool {
	return identity.Hash == other.Hash
}

// ExtractIdentity inflates a save container and reads the identity from it.
// The error is always a *slcb.FormatError.
func ExtractIdentity(container []byte) (Identity, error) {
	buf, err := slcb.Decompress(container)
	if err != nil {
		return Identity{}, err
	}
	return FromBuffer(buf), nil
}

// FromSlot reads the identity of a save slot. The info file is tried first,
// either as a container or as plain bytes; the data file is the fallback when
// the slot has no info file or its info file names nobody.
func FromSlot(path string) (Identity, error) {
	info, err := slcb.ReadSlotFile(path, slcb.InfoFile)
	switch {
	case err == nil:
		identity, err := ExtractIdentity(info)
		if errors.Is(err, slcb.ErrBadMagic) {
			identity, err = FromBuffer(info), nil
		}
		if err != nil {
			return Identity{}, err
		}
		if !identity.IsEmpty() {
			return identity, nil
		}
		log.Debug().Str("slot", path).Msg("[FromSlot] info file names nobody, trying data")
	case !errors.Is(err, fs.ErrNotExist):
		return Identity{}, err
	}

	data, err := slcb.ReadSlotFile(path, slcb.DataFile)
	if err != nil {
		return Identity{}, err
	}
	return ExtractIdentity(data)
}
