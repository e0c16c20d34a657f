package shops

import (
	"bytes"
	"regexp"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// WindowSize is the stride of the UTF-16 token scan.
	WindowSize = 10000

	// extra bytes decoded past each window so a token cut by the stride is
	// still seen whole
	windowOverlap = 256
)

var (
	utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

	shopTokenPattern = regexp.MustCompile(`itext_(m_[-\w]+)_(\d+)`)
)

// ShopIdentifier is a shop token found in the buffer.
type ShopIdentifier struct {
	// ID is the token without its itext_ prefix, e.g. m_zcom_1422.
	ID     string
	Token  string
	Offset int

	// Duplicates holds later offsets of the same token. They belong to a
	// lookup table elsewhere in the save and are not shops.
	Duplicates []int
}

// end is the first byte after the encoded token.
func (shop ShopIdentifier) end() int {
	return shop.Offset + 2*len(shop.Token)
}

// decodeWindow decodes window as UTF-16LE, replacing whatever does not
// decode. A window edge may split a code unit, so this never fails.
func decodeWindow(window []byte) string {
	text, _, err := transform.Bytes(utf16le.NewDecoder(), window)
	if err != nil {
		return ""
	}
	return string(text)
}

func encodeToken(token string) []byte {
	encoded, err := utf16le.NewEncoder().Bytes([]byte(token))
	if err != nil {
		return nil
	}
	return encoded
}

// indexToken finds encoded at an even offset in window where it is not
// followed by another digit, so itext_m_a_1 never resolves to the bytes of
// itext_m_a_12.
func indexToken(window []byte, encoded []byte) int {
	from := 0
	for from < len(window) {
		idx := bytes.Index(window[from:], encoded)
		if idx < 0 {
			return -1
		}
		at := from + idx
		from = at + 1
		if at%2 != 0 {
			continue
		}
		next := at + len(encoded)
		if next+1 >= len(window) || window[next+1] != 0 || window[next] < '0' || window[next] > '9' {
			return at
		}
	}
	return -1
}

// LocateShops returns one identifier per distinct shop id, at its lowest
// offset, ordered by ascending offset.
func LocateShops(buf []byte) []ShopIdentifier {
	found := make([]ShopIdentifier, 0)
	byID := make(map[string]int)

	for start := 0; start < len(buf); start += WindowSize {
		end := start + WindowSize + windowOverlap
		if end > len(buf) {
			end = len(buf)
		}
		window := buf[start:end]
		cursor := make(map[string]int)

		for _, match := range shopTokenPattern.FindAllStringSubmatch(decodeWindow(window), -1) {
			token := match[0]
			id := match[1] + "_" + match[2]

			encoded := encodeToken(token)
			from := cursor[token]
			rel := indexToken(window[from:], encoded)
			if rel < 0 {
				log.Debug().Str("token", token).Int("window", start).
					Msg("[LocateShops] token decoded but bytes not found")
				continue
			}
			rel += from

			// a token running into the window edge may be cut short; the next
			// window sees it whole
			if end < len(buf) && rel+len(encoded)+2 > len(window) {
				continue
			}
			cursor[token] = rel + 2
			offset := start + rel

			i, seen := byID[id]
			if !seen {
				byID[id] = len(found)
				found = append(found, ShopIdentifier{ID: id, Token: token, Offset: offset})
				continue
			}

			shop := &found[i]
			switch {
			case offset == shop.Offset:
				// same token seen again through the window overlap
			case offset < shop.Offset:
				shop.Duplicates = append(shop.Duplicates, shop.Offset)
				shop.Offset = offset
			default:
				if !containsInt(shop.Duplicates, offset) {
					shop.Duplicates = append(shop.Duplicates, offset)
				}
			}
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Offset < found[j].Offset
	})

	for i := range found {
		shop := &found[i]
		if len(shop.Duplicates) == 0 {
			continue
		}
		sort.Ints(shop.Duplicates)
		log.Debug().Str("shop", shop.ID).Int("offset", shop.Offset).Ints("discarded", shop.Duplicates).
			Msg("[LocateShops] duplicate shop token offsets discarded")
	}

	return found
}

func containsInt(values []int, value int) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
