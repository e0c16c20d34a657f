/*
Package shops recovers shop stock from an inflated save buffer.

The save format has no grammar and no record delimiter, so decoding is a
layered scan: shop tokens (itext_m_<location>_<n>, UTF-16LE) are located
first, then for every shop the nearest preceding section markers
(.garrison, .items, .shopunits, .spells) are found and each section is
handed to the parser for its quantity encoding:

	garrison, shopunits  "strg" + uint32 length + "name/qty/name/qty..."
	items                uint32 length + name, quantity from a later "slruck" "<slot>,<qty>" value
	spells               uint32 length + name + uint32 quantity

Anything that does not parse is dropped and logged at debug level; only a
broken container (see package slcb) is an error.

	buf, err := slcb.Decompress(raw)
	if err != nil {
		return err
	}
	for _, shop := range shops.DecodeBuffer(buf) {
		fmt.Println(shop.ShopID, len(shop.Items))
	}
*/
package shops
