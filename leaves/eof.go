package leaves

import "github.com/alexzandros/packrattle"

var eofParser = packrattle.NewLeaf("end of input", true, func(text []rune, index int) packrattle.MatchResult {
	if index >= len(text) {
		return packrattle.Succeed(index, index, nil)
	}
	return packrattle.Fail(index, "end of input", nil)
})

// EOF matches only at the end of the input.
func EOF() *packrattle.Parser {
	return eofParser
}
