package leaves

import (
	"regexp"

	"github.com/alexzandros/packrattle"
)

// Regexp matches pattern anchored at the current position (pattern itself
// need not start with ^). Its value is the matched substring.
func Regexp(pattern string) *packrattle.Parser {
	re := regexp.MustCompile(`\A(?:` + pattern + `)`)
	name := "/" + pattern + "/"
	return packrattle.NewLeaf(name, true, func(text []rune, index int) packrattle.MatchResult {
		rest := string(text[index:])
		loc := re.FindStringIndex(rest)
		if loc == nil {
			return packrattle.Fail(index, name, nil)
		}
		matched := rest[loc[0]:loc[1]]
		length := len([]rune(matched))
		return packrattle.Succeed(index, index+length, matched)
	})
}
