package sourcemap

import "sort"

// escapeTable maps the form a character takes in markdown source to the
// decoded character pandoc emits for it: backslash escapes of markdown
// punctuation, named HTML entities for Latin-1 characters, and the
// non-breaking-space substitution.
//
// See pandoc's Text/Pandoc/Readers/Markdown.hs (escapedChar') and
// Text/Pandoc/XML.hs for the sets pandoc decodes.
var escapeTable = map[string]rune{
	`\\`:   '\\',
	"\\`":  '`',
	`\*`:   '*',
	`\_`:   '_',
	`\{`:   '{',
	`\}`:   '}',
	`\[`:   '[',
	`\]`:   ']',
	`\(`:   '(',
	`\)`:   ')',
	`\#`:   '#',
	`\+`:   '+',
	`\-`:   '-',
	`\.`:   '.',
	`\!`:   '!',
	`\~`:   '~',
	`\"`:   '"',
	`\<`:   '<',
	`\>`:   '>',
	"\\\n": '\n',
	" ":    ' ',

	"&amp;":    '&',
	"&lt;":     '<',
	"&gt;":     '>',
	"&nbsp;":   ' ',
	"&iexcl;":  '¡',
	"&cent;":   '¢',
	"&pound;":  '£',
	"&curren;": '¤',
	"&yen;":    '¥',
	"&brvbar;": '¦',
	"&sect;":   '§',
	"&uml;":    '¨',
	"&copy;":   '©',
	"&ordf;":   'ª',
	"&laquo;":  '«',
	"&not;":    '¬',
	"&shy;":    '­',
	"&reg;":    '®',
	"&macr;":   '¯',
	"&deg;":    '°',
	"&plusmn;": '±',
	"&sup2;":   '²',
	"&sup3;":   '³',
	"&acute;":  '´',
	"&micro;":  'µ',
	"&para;":   '¶',
	"&middot;": '·',
	"&cedil;":  '¸',
	"&sup1;":   '¹',
	"&ordm;":   'º',
	"&raquo;":  '»',
	"&frac14;": '¼',
	"&frac12;": '½',
	"&frac34;": '¾',
	"&iquest;": '¿',
	"&times;":  '×',
	"&divide;": '÷',
	"&ETH;":    'Ð',
	"&eth;":    'ð',
	"&THORN;":  'Þ',
	"&thorn;":  'þ',
	"&AElig;":  'Æ',
	"&aelig;":  'æ',
	"&OElig;":  'Œ',
	"&oelig;":  'œ',
	"&Aring;":  'Å',
	"&Oslash;": 'Ø',
	"&Ccedil;": 'Ç',
	"&ccedil;": 'ç',
	"&szlig;":  'ß',
	"&Ntilde;": 'Ñ',
	"&ntilde;": 'ñ',
}

// sourceForms maps a decoded character back to every source form that
// produces it, longest form first.
var sourceForms = buildSourceForms()

func buildSourceForms() map[rune][]string {
	m := make(map[rune][]string, len(escapeTable))
	for form, decoded := range escapeTable {
		m[decoded] = append(m[decoded], form)
	}
	for _, forms := range m {
		sort.Slice(forms, func(i, j int) bool {
			if len(forms[i]) != len(forms[j]) {
				return len(forms[i]) > len(forms[j])
			}
			return forms[i] < forms[j]
		})
	}
	return m
}
