package encoding

import (
	"unicode/utf8"

	"github.com/gogs/chardet"
)

// Detect classifies data as UTF8, ShiftJIS, EUCJP or Unknown.
//
// Valid UTF-8 wins first. Otherwise the Shift_JIS and EUC-JP byte grammars are
// checked; when exactly one accepts the buffer it wins. When both accept it the
// statistical recognizer breaks the tie. The result is a guess, not a guarantee.
func Detect(data []byte) Tag {
	if utf8.Valid(data) {
		return UTF8
	}

	sjis := validShiftJIS(data)
	euc := validEUCJP(data)

	switch {
	case sjis && !euc:
		return ShiftJIS
	case euc && !sjis:
		return EUCJP
	case !sjis && !euc:
		return Unknown
	}

	return recognize(data)
}

func recognize(data []byte) Tag {
	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || res == nil {
		return Unknown
	}

	switch ParseTag(res.Charset) {
	case ShiftJIS:
		return ShiftJIS
	case EUCJP:
		return EUCJP
	default:
		return Unknown
	}
}

// validShiftJIS reports whether data follows the Shift_JIS byte grammar:
// ASCII, half-width katakana (0xA1-0xDF), or a lead byte (0x81-0x9F, 0xE0-0xFC)
// followed by a trail byte (0x40-0x7E, 0x80-0xFC).
func validShiftJIS(data []byte) bool {
	for i := 0; i < len(data); i++ {
		b := data[i]

		switch {
		case b < 0x80, b >= 0xA1 && b <= 0xDF:
			continue
		case (b >= 0x81 && b <= 0x9F) || (b >= 0xE0 && b <= 0xFC):
			if i+1 >= len(data) {
				return false
			}

			t := data[i+1]
			if !((t >= 0x40 && t <= 0x7E) || (t >= 0x80 && t <= 0xFC)) {
				return false
			}

			i++
		default:
			return false
		}
	}

	return true
}

// validEUCJP reports whether data follows the EUC-JP byte grammar: ASCII,
// SS2 (0x8E) + kana, SS3 (0x8F) + two JIS X 0212 bytes, or two bytes in
// 0xA1-0xFE.
func validEUCJP(data []byte) bool {
	high := func(i int) bool {
		return i < len(data) && data[i] >= 0xA1 && data[i] <= 0xFE
	}

	for i := 0; i < len(data); i++ {
		b := data[i]

		switch {
		case b < 0x80:
			continue
		case b == 0x8E:
			if i+1 >= len(data) || data[i+1] < 0xA1 || data[i+1] > 0xDF {
				return false
			}

			i++
		case b == 0x8F:
			if !high(i+1) || !high(i+2) {
				return false
			}

			i += 2
		case b >= 0xA1 && b <= 0xFE:
			if !high(i + 1) {
				return false
			}

			i++
		default:
			return false
		}
	}

	return true
}
