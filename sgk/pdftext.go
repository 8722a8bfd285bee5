package sgk

import (
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"
)

// extractText produces a line-oriented plain-text view of every page.
// Each PDF string operand ends up on its own line, which is what the
// line-offset heuristics in the extractor rely on: SGK listings render each
// table cell as a separate text-showing operator.
func extractText(pdf []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), conf)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		contentReader, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
		if err != nil || contentReader == nil {
			continue
		}
		content, err := io.ReadAll(contentReader)
		if err != nil {
			continue
		}
		out.WriteString(pageContentText(string(content)))
		out.WriteString("\n")
	}
	return out.String(), nil
}

var hexStringRe = regexp.MustCompile(`<([0-9A-Fa-f]+)>`)

// pageContentText pulls the string operands out of a raw content stream.
// Literal strings "(...)" and hex strings "<...>" are the operands of the
// Tj/TJ/'/" text-showing operators.
func pageContentText(content string) string {
	var out strings.Builder

	for _, raw := range literalStrings(content) {
		out.WriteString(decodeLiteral(raw))
		out.WriteString("\n")
	}

	for _, m := range hexStringRe.FindAllStringSubmatch(content, -1) {
		if text := decodeHex(m[1]); text != "" {
			out.WriteString(text)
			out.WriteString("\n")
		}
	}

	return out.String()
}

// literalStrings collects parenthesized strings, honouring escaped and nested
// parentheses. The returned strings still contain their escape sequences.
func literalStrings(content string) []string {
	var results []string
	for i := 0; i < len(content); {
		if content[i] != '(' {
			i++
			continue
		}
		var sb strings.Builder
		depth := 0
		j := i
		for j < len(content) {
			ch := content[j]
			if ch == '\\' && j+1 < len(content) {
				sb.WriteByte(ch)
				sb.WriteByte(content[j+1])
				j += 2
				continue
			}
			if ch == '(' {
				depth++
				if depth > 1 {
					sb.WriteByte(ch)
				}
			} else if ch == ')' {
				depth--
				if depth == 0 {
					j++
					break
				}
				sb.WriteByte(ch)
			} else if depth > 0 {
				sb.WriteByte(ch)
			}
			j++
		}
		if j > i {
			results = append(results, sb.String())
			i = j
		} else {
			i++
		}
	}
	return results
}

// decodeLiteral resolves PDF escape sequences and converts Windows-1254
// (Turkish) bytes to UTF-8 when the raw bytes are not valid UTF-8.
func decodeLiteral(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 >= len(s) {
			sb.WriteByte(s[i])
			i++
			continue
		}
		switch s[i+1] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case '(', ')', '\\':
			sb.WriteByte(s[i+1])
		default:
			if s[i+1] >= '0' && s[i+1] <= '7' {
				octal := string(s[i+1])
				j := i + 2
				for k := 0; k < 2 && j < len(s) && s[j] >= '0' && s[j] <= '7'; k++ {
					octal += string(s[j])
					j++
				}
				if val, err := strconv.ParseInt(octal, 8, 32); err == nil {
					sb.WriteRune(rune(val))
				}
				i = j
				continue
			}
			sb.WriteByte(s[i+1])
		}
		i += 2
	}

	decoded := sb.String()
	if hasHighBytes(decoded) || strings.ContainsRune(decoded, '�') {
		if converted, err := charmap.Windows1254.NewDecoder().String(decoded); err == nil {
			return converted
		}
	}
	return decoded
}

func hasHighBytes(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return true
		}
	}
	return false
}

// decodeHex decodes a hex string operand, detecting UTF-16BE (with or
// without BOM) and falling back to Windows-1254 single-byte text.
func decodeHex(hexDigits string) string {
	if len(hexDigits)%2 != 0 {
		hexDigits += "0"
	}

	raw := make([]byte, len(hexDigits)/2)
	for i := 0; i+1 < len(hexDigits); i += 2 {
		val, err := strconv.ParseInt(hexDigits[i:i+2], 16, 32)
		if err != nil {
			continue
		}
		raw[i/2] = byte(val)
	}

	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		return decodeUTF16BE(raw[2:])
	}
	if looksLikeUTF16BE(raw) {
		return decodeUTF16BE(raw)
	}

	var sb strings.Builder
	for _, b := range raw {
		if b >= 32 {
			sb.WriteByte(b)
		}
	}
	decoded := sb.String()
	if hasHighBytes(decoded) {
		if converted, err := charmap.Windows1254.NewDecoder().String(decoded); err == nil {
			return converted
		}
	}
	return decoded
}

// looksLikeUTF16BE: for ASCII-range text encoded as UTF-16BE the high byte of
// most code units is zero.
func looksLikeUTF16BE(data []byte) bool {
	if len(data) < 4 || len(data)%2 != 0 {
		return false
	}
	zeroCount := 0
	for i := 0; i < len(data); i += 2 {
		if data[i] == 0 {
			zeroCount++
		}
	}
	return zeroCount > len(data)/4
}

func decodeUTF16BE(data []byte) string {
	if len(data)%2 != 0 {
		data = append(data, 0)
	}
	codeUnits := make([]uint16, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		codeUnits[i/2] = uint16(data[i])<<8 | uint16(data[i+1])
	}

	var sb strings.Builder
	for _, r := range utf16.Decode(codeUnits) {
		if r >= 32 || r == '\n' || r == '\r' || r == '\t' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
