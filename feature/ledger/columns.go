package ledger

import (
	"strconv"
	"strings"
)

// ColumnLetter converts a 0-based column index to its A1 letters (0 -> A, 26 -> AA).
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	n := index + 1
	var letters []byte
	for n > 0 {
		n--
		letters = append(letters, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		letters[i], letters[j] = letters[j], letters[i]
	}
	return string(letters)
}

// ColumnIndex converts A1 column letters to a 0-based index. Case is ignored.
func ColumnIndex(letters string) int {
	value := 0
	for _, r := range strings.ToUpper(letters) {
		value = value*26 + int(r-'A'+1)
	}
	return value - 1
}

// RangeWidth returns the number of columns spanned by an A1 range, counted
// from column A to the end column. "Sheet1!A:H" is 8 wide.
func RangeWidth(rng string) int {
	if _, after, ok := strings.Cut(rng, "!"); ok {
		rng = after
	}
	ref := rng
	if _, end, ok := strings.Cut(rng, ":"); ok {
		ref = end
	}
	letters := leadingLetters(ref)
	if letters == "" {
		letters = "A"
	}
	return ColumnIndex(letters) + 1
}

// SheetName returns the sheet part of an A1 range, or the whole range when it
// has no sheet prefix.
func SheetName(rng string) string {
	name, _, _ := strings.Cut(rng, "!")
	return name
}

// CellRef builds an A1 reference such as "Sheet1!G12".
func CellRef(sheet string, column, row int) string {
	return sheet + "!" + ColumnLetter(column) + strconv.Itoa(row)
}

func leadingLetters(ref string) string {
	for i, r := range ref {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') {
			return ref[:i]
		}
	}
	return ref
}
